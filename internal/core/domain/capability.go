package domain

// Role is the workshop role carried in the access token.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOwner    Role = "OWNER"
	RoleCashier  Role = "CASHIER"
	RoleMechanic Role = "MECHANIC"
)

// Capability names an operation that needs permission.
type Capability string

const (
	CapInvoiceCreate  Capability = "invoice:create"
	CapInvoicePay     Capability = "invoice:pay"
	CapInvoiceVoid    Capability = "invoice:void"
	CapStockAdjust    Capability = "stock:adjust"
	CapStockPurchase  Capability = "stock:purchase"
	CapStockRead      Capability = "stock:read"
	CapItemWrite      Capability = "item:write"
	CapWorkOrderWrite Capability = "workorder:write"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   Role
}
