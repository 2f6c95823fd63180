package dto

import (
	"time"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateItemRequest defines the data needed to register a stocked part.
type CreateItemRequest struct {
	Code         string          `json:"code" binding:"required,max=64"`
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit" binding:"required"`
	MinStock     int64           `json:"minStock" binding:"min=0"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	OpeningStock int64           `json:"openingStock" binding:"min=0"` // Written as an OPENING ledger entry
}

// UpdateItemRequest replaces the editable fields of an item.
// ExpectedVersion must match the stored version.
type UpdateItemRequest struct {
	Name            string          `json:"name" binding:"required"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit" binding:"required"`
	MinStock        int64           `json:"minStock" binding:"min=0"`
	CostPrice       decimal.Decimal `json:"costPrice"`
	ExpectedVersion int64           `json:"expectedVersion" binding:"required,min=1"`
}

// DeactivateItemRequest carries the version for the soft delete compare-and-swap.
type DeactivateItemRequest struct {
	ExpectedVersion int64 `form:"expectedVersion" binding:"required,min=1"`
}

// ItemResponse defines the data returned for an item.
type ItemResponse struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	PhysicalStock int64           `json:"physicalStock"`
	MinStock      int64           `json:"minStock"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	Version       int64           `json:"version"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ListItemsResponse is one page of items.
type ListItemsResponse struct {
	Items     []ItemResponse `json:"items"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToItemResponse converts a domain.Item to ItemResponse DTO
func ToItemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		Code:          item.Code,
		Name:          item.Name,
		Category:      item.Category,
		Unit:          item.Unit,
		PhysicalStock: item.PhysicalStock,
		MinStock:      item.MinStock,
		CostPrice:     item.CostPrice,
		Version:       item.Version,
		IsActive:      item.IsActive,
		CreatedAt:     item.CreatedAt,
		CreatedBy:     item.CreatedBy,
		LastUpdatedAt: item.LastUpdatedAt,
		LastUpdatedBy: item.LastUpdatedBy,
	}
}

// ToItemResponses converts a slice of domain.Item to a slice of ItemResponse DTOs
func ToItemResponses(items []domain.Item) []ItemResponse {
	res := make([]ItemResponse, len(items))
	for i := range items {
		res[i] = ToItemResponse(&items[i])
	}
	return res
}
