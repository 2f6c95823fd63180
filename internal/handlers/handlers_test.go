package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	"github.com/SscSPs/workshop_inventory/internal/core/services"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/SscSPs/workshop_inventory/internal/handlers"
	"github.com/SscSPs/workshop_inventory/internal/middleware"
	"github.com/SscSPs/workshop_inventory/internal/platform/config"
	"github.com/SscSPs/workshop_inventory/internal/repositories/database/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "handler-test-secret"
	testIssuer = "workshop-inventory"
)

type HandlersTestSuite struct {
	suite.Suite
	router *gin.Engine
	repos  portsrepo.RepositoryProvider
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		IsProduction:       true,
		JWTSecret:          testSecret,
		JWTIssuer:          testIssuer,
		BusinessLocation:   time.UTC,
		InvoicePrefix:      "INV",
		SequenceMaxRepairs: 5,
	}
	suite.repos = memory.NewRepositoryProvider(memory.NewStore())
	container := services.NewServiceContainer(cfg, suite.repos, nil)

	suite.router = gin.New()
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, container))
}

func (suite *HandlersTestSuite) token(subject, role string) string {
	claims := middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    testIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *HandlersTestSuite) do(method, path, role string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+suite.token("user-"+role, role))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) createItem(code string, opening int64) {
	w := suite.do(http.MethodPost, "/api/v1/items", "ADMIN", gin.H{
		"code": code, "name": code, "unit": "pcs", "minStock": 1, "costPrice": "30000", "openingStock": opening,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *HandlersTestSuite) createInvoice(subject string, qty int64) *httptest.ResponseRecorder {
	return suite.do(http.MethodPost, "/api/v1/invoices", "CASHIER", gin.H{
		"subjectRef": subject,
		"lineItems": []gin.H{
			{"itemCode": "OIL-FILTER-01", "description": "Oil filter", "quantity": qty, "unitPrice": "45000"},
			{"description": "Labour", "quantity": 1, "unitPrice": "100000"},
		},
	})
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlersTestSuite) TestMissingTokenIsUnauthorized() {
	w := suite.do(http.MethodGet, "/api/v1/items", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestCreateItemAndReadStock() {
	suite.createItem("oil-filter-01", 10)

	w := suite.do(http.MethodGet, "/api/v1/items/OIL-FILTER-01", "MECHANIC", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var item dto.ItemResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &item))
	suite.Equal(int64(10), item.PhysicalStock)

	w = suite.do(http.MethodPost, "/api/v1/items", "ADMIN", gin.H{"code": "OIL-FILTER-01", "name": "dup", "unit": "pcs"})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestMechanicCannotAdjust() {
	suite.createItem("OIL-FILTER-01", 10)

	w := suite.do(http.MethodPost, "/api/v1/items/OIL-FILTER-01/adjustments", "MECHANIC", gin.H{"delta": -2, "reason": "broken"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/items/OIL-FILTER-01/adjustments", "OWNER", gin.H{"delta": -2, "reason": "broken"})
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *HandlersTestSuite) TestInvoiceLifecycleOverHTTP() {
	suite.createItem("OIL-FILTER-01", 10)

	w := suite.createInvoice("WO-1", 2)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var inv dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &inv))
	suite.Equal("UNPAID", string(inv.Status))
	suite.Contains(inv.DocumentNumber, "INV-")

	w = suite.createInvoice("WO-1", 1)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "an invoice for this work order already exists")

	w = suite.do(http.MethodGet, "/api/v1/work-orders/WO-1/invoice", "CASHIER", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/invoices/"+inv.InvoiceID+"/pay", "CASHIER", gin.H{"paymentMethod": "BITCOIN"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/invoices/"+inv.InvoiceID+"/void", "CASHIER", nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/invoices/"+inv.InvoiceID+"/pay", "CASHIER", gin.H{"paymentMethod": "QRIS"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/invoices/"+inv.InvoiceID+"/void", "ADMIN", gin.H{"reason": "too late"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/items/OIL-FILTER-01/stock", "MECHANIC", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"physical":8`)
}

func (suite *HandlersTestSuite) TestReconcileReportsIntegrityFailure() {
	suite.createItem("OIL-FILTER-01", 10)

	w := suite.do(http.MethodGet, "/api/v1/items/OIL-FILTER-01/reconcile", "ADMIN", nil)
	suite.Equal(http.StatusOK, w.Code)

	// Move stock without a ledger entry.
	_, err := suite.repos.ItemRepo.IncrementPhysicalStock(context.Background(), "OIL-FILTER-01", -7, "intruder", time.Now())
	suite.Require().NoError(err)
	w = suite.do(http.MethodGet, "/api/v1/items/OIL-FILTER-01/reconcile", "ADMIN", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Contains(w.Body.String(), `"report"`)
}

func (suite *HandlersTestSuite) TestOpnameWithoutDifferenceIsNoContent() {
	suite.createItem("OIL-FILTER-01", 10)

	w := suite.do(http.MethodPost, "/api/v1/items/OIL-FILTER-01/opname", "ADMIN", gin.H{"countedQuantity": 10, "reason": "monthly"})
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/items/OIL-FILTER-01/ledger?limit=10", "CASHIER", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var history dto.LedgerHistoryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &history))
	suite.Len(history.Entries, 1)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
