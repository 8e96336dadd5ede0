package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agsexpress/backoffice/internal/domain"
	"github.com/agsexpress/backoffice/internal/service/invoice"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockInvoiceUseCase is a mock implementation of invoice.InvoiceUseCase
type MockInvoiceUseCase struct {
	mock.Mock
}

func (m *MockInvoiceUseCase) Generate(ctx context.Context, input invoice.GenerateInput) (*domain.Invoice, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceUseCase) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceUseCase) List(ctx context.Context, input invoice.ListInput) (*invoice.InvoiceList, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.InvoiceList), args.Error(1)
}

func testInvoice() *domain.Invoice {
	customerID := "c1"
	return &domain.Invoice{
		ID:            "inv1",
		InvoiceNumber: "AGS25-26/1356",
		Type:          domain.InvoiceTypeCredit,
		InvoiceDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		CustomerID:    &customerID,
		PeriodStart:   time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		PeriodEnd:     time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount:   decimal.RequireFromString("246"),
		TotalTax:      decimal.RequireFromString("54"),
		NetAmount:     decimal.RequireFromString("300"),
		LineItems: []domain.InvoiceLineItem{
			{BookingID: "b1", BookingType: domain.BookingTypeCredit, ConsignmentNo: "CN-1001"},
		},
	}
}

func TestInvoiceHandler_generate(t *testing.T) {
	mockService := &MockInvoiceUseCase{}
	handler := NewInvoiceHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]interface{}{
		"bookingIds":   []string{"b1"},
		"customerId":   "c1",
		"invoiceDate":  "2026-05-01",
		"customerType": "CREDIT",
	})
	c.Request = httptest.NewRequest("POST", "/api/invoices", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Generate", c.Request.Context(), mock.MatchedBy(func(input invoice.GenerateInput) bool {
		return len(input.BookingIDs) == 1 &&
			input.CustomerID != nil && *input.CustomerID == "c1" &&
			input.CustomerType == domain.InvoiceTypeCredit &&
			input.InvoiceDate.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	})).Return(testInvoice(), nil)

	handler.generate(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response invoiceResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "AGS25-26/1356", response.InvoiceNumber)
	assert.Equal(t, "246", response.TotalAmount)
	assert.Equal(t, "300", response.NetAmount)
	assert.Len(t, response.LineItems, 1)

	mockService.AssertExpectations(t)
}

func TestInvoiceHandler_generate_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name         string
		serviceErr   error
		expectedCode int
	}{
		{
			name:         "validation error maps to 400",
			serviceErr:   fmt.Errorf("%w: at least one booking is required", invoice.ErrInvalidInput),
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing bookings map to 404",
			serviceErr:   fmt.Errorf("%w: requested 2, found 1", invoice.ErrBookingsNotFound),
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "anything else maps to 500",
			serviceErr:   fmt.Errorf("failed after retries"),
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockInvoiceUseCase{}
			handler := NewInvoiceHandler(mockService)

			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			body, _ := json.Marshal(map[string]interface{}{
				"bookingIds":   []string{"b1"},
				"invoiceDate":  "2026-05-01",
				"customerType": "CASH",
			})
			c.Request = httptest.NewRequest("POST", "/api/invoices", bytes.NewReader(body))
			c.Request.Header.Set("Content-Type", "application/json")

			mockService.On("Generate", mock.Anything, mock.Anything).Return(nil, tc.serviceErr)

			handler.generate(c)

			assert.Equal(t, tc.expectedCode, w.Code)
		})
	}
}

func TestInvoiceHandler_generate_BadDate(t *testing.T) {
	mockService := &MockInvoiceUseCase{}
	handler := NewInvoiceHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]interface{}{
		"bookingIds":   []string{"b1"},
		"invoiceDate":  "01-05-2026",
		"customerType": "CASH",
	})
	c.Request = httptest.NewRequest("POST", "/api/invoices", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Generate")
}

func TestInvoiceHandler_list(t *testing.T) {
	mockService := &MockInvoiceUseCase{}
	handler := NewInvoiceHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/invoices?type=CREDIT&number=1356&limit=10", nil)

	creditType := domain.InvoiceTypeCredit
	mockService.On("List", c.Request.Context(), invoice.ListInput{
		Type:   &creditType,
		Number: "1356",
		Limit:  10,
	}).Return(&invoice.InvoiceList{
		Meta: invoice.ListMeta{Total: 1, Page: 1, Limit: 10},
		Data: []domain.Invoice{*testInvoice()},
	}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response listInvoicesResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 1, response.Meta.Total)
	assert.Len(t, response.Data, 1)
	assert.Equal(t, "AGS25-26/1356", response.Data[0].InvoiceNumber)
	assert.Empty(t, response.Data[0].LineItems)

	mockService.AssertExpectations(t)
}
