package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/agsexpress/backoffice/internal/domain"
	"github.com/agsexpress/backoffice/internal/service/invoice"
	"github.com/gin-gonic/gin"
)

const invoiceDateLayout = "2006-01-02"

type InvoiceHandler struct {
	service invoice.InvoiceUseCase
}

type generateInvoiceRequest struct {
	BookingIDs   []string `json:"bookingIds"`
	CustomerID   *string  `json:"customerId"`
	InvoiceDate  string   `json:"invoiceDate"`
	CustomerType string   `json:"customerType"`
	CompanyID    *string  `json:"companyId"`
}

type invoiceResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoiceNumber"`
	Type          string             `json:"type"`
	InvoiceDate   string             `json:"invoiceDate"`
	CustomerID    *string            `json:"customerId,omitempty"`
	PeriodStart   string             `json:"periodStart"`
	PeriodEnd     string             `json:"periodEnd"`
	TotalAmount   string             `json:"totalAmount"`
	TotalTax      string             `json:"totalTax"`
	NetAmount     string             `json:"netAmount"`
	LineItems     []lineItemResponse `json:"lineItems,omitempty"`
}

type lineItemResponse struct {
	BookingID       string `json:"bookingId"`
	BookingType     string `json:"bookingType"`
	ConsignmentNo   string `json:"consignmentNo"`
	BookingDate     string `json:"bookingDate"`
	SenderName      string `json:"senderName"`
	ReceiverName    string `json:"receiverName"`
	DestinationCity string `json:"destinationCity"`
	Amount          string `json:"amount"`
	TaxAmount       string `json:"taxAmount"`
	Weight          string `json:"weight"`
	Pieces          int    `json:"pieces"`
	DocumentType    string `json:"documentType"`
	ServiceMode     string `json:"serviceMode"`
}

type listInvoicesResponse struct {
	Meta invoice.ListMeta  `json:"meta"`
	Data []invoiceResponse `json:"data"`
}

func NewInvoiceHandler(service invoice.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

func (h *InvoiceHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.generate)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

func (h *InvoiceHandler) generate(c *gin.Context) {
	var req generateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var invoiceDate time.Time
	if req.InvoiceDate != "" {
		parsed, err := time.Parse(invoiceDateLayout, req.InvoiceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invoiceDate must be YYYY-MM-DD"})
			return
		}
		invoiceDate = parsed
	}

	inv, err := h.service.Generate(c.Request.Context(), invoice.GenerateInput{
		BookingIDs:   req.BookingIDs,
		CustomerID:   req.CustomerID,
		InvoiceDate:  invoiceDate,
		CustomerType: domain.InvoiceType(req.CustomerType),
		CompanyID:    req.CompanyID,
	})
	if err != nil {
		switch {
		case errors.Is(err, invoice.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, invoice.ErrBookingsNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, toInvoiceResponse(inv, true))
}

func (h *InvoiceHandler) get(c *gin.Context) {
	inv, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(inv, true))
}

func (h *InvoiceHandler) list(c *gin.Context) {
	input := invoice.ListInput{Number: c.Query("number")}
	if t := c.Query("type"); t != "" {
		invType := domain.InvoiceType(t)
		input.Type = &invType
	}
	if customerID := c.Query("customerId"); customerID != "" {
		input.CustomerID = &customerID
	}
	input.Limit, _ = strconv.Atoi(c.Query("limit"))
	input.Offset, _ = strconv.Atoi(c.Query("offset"))

	result, err := h.service.List(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	data := make([]invoiceResponse, 0, len(result.Data))
	for i := range result.Data {
		data = append(data, toInvoiceResponse(&result.Data[i], false))
	}
	c.JSON(http.StatusOK, listInvoicesResponse{Meta: result.Meta, Data: data})
}

func toInvoiceResponse(inv *domain.Invoice, withItems bool) invoiceResponse {
	resp := invoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Type:          string(inv.Type),
		InvoiceDate:   inv.InvoiceDate.Format(invoiceDateLayout),
		CustomerID:    inv.CustomerID,
		PeriodStart:   inv.PeriodStart.Format(invoiceDateLayout),
		PeriodEnd:     inv.PeriodEnd.Format(invoiceDateLayout),
		TotalAmount:   inv.TotalAmount.String(),
		TotalTax:      inv.TotalTax.String(),
		NetAmount:     inv.NetAmount.String(),
	}
	if !withItems {
		return resp
	}
	for _, item := range inv.LineItems {
		resp.LineItems = append(resp.LineItems, lineItemResponse{
			BookingID:       item.BookingID,
			BookingType:     string(item.BookingType),
			ConsignmentNo:   item.ConsignmentNo,
			BookingDate:     item.BookingDate.Format(invoiceDateLayout),
			SenderName:      item.SenderName,
			ReceiverName:    item.ReceiverName,
			DestinationCity: item.DestinationCity,
			Amount:          item.Amount.String(),
			TaxAmount:       item.TaxAmount.String(),
			Weight:          item.Weight.String(),
			Pieces:          item.Pieces,
			DocumentType:    item.DocumentType,
			ServiceMode:     item.ServiceMode,
		})
	}
	return resp
}
