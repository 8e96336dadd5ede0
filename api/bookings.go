package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agsexpress/backoffice/internal/domain"
	"github.com/agsexpress/backoffice/internal/repository"
	"github.com/agsexpress/backoffice/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookingResponse struct {
	ID              string `json:"id"`
	ConsignmentNo   string `json:"consignmentNo"`
	Type            string `json:"type"`
	BookingDate     string `json:"bookingDate"`
	SenderName      string `json:"senderName"`
	ReceiverName    string `json:"receiverName"`
	DestinationCity string `json:"destinationCity"`
	BilledAmount    string `json:"billedAmount"`
	TaxAmount       string `json:"taxAmount"`
	Status          string `json:"status"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
}

func (h *BookingHandler) list(c *gin.Context) {
	filter := repository.BookingFilter{}
	if s := c.Query("status"); s != "" {
		status := domain.BookingStatus(s)
		filter.Status = &status
	}
	if customerID := c.Query("customerId"); customerID != "" {
		filter.CustomerID = &customerID
	}
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(invoiceDateLayout, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(invoiceDateLayout, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		filter.To = &parsed
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	bookings, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, bookingResponse{
			ID:              b.ID,
			ConsignmentNo:   b.ConsignmentNo,
			Type:            string(b.Type),
			BookingDate:     b.BookingDate.Format(invoiceDateLayout),
			SenderName:      b.SenderName,
			ReceiverName:    b.ReceiverName,
			DestinationCity: b.DestinationCity,
			BilledAmount:    b.BilledAmount().String(),
			TaxAmount:       b.TaxAmount.String(),
			Status:          string(b.Status),
		})
	}
	c.JSON(http.StatusOK, resp)
}
