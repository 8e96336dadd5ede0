package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceType string

const (
	InvoiceTypeCash          InvoiceType = "CASH"
	InvoiceTypeCredit        InvoiceType = "CREDIT"
	InvoiceTypeInternational InvoiceType = "INTERNATIONAL"
)

// Invoice aggregates a batch of bookings under one generated invoice number.
// TotalAmount is pre-tax, NetAmount = TotalAmount + TotalTax. Invoices are
// written once and never updated.
type Invoice struct {
	ID            string
	InvoiceNumber string
	Type          InvoiceType
	InvoiceDate   time.Time
	CustomerID    *string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	TotalAmount   decimal.Decimal
	TotalTax      decimal.Decimal
	NetAmount     decimal.Decimal
	LineItems     []InvoiceLineItem
	CreatedAt     time.Time
}

// InvoiceLineItem snapshots one booking at invoice time so the invoice stays
// stable even if the booking is edited later.
type InvoiceLineItem struct {
	ID               string
	InvoiceID        string
	BookingID        string
	BookingType      BookingType
	ConsignmentNo    string
	BookingDate      time.Time
	SenderName       string
	ReceiverName     string
	DestinationCity  string
	Amount           decimal.Decimal
	TaxAmount        decimal.Decimal
	FreightCharge    decimal.Decimal
	OtherCharges     decimal.Decimal
	Weight           decimal.Decimal
	Pieces           int
	ConsignmentValue decimal.Decimal
	DocumentType     string
	ServiceMode      string
}
