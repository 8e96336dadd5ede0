package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusInTransit BookingStatus = "IN_TRANSIT"
	BookingStatusDelivered BookingStatus = "DELIVERED"
	BookingStatusInvoiced  BookingStatus = "INVOICED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type BookingType string

const (
	BookingTypeCash          BookingType = "CASH"
	BookingTypeCredit        BookingType = "CREDIT"
	BookingTypeInternational BookingType = "INTERNATIONAL"
)

// Booking is one courier consignment. Billing amounts are split across three
// columns because cash, credit and walk-in entries each write a different one;
// the billed amount of a booking is always their sum.
type Booking struct {
	ID                    string
	ConsignmentNo         string
	Type                  BookingType
	BookingDate           time.Time
	CustomerID            *string
	SenderName            string
	ReceiverName          string
	DestinationCity       string
	ClientBillingValue    decimal.Decimal
	CreditCustomerAmount  decimal.Decimal
	RegularCustomerAmount decimal.Decimal
	TaxAmount             decimal.Decimal
	FreightCharge         decimal.Decimal
	OtherCharges          decimal.Decimal
	Weight                decimal.Decimal
	Pieces                int
	ConsignmentValue      decimal.Decimal
	DocumentType          string
	ServiceMode           string
	Status                BookingStatus
	StatusChangedAt       time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// BilledAmount is the gross amount charged for the booking, tax included.
func (b Booking) BilledAmount() decimal.Decimal {
	return b.ClientBillingValue.Add(b.CreditCustomerAmount).Add(b.RegularCustomerAmount)
}
