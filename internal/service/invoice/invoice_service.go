package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agsexpress/backoffice/config"
	"github.com/agsexpress/backoffice/internal/domain"
	"github.com/agsexpress/backoffice/internal/kafka"
	"github.com/agsexpress/backoffice/internal/logger"
	"github.com/agsexpress/backoffice/internal/numbering"
	"github.com/agsexpress/backoffice/internal/repository"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrBookingsNotFound = errors.New("bookings not found")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type InvoiceUseCase interface {
	Generate(ctx context.Context, input GenerateInput) (*domain.Invoice, error)
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context, input ListInput) (*InvoiceList, error)
}

type GenerateInput struct {
	BookingIDs   []string
	CustomerID   *string
	InvoiceDate  time.Time
	CustomerType domain.InvoiceType
	CompanyID    *string
}

type ListInput struct {
	Type       *domain.InvoiceType
	CustomerID *string
	Number     string
	Limit      int
	Offset     int
}

type ListMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type InvoiceList struct {
	Meta ListMeta
	Data []domain.Invoice
}

type MasterCache interface {
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	SetCustomer(ctx context.Context, customer *domain.Customer) error
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	SetCompany(ctx context.Context, company *domain.Company) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type InvoiceService struct {
	invoices           repository.InvoiceRepository
	bookings           repository.BookingRepository
	customers          repository.CustomerRepository
	companies          repository.CompanyRepository
	cache              MasterCache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	seriesRules        []config.SeriesRule
	retryAttempts      int
	log                *logger.Logger
}

type InvoiceServiceOption func(*InvoiceService)

func WithCache(cache MasterCache) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, topic string) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.producer = producer
		s.eventsTopic = topic
	}
}

func WithNotificationsTopic(topic string) InvoiceServiceOption {
	return func(s *InvoiceService) {
		s.notificationsTopic = topic
	}
}

func NewInvoiceService(
	invoices repository.InvoiceRepository,
	bookings repository.BookingRepository,
	customers repository.CustomerRepository,
	companies repository.CompanyRepository,
	seriesRules []config.SeriesRule,
	retryAttempts int,
	log *logger.Logger,
	opts ...InvoiceServiceOption,
) *InvoiceService {
	service := &InvoiceService{
		invoices:      invoices,
		bookings:      bookings,
		customers:     customers,
		companies:     companies,
		seriesRules:   seriesRules,
		retryAttempts: retryAttempts,
		log:           log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Generate produces one invoice from a batch of bookings and transitions them
// to INVOICED, atomically. The transactional body (number allocation included)
// is re-run on transient conflicts, so a concurrent commit under the same
// series prefix only costs a retry, never a duplicate number.
func (s *InvoiceService) Generate(ctx context.Context, input GenerateInput) (*domain.Invoice, error) {
	if len(input.BookingIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one booking is required", ErrInvalidInput)
	}
	if input.InvoiceDate.IsZero() {
		return nil, fmt.Errorf("%w: invoice date is required", ErrInvalidInput)
	}
	if input.CustomerType != domain.InvoiceTypeCash && input.CustomerType != domain.InvoiceTypeCredit {
		return nil, fmt.Errorf("%w: customer type must be CASH or CREDIT", ErrInvalidInput)
	}

	ids := lo.Uniq(input.BookingIDs)
	bookings, err := s.bookings.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch bookings: %w", err)
	}
	if len(bookings) != len(ids) {
		return nil, fmt.Errorf("%w: requested %d, found %d", ErrBookingsNotFound, len(ids), len(bookings))
	}

	items, grandTotal, totalTax, periodStart, periodEnd := aggregate(bookings)

	var companyName string
	if input.CompanyID != nil {
		company, err := s.company(ctx, *input.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("fetch company: %w", err)
		}
		companyName = company.Name
	}

	var customer *domain.Customer
	if input.CustomerID != nil {
		customer, err = s.customer(ctx, *input.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("fetch customer: %w", err)
		}
	}
	// The series is picked by GST registration alone; the CASH/CREDIT
	// discriminator only tags the invoice type.
	gstRegistered := customer != nil && numbering.GSTRegistered(customer.GSTNumber)
	series := numbering.ResolveSeries(s.seriesRules, companyName, gstRegistered)

	inv := &domain.Invoice{
		ID:          uuid.NewString(),
		Type:        input.CustomerType,
		InvoiceDate: input.InvoiceDate,
		CustomerID:  input.CustomerID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		TotalAmount: grandTotal.Sub(totalTax),
		TotalTax:    totalTax,
		NetAmount:   grandTotal,
		LineItems:   items,
	}

	if err := repository.Retry(ctx, s.retryAttempts, func(ctx context.Context) error {
		return s.invoices.Create(ctx, inv, series, ids)
	}); err != nil {
		s.log.Errorw("failed to generate invoice",
			"error", err,
			"booking_count", len(ids),
			"prefix", series.Prefix)
		return nil, err
	}

	s.log.Infow("invoice generated",
		"invoice_number", inv.InvoiceNumber,
		"net_amount", inv.NetAmount,
		"booking_count", len(ids))

	if err := s.publish(ctx, inv, customer, len(ids)); err != nil {
		s.log.Warnw("failed to publish invoice event", "error", err, "invoice_number", inv.InvoiceNumber)
	}
	return inv, nil
}

func (s *InvoiceService) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *InvoiceService) List(ctx context.Context, input ListInput) (*InvoiceList, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	invoices, total, err := s.invoices.List(ctx, repository.InvoiceFilter{
		Type:       input.Type,
		CustomerID: input.CustomerID,
		Number:     input.Number,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}

	return &InvoiceList{
		Meta: ListMeta{Total: total, Page: offset/limit + 1, Limit: limit},
		Data: invoices,
	}, nil
}

// aggregate stages one line item per booking and computes the invoice totals.
// Pure; runs before the transaction opens.
func aggregate(bookings []domain.Booking) ([]domain.InvoiceLineItem, decimal.Decimal, decimal.Decimal, time.Time, time.Time) {
	items := make([]domain.InvoiceLineItem, 0, len(bookings))
	grandTotal := decimal.Zero
	totalTax := decimal.Zero
	for _, b := range bookings {
		grandTotal = grandTotal.Add(b.BilledAmount())
		totalTax = totalTax.Add(b.TaxAmount)
		items = append(items, domain.InvoiceLineItem{
			ID:               uuid.NewString(),
			BookingID:        b.ID,
			BookingType:      b.Type,
			ConsignmentNo:    b.ConsignmentNo,
			BookingDate:      b.BookingDate,
			SenderName:       b.SenderName,
			ReceiverName:     b.ReceiverName,
			DestinationCity:  b.DestinationCity,
			Amount:           b.BilledAmount(),
			TaxAmount:        b.TaxAmount,
			FreightCharge:    b.FreightCharge,
			OtherCharges:     b.OtherCharges,
			Weight:           b.Weight,
			Pieces:           b.Pieces,
			ConsignmentValue: b.ConsignmentValue,
			DocumentType:     b.DocumentType,
			ServiceMode:      b.ServiceMode,
		})
	}
	periodStart := lo.MinBy(bookings, func(a, b domain.Booking) bool { return a.BookingDate.Before(b.BookingDate) }).BookingDate
	periodEnd := lo.MaxBy(bookings, func(a, b domain.Booking) bool { return a.BookingDate.After(b.BookingDate) }).BookingDate
	return items, grandTotal, totalTax, periodStart, periodEnd
}

func (s *InvoiceService) customer(ctx context.Context, id string) (*domain.Customer, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCustomer(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetCustomer(ctx, customer)
	}
	return customer, nil
}

func (s *InvoiceService) company(ctx context.Context, id string) (*domain.Company, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCompany(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetCompany(ctx, company)
	}
	return company, nil
}

func (s *InvoiceService) publish(ctx context.Context, inv *domain.Invoice, customer *domain.Customer, bookingCount int) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	event := kafka.InvoiceEvent{
		Type:          "invoice_generated",
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceType:   string(inv.Type),
		NetAmount:     inv.NetAmount.String(),
		BookingCount:  bookingCount,
		InvoiceDate:   inv.InvoiceDate,
	}
	if customer != nil {
		event.CustomerID = customer.ID
		event.CustomerPhone = customer.Phone
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, inv.InvoiceNumber, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, inv.InvoiceNumber, event)
	}
	return nil
}

var _ InvoiceUseCase = (*InvoiceService)(nil)
