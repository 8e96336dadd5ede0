package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/agsexpress/backoffice/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingFilter struct {
	Status     *domain.BookingStatus
	CustomerID *string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type BookingRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, consignment_no, type, booking_date, customer_id, sender_name, receiver_name, destination_city,
	client_billing_value, credit_customer_amount, regular_customer_amount, tax_amount, freight_charge, other_charges,
	weight, pieces, consignment_value, document_type, service_mode, status, status_changed_at, created_at, updated_at`

func (r *PGBookingRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *PGBookingRepository) List(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += fmt.Sprintf(" AND customer_id=$%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND booking_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND booking_date <= $%d", len(args))
	}
	query += " ORDER BY booking_date DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanBookings(rows rowScanner) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.ConsignmentNo, &b.Type, &b.BookingDate, &b.CustomerID, &b.SenderName, &b.ReceiverName, &b.DestinationCity,
			&b.ClientBillingValue, &b.CreditCustomerAmount, &b.RegularCustomerAmount, &b.TaxAmount, &b.FreightCharge, &b.OtherCharges,
			&b.Weight, &b.Pieces, &b.ConsignmentValue, &b.DocumentType, &b.ServiceMode, &b.Status, &b.StatusChangedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
