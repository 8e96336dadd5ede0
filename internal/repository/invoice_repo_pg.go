package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agsexpress/backoffice/internal/domain"
	"github.com/agsexpress/backoffice/internal/numbering"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrBookingNotInvoiceable is returned when some booking in the batch is no
// longer in BOOKED status, typically because a concurrent call already
// invoiced it. It is terminal, never retried.
var ErrBookingNotInvoiceable = errors.New("booking is not in a billable status")

type InvoiceFilter struct {
	Type       *domain.InvoiceType
	CustomerID *string
	Number     string
	Limit      int
	Offset     int
}

type InvoiceRepository interface {
	// Create runs the whole generation body in one transaction: read the
	// issued numbers under the series prefix, allocate the next one, insert
	// the invoice with its line items and transition the source bookings to
	// INVOICED. Concurrent allocations of the same number surface as a unique
	// violation and are retried by the caller.
	Create(ctx context.Context, inv *domain.Invoice, series numbering.Series, bookingIDs []string) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, int, error)
}

type PGInvoiceRepository struct {
	db        *pgxpool.Pool
	txTimeout time.Duration
}

func NewInvoiceRepository(db *pgxpool.Pool, txTimeout time.Duration) InvoiceRepository {
	return &PGInvoiceRepository{db: db, txTimeout: txTimeout}
}

func (r *PGInvoiceRepository) Create(ctx context.Context, inv *domain.Invoice, series numbering.Series, bookingIDs []string) error {
	// The numbering query and the per-booking round-trips grow with the series
	// and the batch, so the timeout is generous.
	ctx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT invoice_number FROM invoices WHERE starts_with(invoice_number, $1)`, series.Prefix)
	if err != nil {
		return err
	}
	existing := make([]int, 0)
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, numbering.SuffixOf(number))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	inv.InvoiceNumber = series.Format(numbering.NextNumber(series.Start, existing))

	if err := tx.QueryRow(ctx, `INSERT INTO invoices (id, invoice_number, type, invoice_date, customer_id, period_start, period_end, total_amount, total_tax, net_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		inv.ID, inv.InvoiceNumber, inv.Type, inv.InvoiceDate, inv.CustomerID, inv.PeriodStart, inv.PeriodEnd, inv.TotalAmount, inv.TotalTax, inv.NetAmount).
		Scan(&inv.CreatedAt); err != nil {
		return err
	}

	for i := range inv.LineItems {
		item := &inv.LineItems[i]
		item.InvoiceID = inv.ID
		if _, err := tx.Exec(ctx, `INSERT INTO invoice_line_items (id, invoice_id, booking_id, booking_type, consignment_no, booking_date, sender_name, receiver_name, destination_city,
			amount, tax_amount, freight_charge, other_charges, weight, pieces, consignment_value, document_type, service_mode)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
			item.ID, item.InvoiceID, item.BookingID, item.BookingType, item.ConsignmentNo, item.BookingDate, item.SenderName, item.ReceiverName, item.DestinationCity,
			item.Amount, item.TaxAmount, item.FreightCharge, item.OtherCharges, item.Weight, item.Pieces, item.ConsignmentValue, item.DocumentType, item.ServiceMode); err != nil {
			return err
		}
	}

	cmd, err := tx.Exec(ctx, `UPDATE bookings SET status=$1, status_changed_at=now(), updated_at=now() WHERE id = ANY($2) AND status=$3`,
		domain.BookingStatusInvoiced, bookingIDs, domain.BookingStatusBooked)
	if err != nil {
		return err
	}
	if int(cmd.RowsAffected()) != len(bookingIDs) {
		return fmt.Errorf("%w: %d of %d bookings updated", ErrBookingNotInvoiceable, cmd.RowsAffected(), len(bookingIDs))
	}

	return tx.Commit(ctx)
}

const invoiceColumns = `id, invoice_number, type, invoice_date, customer_id, period_start, period_end, total_amount, total_tax, net_amount, created_at`

func (r *PGInvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	row := r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id=$1`, id)
	var inv domain.Invoice
	if err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.Type, &inv.InvoiceDate, &inv.CustomerID, &inv.PeriodStart, &inv.PeriodEnd, &inv.TotalAmount, &inv.TotalTax, &inv.NetAmount, &inv.CreatedAt); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, invoice_id, booking_id, booking_type, consignment_no, booking_date, sender_name, receiver_name, destination_city,
		amount, tax_amount, freight_charge, other_charges, weight, pieces, consignment_value, document_type, service_mode
		FROM invoice_line_items WHERE invoice_id=$1 ORDER BY booking_date`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.InvoiceLineItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.BookingID, &item.BookingType, &item.ConsignmentNo, &item.BookingDate, &item.SenderName, &item.ReceiverName, &item.DestinationCity,
			&item.Amount, &item.TaxAmount, &item.FreightCharge, &item.OtherCharges, &item.Weight, &item.Pieces, &item.ConsignmentValue, &item.DocumentType, &item.ServiceMode); err != nil {
			return nil, err
		}
		inv.LineItems = append(inv.LineItems, item)
	}
	return &inv, rows.Err()
}

func (r *PGInvoiceRepository) List(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, int, error) {
	where := ` FROM invoices WHERE 1=1`
	args := []interface{}{}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		where += fmt.Sprintf(" AND type=$%d", len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		where += fmt.Sprintf(" AND customer_id=$%d", len(args))
	}
	if filter.Number != "" {
		args = append(args, "%"+filter.Number+"%")
		where += fmt.Sprintf(" AND invoice_number ILIKE $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit)
	query := `SELECT ` + invoiceColumns + where + fmt.Sprintf(" ORDER BY invoice_date DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0)
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.Type, &inv.InvoiceDate, &inv.CustomerID, &inv.PeriodStart, &inv.PeriodEnd, &inv.TotalAmount, &inv.TotalTax, &inv.NetAmount, &inv.CreatedAt); err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

var _ InvoiceRepository = (*PGInvoiceRepository)(nil)
