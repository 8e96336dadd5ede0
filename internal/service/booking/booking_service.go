package booking

import (
	"context"

	"github.com/agsexpress/backoffice/internal/domain"
	"github.com/agsexpress/backoffice/internal/repository"
)

type BookingUseCase interface {
	List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error)
}

// BookingService is the read side used by the invoice-entry screen to pick
// bookings eligible for invoicing. Bookings are created and mutated by the
// booking-entry subsystem; this service never writes them.
type BookingService struct {
	bookings repository.BookingRepository
}

func NewBookingService(bookings repository.BookingRepository) *BookingService {
	return &BookingService{bookings: bookings}
}

func (s *BookingService) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.bookings.List(ctx, filter)
}

var _ BookingUseCase = (*BookingService)(nil)
