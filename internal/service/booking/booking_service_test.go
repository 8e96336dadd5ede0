package booking

import (
	"context"
	"testing"

	"github.com/agsexpress/backoffice/internal/domain"
	"github.com/agsexpress/backoffice/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Booking, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func TestBookingService_List_AppliesLimitCap(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo)

	ctx := context.Background()
	status := domain.BookingStatusBooked
	expected := []domain.Booking{{ID: "b1", Status: status}}

	mockRepo.On("List", ctx, repository.BookingFilter{Status: &status, Limit: 500}).Return(expected, nil).Once()

	bookings, err := service.List(ctx, repository.BookingFilter{Status: &status, Limit: 10000})

	assert.NoError(t, err)
	assert.Equal(t, expected, bookings)
	mockRepo.AssertExpectations(t)
}

func TestBookingService_List_PassesFilterThrough(t *testing.T) {
	mockRepo := &MockBookingRepository{}
	service := NewBookingService(mockRepo)

	ctx := context.Background()
	customerID := "c1"
	filter := repository.BookingFilter{CustomerID: &customerID, Limit: 20}

	mockRepo.On("List", ctx, filter).Return([]domain.Booking{}, nil).Once()

	bookings, err := service.List(ctx, filter)

	assert.NoError(t, err)
	assert.Empty(t, bookings)
	mockRepo.AssertExpectations(t)
}
