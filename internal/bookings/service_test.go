package bookings_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"ms-events/internal/bookings"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Booking, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockRepository) ListByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBookingCreated(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

var fixedNow = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

func newTestService() (*bookings.Service, *MockRepository, *MockEvents, *MockPublisher, *bytes.Buffer) {
	repo, evs, pub := new(MockRepository), new(MockEvents), new(MockPublisher)
	var buf bytes.Buffer
	svc := bookings.NewService(repo, evs, pub, logger.New(&buf, logger.DEBUG))
	svc.Now = func() time.Time { return fixedNow }
	return svc, repo, evs, pub, &buf
}

func TestService_Create(t *testing.T) {
	svc, repo, evs, pub, _ := newTestService()
	ctx := context.Background()

	evs.On("Exists", ctx, eventID).Return(true, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(b *models.Booking) bool {
		return b.EventID == eventID && b.Email == "user@example.com"
	})).Return(nil)
	pub.On("PublishBookingCreated", ctx, mock.AnythingOfType("*models.Booking")).Return(nil)

	b, err := svc.Create(ctx, models.Booking{EventID: eventID, Email: "User@Example.com"})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, fixedNow, b.CreatedAt)
	assert.Equal(t, fixedNow, b.UpdatedAt)
	repo.AssertExpectations(t)
	evs.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_CreateDanglingEvent(t *testing.T) {
	svc, repo, evs, pub, buf := newTestService()
	ctx := context.Background()

	evs.On("Exists", ctx, eventID).Return(false, nil)

	_, err := svc.Create(ctx, models.Booking{EventID: eventID, Email: "user@example.com"})
	assert.True(t, errors.Is(err, validation.ErrDanglingReference))
	assert.Contains(t, buf.String(), "[VALIDATION] [booking]")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "PublishBookingCreated", mock.Anything, mock.Anything)
}

func TestService_CreateRepoFailure(t *testing.T) {
	svc, repo, evs, pub, _ := newTestService()
	ctx := context.Background()

	evs.On("Exists", ctx, eventID).Return(true, nil)
	repo.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.Create(ctx, models.Booking{EventID: eventID, Email: "user@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	pub.AssertNotCalled(t, "PublishBookingCreated", mock.Anything, mock.Anything)
}

func TestService_PublishFailureIsLogged(t *testing.T) {
	svc, repo, evs, pub, buf := newTestService()
	ctx := context.Background()

	evs.On("Exists", ctx, eventID).Return(true, nil)
	repo.On("Create", ctx, mock.Anything).Return(nil)
	pub.On("PublishBookingCreated", ctx, mock.Anything).Return(errors.New("broker down"))

	b, err := svc.Create(ctx, models.Booking{EventID: eventID, Email: "user@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, b)
	assert.Contains(t, buf.String(), "broker down")
}

func TestService_ListsNormalizeKeys(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	ctx := context.Background()

	repo.On("ListByEvent", ctx, eventID).Return([]models.Booking{{ID: "b1"}}, nil)
	repo.On("ListByEmail", ctx, "user@example.com").Return([]models.Booking{{ID: "b2"}}, nil)

	byEvent, err := svc.ListByEvent(ctx, " 3F2B8C1A-9D4E-4B6F-8A2C-1E5D7F9B0C3A ")
	require.NoError(t, err)
	assert.Len(t, byEvent, 1)

	byEmail, err := svc.ListByEmail(ctx, " USER@example.com")
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)
}

func TestService_Cancel(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	ctx := context.Background()

	repo.On("Delete", ctx, "b1").Return(nil)
	repo.On("Delete", ctx, "missing").Return(bookings.ErrNotFound)

	require.NoError(t, svc.Cancel(ctx, "b1"))
	assert.True(t, errors.Is(svc.Cancel(ctx, "missing"), bookings.ErrNotFound))
}

func TestService_GetAndCancelNormalizeID(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	ctx := context.Background()

	const id = "9a1c2e3f-4b5d-4e6f-8a7b-0c1d2e3f4a5b"
	repo.On("GetByID", ctx, id).Return(&models.Booking{ID: id}, nil)
	repo.On("Delete", ctx, id).Return(nil)

	b, err := svc.Get(ctx, "{9A1C2E3F-4B5D-4E6F-8A7B-0C1D2E3F4A5B}")
	require.NoError(t, err)
	assert.Equal(t, id, b.ID)
	require.NoError(t, svc.Cancel(ctx, "9A1C2E3F-4B5D-4E6F-8A7B-0C1D2E3F4A5B"))
	repo.AssertExpectations(t)
}
