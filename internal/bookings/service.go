package bookings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/utils"
)

type Repository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]models.Booking, error)
	Delete(ctx context.Context, id string) error
}

// EventChecker answers whether a booking's event exists. *events.Service
// satisfies it.
type EventChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Publisher interface {
	PublishBookingCreated(ctx context.Context, b *models.Booking) error
}

type Service struct {
	Repo      Repository
	Events    EventChecker
	Publisher Publisher
	Logger    *logger.Logger
	Now       func() time.Time
}

func NewService(repo Repository, events EventChecker, publisher Publisher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		Repo:      repo,
		Events:    events,
		Publisher: publisher,
		Logger:    log,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create validates rec against the stored events and persists it. The event
// check is point in time; nothing stops the event being deleted afterwards.
func (s *Service) Create(ctx context.Context, rec models.Booking) (*models.Booking, error) {
	b, err := ValidateAndNormalize(ctx, rec, s.Events.Exists)
	if err != nil {
		s.Logger.LogValidation("booking", err.Error())
		return nil, err
	}

	now := s.Now()
	b.ID = utils.GenerateID()
	b.CreatedAt = now
	b.UpdatedAt = now
	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.Logger.LogDatabase("INSERT", "bookings", fmt.Sprintf("booked %s for event %s", b.ID, b.EventID))

	if s.Publisher != nil {
		if err := s.Publisher.PublishBookingCreated(ctx, b); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish booking.created for %s: %v", b.ID, err))
		}
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Booking, error) {
	return s.Repo.GetByID(ctx, canonicalID(id))
}

func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]models.Booking, error) {
	return s.Repo.ListByEvent(ctx, canonicalID(eventID))
}

func (s *Service) ListByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	return s.Repo.ListByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// Cancel deletes the booking.
func (s *Service) Cancel(ctx context.Context, id string) error {
	id = canonicalID(id)
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("cancel booking %s: %w", id, err)
	}
	s.Logger.LogDatabase("DELETE", "bookings", fmt.Sprintf("cancelled %s", id))
	return nil
}

func canonicalID(id string) string {
	if canonical, ok := utils.CanonicalID(strings.TrimSpace(id)); ok {
		return canonical
	}
	return id
}
