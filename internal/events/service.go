package events

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
	Create(ctx context.Context, ev *models.Event) error
	Update(ctx context.Context, ev *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	GetBySlug(ctx context.Context, slug string) (*models.Event, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]models.Event, error)
	Delete(ctx context.Context, id string) error
}

// Cache holds events by slug. Get returns nil, nil on a miss.
type Cache interface {
	Get(ctx context.Context, slug string) (*models.Event, error)
	Set(ctx context.Context, ev *models.Event) error
	Invalidate(ctx context.Context, slugs ...string) error
}

type Publisher interface {
	PublishEventSaved(ctx context.Context, ev *models.Event) error
	PublishEventDeleted(ctx context.Context, ev *models.Event) error
}

// Service validates events before they reach the repository. Cache and
// publisher failures happen after the write has committed, so they are
// logged and never returned.
type Service struct {
	Repo      Repository
	Cache     Cache
	Publisher Publisher
	Logger    *logger.Logger
	Now       func() time.Time
}

func NewService(repo Repository, cache Cache, publisher Publisher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		Repo:      repo,
		Cache:     cache,
		Publisher: publisher,
		Logger:    log,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Save creates rec when it has no ID and updates the stored record
// otherwise. The stored version is returned.
func (s *Service) Save(ctx context.Context, rec models.Event) (*models.Event, error) {
	var previous *models.Event
	if rec.ID != "" {
		rec.ID = canonicalID(rec.ID)
		prev, err := s.Repo.GetByID(ctx, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("load event %s: %w", rec.ID, err)
		}
		previous = prev
	}

	ev, err := ValidateAndNormalize(rec, previous)
	if err != nil {
		s.Logger.LogValidation("event", err.Error())
		return nil, err
	}

	now := s.Now()
	if previous == nil {
		ev.ID = utils.GenerateID()
		ev.CreatedAt = now
		ev.UpdatedAt = now
		if err := s.Repo.Create(ctx, ev); err != nil {
			return nil, fmt.Errorf("create event: %w", err)
		}
		s.Logger.LogDatabase("INSERT", "events", fmt.Sprintf("created %s (%s)", ev.ID, ev.Slug))
	} else {
		ev.CreatedAt = previous.CreatedAt
		ev.UpdatedAt = now
		if err := s.Repo.Update(ctx, ev); err != nil {
			return nil, fmt.Errorf("update event %s: %w", ev.ID, err)
		}
		s.Logger.LogDatabase("UPDATE", "events", fmt.Sprintf("updated %s (%s)", ev.ID, ev.Slug))
	}

	slugs := []string{ev.Slug}
	if previous != nil && previous.Slug != ev.Slug {
		slugs = append(slugs, previous.Slug)
	}
	s.invalidate(ctx, slugs...)

	if s.Publisher != nil {
		if err := s.Publisher.PublishEventSaved(ctx, ev); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish event.saved for %s: %v", ev.ID, err))
		}
	}
	return ev, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Event, error) {
	return s.Repo.GetByID(ctx, canonicalID(id))
}

// GetBySlug reads through the cache.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, slug)
		if err != nil {
			s.Logger.Warn("CACHE", fmt.Sprintf("Cache read failed for %s: %v", slug, err))
		} else if cached != nil {
			return cached, nil
		}
	}

	ev, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, ev); err != nil {
			s.Logger.Warn("CACHE", fmt.Sprintf("Cache fill failed for %s: %v", slug, err))
		}
	}
	return ev, nil
}

func (s *Service) List(ctx context.Context) ([]models.Event, error) {
	return s.Repo.List(ctx)
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.Repo.Exists(ctx, canonicalID(id))
}

// Delete removes the event. Bookings that reference it are left in place.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = canonicalID(id)
	ev, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	s.Logger.LogDatabase("DELETE", "events", fmt.Sprintf("deleted %s (%s)", ev.ID, ev.Slug))

	s.invalidate(ctx, ev.Slug)

	if s.Publisher != nil {
		if err := s.Publisher.PublishEventDeleted(ctx, ev); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish event.deleted for %s: %v", ev.ID, err))
		}
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, slugs ...string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, slugs...); err != nil {
		s.Logger.Warn("CACHE", fmt.Sprintf("Cache invalidation failed for %v: %v", slugs, err))
	}
}

// canonicalID lowercases UUIDs the way they are stored. Anything else is
// passed through and will simply not match.
func canonicalID(id string) string {
	if canonical, ok := utils.CanonicalID(strings.TrimSpace(id)); ok {
		return canonical
	}
	return id
}
