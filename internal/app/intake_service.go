package app

import (
	"context"
	"errors"
	"time"

	"hydration/internal/domain"
)

var (
	// ErrRecordNotFound indicates that no record with the requested id exists
	// for the calling user. A record owned by someone else reports the same
	// error so callers cannot probe for other users' data.
	ErrRecordNotFound = errors.New("record not found")
	// ErrNegativeVolume indicates a draft with a volume below zero.
	ErrNegativeVolume = errors.New("volume must be non-negative")
)

// IntakeService mediates all access to hydration records: it normalizes
// units, guards the per-user timestamp uniqueness invariant, and scopes
// every read and write to the calling user.
type IntakeService struct {
	repo domain.IntakeRepository
}

// NewIntakeService creates an IntakeService backed by the given repository.
func NewIntakeService(repo domain.IntakeRepository) *IntakeService {
	return &IntakeService{repo: repo}
}

// Create converts the draft to canonical units, rejects timestamp
// collisions, and persists a new record for the user.
func (s *IntakeService) Create(ctx context.Context, userID int64, d domain.IntakeDraft) (*domain.IntakeRecord, error) {
	rec, err := s.buildRecord(userID, d)
	if err != nil {
		return nil, err
	}
	if err := s.guardInstant(ctx, userID, rec.OccurredAt, 0); err != nil {
		return nil, err
	}
	return s.repo.AddIntake(ctx, *rec)
}

// GetByID fetches a record scoped to the user.
func (s *IntakeService) GetByID(ctx context.Context, userID, id int64) (*domain.IntakeRecord, error) {
	return s.fetchOwned(ctx, userID, id)
}

// Update replaces the mutable fields of an owned record, re-validating the
// uniqueness invariant. Keeping the record's own timestamp is allowed.
func (s *IntakeService) Update(ctx context.Context, userID, id int64, d domain.IntakeDraft) (*domain.IntakeRecord, error) {
	existing, err := s.fetchOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	rec, err := s.buildRecord(userID, d)
	if err != nil {
		return nil, err
	}
	if err := s.guardInstant(ctx, userID, rec.OccurredAt, id); err != nil {
		return nil, err
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	return s.repo.UpdateIntake(ctx, *rec)
}

// List returns one page of the user's records matching the criteria,
// ordered by timestamp ascending. Invalid criteria fail with a *FilterError
// before any store query is issued. The page size must be set by the
// caller; an absent size is defaulted at the transport boundary, so a zero
// reaching this point is a violation like any other.
func (s *IntakeService) List(ctx context.Context, userID int64, c domain.FilterCriteria) (*domain.Page, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	items, total, err := s.repo.ListIntakes(ctx, userID, c)
	if err != nil {
		return nil, err
	}
	page := domain.NewPage(items, c.Page, c.Size, total)
	return &page, nil
}

// Delete removes a record scoped to the user.
func (s *IntakeService) Delete(ctx context.Context, userID, id int64) error {
	deleted, err := s.repo.DeleteIntake(ctx, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRecordNotFound
	}
	return nil
}

// fetchOwned loads a record belonging to the user or fails with
// ErrRecordNotFound. Absent ids and foreign ids are indistinguishable.
func (s *IntakeService) fetchOwned(ctx context.Context, userID, id int64) (*domain.IntakeRecord, error) {
	rec, err := s.repo.GetIntake(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

// guardInstant rejects the write early when another record of the same user
// occupies the instant. The store's uniqueness constraint remains the
// authoritative check for writes racing past this point.
func (s *IntakeService) guardInstant(ctx context.Context, userID int64, at time.Time, excludeID int64) error {
	exists, err := s.repo.ExistsAtInstant(ctx, userID, at, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateTimestamp
	}
	return nil
}

// buildRecord normalizes a draft into a storable record: the volume is
// converted to canonical milliliters and the instant to UTC.
func (s *IntakeService) buildRecord(userID int64, d domain.IntakeDraft) (*domain.IntakeRecord, error) {
	if d.Volume < 0 {
		return nil, ErrNegativeVolume
	}
	canonical, err := domain.VolumeToCanonical(d.Volume, d.Unit)
	if err != nil {
		return nil, err
	}
	return &domain.IntakeRecord{
		UserID:     userID,
		OccurredAt: domain.NormalizeInstant(d.OccurredAt),
		VolumeML:   canonical,
		Unit:       d.Unit,
	}, nil
}
