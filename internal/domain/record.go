// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateTimestamp indicates that the owner already has a record at the
// exact same instant. It is returned both by the application-level guard and
// by store adapters translating a uniqueness-constraint rejection.
var ErrDuplicateTimestamp = errors.New("a record already exists at this timestamp")

// IntakeRecord represents one logged hydration event. Volume is stored in
// the canonical unit (milliliters); Unit preserves the tag the value was
// originally submitted in, for display round-trips.
type IntakeRecord struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	OccurredAt time.Time  `json:"timestampUTC"`
	VolumeML   float64    `json:"volume"`
	Unit       VolumeUnit `json:"volumeUnit"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// IntakeDraft carries the caller-supplied fields of a create or update
// before unit normalization. Volume is expressed in Unit.
type IntakeDraft struct {
	OccurredAt time.Time
	Volume     float64
	Unit       VolumeUnit
}

// IntakeRepository is the port for intake record persistence.
//
// AddIntake and UpdateIntake must return ErrDuplicateTimestamp when the
// store's uniqueness constraint on (user, instant) rejects the write.
// GetIntake returns (nil, nil) when no record with that id belongs to the
// user; DeleteIntake reports whether a row was actually removed.
type IntakeRepository interface {
	AddIntake(ctx context.Context, rec IntakeRecord) (*IntakeRecord, error)
	GetIntake(ctx context.Context, userID, id int64) (*IntakeRecord, error)
	UpdateIntake(ctx context.Context, rec IntakeRecord) (*IntakeRecord, error)
	DeleteIntake(ctx context.Context, userID, id int64) (bool, error)
	ExistsAtInstant(ctx context.Context, userID int64, at time.Time, excludeID int64) (bool, error)
	ListIntakes(ctx context.Context, userID int64, c FilterCriteria) ([]IntakeRecord, int64, error)
}

// NormalizeInstant converts t to UTC at microsecond resolution, the
// precision TIMESTAMPTZ stores. Comparing instants at any finer resolution
// would let two records that collide in the store pass the guard.
func NormalizeInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
