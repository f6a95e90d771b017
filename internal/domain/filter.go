package domain

import (
	"strings"
	"time"
)

const (
	// DefaultPageSize is used when a list request leaves the page size unset.
	DefaultPageSize = 20
	// MaxPageSize bounds the page size a caller may request.
	MaxPageSize = 100
	// MaxPage bounds the page index so offset arithmetic in the stores
	// cannot overflow.
	MaxPage = 1<<31 - 1
)

// FilterCriteria narrows a list query. Nil pointer fields are absent.
// MinVolume and MaxVolume are expressed in canonical milliliters; Unit, when
// set, matches the unit tag records were originally submitted in.
type FilterCriteria struct {
	From      *time.Time
	To        *time.Time
	MinVolume *float64
	MaxVolume *float64
	Unit      VolumeUnit
	Page      int
	Size      int
}

// FilterError reports every semantic violation found in a FilterCriteria.
// Violations are ordered, stable message keys for the caller to localize.
type FilterError struct {
	Violations []string
}

func (e *FilterError) Error() string {
	return "invalid filter: " + strings.Join(e.Violations, ", ")
}

// Violation keys carried by FilterError.
const (
	ViolationStartAfterEnd  = "filter.start_not_before_end"
	ViolationMinAboveMax    = "filter.min_volume_above_max"
	ViolationUnknownUnit    = "filter.unknown_volume_unit"
	ViolationPageOutOfRange = "filter.page_out_of_range"
	ViolationSizeOutOfRange = "filter.size_out_of_range"
)

// Validate checks the criteria for semantic consistency. Every rule is
// evaluated, never short-circuited, so one pass reports all violations.
// Returns nil when the criteria are valid, otherwise a *FilterError.
func (c FilterCriteria) Validate() error {
	var violations []string

	if c.From != nil && c.To != nil && !c.From.Before(*c.To) {
		violations = append(violations, ViolationStartAfterEnd)
	}
	if c.MinVolume != nil && c.MaxVolume != nil && *c.MinVolume > *c.MaxVolume {
		violations = append(violations, ViolationMinAboveMax)
	}
	if c.Unit != "" && !ValidVolumeUnit(c.Unit) {
		violations = append(violations, ViolationUnknownUnit)
	}
	if c.Page < 0 || c.Page > MaxPage {
		violations = append(violations, ViolationPageOutOfRange)
	}
	if c.Size <= 0 || c.Size > MaxPageSize {
		violations = append(violations, ViolationSizeOutOfRange)
	}

	if len(violations) > 0 {
		return &FilterError{Violations: violations}
	}
	return nil
}
