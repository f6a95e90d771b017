package adapthttp

import (
	"fmt"
	"time"

	"hydration/internal/domain"
)

// Wire representations of intake records. The mapper only transforms; all
// validation happens before (struct tags) or below (domain, service).

type intakeRecordRequest struct {
	Timestamp  time.Time `json:"timestampUTC" validate:"required"`
	Volume     float64   `json:"volume" validate:"gte=0"`
	VolumeUnit string    `json:"volumeUnit" validate:"required"`
}

type intakeRecordResponse struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestampUTC"`
	Volume     float64   `json:"volume"`
	VolumeUnit string    `json:"volumeUnit"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type pageResponse struct {
	Content       []intakeRecordResponse `json:"content"`
	Page          int                    `json:"page"`
	Size          int                    `json:"size"`
	TotalElements int64                  `json:"totalElements"`
	TotalPages    int                    `json:"totalPages"`
	First         bool                   `json:"first"`
	Last          bool                   `json:"last"`
}

func toDraft(req intakeRecordRequest) domain.IntakeDraft {
	return domain.IntakeDraft{
		OccurredAt: req.Timestamp,
		Volume:     req.Volume,
		Unit:       domain.VolumeUnit(req.VolumeUnit),
	}
}

// toResponse converts a stored record back to the wire shape, with the
// volume expressed in the unit it was originally submitted in. The store
// only accepts enumerated units, so a conversion failure means the stored
// row is corrupt and is reported as an infrastructure error, never papered
// over with a substitute value.
func toResponse(rec domain.IntakeRecord) (intakeRecordResponse, error) {
	volume, err := domain.VolumeFromCanonical(rec.VolumeML, rec.Unit)
	if err != nil {
		return intakeRecordResponse{}, fmt.Errorf("stored record %d carries unit %q: %v", rec.ID, rec.Unit, err)
	}
	return intakeRecordResponse{
		ID:         rec.ID,
		Timestamp:  rec.OccurredAt,
		Volume:     volume,
		VolumeUnit: string(rec.Unit),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}

func toPageResponse(page domain.Page) (pageResponse, error) {
	content := make([]intakeRecordResponse, 0, len(page.Content))
	for _, rec := range page.Content {
		resp, err := toResponse(rec)
		if err != nil {
			return pageResponse{}, err
		}
		content = append(content, resp)
	}
	return pageResponse{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.First,
		Last:          page.Last,
	}, nil
}
