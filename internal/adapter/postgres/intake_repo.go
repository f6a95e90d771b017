package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hydration/internal/domain"
)

const intakeColumns = "id, user_id, occurred_at, volume_ml, volume_unit, created_at, updated_at"

// AddIntake inserts a new intake record and returns it with the assigned id.
func (d *DB) AddIntake(ctx context.Context, rec domain.IntakeRecord) (*domain.IntakeRecord, error) {
	row := d.sql.QueryRowContext(ctx,
		"INSERT INTO intake_records(user_id, occurred_at, volume_ml, volume_unit) VALUES($1, $2, $3, $4) RETURNING "+intakeColumns+";",
		rec.UserID, rec.OccurredAt, rec.VolumeML, rec.Unit,
	)
	stored, err := scanIntake(row)
	if err != nil {
		return nil, translateUnique(err)
	}
	return stored, nil
}

// GetIntake fetches a record by id scoped to a user. Returns (nil, nil) when
// no such record belongs to the user.
func (d *DB) GetIntake(ctx context.Context, userID, id int64) (*domain.IntakeRecord, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+intakeColumns+" FROM intake_records WHERE id=$1 AND user_id=$2;", id, userID)
	rec, err := scanIntake(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateIntake replaces the mutable fields of a record, scoped to its user.
func (d *DB) UpdateIntake(ctx context.Context, rec domain.IntakeRecord) (*domain.IntakeRecord, error) {
	row := d.sql.QueryRowContext(ctx,
		"UPDATE intake_records SET occurred_at=$1, volume_ml=$2, volume_unit=$3, updated_at=now() WHERE id=$4 AND user_id=$5 RETURNING "+intakeColumns+";",
		rec.OccurredAt, rec.VolumeML, rec.Unit, rec.ID, rec.UserID,
	)
	stored, err := scanIntake(row)
	if err != nil {
		return nil, translateUnique(err)
	}
	return stored, nil
}

// DeleteIntake removes a record scoped to a user and reports whether a row
// was actually deleted.
func (d *DB) DeleteIntake(ctx context.Context, userID, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM intake_records WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ExistsAtInstant reports whether the user owns a record at exactly the
// given instant, other than excludeID (0 for creates).
func (d *DB) ExistsAtInstant(ctx context.Context, userID int64, at time.Time, excludeID int64) (bool, error) {
	var exists bool
	err := d.sql.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM intake_records WHERE user_id=$1 AND occurred_at=$2 AND id<>$3);",
		userID, at, excludeID,
	).Scan(&exists)
	return exists, err
}

// ListIntakes returns one page of a user's records matching the criteria,
// ordered by occurred_at ascending, plus the total match count.
func (d *DB) ListIntakes(ctx context.Context, userID int64, c domain.FilterCriteria) ([]domain.IntakeRecord, int64, error) {
	where := "user_id=$1"
	args := []any{userID}

	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND %s$%d", cond, len(args))
	}
	if c.From != nil {
		add("occurred_at>=", *c.From)
	}
	if c.To != nil {
		add("occurred_at<=", *c.To)
	}
	if c.MinVolume != nil {
		add("volume_ml>=", *c.MinVolume)
	}
	if c.MaxVolume != nil {
		add("volume_ml<=", *c.MaxVolume)
	}
	if c.Unit != "" {
		add("volume_unit=", string(c.Unit))
	}

	var total int64
	if err := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM intake_records WHERE "+where+";", args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM intake_records WHERE %s ORDER BY occurred_at ASC LIMIT $%d OFFSET $%d;",
		intakeColumns, where, len(args)+1, len(args)+2)
	args = append(args, c.Size, int64(c.Page)*int64(c.Size))

	rows, err := d.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.IntakeRecord, 0, c.Size)
	for rows.Next() {
		rec, err := scanIntake(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *rec)
	}
	return out, total, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIntake(s scanner) (*domain.IntakeRecord, error) {
	var rec domain.IntakeRecord
	err := s.Scan(&rec.ID, &rec.UserID, &rec.OccurredAt, &rec.VolumeML, &rec.Unit, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.OccurredAt = rec.OccurredAt.UTC()
	return &rec, nil
}
