package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hydration/internal/adapter/memory"
	"hydration/internal/domain"
)

var instant = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func addRecord(t *testing.T, db *memory.DB, userID int64, at time.Time, ml float64) *domain.IntakeRecord {
	t.Helper()
	rec, err := db.AddIntake(context.Background(), domain.IntakeRecord{
		UserID: userID, OccurredAt: at, VolumeML: ml, Unit: domain.Milliliter,
	})
	if err != nil {
		t.Fatalf("AddIntake: %v", err)
	}
	return rec
}

func TestAddIntake_UniquePerOwner(t *testing.T) {
	db := memory.New()
	ctx := context.Background()

	first := addRecord(t, db, 1, instant, 250)
	if first.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	// Same owner, same instant, different volume: rejected.
	_, err := db.AddIntake(ctx, domain.IntakeRecord{UserID: 1, OccurredAt: instant, VolumeML: 500, Unit: domain.Milliliter})
	if !errors.Is(err, domain.ErrDuplicateTimestamp) {
		t.Fatalf("expected ErrDuplicateTimestamp, got %v", err)
	}

	// Different owner, same instant: allowed.
	if _, err := db.AddIntake(ctx, domain.IntakeRecord{UserID: 2, OccurredAt: instant, VolumeML: 250, Unit: domain.Milliliter}); err != nil {
		t.Fatalf("uniqueness must be per owner: %v", err)
	}
}

func TestUpdateIntake_SelfExclusion(t *testing.T) {
	db := memory.New()
	ctx := context.Background()

	rec := addRecord(t, db, 1, instant, 250)
	addRecord(t, db, 1, instant.Add(time.Hour), 100)

	// Keeping its own timestamp is fine.
	rec.VolumeML = 300
	updated, err := db.UpdateIntake(ctx, *rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.VolumeML != 300 {
		t.Errorf("expected volume 300, got %v", updated.VolumeML)
	}

	// Moving onto a sibling's timestamp is not.
	rec.OccurredAt = instant.Add(time.Hour)
	if _, err := db.UpdateIntake(ctx, *rec); !errors.Is(err, domain.ErrDuplicateTimestamp) {
		t.Fatalf("expected ErrDuplicateTimestamp, got %v", err)
	}
}

func TestGetIntake_OwnerScoped(t *testing.T) {
	db := memory.New()
	ctx := context.Background()

	rec := addRecord(t, db, 1, instant, 250)

	got, err := db.GetIntake(ctx, 1, rec.ID)
	if err != nil || got == nil {
		t.Fatalf("expected record, got %v err=%v", got, err)
	}

	// Foreign owner sees nothing, same as a missing id.
	got, err = db.GetIntake(ctx, 2, rec.ID)
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil) for foreign owner, got %v err=%v", got, err)
	}
}

func TestDeleteIntake_OwnerScoped(t *testing.T) {
	db := memory.New()
	ctx := context.Background()

	rec := addRecord(t, db, 1, instant, 250)

	deleted, err := db.DeleteIntake(ctx, 2, rec.ID)
	if err != nil || deleted {
		t.Fatalf("foreign delete must be a no-op, got deleted=%v err=%v", deleted, err)
	}
	deleted, err = db.DeleteIntake(ctx, 1, rec.ID)
	if err != nil || !deleted {
		t.Fatalf("expected deletion, got deleted=%v err=%v", deleted, err)
	}
	deleted, _ = db.DeleteIntake(ctx, 1, rec.ID)
	if deleted {
		t.Fatal("second delete must report no row")
	}
}

func TestListIntakes_FilterAndPaginate(t *testing.T) {
	db := memory.New()
	ctx := context.Background()

	// Insert out of order to check the ascending sort.
	for _, h := range []int{4, 0, 2, 1, 3} {
		addRecord(t, db, 1, instant.Add(time.Duration(h)*time.Hour), float64(100*(h+1)))
	}
	addRecord(t, db, 2, instant, 999)

	items, total, err := db.ListIntakes(ctx, 1, domain.FilterCriteria{Page: 0, Size: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 || len(items) != 3 {
		t.Fatalf("expected total=5 len=3, got total=%d len=%d", total, len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].OccurredAt.Before(items[i-1].OccurredAt) {
			t.Fatal("expected ascending order by instant")
		}
	}

	items, total, err = db.ListIntakes(ctx, 1, domain.FilterCriteria{Page: 1, Size: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 || len(items) != 2 {
		t.Fatalf("expected total=5 len=2 on second page, got total=%d len=%d", total, len(items))
	}

	from := instant.Add(90 * time.Minute)
	items, total, err = db.ListIntakes(ctx, 1, domain.FilterCriteria{From: &from, Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 records at or after %v, got %d", from, total)
	}
	_ = items

	min := 350.0
	_, total, err = db.ListIntakes(ctx, 1, domain.FilterCriteria{MinVolume: &min, Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 records with volume >= 350, got %d", total)
	}
}

func TestListIntakes_UnitFilter(t *testing.T) {
	db := memory.New()
	ctx := context.Background()

	if _, err := db.AddIntake(ctx, domain.IntakeRecord{UserID: 1, OccurredAt: instant, VolumeML: 250, Unit: domain.Milliliter}); err != nil {
		t.Fatal(err)
	}
	if _, err := db.AddIntake(ctx, domain.IntakeRecord{UserID: 1, OccurredAt: instant.Add(time.Hour), VolumeML: 1000, Unit: domain.Liter}); err != nil {
		t.Fatal(err)
	}

	_, total, err := db.ListIntakes(ctx, 1, domain.FilterCriteria{Unit: domain.Liter, Page: 0, Size: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected 1 liter-tagged record, got %d", total)
	}
}
