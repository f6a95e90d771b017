package domain_test

import (
	"errors"
	"math"
	"testing"

	"hydration/internal/domain"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestVolumeToCanonical(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  domain.VolumeUnit
		want  float64
	}{
		{"milliliters pass through", 250, domain.Milliliter, 250},
		{"liters", 1.5, domain.Liter, 1500},
		{"fluid ounces", 8, domain.FluidOunce, 236.5882365},
		{"zero value", 0, domain.Liter, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.VolumeToCanonical(tc.value, tc.unit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tc.want, 1e-9) {
				t.Errorf("VolumeToCanonical(%v, %q) = %v; want %v", tc.value, tc.unit, got, tc.want)
			}
		})
	}
}

func TestVolumeUnknownUnit(t *testing.T) {
	if _, err := domain.VolumeToCanonical(1, "cup"); !errors.Is(err, domain.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
	if _, err := domain.VolumeFromCanonical(1, "gal"); !errors.Is(err, domain.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}

func TestVolumeRoundTripIsExact(t *testing.T) {
	// Exact ratio units must round-trip without drift even when repeated.
	for _, unit := range []domain.VolumeUnit{domain.Milliliter, domain.Liter} {
		v := 0.3
		for i := 0; i < 100; i++ {
			canonical, err := domain.VolumeToCanonical(v, unit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			back, err := domain.VolumeFromCanonical(canonical, unit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			v = back
		}
		if v != 0.3 {
			t.Errorf("unit %q drifted to %v after 100 round trips", unit, v)
		}
	}
}

func TestMassConversion(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  domain.MassUnit
		want  float64
	}{
		{"kilograms pass through", 80, domain.Kilogram, 80},
		{"grams", 500, domain.Gram, 0.5},
		{"pounds", 1, domain.Pound, 0.45359237},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.MassToCanonical(tc.value, tc.unit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got, tc.want, 1e-12) {
				t.Errorf("MassToCanonical(%v, %q) = %v; want %v", tc.value, tc.unit, got, tc.want)
			}
			back, err := domain.MassFromCanonical(got, tc.unit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(back, tc.value, 1e-9) {
				t.Errorf("round trip of %v %q = %v", tc.value, tc.unit, back)
			}
		})
	}
	if _, err := domain.MassToCanonical(1, "st"); !errors.Is(err, domain.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}

func TestLengthConversion(t *testing.T) {
	got, err := domain.LengthToCanonical(1, domain.Inch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2.54 {
		t.Errorf("LengthToCanonical(1, in) = %v; want 2.54", got)
	}
	got, err = domain.LengthFromCanonical(180, domain.Meter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1.8 {
		t.Errorf("LengthFromCanonical(180, m) = %v; want 1.8", got)
	}
	if _, err := domain.LengthFromCanonical(1, "yd"); !errors.Is(err, domain.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}
