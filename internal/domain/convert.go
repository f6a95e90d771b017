package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownUnit indicates a unit tag outside the supported enumeration.
var ErrUnknownUnit = errors.New("unknown unit")

// VolumeUnit tags a volume quantity. Canonical unit: milliliters.
type VolumeUnit string

// MassUnit tags a mass quantity. Canonical unit: kilograms.
type MassUnit string

// LengthUnit tags a length quantity. Canonical unit: centimeters.
type LengthUnit string

const (
	Milliliter VolumeUnit = "ml"
	Liter      VolumeUnit = "l"
	FluidOunce VolumeUnit = "floz"

	Kilogram MassUnit = "kg"
	Gram     MassUnit = "g"
	Pound    MassUnit = "lb"

	Centimeter LengthUnit = "cm"
	Meter      LengthUnit = "m"
	Inch       LengthUnit = "in"
)

// Ratios to the canonical unit of each family. All are exact by definition
// (1 lb = 0.45359237 kg and 1 in = 2.54 cm are the legal definitions), so
// repeated to/from round trips do not drift.
var (
	volumeRatios = map[VolumeUnit]float64{
		Milliliter: 1,
		Liter:      1000,
		FluidOunce: 29.5735295625,
	}
	massRatios = map[MassUnit]float64{
		Kilogram: 1,
		Gram:     0.001,
		Pound:    0.45359237,
	}
	lengthRatios = map[LengthUnit]float64{
		Centimeter: 1,
		Meter:      100,
		Inch:       2.54,
	}
)

// VolumeToCanonical converts v expressed in unit to milliliters.
func VolumeToCanonical(v float64, unit VolumeUnit) (float64, error) {
	r, ok := volumeRatios[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return v * r, nil
}

// VolumeFromCanonical converts v expressed in milliliters to unit.
func VolumeFromCanonical(v float64, unit VolumeUnit) (float64, error) {
	r, ok := volumeRatios[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return v / r, nil
}

// MassToCanonical converts v expressed in unit to kilograms.
func MassToCanonical(v float64, unit MassUnit) (float64, error) {
	r, ok := massRatios[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return v * r, nil
}

// MassFromCanonical converts v expressed in kilograms to unit.
func MassFromCanonical(v float64, unit MassUnit) (float64, error) {
	r, ok := massRatios[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return v / r, nil
}

// LengthToCanonical converts v expressed in unit to centimeters.
func LengthToCanonical(v float64, unit LengthUnit) (float64, error) {
	r, ok := lengthRatios[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return v * r, nil
}

// LengthFromCanonical converts v expressed in centimeters to unit.
func LengthFromCanonical(v float64, unit LengthUnit) (float64, error) {
	r, ok := lengthRatios[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return v / r, nil
}

// ValidVolumeUnit reports whether unit is a member of the volume enumeration.
func ValidVolumeUnit(unit VolumeUnit) bool {
	_, ok := volumeRatios[unit]
	return ok
}
