// Package units converts product weights and dimensions between units and
// formats them for display.
//
// Ounces and inches are the pivot units: every conversion goes to the pivot
// and back out, so each family only needs one table per direction.
package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrUnknownUnit = errors.New("unknown unit")

// WeightUnit is a unit of weight
type WeightUnit string

const (
	Ounce    WeightUnit = "oz"
	Pound    WeightUnit = "lb"
	Gram     WeightUnit = "g"
	Kilogram WeightUnit = "kg"
)

// DimensionUnit is a unit of length
type DimensionUnit string

const (
	Inch       DimensionUnit = "in"
	Foot       DimensionUnit = "ft"
	Centimeter DimensionUnit = "cm"
	Millimeter DimensionUnit = "mm"
	Meter      DimensionUnit = "m"
)

// WeightOption is a selectable weight unit
type WeightOption struct {
	Value WeightUnit `json:"value"`
	Label string     `json:"label"`
}

// DimensionOption is a selectable dimension unit
type DimensionOption struct {
	Value DimensionUnit `json:"value"`
	Label string        `json:"label"`
}

// WeightUnits lists the supported weight units in display order.
var WeightUnits = []WeightOption{
	{Value: Ounce, Label: "Ounces (oz)"},
	{Value: Pound, Label: "Pounds (lb)"},
	{Value: Gram, Label: "Grams (g)"},
	{Value: Kilogram, Label: "Kilograms (kg)"},
}

// DimensionUnits lists the supported dimension units in display order.
var DimensionUnits = []DimensionOption{
	{Value: Inch, Label: "Inches (in)"},
	{Value: Foot, Label: "Feet (ft)"},
	{Value: Centimeter, Label: "Centimeters (cm)"},
	{Value: Millimeter, Label: "Millimeters (mm)"},
	{Value: Meter, Label: "Meters (m)"},
}

// The inverse tables are not reciprocals of the forward ones. Round trips are
// close to the input but not bit-identical.
var (
	toOunces = map[WeightUnit]float64{
		Ounce:    1,
		Pound:    16,
		Gram:     0.03527396195,
		Kilogram: 35.27396195,
	}
	fromOunces = map[WeightUnit]float64{
		Ounce:    1,
		Pound:    0.0625,
		Gram:     28.349523125,
		Kilogram: 0.028349523125,
	}
	toInches = map[DimensionUnit]float64{
		Inch:       1,
		Foot:       12,
		Centimeter: 0.393701,
		Millimeter: 0.0393701,
		Meter:      39.3701,
	}
	fromInches = map[DimensionUnit]float64{
		Inch:       1,
		Foot:       0.0833333,
		Centimeter: 2.54,
		Millimeter: 25.4,
		Meter:      0.0254,
	}
)

// Valid reports whether u is a supported weight unit
func (u WeightUnit) Valid() bool {
	_, ok := toOunces[u]
	return ok
}

// Valid reports whether u is a supported dimension unit
func (u DimensionUnit) Valid() bool {
	_, ok := toInches[u]
	return ok
}

// ParseWeightUnit returns the weight unit named by s
func ParseWeightUnit(s string) (WeightUnit, error) {
	u := WeightUnit(s)
	if !u.Valid() {
		return "", fmt.Errorf("%w: weight unit %q", ErrUnknownUnit, s)
	}
	return u, nil
}

// ParseDimensionUnit returns the dimension unit named by s
func ParseDimensionUnit(s string) (DimensionUnit, error) {
	u := DimensionUnit(s)
	if !u.Valid() {
		return "", fmt.Errorf("%w: dimension unit %q", ErrUnknownUnit, s)
	}
	return u, nil
}

// ConvertWeightToOz converts weight expressed in unit to ounces.
// An unsupported unit yields NaN.
func ConvertWeightToOz(weight float64, unit WeightUnit) float64 {
	return scale(weight, toOunces[unit], unit.Valid())
}

// ConvertOzToUnit converts a weight in ounces to unit.
func ConvertOzToUnit(weightInOz float64, unit WeightUnit) float64 {
	return scale(weightInOz, fromOunces[unit], unit.Valid())
}

// ConvertDimensionToInches converts a length expressed in unit to inches.
func ConvertDimensionToInches(value float64, unit DimensionUnit) float64 {
	return scale(value, toInches[unit], unit.Valid())
}

// ConvertInchesToUnit converts a length in inches to unit.
func ConvertInchesToUnit(value float64, unit DimensionUnit) float64 {
	return scale(value, fromInches[unit], unit.Valid())
}

// ConvertWeight converts between any two weight units through ounces.
func ConvertWeight(value float64, from, to WeightUnit) float64 {
	if from == to && from.Valid() {
		return value
	}
	return ConvertOzToUnit(ConvertWeightToOz(value, from), to)
}

// ConvertDimension converts between any two dimension units through inches.
func ConvertDimension(value float64, from, to DimensionUnit) float64 {
	if from == to && from.Valid() {
		return value
	}
	return ConvertInchesToUnit(ConvertDimensionToInches(value, from), to)
}

func scale(value, factor float64, ok bool) float64 {
	if !ok {
		return math.NaN()
	}
	return value * factor
}

// FormatWeight renders a weight as "<value> <unit>" with two decimals.
func FormatWeight(value float64, unit WeightUnit) string {
	return fmt.Sprintf("%s %s", fixed2(value), unit)
}

// FormatDimension renders a single dimension as "<value> <unit>".
func FormatDimension(value float64, unit DimensionUnit) string {
	return fmt.Sprintf("%s %s", fixed2(value), unit)
}

// FormatDimensions renders "<l> × <w> × <h> <unit>".
func FormatDimensions(length, width, height float64, unit DimensionUnit) string {
	return fmt.Sprintf("%s × %s × %s %s", fixed2(length), fixed2(width), fixed2(height), unit)
}

// fixed2 formats v with two decimals. Values exactly halfway between two
// hundredths round away from zero (2.125 -> "2.13").
func fixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	abs := math.Abs(v)
	// 40 places is the full expansion for any value that rounds above 0.00
	exact := strconv.FormatFloat(abs, 'f', 40, 64)
	frac := exact[strings.IndexByte(exact, '.')+1:]
	if frac[2] == '5' && strings.TrimRight(frac[3:], "0") == "" {
		abs = math.Nextafter(abs, math.Inf(1))
	}

	s := strconv.FormatFloat(abs, 'f', 2, 64)
	if v < 0 {
		s = "-" + s
	}
	return s
}
