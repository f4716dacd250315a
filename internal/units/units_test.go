package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertWeightToOz(t *testing.T) {
	assert.Equal(t, 16.0, ConvertWeightToOz(1, Pound))
	assert.Equal(t, 35.27396195, ConvertWeightToOz(1, Kilogram))
	assert.Equal(t, 5.0, ConvertWeightToOz(5, Ounce))
	assert.InDelta(t, 0.03527396195, ConvertWeightToOz(1, Gram), 1e-15)
}

func TestConvertOzToUnit(t *testing.T) {
	assert.Equal(t, 1.0, ConvertOzToUnit(16, Pound))
	assert.Equal(t, 28.349523125, ConvertOzToUnit(1, Gram))
	assert.Equal(t, 0.028349523125, ConvertOzToUnit(1, Kilogram))
}

func TestConvertDimension_Factors(t *testing.T) {
	assert.Equal(t, 12.0, ConvertDimensionToInches(1, Foot))
	assert.InDelta(t, 2.54, ConvertInchesToUnit(1, Centimeter), 1e-12)
	assert.InDelta(t, 25.4, ConvertInchesToUnit(1, Millimeter), 1e-12)
	assert.InDelta(t, 39.3701, ConvertDimensionToInches(1, Meter), 1e-12)
}

func TestWeightRoundTrip(t *testing.T) {
	values := []float64{0, 0.001, 1, 3.5, 16, 1234.5678, 1e6}
	for _, opt := range WeightUnits {
		for _, x := range values {
			got := ConvertOzToUnit(ConvertWeightToOz(x, opt.Value), opt.Value)
			assertRelClose(t, x, got, 1e-6, "weight %v %s", x, opt.Value)
		}
	}
}

func TestDimensionRoundTrip(t *testing.T) {
	values := []float64{0, 0.25, 1, 12, 99.99, 1e5}
	for _, opt := range DimensionUnits {
		for _, x := range values {
			got := ConvertInchesToUnit(ConvertDimensionToInches(x, opt.Value), opt.Value)
			assertRelClose(t, x, got, 1e-6, "dimension %v %s", x, opt.Value)
		}
	}
}

// The forward and inverse tables are independent approximations, so a
// round trip through feet does not come back bit-identical.
func TestDimensionRoundTrip_NotBitExact(t *testing.T) {
	got := ConvertInchesToUnit(ConvertDimensionToInches(1, Foot), Foot)
	assert.NotEqual(t, 1.0, got)
	assert.InDelta(t, 1.0, got, 1e-6)
}

func TestConvertWeight_AnyToAny(t *testing.T) {
	assert.InDelta(t, 0.45359237, ConvertWeight(1, Pound, Kilogram), 1e-9)
	assert.InDelta(t, 1000.0, ConvertWeight(1, Kilogram, Gram), 1e-6)
	assert.Equal(t, 7.25, ConvertWeight(7.25, Gram, Gram))
}

func TestConvertDimension_AnyToAny(t *testing.T) {
	assert.InDelta(t, 30.48, ConvertDimension(1, Foot, Centimeter), 1e-9)
	assert.InDelta(t, 100.0, ConvertDimension(1, Meter, Centimeter), 1e-4)
	assert.Equal(t, 3.0, ConvertDimension(3, Millimeter, Millimeter))
}

func TestConvert_UnknownUnitIsNaN(t *testing.T) {
	assert.True(t, math.IsNaN(ConvertWeightToOz(1, WeightUnit("stone"))))
	assert.True(t, math.IsNaN(ConvertInchesToUnit(1, DimensionUnit("yd"))))
	assert.True(t, math.IsNaN(ConvertWeight(1, WeightUnit("stone"), WeightUnit("stone"))))
}

func TestParseUnits(t *testing.T) {
	w, err := ParseWeightUnit("kg")
	require.NoError(t, err)
	assert.Equal(t, Kilogram, w)

	d, err := ParseDimensionUnit("mm")
	require.NoError(t, err)
	assert.Equal(t, Millimeter, d)

	_, err = ParseWeightUnit("KG")
	assert.ErrorIs(t, err, ErrUnknownUnit)

	_, err = ParseDimensionUnit("")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "3.00 kg", FormatWeight(3, Kilogram))
	assert.Equal(t, "0.13 lb", FormatWeight(0.126, Pound))
	assert.Equal(t, "12.50 cm", FormatDimension(12.5, Centimeter))
	assert.Equal(t, "1.00 × 2.00 × 3.46 in", FormatDimensions(1, 2, 3.456, Inch))
	assert.Equal(t, "0.13 × 1.63 × 2.88 in", FormatDimensions(0.125, 1.625, 2.875, Inch))
}

func TestFormat_HalfwayRoundsUp(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0.125, "0.13"},
		{1.625, "1.63"},
		{2.125, "2.13"},
		{2.875, "2.88"},
		{0.375, "0.38"},
		{-0.125, "-0.13"},
		// not exactly halfway in binary: 1.005 is stored as 1.00499999...
		{1.005, "1.00"},
		{0.0049, "0.00"},
		{0, "0.00"},
		{1234.5, "1234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want+" in", FormatDimension(tt.value, Inch))
			assert.Equal(t, tt.want+" oz", FormatWeight(tt.value, Ounce))
		})
	}
}

func TestUnitTables(t *testing.T) {
	require.Len(t, WeightUnits, 4)
	require.Len(t, DimensionUnits, 5)
	assert.Equal(t, WeightOption{Value: Ounce, Label: "Ounces (oz)"}, WeightUnits[0])
	assert.Equal(t, DimensionOption{Value: Meter, Label: "Meters (m)"}, DimensionUnits[4])
	for _, opt := range WeightUnits {
		assert.True(t, opt.Value.Valid())
	}
	for _, opt := range DimensionUnits {
		assert.True(t, opt.Value.Valid())
	}
}

func assertRelClose(t *testing.T, want, got, tol float64, msgAndArgs ...any) {
	t.Helper()
	if want == 0 {
		assert.Equal(t, 0.0, got, msgAndArgs...)
		return
	}
	assert.LessOrEqual(t, math.Abs(got-want)/math.Abs(want), tol, msgAndArgs...)
}
