package domain

import (
	"math"
	"testing"

	"github.com/mrops-br/warehouse-api/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() ProductFields {
	return ProductFields{
		SKU:           "WIDGET-001",
		Title:         "Widget",
		ProductType:   ProductTypeRigid,
		Weight:        2.5,
		WeightUnit:    units.Pound,
		Length:        10,
		Width:         4,
		Height:        3,
		DimensionUnit: units.Inch,
	}
}

func ptr[T any](v T) *T { return &v }

func TestNewProduct_Defaults(t *testing.T) {
	p, err := NewProduct(validFields())
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Active)
	assert.False(t, p.LotTracked)
	assert.False(t, p.SerialTracked)
	assert.False(t, p.ExpirationTracked)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
}

func TestNewProduct_KeepsTrackingFlags(t *testing.T) {
	f := validFields()
	f.LotTracked = ptr(true)
	f.ExpirationTracked = ptr(true)

	p, err := NewProduct(f)
	require.NoError(t, err)
	assert.True(t, p.LotTracked)
	assert.False(t, p.SerialTracked)
	assert.True(t, p.ExpirationTracked)
}

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProductFields)
		want   error
	}{
		{"empty sku", func(f *ProductFields) { f.SKU = "  " }, ErrInvalidSKU},
		{"empty title", func(f *ProductFields) { f.Title = "" }, ErrInvalidTitle},
		{"bad type", func(f *ProductFields) { f.ProductType = "gadget" }, ErrInvalidProductType},
		{"bad weight unit", func(f *ProductFields) { f.WeightUnit = "stone" }, ErrInvalidWeightUnit},
		{"bad dimension unit", func(f *ProductFields) { f.DimensionUnit = "yd" }, ErrInvalidDimensionUnit},
		{"negative weight", func(f *ProductFields) { f.Weight = -1 }, ErrInvalidMeasurement},
		{"nan height", func(f *ProductFields) { f.Height = math.NaN() }, ErrInvalidMeasurement},
		{"negative min stock", func(f *ProductFields) { f.MinStockLevel = ptr(-1) }, ErrInvalidStockLevel},
		{"min above max", func(f *ProductFields) {
			f.MinStockLevel = ptr(10)
			f.MaxStockLevel = ptr(5)
		}, ErrInvalidStockLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			_, err := NewProduct(f)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestProductPatch_Apply(t *testing.T) {
	p, err := NewProduct(validFields())
	require.NoError(t, err)

	patch := ProductPatch{
		Title:         ptr("Big Widget"),
		Weight:        ptr(3.0),
		WeightUnit:    ptr(units.Kilogram),
		MinStockLevel: ptr(2),
	}

	next, err := patch.Apply(p)
	require.NoError(t, err)

	assert.Equal(t, "Big Widget", next.Title)
	assert.Equal(t, 3.0, next.Weight)
	assert.Equal(t, units.Kilogram, next.WeightUnit)
	require.NotNil(t, next.MinStockLevel)
	assert.Equal(t, 2, *next.MinStockLevel)
	assert.Equal(t, p.SKU, next.SKU)

	// original untouched
	assert.Equal(t, "Widget", p.Title)
	assert.Nil(t, p.MinStockLevel)
}

func TestProductPatch_ApplyRejectsInvalid(t *testing.T) {
	p, err := NewProduct(validFields())
	require.NoError(t, err)

	_, err = ProductPatch{ProductType: ptr(ProductType("gadget"))}.Apply(p)
	assert.ErrorIs(t, err, ErrInvalidProductType)
}

func TestProductPatch_ChangesSKU(t *testing.T) {
	p, err := NewProduct(validFields())
	require.NoError(t, err)

	assert.False(t, ProductPatch{}.ChangesSKU(p))
	assert.False(t, ProductPatch{SKU: ptr(p.SKU)}.ChangesSKU(p))
	assert.True(t, ProductPatch{SKU: ptr("OTHER")}.ChangesSKU(p))
}

func TestProductPatch_IsEmpty(t *testing.T) {
	assert.True(t, ProductPatch{}.IsEmpty())
	assert.False(t, ProductPatch{Active: ptr(false)}.IsEmpty())
}

func TestProduct_CloneIsDeep(t *testing.T) {
	f := validFields()
	f.UPC = ptr("012345678905")
	p, err := NewProduct(f)
	require.NoError(t, err)

	c := p.Clone()
	*c.UPC = "999"
	assert.Equal(t, "012345678905", *p.UPC)
}

func TestProduct_Normalised(t *testing.T) {
	p, err := NewProduct(validFields())
	require.NoError(t, err)

	assert.Equal(t, 40.0, p.WeightOz())
	l, w, h := p.DimensionsIn()
	assert.Equal(t, []float64{10, 4, 3}, []float64{l, w, h})
}

func TestProductFilter_Matches(t *testing.T) {
	p, err := NewProduct(validFields())
	require.NoError(t, err)

	assert.True(t, ProductFilter{}.Matches(p))
	assert.True(t, ProductFilter{ActiveOnly: true}.Matches(p))
	assert.False(t, ProductFilter{Type: ptr(ProductTypeFragile)}.Matches(p))

	p.Active = false
	assert.False(t, ProductFilter{ActiveOnly: true}.Matches(p))
}

func TestTask_Toggle(t *testing.T) {
	task, err := NewTask("count pallets")
	require.NoError(t, err)
	assert.False(t, task.IsCompleted)

	task.Toggle()
	assert.True(t, task.IsCompleted)
	task.Toggle()
	assert.False(t, task.IsCompleted)

	_, err = NewTask("   ")
	assert.ErrorIs(t, err, ErrInvalidTaskText)
}
