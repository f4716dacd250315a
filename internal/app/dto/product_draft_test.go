package dto

import (
	"net/url"
	"testing"

	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledDraft() ProductDraft {
	d := NewProductDraft()
	d.SKU = " TAPE-48 "
	d.Title = "Packing tape"
	d.Weight = "0.35"
	d.WeightUnit = "lb"
	d.Length = "4.8"
	d.Width = "4.8"
	d.Height = "5"
	d.DimensionUnit = "cm"
	d.MinStockLevel = "12"
	return d
}

func TestNewProductDraft_Defaults(t *testing.T) {
	d := NewProductDraft()
	assert.Equal(t, "other", d.ProductType)
	assert.Equal(t, "oz", d.WeightUnit)
	assert.Equal(t, "in", d.DimensionUnit)
}

func TestProductDraft_ToCreateRequest(t *testing.T) {
	req, err := filledDraft().ToCreateRequest()
	require.NoError(t, err)

	assert.Equal(t, "TAPE-48", req.SKU)
	assert.Equal(t, domain.ProductTypeOther, req.ProductType)
	require.NotNil(t, req.Weight)
	assert.Equal(t, 0.35, *req.Weight)
	assert.Equal(t, units.Pound, req.WeightUnit)
	assert.Equal(t, units.Centimeter, req.DimensionUnit)
	require.NotNil(t, req.MinStockLevel)
	assert.Equal(t, 12, *req.MinStockLevel)
	assert.Nil(t, req.MaxStockLevel)
	assert.Nil(t, req.UPC)
	require.NotNil(t, req.LotTracked)
	assert.False(t, *req.LotTracked)

	fields, err := req.ToFields()
	require.NoError(t, err)
	_, err = domain.NewProduct(fields)
	assert.NoError(t, err)
}

func TestProductDraft_ParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProductDraft)
		field  string
	}{
		{"blank weight", func(d *ProductDraft) { d.Weight = "" }, "weight"},
		{"word height", func(d *ProductDraft) { d.Height = "tall" }, "height"},
		{"fractional stock", func(d *ProductDraft) { d.MaxStockLevel = "2.5" }, "maxStockLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := filledDraft()
			tt.mutate(&d)
			_, err := d.ToCreateRequest()
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestProductDraftFromForm(t *testing.T) {
	form := url.Values{
		"sku":             {"BOX-S"},
		"title":           {"Small box"},
		"productType":     {"other"},
		"weight":          {"120"},
		"weightUnit":      {"g"},
		"length":          {"20"},
		"width":           {"15"},
		"height":          {"10"},
		"dimensionUnit":   {"cm"},
		"lotTracked":      {"on"},
		"serialTracked":   {"off"},
		"countryOfOrigin": {"PT"},
	}

	d := ProductDraftFromForm(form)
	assert.True(t, d.LotTracked)
	assert.False(t, d.SerialTracked)
	assert.False(t, d.ExpirationTracked)

	req, err := d.ToUpdateRequest()
	require.NoError(t, err)
	require.NotNil(t, req.SKU)
	assert.Equal(t, "BOX-S", *req.SKU)
	require.NotNil(t, req.CountryOfOrigin)
	assert.Equal(t, "PT", *req.CountryOfOrigin)
	assert.Nil(t, req.Active)
}

func TestDraftFromProduct_RoundTrip(t *testing.T) {
	req, err := filledDraft().ToCreateRequest()
	require.NoError(t, err)
	fields, err := req.ToFields()
	require.NoError(t, err)
	p, err := domain.NewProduct(fields)
	require.NoError(t, err)

	d := DraftFromProduct(ToProductResponse(p))
	assert.Equal(t, "TAPE-48", d.SKU)
	assert.Equal(t, "0.35", d.Weight)
	assert.Equal(t, "5", d.Height)
	assert.Equal(t, "12", d.MinStockLevel)
	assert.Equal(t, "", d.MaxStockLevel)
}

func TestToProductResponse_Display(t *testing.T) {
	p, err := domain.NewProduct(domain.ProductFields{
		SKU:           "X",
		Title:         "X",
		ProductType:   domain.ProductTypeLiquid,
		Weight:        3,
		WeightUnit:    units.Kilogram,
		Length:        1,
		Width:         2,
		Height:        3.456,
		DimensionUnit: units.Inch,
	})
	require.NoError(t, err)

	resp := ToProductResponse(p)
	assert.Equal(t, "3.00 kg", resp.WeightDisplay)
	assert.Equal(t, "1.00 × 2.00 × 3.46 in", resp.DimensionsDisplay)
	assert.Equal(t, Dimensions{Length: 1, Width: 2, Height: 3.456}, resp.DimensionsIn)
}
