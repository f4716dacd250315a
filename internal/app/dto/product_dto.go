package dto

import (
	"fmt"
	"time"

	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/units"
)

// CreateProductRequest represents the request to create a product.
// Required numeric fields are pointers so a missing field is told apart from zero.
type CreateProductRequest struct {
	SKU               string              `json:"sku"`
	UPC               *string             `json:"upc,omitempty"`
	Title             string              `json:"title"`
	Description       *string             `json:"description,omitempty"`
	ProductType       domain.ProductType  `json:"productType"`
	Weight            *float64            `json:"weight"`
	WeightUnit        units.WeightUnit    `json:"weightUnit"`
	Length            *float64            `json:"length"`
	Width             *float64            `json:"width"`
	Height            *float64            `json:"height"`
	DimensionUnit     units.DimensionUnit `json:"dimensionUnit"`
	CountryOfOrigin   *string             `json:"countryOfOrigin,omitempty"`
	HSTariffCode      *string             `json:"hsTariffCode,omitempty"`
	LotTracked        *bool               `json:"lotTracked,omitempty"`
	SerialTracked     *bool               `json:"serialTracked,omitempty"`
	ExpirationTracked *bool               `json:"expirationTracked,omitempty"`
	MinStockLevel     *int                `json:"minStockLevel,omitempty"`
	MaxStockLevel     *int                `json:"maxStockLevel,omitempty"`
}

// ToFields checks required fields are present and converts to domain fields
func (r *CreateProductRequest) ToFields() (domain.ProductFields, error) {
	required := []struct {
		name string
		v    *float64
	}{
		{"weight", r.Weight},
		{"length", r.Length},
		{"width", r.Width},
		{"height", r.Height},
	}
	for _, f := range required {
		if f.v == nil {
			return domain.ProductFields{}, fmt.Errorf("%w: %s is required", domain.ErrValidation, f.name)
		}
	}

	return domain.ProductFields{
		SKU:               r.SKU,
		UPC:               r.UPC,
		Title:             r.Title,
		Description:       r.Description,
		ProductType:       r.ProductType,
		Weight:            *r.Weight,
		WeightUnit:        r.WeightUnit,
		Length:            *r.Length,
		Width:             *r.Width,
		Height:            *r.Height,
		DimensionUnit:     r.DimensionUnit,
		CountryOfOrigin:   r.CountryOfOrigin,
		HSTariffCode:      r.HSTariffCode,
		LotTracked:        r.LotTracked,
		SerialTracked:     r.SerialTracked,
		ExpirationTracked: r.ExpirationTracked,
		MinStockLevel:     r.MinStockLevel,
		MaxStockLevel:     r.MaxStockLevel,
	}, nil
}

// UpdateProductRequest is a partial update; omitted fields are unchanged
type UpdateProductRequest struct {
	SKU               *string              `json:"sku,omitempty"`
	UPC               *string              `json:"upc,omitempty"`
	Title             *string              `json:"title,omitempty"`
	Description       *string              `json:"description,omitempty"`
	ProductType       *domain.ProductType  `json:"productType,omitempty"`
	Weight            *float64             `json:"weight,omitempty"`
	WeightUnit        *units.WeightUnit    `json:"weightUnit,omitempty"`
	Length            *float64             `json:"length,omitempty"`
	Width             *float64             `json:"width,omitempty"`
	Height            *float64             `json:"height,omitempty"`
	DimensionUnit     *units.DimensionUnit `json:"dimensionUnit,omitempty"`
	CountryOfOrigin   *string              `json:"countryOfOrigin,omitempty"`
	HSTariffCode      *string              `json:"hsTariffCode,omitempty"`
	LotTracked        *bool                `json:"lotTracked,omitempty"`
	SerialTracked     *bool                `json:"serialTracked,omitempty"`
	ExpirationTracked *bool                `json:"expirationTracked,omitempty"`
	MinStockLevel     *int                 `json:"minStockLevel,omitempty"`
	MaxStockLevel     *int                 `json:"maxStockLevel,omitempty"`
	Active            *bool                `json:"active,omitempty"`
}

// ToPatch converts the request to a domain patch
func (r *UpdateProductRequest) ToPatch() domain.ProductPatch {
	return domain.ProductPatch{
		SKU:               r.SKU,
		UPC:               r.UPC,
		Title:             r.Title,
		Description:       r.Description,
		ProductType:       r.ProductType,
		Weight:            r.Weight,
		WeightUnit:        r.WeightUnit,
		Length:            r.Length,
		Width:             r.Width,
		Height:            r.Height,
		DimensionUnit:     r.DimensionUnit,
		CountryOfOrigin:   r.CountryOfOrigin,
		HSTariffCode:      r.HSTariffCode,
		LotTracked:        r.LotTracked,
		SerialTracked:     r.SerialTracked,
		ExpirationTracked: r.ExpirationTracked,
		MinStockLevel:     r.MinStockLevel,
		MaxStockLevel:     r.MaxStockLevel,
		Active:            r.Active,
	}
}

// Dimensions is a length × width × height triple
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID                string              `json:"id"`
	SKU               string              `json:"sku"`
	UPC               *string             `json:"upc,omitempty"`
	Title             string              `json:"title"`
	Description       *string             `json:"description,omitempty"`
	ProductType       domain.ProductType  `json:"productType"`
	Weight            float64             `json:"weight"`
	WeightUnit        units.WeightUnit    `json:"weightUnit"`
	Length            float64             `json:"length"`
	Width             float64             `json:"width"`
	Height            float64             `json:"height"`
	DimensionUnit     units.DimensionUnit `json:"dimensionUnit"`
	CountryOfOrigin   *string             `json:"countryOfOrigin,omitempty"`
	HSTariffCode      *string             `json:"hsTariffCode,omitempty"`
	LotTracked        bool                `json:"lotTracked"`
	SerialTracked     bool                `json:"serialTracked"`
	ExpirationTracked bool                `json:"expirationTracked"`
	MinStockLevel     *int                `json:"minStockLevel,omitempty"`
	MaxStockLevel     *int                `json:"maxStockLevel,omitempty"`
	Active            bool                `json:"active"`
	WeightDisplay     string              `json:"weightDisplay"`
	DimensionsDisplay string              `json:"dimensionsDisplay"`
	WeightOz          float64             `json:"weightOz"`
	DimensionsIn      Dimensions          `json:"dimensionsIn"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	l, w, h := p.DimensionsIn()
	return &ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		UPC:               p.UPC,
		Title:             p.Title,
		Description:       p.Description,
		ProductType:       p.ProductType,
		Weight:            p.Weight,
		WeightUnit:        p.WeightUnit,
		Length:            p.Length,
		Width:             p.Width,
		Height:            p.Height,
		DimensionUnit:     p.DimensionUnit,
		CountryOfOrigin:   p.CountryOfOrigin,
		HSTariffCode:      p.HSTariffCode,
		LotTracked:        p.LotTracked,
		SerialTracked:     p.SerialTracked,
		ExpirationTracked: p.ExpirationTracked,
		MinStockLevel:     p.MinStockLevel,
		MaxStockLevel:     p.MaxStockLevel,
		Active:            p.Active,
		WeightDisplay:     units.FormatWeight(p.Weight, p.WeightUnit),
		DimensionsDisplay: units.FormatDimensions(p.Length, p.Width, p.Height, p.DimensionUnit),
		WeightOz:          p.WeightOz(),
		DimensionsIn:      Dimensions{Length: l, Width: w, Height: h},
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
