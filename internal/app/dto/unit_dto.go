package dto

import (
	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/units"
)

// UnitsResponse lists the choices for the product form's select controls
type UnitsResponse struct {
	WeightUnits    []units.WeightOption    `json:"weightUnits"`
	DimensionUnits []units.DimensionOption `json:"dimensionUnits"`
	ProductTypes   []domain.ProductType    `json:"productTypes"`
}

// NewUnitsResponse builds the unit catalogue
func NewUnitsResponse() *UnitsResponse {
	return &UnitsResponse{
		WeightUnits:    units.WeightUnits,
		DimensionUnits: units.DimensionUnits,
		ProductTypes:   domain.ProductTypes,
	}
}

// ConversionResponse is the result of converting a value between two units
type ConversionResponse struct {
	Value   float64 `json:"value"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Result  float64 `json:"result"`
	Display string  `json:"display"`
}
