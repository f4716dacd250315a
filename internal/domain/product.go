package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/warehouse-api/internal/units"
)

// ErrValidation is the parent of every schema validation error
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidSKU           = fmt.Errorf("%w: sku is required", ErrValidation)
	ErrInvalidTitle         = fmt.Errorf("%w: title is required", ErrValidation)
	ErrInvalidProductType   = fmt.Errorf("%w: unknown product type", ErrValidation)
	ErrInvalidWeightUnit    = fmt.Errorf("%w: unknown weight unit", ErrValidation)
	ErrInvalidDimensionUnit = fmt.Errorf("%w: unknown dimension unit", ErrValidation)
	ErrInvalidMeasurement   = fmt.Errorf("%w: weight and dimensions must be finite and non-negative", ErrValidation)
	ErrInvalidStockLevel    = fmt.Errorf("%w: stock levels must be non-negative and min must not exceed max", ErrValidation)
)

// ProductType classifies how a product has to be handled
type ProductType string

const (
	ProductTypeRigid      ProductType = "rigid"
	ProductTypeTextile    ProductType = "textile"
	ProductTypeFragile    ProductType = "fragile"
	ProductTypePerishable ProductType = "perishable"
	ProductTypeHazmat     ProductType = "hazmat"
	ProductTypeLiquid     ProductType = "liquid"
	ProductTypeOther      ProductType = "other"
)

// ProductTypes lists every product type in display order
var ProductTypes = []ProductType{
	ProductTypeRigid,
	ProductTypeTextile,
	ProductTypeFragile,
	ProductTypePerishable,
	ProductTypeHazmat,
	ProductTypeLiquid,
	ProductTypeOther,
}

// Valid reports whether t is one of ProductTypes
func (t ProductType) Valid() bool {
	for _, known := range ProductTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Product represents the product entity.
// Weight and dimensions are stored in the unit they were entered in.
type Product struct {
	ID                string
	SKU               string
	UPC               *string
	Title             string
	Description       *string
	ProductType       ProductType
	Weight            float64
	WeightUnit        units.WeightUnit
	Length            float64
	Width             float64
	Height            float64
	DimensionUnit     units.DimensionUnit
	CountryOfOrigin   *string
	HSTariffCode      *string
	LotTracked        bool
	SerialTracked     bool
	ExpirationTracked bool
	MinStockLevel     *int
	MaxStockLevel     *int
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProductFields are the caller-supplied fields of a new product
type ProductFields struct {
	SKU               string
	UPC               *string
	Title             string
	Description       *string
	ProductType       ProductType
	Weight            float64
	WeightUnit        units.WeightUnit
	Length            float64
	Width             float64
	Height            float64
	DimensionUnit     units.DimensionUnit
	CountryOfOrigin   *string
	HSTariffCode      *string
	LotTracked        *bool
	SerialTracked     *bool
	ExpirationTracked *bool
	MinStockLevel     *int
	MaxStockLevel     *int
}

// NewProduct creates a new active product with validation.
// Tracking flags default to false.
func NewProduct(f ProductFields) (*Product, error) {
	now := time.Now().UTC()
	product := &Product{
		ID:                uuid.New().String(),
		SKU:               f.SKU,
		UPC:               f.UPC,
		Title:             f.Title,
		Description:       f.Description,
		ProductType:       f.ProductType,
		Weight:            f.Weight,
		WeightUnit:        f.WeightUnit,
		Length:            f.Length,
		Width:             f.Width,
		Height:            f.Height,
		DimensionUnit:     f.DimensionUnit,
		CountryOfOrigin:   f.CountryOfOrigin,
		HSTariffCode:      f.HSTariffCode,
		LotTracked:        boolOr(f.LotTracked, false),
		SerialTracked:     boolOr(f.SerialTracked, false),
		ExpirationTracked: boolOr(f.ExpirationTracked, false),
		MinStockLevel:     f.MinStockLevel,
		MaxStockLevel:     f.MaxStockLevel,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate checks the product against the catalog schema
func (p *Product) Validate() error {
	if strings.TrimSpace(p.SKU) == "" {
		return ErrInvalidSKU
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrInvalidTitle
	}
	if !p.ProductType.Valid() {
		return ErrInvalidProductType
	}
	if !p.WeightUnit.Valid() {
		return ErrInvalidWeightUnit
	}
	if !p.DimensionUnit.Valid() {
		return ErrInvalidDimensionUnit
	}
	for _, v := range []float64{p.Weight, p.Length, p.Width, p.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return ErrInvalidMeasurement
		}
	}
	if p.MinStockLevel != nil && *p.MinStockLevel < 0 {
		return ErrInvalidStockLevel
	}
	if p.MaxStockLevel != nil && *p.MaxStockLevel < 0 {
		return ErrInvalidStockLevel
	}
	if p.MinStockLevel != nil && p.MaxStockLevel != nil && *p.MinStockLevel > *p.MaxStockLevel {
		return ErrInvalidStockLevel
	}
	return nil
}

// WeightOz returns the weight normalised to ounces
func (p *Product) WeightOz() float64 {
	return units.ConvertWeightToOz(p.Weight, p.WeightUnit)
}

// DimensionsIn returns length, width and height normalised to inches
func (p *Product) DimensionsIn() (float64, float64, float64) {
	return units.ConvertDimensionToInches(p.Length, p.DimensionUnit),
		units.ConvertDimensionToInches(p.Width, p.DimensionUnit),
		units.ConvertDimensionToInches(p.Height, p.DimensionUnit)
}

// Clone returns a deep copy of the product
func (p *Product) Clone() *Product {
	c := *p
	c.UPC = clonePtr(p.UPC)
	c.Description = clonePtr(p.Description)
	c.CountryOfOrigin = clonePtr(p.CountryOfOrigin)
	c.HSTariffCode = clonePtr(p.HSTariffCode)
	c.MinStockLevel = clonePtr(p.MinStockLevel)
	c.MaxStockLevel = clonePtr(p.MaxStockLevel)
	return &c
}

// ProductPatch is a partial update. Nil fields are left untouched.
type ProductPatch struct {
	SKU               *string
	UPC               *string
	Title             *string
	Description       *string
	ProductType       *ProductType
	Weight            *float64
	WeightUnit        *units.WeightUnit
	Length            *float64
	Width             *float64
	Height            *float64
	DimensionUnit     *units.DimensionUnit
	CountryOfOrigin   *string
	HSTariffCode      *string
	LotTracked        *bool
	SerialTracked     *bool
	ExpirationTracked *bool
	MinStockLevel     *int
	MaxStockLevel     *int
	Active            *bool
}

// IsEmpty reports whether the patch sets no field
func (u ProductPatch) IsEmpty() bool {
	return u == ProductPatch{}
}

// ChangesSKU reports whether applying the patch to p would change its SKU
func (u ProductPatch) ChangesSKU(p *Product) bool {
	return u.SKU != nil && *u.SKU != p.SKU
}

// Apply returns a validated copy of p with the patch applied
func (u ProductPatch) Apply(p *Product) (*Product, error) {
	next := p.Clone()

	setIf(&next.SKU, u.SKU)
	setPtrIf(&next.UPC, u.UPC)
	setIf(&next.Title, u.Title)
	setPtrIf(&next.Description, u.Description)
	setIf(&next.ProductType, u.ProductType)
	setIf(&next.Weight, u.Weight)
	setIf(&next.WeightUnit, u.WeightUnit)
	setIf(&next.Length, u.Length)
	setIf(&next.Width, u.Width)
	setIf(&next.Height, u.Height)
	setIf(&next.DimensionUnit, u.DimensionUnit)
	setPtrIf(&next.CountryOfOrigin, u.CountryOfOrigin)
	setPtrIf(&next.HSTariffCode, u.HSTariffCode)
	setIf(&next.LotTracked, u.LotTracked)
	setIf(&next.SerialTracked, u.SerialTracked)
	setIf(&next.ExpirationTracked, u.ExpirationTracked)
	setPtrIf(&next.MinStockLevel, u.MinStockLevel)
	setPtrIf(&next.MaxStockLevel, u.MaxStockLevel)
	setIf(&next.Active, u.Active)

	if err := next.Validate(); err != nil {
		return nil, err
	}

	next.UpdatedAt = time.Now().UTC()
	return next, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setPtrIf[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
