package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/units"
)

// ProductDraft is product form state as typed by a user: every value is
// the raw string from its input. It is parsed once, at submit time.
type ProductDraft struct {
	SKU               string `json:"sku"`
	UPC               string `json:"upc"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	ProductType       string `json:"productType"`
	Weight            string `json:"weight"`
	WeightUnit        string `json:"weightUnit"`
	Length            string `json:"length"`
	Width             string `json:"width"`
	Height            string `json:"height"`
	DimensionUnit     string `json:"dimensionUnit"`
	CountryOfOrigin   string `json:"countryOfOrigin"`
	HSTariffCode      string `json:"hsTariffCode"`
	LotTracked        bool   `json:"lotTracked"`
	SerialTracked     bool   `json:"serialTracked"`
	ExpirationTracked bool   `json:"expirationTracked"`
	MinStockLevel     string `json:"minStockLevel"`
	MaxStockLevel     string `json:"maxStockLevel"`
}

// NewProductDraft returns an empty form with the default selections
func NewProductDraft() ProductDraft {
	return ProductDraft{
		ProductType:   string(domain.ProductTypeOther),
		WeightUnit:    string(units.Ounce),
		DimensionUnit: string(units.Inch),
	}
}

// DraftFromProduct fills a form from a stored product for editing
func DraftFromProduct(p *ProductResponse) ProductDraft {
	return ProductDraft{
		SKU:               p.SKU,
		UPC:               deref(p.UPC),
		Title:             p.Title,
		Description:       deref(p.Description),
		ProductType:       string(p.ProductType),
		Weight:            formatNumber(p.Weight),
		WeightUnit:        string(p.WeightUnit),
		Length:            formatNumber(p.Length),
		Width:             formatNumber(p.Width),
		Height:            formatNumber(p.Height),
		DimensionUnit:     string(p.DimensionUnit),
		CountryOfOrigin:   deref(p.CountryOfOrigin),
		HSTariffCode:      deref(p.HSTariffCode),
		LotTracked:        p.LotTracked,
		SerialTracked:     p.SerialTracked,
		ExpirationTracked: p.ExpirationTracked,
		MinStockLevel:     formatOptionalInt(p.MinStockLevel),
		MaxStockLevel:     formatOptionalInt(p.MaxStockLevel),
	}
}

// ProductDraftFromForm reads a submitted HTML form. Checkboxes count as
// checked when present with any value other than "false" or "off".
func ProductDraftFromForm(form url.Values) ProductDraft {
	checked := func(key string) bool {
		v, ok := form[key]
		if !ok || len(v) == 0 {
			return false
		}
		switch strings.ToLower(v[0]) {
		case "false", "off", "0":
			return false
		}
		return true
	}

	return ProductDraft{
		SKU:               form.Get("sku"),
		UPC:               form.Get("upc"),
		Title:             form.Get("title"),
		Description:       form.Get("description"),
		ProductType:       form.Get("productType"),
		Weight:            form.Get("weight"),
		WeightUnit:        form.Get("weightUnit"),
		Length:            form.Get("length"),
		Width:             form.Get("width"),
		Height:            form.Get("height"),
		DimensionUnit:     form.Get("dimensionUnit"),
		CountryOfOrigin:   form.Get("countryOfOrigin"),
		HSTariffCode:      form.Get("hsTariffCode"),
		LotTracked:        checked("lotTracked"),
		SerialTracked:     checked("serialTracked"),
		ExpirationTracked: checked("expirationTracked"),
		MinStockLevel:     form.Get("minStockLevel"),
		MaxStockLevel:     form.Get("maxStockLevel"),
	}
}

// ToCreateRequest parses the draft into a create request.
// Blank optional inputs are left unset.
func (d ProductDraft) ToCreateRequest() (*CreateProductRequest, error) {
	p, err := d.parse()
	if err != nil {
		return nil, err
	}

	return &CreateProductRequest{
		SKU:               strings.TrimSpace(d.SKU),
		UPC:               p.upc,
		Title:             strings.TrimSpace(d.Title),
		Description:       p.description,
		ProductType:       domain.ProductType(d.ProductType),
		Weight:            &p.weight,
		WeightUnit:        units.WeightUnit(d.WeightUnit),
		Length:            &p.length,
		Width:             &p.width,
		Height:            &p.height,
		DimensionUnit:     units.DimensionUnit(d.DimensionUnit),
		CountryOfOrigin:   p.country,
		HSTariffCode:      p.hsCode,
		LotTracked:        &d.LotTracked,
		SerialTracked:     &d.SerialTracked,
		ExpirationTracked: &d.ExpirationTracked,
		MinStockLevel:     p.minStock,
		MaxStockLevel:     p.maxStock,
	}, nil
}

// ToUpdateRequest parses the draft into an update that rewrites every
// field the form carries.
func (d ProductDraft) ToUpdateRequest() (*UpdateProductRequest, error) {
	c, err := d.ToCreateRequest()
	if err != nil {
		return nil, err
	}

	return &UpdateProductRequest{
		SKU:               &c.SKU,
		UPC:               c.UPC,
		Title:             &c.Title,
		Description:       c.Description,
		ProductType:       &c.ProductType,
		Weight:            c.Weight,
		WeightUnit:        &c.WeightUnit,
		Length:            c.Length,
		Width:             c.Width,
		Height:            c.Height,
		DimensionUnit:     &c.DimensionUnit,
		CountryOfOrigin:   c.CountryOfOrigin,
		HSTariffCode:      c.HSTariffCode,
		LotTracked:        c.LotTracked,
		SerialTracked:     c.SerialTracked,
		ExpirationTracked: c.ExpirationTracked,
		MinStockLevel:     c.MinStockLevel,
		MaxStockLevel:     c.MaxStockLevel,
	}, nil
}

type parsedDraft struct {
	weight, length, width, height     float64
	minStock, maxStock                *int
	upc, description, country, hsCode *string
}

func (d ProductDraft) parse() (parsedDraft, error) {
	var (
		p   parsedDraft
		err error
	)

	numbers := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"weight", d.Weight, &p.weight},
		{"length", d.Length, &p.length},
		{"width", d.Width, &p.width},
		{"height", d.Height, &p.height},
	}
	for _, n := range numbers {
		if *n.dst, err = parseFloat(n.name, n.raw); err != nil {
			return parsedDraft{}, err
		}
	}

	if p.minStock, err = parseOptionalInt("minStockLevel", d.MinStockLevel); err != nil {
		return parsedDraft{}, err
	}
	if p.maxStock, err = parseOptionalInt("maxStockLevel", d.MaxStockLevel); err != nil {
		return parsedDraft{}, err
	}

	p.upc = optionalString(d.UPC)
	p.description = optionalString(d.Description)
	p.country = optionalString(d.CountryOfOrigin)
	p.hsCode = optionalString(d.HSTariffCode)
	return p, nil
}

func parseFloat(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrValidation, name)
	}
	return v, nil
}

func parseOptionalInt(name, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a whole number", domain.ErrValidation, name)
	}
	return &v, nil
}

func optionalString(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
