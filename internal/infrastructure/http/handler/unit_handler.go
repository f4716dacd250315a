package handler

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/warehouse-api/internal/app/dto"
	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/http/response"
	"github.com/mrops-br/warehouse-api/internal/units"
)

// UnitHandler serves the unit catalogue and conversions
type UnitHandler struct{}

func NewUnitHandler() *UnitHandler {
	return &UnitHandler{}
}

// Routes registers the unit endpoints on r
func (h *UnitHandler) Routes(r chi.Router) {
	r.Get("/", h.ListUnits)
	r.Get("/weight/convert", h.ConvertWeight)
	r.Get("/dimension/convert", h.ConvertDimension)
}

// ListUnits handles GET /units
func (h *UnitHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, dto.NewUnitsResponse())
}

// ConvertWeight handles GET /units/weight/convert?value=&from=&to=
func (h *UnitHandler) ConvertWeight(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	value, err := parseValue(q.Get("value"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	from, err := units.ParseWeightUnit(q.Get("from"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	to, err := units.ParseWeightUnit(q.Get("to"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	result := units.ConvertWeight(value, from, to)
	response.JSON(w, http.StatusOK, dto.ConversionResponse{
		Value:   value,
		From:    string(from),
		To:      string(to),
		Result:  result,
		Display: units.FormatWeight(result, to),
	})
}

// ConvertDimension handles GET /units/dimension/convert?value=&from=&to=
func (h *UnitHandler) ConvertDimension(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	value, err := parseValue(q.Get("value"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	from, err := units.ParseDimensionUnit(q.Get("from"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	to, err := units.ParseDimensionUnit(q.Get("to"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	result := units.ConvertDimension(value, from, to)
	response.JSON(w, http.StatusOK, dto.ConversionResponse{
		Value:   value,
		From:    string(from),
		To:      string(to),
		Result:  result,
		Display: units.FormatDimension(result, to),
	})
}

// parseValue parses a finite number; JSON cannot carry NaN or infinities
func parseValue(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: value must be a finite number, got %q", domain.ErrValidation, raw)
	}
	return v, nil
}
