package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/warehouse-api/internal/app/dto"
	"github.com/mrops-br/warehouse-api/internal/app/service"
	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/http/response"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// Routes registers the product endpoints on r
func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Post("/", h.CreateProduct)
	r.Get("/sku/*", h.GetProductBySKU)
	r.Get("/upc/{upc}", h.GetProductByUPC)
	r.Get("/{id}", h.GetProduct)
	r.Patch("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.RemoveProduct)
	r.Post("/{id}/toggle-active", h.ToggleActive)
}

// CreateProduct handles POST /products.
// Accepts a JSON body or the product form.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req *dto.CreateProductRequest
	if isForm(r) {
		draft, err := decodeDraft(w, r)
		if err == nil {
			req, err = draft.ToCreateRequest()
		}
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
	} else {
		req = &dto.CreateProductRequest{}
		if err := decodeJSON(w, r, req); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProductByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// GetProductBySKU handles GET /products/sku/{sku}.
// The SKU may contain slashes, raw or escaped.
func (h *ProductHandler) GetProductBySKU(w http.ResponseWriter, r *http.Request) {
	sku, err := pathParam(r, "*")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	product, err := h.service.GetProductBySKU(r.Context(), sku)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// GetProductByUPC handles GET /products/upc/{upc}
func (h *ProductHandler) GetProductByUPC(w http.ResponseWriter, r *http.Request) {
	upc, err := pathParam(r, "upc")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	product, err := h.service.GetProductByUPC(r.Context(), upc)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// ListProducts handles GET /products?activeOnly=&type=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// UpdateProduct handles PATCH /products/{id}.
// A form submission carries every field, so it overwrites the whole record.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req *dto.UpdateProductRequest
	if isForm(r) {
		draft, err := decodeDraft(w, r)
		if err == nil {
			req, err = draft.ToUpdateRequest()
		}
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
	} else {
		req = &dto.UpdateProductRequest{}
		if err := decodeJSON(w, r, req); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// RemoveProduct handles DELETE /products/{id}
func (h *ProductHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.DomainError(w, err)
		return
	}

	response.NoContent(w)
}

// ToggleActive handles POST /products/{id}/toggle-active
func (h *ProductHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.ToggleActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.DomainError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WarnContext(r.Context(), "Rejected product request",
		slog.String("error", err.Error()),
	)
	response.Error(w, http.StatusBadRequest, err)
}

func parseProductFilter(r *http.Request) (domain.ProductFilter, error) {
	var filter domain.ProductFilter
	q := r.URL.Query()

	if raw := q.Get("activeOnly"); raw != "" {
		activeOnly, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: activeOnly must be a boolean", domain.ErrValidation)
		}
		filter.ActiveOnly = activeOnly
	}

	if raw := q.Get("type"); raw != "" {
		t := domain.ProductType(raw)
		if !t.Valid() {
			return filter, fmt.Errorf("%w: %q", domain.ErrInvalidProductType, raw)
		}
		filter.Type = &t
	}

	return filter, nil
}
