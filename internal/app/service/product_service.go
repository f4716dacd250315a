package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrops-br/warehouse-api/internal/app/dto"
	"github.com/mrops-br/warehouse-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ProductService handles product use cases
type ProductService struct {
	repo                  domain.ProductRepository
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	// Initialize metrics
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &ProductService{
		repo:                  repo,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
	}
}

func (s *ProductService) record(ctx context.Context, operation, result string) {
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// fail records err on the span and in the operations counter
func (s *ProductService) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	result := "failure"
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrDuplicateSKU):
		result = "duplicate"
	case errors.Is(err, domain.ErrValidation):
		result = "invalid"
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.record(ctx, operation, result)

	if result == "failure" {
		s.logger.ErrorContext(ctx, "Product operation failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	} else {
		s.logger.WarnContext(ctx, "Product operation rejected",
			slog.String("operation", operation),
			slog.String("reason", result),
			slog.String("error", err.Error()),
		)
	}
	return err
}

// CreateProduct creates a new product after checking its SKU is free
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.sku", req.SKU),
		attribute.String("product.type", string(req.ProductType)),
	)

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("sku", req.SKU),
		slog.String("title", req.Title),
	)

	fields, err := req.ToFields()
	if err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	// Create domain entity
	product, err := domain.NewProduct(fields)
	if err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	if err := s.ensureSKUFree(ctx, product.SKU, ""); err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	span.SetAttributes(attribute.String("product.id", product.ID))

	// Store in repository
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}

	// Record metrics
	s.productCreatedCounter.Add(ctx, 1)
	s.record(ctx, "create", "success")

	s.logger.InfoContext(ctx, "Product created successfully",
		slog.String("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return dto.ToProductResponse(product), nil
}

// ensureSKUFree fails with ErrDuplicateSKU when another product than
// selfID already uses sku
func (s *ProductService) ensureSKUFree(ctx context.Context, sku, selfID string) error {
	existing, err := s.repo.FindBySKU(ctx, sku)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking sku: %w", err)
	}
	if existing.ID == selfID {
		return nil
	}
	return fmt.Errorf("product with SKU %q already exists: %w", sku, domain.ErrDuplicateSKU)
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	s.logger.InfoContext(ctx, "Getting product by ID",
		slog.String("product_id", id),
	)

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "read", err)
	}

	s.record(ctx, "read", "success")

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// GetProductBySKU retrieves a product by its SKU
func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductBySKU")
	defer span.End()

	span.SetAttributes(attribute.String("product.sku", sku))

	product, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, s.fail(ctx, span, "read_by_sku", err)
	}

	s.record(ctx, "read_by_sku", "success")

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// GetProductByUPC retrieves the first product carrying a UPC
func (s *ProductService) GetProductByUPC(ctx context.Context, upc string) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProductByUPC")
	defer span.End()

	span.SetAttributes(attribute.String("product.upc", upc))

	product, err := s.repo.FindByUPC(ctx, upc)
	if err != nil {
		return nil, s.fail(ctx, span, "read_by_upc", err)
	}

	s.record(ctx, "read_by_upc", "success")

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// ListProducts retrieves the products matching filter
func (s *ProductService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	span.SetAttributes(attribute.Bool("filter.active_only", filter.ActiveOnly))

	s.logger.InfoContext(ctx, "Listing products",
		slog.Bool("active_only", filter.ActiveOnly),
	)

	products, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, s.fail(ctx, span, "list", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "list", "success")

	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductResponseList(products), nil
}

// UpdateProduct applies a partial update. The SKU uniqueness check only
// runs when the SKU changes.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	s.logger.InfoContext(ctx, "Updating product",
		slog.String("product_id", id),
	)

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	patch := req.ToPatch()
	if patch.IsEmpty() {
		s.record(ctx, "update", "noop")
		span.SetStatus(codes.Ok, "Nothing to update")
		return dto.ToProductResponse(current), nil
	}

	// the store enforces uniqueness again on write
	if patch.ChangesSKU(current) {
		if err := s.ensureSKUFree(ctx, *patch.SKU, id); err != nil {
			return nil, s.fail(ctx, span, "update", err)
		}
	}

	next, err := s.repo.Modify(ctx, id, patch.Apply)
	if err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}

	s.record(ctx, "update", "success")

	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return dto.ToProductResponse(next), nil
}

// ToggleActive flips the active flag of a product
func (s *ProductService) ToggleActive(ctx context.Context, id string) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ToggleActive")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	next, err := s.repo.Modify(ctx, id, func(current *domain.Product) (*domain.Product, error) {
		active := !current.Active
		return domain.ProductPatch{Active: &active}.Apply(current)
	})
	if err != nil {
		return nil, s.fail(ctx, span, "toggle_active", err)
	}

	s.record(ctx, "toggle_active", "success")

	s.logger.InfoContext(ctx, "Product active flag toggled",
		slog.String("product_id", id),
		slog.Bool("active", next.Active),
	)

	span.SetStatus(codes.Ok, "Product toggled successfully")
	return dto.ToProductResponse(next), nil
}

// RemoveProduct deletes a product
func (s *ProductService) RemoveProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.RemoveProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, span, "delete", err)
	}

	s.record(ctx, "delete", "success")

	s.logger.InfoContext(ctx, "Product removed",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product removed successfully")
	return nil
}
