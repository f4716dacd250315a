package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mrops-br/warehouse-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type productRecord struct {
	seq     uint64
	product *domain.Product
}

// ProductRepository is an in-memory implementation of domain.ProductRepository
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*productRecord
	bySKU    map[string]string
	nextSeq  uint64
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*productRecord),
		bySKU:    make(map[string]string),
		tracer:   tracer,
		logger:   logger,
	}
}

// Create stores a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", product.ID),
		attribute.String("product.sku", product.SKU),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySKU[product.SKU]; taken {
		err := fmt.Errorf("sku %q: %w", product.SKU, domain.ErrDuplicateSKU)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Duplicate SKU")
		return err
	}

	r.nextSeq++
	r.products[product.ID] = &productRecord{seq: r.nextSeq, product: product.Clone()}
	r.bySKU[product.SKU] = product.ID

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.String("product_id", product.ID),
		slog.String("product_sku", product.SKU),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.products[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.String("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}

	r.logger.DebugContext(ctx, "Product found in repository",
		slog.String("product_id", id),
		slog.String("product_sku", rec.product.SKU),
	)

	span.SetStatus(codes.Ok, "Product found")
	return rec.product.Clone(), nil
}

// FindBySKU retrieves a product through the sku index
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.FindBySKU")
	defer span.End()

	span.SetAttributes(attribute.String("product.sku", sku))

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySKU[sku]
	if !ok {
		span.SetStatus(codes.Error, "Product not found")
		return nil, domain.ErrProductNotFound
	}

	span.SetStatus(codes.Ok, "Product found")
	return r.products[id].product.Clone(), nil
}

// FindByUPC returns the first product, in creation order, carrying upc
func (r *ProductRepository) FindByUPC(ctx context.Context, upc string) (*domain.Product, error) {
	_, span := r.tracer.Start(ctx, "ProductRepository.FindByUPC")
	defer span.End()

	span.SetAttributes(attribute.String("product.upc", upc))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.ordered() {
		if rec.product.UPC != nil && *rec.product.UPC == upc {
			span.SetStatus(codes.Ok, "Product found")
			return rec.product.Clone(), nil
		}
	}

	span.SetStatus(codes.Error, "Product not found")
	return nil, domain.ErrProductNotFound
}

// FindAll retrieves the products matching filter in creation order
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	span.SetAttributes(attribute.Bool("filter.active_only", filter.ActiveOnly))

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domain.Product, 0, len(r.products))
	for _, rec := range r.ordered() {
		if filter.Matches(rec.product) {
			products = append(products, rec.product.Clone())
		}
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.InfoContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// Modify applies mutate to the stored product under the write lock. A
// changed SKU must not collide with another product.
func (r *ProductRepository) Modify(ctx context.Context, id string, mutate domain.ProductMutation) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Modify")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.products[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		return nil, domain.ErrProductNotFound
	}

	next, err := mutate(rec.product.Clone())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Mutation rejected")
		return nil, err
	}
	next.ID = id

	if owner, taken := r.bySKU[next.SKU]; taken && owner != id {
		err := fmt.Errorf("sku %q: %w", next.SKU, domain.ErrDuplicateSKU)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Duplicate SKU")
		return nil, err
	}

	delete(r.bySKU, rec.product.SKU)
	r.bySKU[next.SKU] = id
	rec.product = next.Clone()

	r.logger.InfoContext(ctx, "Product updated in repository",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return next, nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.products[id]
	if !exists {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		return domain.ErrProductNotFound
	}

	delete(r.bySKU, rec.product.SKU)
	delete(r.products, id)

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

// ordered returns records in creation order. Caller holds the lock.
func (r *ProductRepository) ordered() []*productRecord {
	recs := make([]*productRecord, 0, len(r.products))
	for _, rec := range r.products {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	return recs
}
