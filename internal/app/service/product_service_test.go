package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mrops-br/warehouse-api/internal/app/dto"
	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/warehouse-api/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"
)

func ptr[T any](v T) *T { return &v }

func newProductService(t *testing.T, repo domain.ProductRepository) *ProductService {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	tracer := noop.NewTracerProvider().Tracer("test")
	if repo == nil {
		repo = memory.NewProductRepository(tracer, logger)
	}
	return NewProductService(repo, tracer, metricnoop.NewMeterProvider().Meter("test"), logger)
}

func createRequest(sku string) *dto.CreateProductRequest {
	return &dto.CreateProductRequest{
		SKU:           sku,
		Title:         "Pallet jack",
		ProductType:   domain.ProductTypeRigid,
		Weight:        ptr(3.0),
		WeightUnit:    units.Kilogram,
		Length:        ptr(1.0),
		Width:         ptr(2.0),
		Height:        ptr(3.456),
		DimensionUnit: units.Inch,
	}
}

func TestCreateProduct(t *testing.T) {
	svc := newProductService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, createRequest("PJ-1"))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)
	assert.False(t, created.LotTracked)
	assert.Equal(t, "3.00 kg", created.WeightDisplay)
	assert.Equal(t, "1.00 × 2.00 × 3.46 in", created.DimensionsDisplay)
	assert.InDelta(t, 105.82188585, created.WeightOz, 1e-9)

	got, err := svc.GetProductBySKU(ctx, "PJ-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	svc := newProductService(t, nil)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, createRequest("PJ-1"))
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, createRequest("PJ-1"))
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
	assert.Contains(t, err.Error(), `"PJ-1"`)

	list, err := svc.ListProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateProduct_MissingRequiredNumber(t *testing.T) {
	svc := newProductService(t, nil)

	req := createRequest("PJ-1")
	req.Weight = nil
	_, err := svc.CreateProduct(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "weight")
}

func TestCreateProduct_InvalidEnum(t *testing.T) {
	svc := newProductService(t, nil)

	req := createRequest("PJ-1")
	req.DimensionUnit = "yd"
	_, err := svc.CreateProduct(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidDimensionUnit)
}

// staleSKUIndex hides existing SKUs from lookups, as a concurrent writer
// would between the check and the insert.
type staleSKUIndex struct {
	domain.ProductRepository
}

func (staleSKUIndex) FindBySKU(context.Context, string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func TestCreateProduct_StoreRejectsDuplicatePastStaleCheck(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	repo := memory.NewProductRepository(noop.NewTracerProvider().Tracer("test"), logger)
	svc := newProductService(t, staleSKUIndex{repo})
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, createRequest("RACE"))
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, createRequest("RACE"))
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
}

func TestUpdateProduct(t *testing.T) {
	svc := newProductService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, createRequest("PJ-1"))
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, created.ID, &dto.UpdateProductRequest{
		Title:      ptr("Electric pallet jack"),
		WeightUnit: ptr(units.Pound),
		LotTracked: ptr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "Electric pallet jack", updated.Title)
	assert.Equal(t, "3.00 lb", updated.WeightDisplay)
	assert.True(t, updated.LotTracked)
	assert.Equal(t, "PJ-1", updated.SKU)

	got, err := svc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Title, got.Title)
}

func TestUpdateProduct_SKU(t *testing.T) {
	svc := newProductService(t, nil)
	ctx := context.Background()

	a, err := svc.CreateProduct(ctx, createRequest("A"))
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, createRequest("B"))
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, a.ID, &dto.UpdateProductRequest{SKU: ptr("B")})
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)

	// same sku is not a conflict with itself
	_, err = svc.UpdateProduct(ctx, a.ID, &dto.UpdateProductRequest{SKU: ptr("A"), Title: ptr("x")})
	require.NoError(t, err)

	renamed, err := svc.UpdateProduct(ctx, a.ID, &dto.UpdateProductRequest{SKU: ptr("C")})
	require.NoError(t, err)
	assert.Equal(t, "C", renamed.SKU)

	_, err = svc.GetProductBySKU(ctx, "A")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc := newProductService(t, nil)

	_, err := svc.UpdateProduct(context.Background(), "missing", &dto.UpdateProductRequest{Title: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdateProduct_InvalidLeavesRecordUntouched(t *testing.T) {
	svc := newProductService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, createRequest("PJ-1"))
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, created.ID, &dto.UpdateProductRequest{
		Title:  ptr("new"),
		Weight: ptr(-2.0),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMeasurement)

	got, err := svc.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pallet jack", got.Title)
}

func TestUpdateProduct_EmptyIsNoop(t *testing.T) {
	svc := newProductService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, createRequest("PJ-1"))
	require.NoError(t, err)

	got, err := svc.UpdateProduct(ctx, created.ID, &dto.UpdateProductRequest{})
	require.NoError(t, err)
	assert.Equal(t, created.UpdatedAt, got.UpdatedAt)
}

func TestToggleActive_TwiceRestores(t *testing.T) {
	svc := newProductService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, createRequest("PJ-1"))
	require.NoError(t, err)

	first, err := svc.ToggleActive(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, first.Active)

	active, err := svc.ListProducts(ctx, domain.ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)

	second, err := svc.ToggleActive(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Active, second.Active)

	_, err = svc.ToggleActive(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestRemoveProduct(t *testing.T) {
	svc := newProductService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, createRequest("PJ-1"))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveProduct(ctx, created.ID))

	_, err = svc.GetProductByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.ErrorIs(t, svc.RemoveProduct(ctx, created.ID), domain.ErrProductNotFound)

	// sku can be reused after removal
	_, err = svc.CreateProduct(ctx, createRequest("PJ-1"))
	assert.NoError(t, err)
}

func TestListProducts_ByType(t *testing.T) {
	svc := newProductService(t, nil)
	ctx := context.Background()

	req := createRequest("GLASS")
	req.ProductType = domain.ProductTypeFragile
	_, err := svc.CreateProduct(ctx, req)
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, createRequest("STEEL"))
	require.NoError(t, err)

	fragile := domain.ProductTypeFragile
	list, err := svc.ListProducts(ctx, domain.ProductFilter{Type: &fragile})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "GLASS", list[0].SKU)
}

func TestGetProductByUPC(t *testing.T) {
	svc := newProductService(t, nil)
	ctx := context.Background()

	req := createRequest("PJ-1")
	req.UPC = ptr("036000291452")
	created, err := svc.CreateProduct(ctx, req)
	require.NoError(t, err)

	got, err := svc.GetProductByUPC(ctx, "036000291452")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetProductByUPC(ctx, "000")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
