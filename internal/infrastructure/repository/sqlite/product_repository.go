package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/units"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const productColumns = `id, sku, upc, title, description, product_type,
	weight, weight_unit, length, width, height, dimension_unit,
	country_of_origin, hs_tariff_code, lot_tracked, serial_tracked, expiration_tracked,
	min_stock_level, max_stock_level, active, created_at, updated_at`

// ProductRepository is a SQLite implementation of domain.ProductRepository
type ProductRepository struct {
	db     *DB
	tracer trace.Tracer
	logger *slog.Logger
}

// NewProductRepository creates a product repository over db
func NewProductRepository(db *DB, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{db: db, tracer: tracer, logger: logger}
}

// Create inserts a new product. The unique sku index turns a concurrent
// duplicate into ErrDuplicateSKU.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", p.ID),
		attribute.String("product.sku", p.SKU),
	)

	_, err := r.db.db.ExecContext(ctx, `INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SKU, nullString(p.UPC), p.Title, nullString(p.Description), string(p.ProductType),
		p.Weight, string(p.WeightUnit), p.Length, p.Width, p.Height, string(p.DimensionUnit),
		nullString(p.CountryOfOrigin), nullString(p.HSTariffCode),
		boolToInt(p.LotTracked), boolToInt(p.SerialTracked), boolToInt(p.ExpirationTracked),
		nullInt(p.MinStockLevel), nullInt(p.MaxStockLevel), boolToInt(p.Active),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			err = fmt.Errorf("sku %q: %w", p.SKU, domain.ErrDuplicateSKU)
		} else {
			err = fmt.Errorf("inserting product: %w", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to insert product")
		return err
	}

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.String("product_id", p.ID),
		slog.String("product_sku", p.SKU),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))
	return r.findOne(ctx, span, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
}

// FindBySKU retrieves a product through the by_sku index
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindBySKU")
	defer span.End()

	span.SetAttributes(attribute.String("product.sku", sku))
	return r.findOne(ctx, span, `SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
}

// FindByUPC returns the first product, in creation order, carrying upc
func (r *ProductRepository) FindByUPC(ctx context.Context, upc string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByUPC")
	defer span.End()

	span.SetAttributes(attribute.String("product.upc", upc))
	return r.findOne(ctx, span,
		`SELECT `+productColumns+` FROM products WHERE upc = ? ORDER BY rowid LIMIT 1`, upc)
}

func (r *ProductRepository) findOne(ctx context.Context, span trace.Span, query string, arg string) (*domain.Product, error) {
	p, err := scanProduct(r.db.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "Product not found")
		r.logger.DebugContext(ctx, "Product not found", slog.String("key", arg))
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		err = fmt.Errorf("querying product: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Product found")
	return p, nil
}

// FindAll retrieves the products matching filter in creation order
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	span.SetAttributes(attribute.Bool("filter.active_only", filter.ActiveOnly))

	var (
		where []string
		args  []any
	)
	if filter.ActiveOnly {
		where = append(where, "active = 1")
	}
	if filter.Type != nil {
		where = append(where, "product_type = ?")
		args = append(args, string(*filter.Type))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rowid"

	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		err = fmt.Errorf("listing products: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, err
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			err = fmt.Errorf("scanning product: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		err = fmt.Errorf("iterating products: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Iteration failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.InfoContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// Modify applies mutate to the stored product inside one transaction.
// The single pooled connection serialises concurrent transactions.
func (r *ProductRepository) Modify(ctx context.Context, id string, mutate domain.ProductMutation) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Modify")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	next, err := r.modify(ctx, id, mutate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update product")
		return nil, err
	}

	r.logger.InfoContext(ctx, "Product updated in repository",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return next, nil
}

func (r *ProductRepository) modify(ctx context.Context, id string, mutate domain.ProductMutation) (*domain.Product, error) {
	tx, err := r.db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := scanProduct(tx.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}

	next, err := mutate(current)
	if err != nil {
		return nil, err
	}
	next.ID = id

	_, err = tx.ExecContext(ctx, `UPDATE products SET
			sku = ?, upc = ?, title = ?, description = ?, product_type = ?,
			weight = ?, weight_unit = ?, length = ?, width = ?, height = ?, dimension_unit = ?,
			country_of_origin = ?, hs_tariff_code = ?,
			lot_tracked = ?, serial_tracked = ?, expiration_tracked = ?,
			min_stock_level = ?, max_stock_level = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		next.SKU, nullString(next.UPC), next.Title, nullString(next.Description), string(next.ProductType),
		next.Weight, string(next.WeightUnit), next.Length, next.Width, next.Height, string(next.DimensionUnit),
		nullString(next.CountryOfOrigin), nullString(next.HSTariffCode),
		boolToInt(next.LotTracked), boolToInt(next.SerialTracked), boolToInt(next.ExpirationTracked),
		nullInt(next.MinStockLevel), nullInt(next.MaxStockLevel), boolToInt(next.Active),
		formatTime(next.UpdatedAt), id,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("sku %q: %w", next.SKU, domain.ErrDuplicateSKU)
		}
		return nil, fmt.Errorf("updating product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing product update: %w", err)
	}
	return next, nil
}

// Delete removes a product
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	res, err := r.db.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		err = fmt.Errorf("deleting product: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete product")
		return err
	}

	if n, _ := res.RowsAffected(); n == 0 {
		span.SetStatus(codes.Error, "Product not found")
		return domain.ErrProductNotFound
	}

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.String("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p                                 domain.Product
		upc, description, country, hsCode sql.NullString
		productType, weightUnit, dimUnit  string
		lot, serial, expiration, active   int
		minStock, maxStock                sql.NullInt64
		createdAt, updatedAt              string
	)

	err := row.Scan(
		&p.ID, &p.SKU, &upc, &p.Title, &description, &productType,
		&p.Weight, &weightUnit, &p.Length, &p.Width, &p.Height, &dimUnit,
		&country, &hsCode, &lot, &serial, &expiration,
		&minStock, &maxStock, &active, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.UPC = stringPtr(upc)
	p.Description = stringPtr(description)
	p.CountryOfOrigin = stringPtr(country)
	p.HSTariffCode = stringPtr(hsCode)
	p.ProductType = domain.ProductType(productType)
	p.WeightUnit = units.WeightUnit(weightUnit)
	p.DimensionUnit = units.DimensionUnit(dimUnit)
	p.LotTracked = lot != 0
	p.SerialTracked = serial != 0
	p.ExpirationTracked = expiration != 0
	p.Active = active != 0
	p.MinStockLevel = intPtr(minStock)
	p.MaxStockLevel = intPtr(maxStock)

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &p, nil
}
