// Package repotest holds the behaviour every domain repository backend must
// share. Backend packages call these from their own tests.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mrops-br/warehouse-api/internal/domain"
	"github.com/mrops-br/warehouse-api/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewProduct builds a valid product with the given sku
func NewProduct(t *testing.T, sku string) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(domain.ProductFields{
		SKU:           sku,
		Title:         "Product " + sku,
		ProductType:   domain.ProductTypeRigid,
		Weight:        1.5,
		WeightUnit:    units.Kilogram,
		Length:        10,
		Width:         20,
		Height:        30,
		DimensionUnit: units.Centimeter,
	})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }

func keep(p *domain.Product) (*domain.Product, error) { return p, nil }

// ProductRepository runs the product repository contract against newRepo
func ProductRepository(t *testing.T, newRepo func(t *testing.T) domain.ProductRepository) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		repo := newRepo(t)
		p := NewProduct(t, "SKU-1")
		p.UPC = ptr("012345678905")
		p.MaxStockLevel = ptr(40)
		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.SKU, got.SKU)
		assert.Equal(t, p.Title, got.Title)
		assert.Equal(t, p.WeightUnit, got.WeightUnit)
		assert.Equal(t, p.DimensionUnit, got.DimensionUnit)
		assert.Equal(t, 1.5, got.Weight)
		assert.True(t, got.Active)
		assert.Nil(t, got.Description)
		assert.Nil(t, got.MinStockLevel)
		require.NotNil(t, got.MaxStockLevel)
		assert.Equal(t, 40, *got.MaxStockLevel)
		assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

		bySKU, err := repo.FindBySKU(ctx, "SKU-1")
		require.NoError(t, err)
		assert.Equal(t, p.ID, bySKU.ID)

		byUPC, err := repo.FindByUPC(ctx, "012345678905")
		require.NoError(t, err)
		assert.Equal(t, p.ID, byUPC.ID)
	})

	t.Run("not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		_, err = repo.FindBySKU(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		_, err = repo.FindByUPC(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrProductNotFound)
		_, err = repo.Modify(ctx, "missing", keep)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("duplicate sku rejected", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, NewProduct(t, "DUP")))
		err := repo.Create(ctx, NewProduct(t, "DUP"))
		assert.ErrorIs(t, err, domain.ErrDuplicateSKU)

		all, err := repo.FindAll(ctx, domain.ProductFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("concurrent creates with one sku", func(t *testing.T) {
		repo := newRepo(t)
		var (
			wg      sync.WaitGroup
			created atomic.Int32
		)
		for i := 0; i < 8; i++ {
			p := NewProduct(t, "RACE")
			wg.Add(1)
			go func() {
				defer wg.Done()
				if repo.Create(ctx, p) == nil {
					created.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), created.Load())
	})

	t.Run("list keeps creation order and filters", func(t *testing.T) {
		repo := newRepo(t)
		var ids []string
		for i := 0; i < 4; i++ {
			p := NewProduct(t, fmt.Sprintf("SKU-%d", i))
			if i == 1 {
				p.Active = false
			}
			if i == 2 {
				p.ProductType = domain.ProductTypeFragile
			}
			require.NoError(t, repo.Create(ctx, p))
			ids = append(ids, p.ID)
		}

		all, err := repo.FindAll(ctx, domain.ProductFilter{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		for i, p := range all {
			assert.Equal(t, ids[i], p.ID)
		}

		active, err := repo.FindAll(ctx, domain.ProductFilter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Len(t, active, 3)
		for _, p := range active {
			assert.True(t, p.Active)
		}

		fragile, err := repo.FindAll(ctx, domain.ProductFilter{Type: ptr(domain.ProductTypeFragile)})
		require.NoError(t, err)
		require.Len(t, fragile, 1)
		assert.Equal(t, ids[2], fragile[0].ID)
	})

	t.Run("update changes sku index", func(t *testing.T) {
		repo := newRepo(t)
		p := NewProduct(t, "OLD")
		require.NoError(t, repo.Create(ctx, p))

		updated, err := repo.Modify(ctx, p.ID, func(cur *domain.Product) (*domain.Product, error) {
			cur.SKU = "NEW"
			cur.Description = ptr("renamed")
			return cur, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "NEW", updated.SKU)

		_, err = repo.FindBySKU(ctx, "OLD")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)

		got, err := repo.FindBySKU(ctx, "NEW")
		require.NoError(t, err)
		require.NotNil(t, got.Description)
		assert.Equal(t, "renamed", *got.Description)

		// the old sku is free again
		require.NoError(t, repo.Create(ctx, NewProduct(t, "OLD")))
	})

	t.Run("update onto taken sku rejected", func(t *testing.T) {
		repo := newRepo(t)
		a := NewProduct(t, "A")
		b := NewProduct(t, "B")
		require.NoError(t, repo.Create(ctx, a))
		require.NoError(t, repo.Create(ctx, b))

		_, err := repo.Modify(ctx, b.ID, func(cur *domain.Product) (*domain.Product, error) {
			cur.SKU = "A"
			return cur, nil
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateSKU)

		got, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "B", got.SKU)
	})

	t.Run("rejected mutation leaves record untouched", func(t *testing.T) {
		repo := newRepo(t)
		p := NewProduct(t, "KEEP")
		require.NoError(t, repo.Create(ctx, p))

		boom := errors.New("boom")
		_, err := repo.Modify(ctx, p.ID, func(cur *domain.Product) (*domain.Product, error) {
			cur.Title = "half done"
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Product KEEP", got.Title)
	})

	t.Run("concurrent toggles are not lost", func(t *testing.T) {
		repo := newRepo(t)
		p := NewProduct(t, "FLIP")
		require.NoError(t, repo.Create(ctx, p))

		const toggles = 10
		var wg sync.WaitGroup
		errs := make(chan error, toggles)
		for i := 0; i < toggles; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Modify(ctx, p.ID, func(cur *domain.Product) (*domain.Product, error) {
					// widen the window between read and write
					time.Sleep(time.Millisecond)
					cur.Active = !cur.Active
					return cur, nil
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.Active, got.Active)
	})

	t.Run("concurrent patches to different fields all land", func(t *testing.T) {
		repo := newRepo(t)
		p := NewProduct(t, "MERGE")
		require.NoError(t, repo.Create(ctx, p))

		patches := []domain.ProductPatch{
			{Title: ptr("Renamed")},
			{LotTracked: ptr(true)},
			{MinStockLevel: ptr(5)},
		}
		var wg sync.WaitGroup
		errs := make(chan error, len(patches))
		for _, patch := range patches {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Modify(ctx, p.ID, func(cur *domain.Product) (*domain.Product, error) {
					time.Sleep(time.Millisecond)
					return patch.Apply(cur)
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.True(t, got.LotTracked)
		require.NotNil(t, got.MinStockLevel)
		assert.Equal(t, 5, *got.MinStockLevel)
	})

	t.Run("returned products are copies", func(t *testing.T) {
		repo := newRepo(t)
		p := NewProduct(t, "COPY")
		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		got.Title = "mutated"

		again, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Product COPY", again.Title)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		p := NewProduct(t, "GONE")
		require.NoError(t, repo.Create(ctx, p))
		require.NoError(t, repo.Delete(ctx, p.ID))

		_, err := repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
		_, err = repo.FindBySKU(ctx, "GONE")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

// TaskRepository runs the task repository contract against newRepo
func TaskRepository(t *testing.T, newRepo func(t *testing.T) domain.TaskRepository) {
	ctx := context.Background()

	t.Run("create list update", func(t *testing.T) {
		repo := newRepo(t)

		var ids []string
		for _, text := range []string{"receive", "put away", "pick"} {
			task, err := domain.NewTask(text)
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, task))
			ids = append(ids, task.ID)
		}

		tasks, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		assert.Equal(t, "receive", tasks[0].Text)
		assert.Equal(t, ids[2], tasks[2].ID)

		toggled, err := repo.Modify(ctx, ids[1], func(task *domain.Task) error {
			task.Toggle()
			return nil
		})
		require.NoError(t, err)
		assert.True(t, toggled.IsCompleted)

		got, err := repo.FindByID(ctx, ids[1])
		require.NoError(t, err)
		assert.True(t, got.IsCompleted)
	})

	t.Run("not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)

		_, err = repo.Modify(ctx, "missing", func(*domain.Task) error { return nil })
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("concurrent toggles are not lost", func(t *testing.T) {
		repo := newRepo(t)
		task, err := domain.NewTask("count bins")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, task))

		const toggles = 7
		var wg sync.WaitGroup
		errs := make(chan error, toggles)
		for i := 0; i < toggles; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Modify(ctx, task.ID, func(cur *domain.Task) error {
					time.Sleep(time.Millisecond)
					cur.Toggle()
					return nil
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := repo.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, got.IsCompleted)
	})

	t.Run("empty list", func(t *testing.T) {
		repo := newRepo(t)
		tasks, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})
}
