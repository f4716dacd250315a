package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrDuplicateSKU    = errors.New("duplicate sku")
)

// ProductFilter narrows a product listing. Zero value lists everything.
type ProductFilter struct {
	ActiveOnly bool
	Type       *ProductType
}

// Matches reports whether p passes the filter
func (f ProductFilter) Matches(p *Product) bool {
	if f.ActiveOnly && !p.Active {
		return false
	}
	if f.Type != nil && p.ProductType != *f.Type {
		return false
	}
	return true
}

// ProductMutation computes the next state of a stored product from its
// current one. It must not call back into the repository.
type ProductMutation func(current *Product) (*Product, error)

// TaskMutation edits a stored task in place
type TaskMutation func(task *Task) error

// ProductRepository defines the contract for product storage.
// Implementations reject a second record with an existing SKU with ErrDuplicateSKU.
// Modify runs read, mutate and write as one step so concurrent mutations of
// the same record never overwrite each other.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindByUPC(ctx context.Context, upc string) (*Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]*Product, error)
	Modify(ctx context.Context, id string, mutate ProductMutation) (*Product, error)
	Delete(ctx context.Context, id string) error
}

// TaskRepository defines the contract for task storage
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	FindAll(ctx context.Context) ([]*Task, error)
	Modify(ctx context.Context, id string, mutate TaskMutation) (*Task, error)
}
