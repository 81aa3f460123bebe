package repository

import (
	"context"
	"errors"

	"github.com/huyteo/Server-danentang-GK/internal/product"
)

var (
	ErrNotFound           = errors.New("product not found")
	ErrDuplicateProductID = errors.New("product id already exists")
)

// Repository is the persistence contract for products. Lookups by ProductID
// use the external identifier; Update is keyed by the store record id.
type Repository interface {
	List(ctx context.Context) ([]*product.Product, error)
	FindByProductID(ctx context.Context, productID string) (*product.Product, error)
	Create(ctx context.Context, p *product.Product) error
	DeleteByProductID(ctx context.Context, productID string) (*product.Product, error)
	Update(ctx context.Context, id string, u product.Update) (*product.Product, error)
}
