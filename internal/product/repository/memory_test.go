package repository

import (
	"context"
	"testing"

	"github.com/huyteo/Server-danentang-GK/internal/product"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	p := &product.Product{ProductID: "p1", Category: "shoes", Price: 20, ImagePath: "1.jpg"}
	require.NoError(t, r.Create(ctx, p))
	require.False(t, p.ID.IsZero())
	require.False(t, p.CreatedAt.IsZero())

	got, err := r.FindByProductID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "shoes", got.Category)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	price := 35.5
	updated, err := r.Update(ctx, p.ID.Hex(), product.Update{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 35.5, updated.Price)
	require.Equal(t, "p1", updated.ProductID)
	require.Equal(t, "1.jpg", updated.ImagePath)

	deleted, err := r.DeleteByProductID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, p.ID, deleted.ID)
	_, err = r.FindByProductID(ctx, "p1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoRejectsDuplicateProductID(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	require.NoError(t, r.Create(ctx, &product.Product{ProductID: "p1", Category: "a", Price: 1}))
	require.ErrorIs(t, r.Create(ctx, &product.Product{ProductID: "p1", Category: "b", Price: 2}), ErrDuplicateProductID)

	other := &product.Product{ProductID: "p2", Category: "c", Price: 3}
	require.NoError(t, r.Create(ctx, other))
	_, err := r.Update(ctx, other.ID.Hex(), product.Update{ProductID: strPtr("p1")})
	require.ErrorIs(t, err, ErrDuplicateProductID)

	// renaming to its own id is not a conflict
	_, err = r.Update(ctx, other.ID.Hex(), product.Update{ProductID: strPtr("p2")})
	require.NoError(t, err)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestMemoryRepoKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, r.Create(ctx, &product.Product{ProductID: id, Category: "x", Price: 1}))
	}
	_, err := r.DeleteByProductID(ctx, "a")
	require.NoError(t, err)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "c", list[0].ProductID)
	require.Equal(t, "b", list[1].ProductID)
}

func TestMemoryRepoNotFound(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	_, err := r.DeleteByProductID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.Update(ctx, "not-an-object-id", product.Update{Category: strPtr("x")})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.Update(ctx, primitive.NewObjectID().Hex(), product.Update{Category: strPtr("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	require.NoError(t, r.Create(ctx, &product.Product{ProductID: "p1", Category: "a", Price: 1}))

	got, err := r.FindByProductID(ctx, "p1")
	require.NoError(t, err)
	got.Category = "mutated"

	again, err := r.FindByProductID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "a", again.Category)
}
