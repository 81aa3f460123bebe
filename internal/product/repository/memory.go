package repository

import (
	"context"
	"sync"
	"time"

	"github.com/huyteo/Server-danentang-GK/internal/product"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory repository used for unit tests and as the
// fallback when no MongoDB URI is configured. It enforces the same productId
// uniqueness as the Mongo unique index and keeps insertion order.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	store map[primitive.ObjectID]*product.Product
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[primitive.ObjectID]*product.Product)}
}

func (m *MemoryRepo) List(ctx context.Context) ([]*product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*product.Product, 0, len(m.order))
	for _, id := range m.order {
		cp := *m.store[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepo) FindByProductID(ctx context.Context, productID string) (*product.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p := m.byProductID(productID); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Create(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byProductID(p.ProductID) != nil {
		return ErrDuplicateProductID
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.store[p.ID] = &cp
	m.order = append(m.order, p.ID)
	return nil
}

func (m *MemoryRepo) DeleteByProductID(ctx context.Context, productID string) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.byProductID(productID)
	if p == nil {
		return nil, ErrNotFound
	}
	delete(m.store, p.ID)
	for i, id := range m.order {
		if id == p.ID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return p, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, u product.Update) (*product.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[oid]
	if !ok {
		return nil, ErrNotFound
	}
	if u.ProductID != nil && *u.ProductID != p.ProductID {
		if m.byProductID(*u.ProductID) != nil {
			return nil, ErrDuplicateProductID
		}
	}
	u.Apply(p)
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

// byProductID must be called with the lock held.
func (m *MemoryRepo) byProductID(productID string) *product.Product {
	for _, id := range m.order {
		if p := m.store[id]; p.ProductID == productID {
			return p
		}
	}
	return nil
}
