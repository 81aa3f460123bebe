package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huyteo/Server-danentang-GK/internal/product"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection. Uniqueness of
// productId is enforced by a unique index; duplicate-key errors from the
// server are the authoritative duplicate signal.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo ensures the unique productId index and returns the repository.
func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idxModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "productId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("productId_unique"),
	}
	if _, err := col.Indexes().CreateOne(ctx, idxModel); err != nil {
		return nil, fmt.Errorf("ensure productId index: %w", err)
	}
	return &MongoRepo{col: col}, nil
}

// Ping checks the server behind the collection; used by the readiness probe.
func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, nil)
}

func (m *MongoRepo) List(ctx context.Context) ([]*product.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)
	out := []*product.Product{}
	for cur.Next(ctx) {
		var p product.Product
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		out = append(out, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

func (m *MongoRepo) FindByProductID(ctx context.Context, productID string) (*product.Product, error) {
	var p product.Product
	err := m.col.FindOne(ctx, bson.M{"productId": productID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product %q: %w", productID, err)
	}
	return &p, nil
}

func (m *MongoRepo) Create(ctx context.Context, p *product.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := m.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateProductID
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (m *MongoRepo) DeleteByProductID(ctx context.Context, productID string) (*product.Product, error) {
	var p product.Product
	err := m.col.FindOneAndDelete(ctx, bson.M{"productId": productID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete product %q: %w", productID, err)
	}
	return &p, nil
}

func (m *MongoRepo) Update(ctx context.Context, id string, u product.Update) (*product.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// a malformed record id cannot match any document
		return nil, ErrNotFound
	}
	set := bson.M{"updatedAt": time.Now().UTC()}
	if u.ProductID != nil {
		set["productId"] = *u.ProductID
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.ImagePath != nil {
		set["imagePath"] = *u.ImagePath
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated product.Product
	err = m.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateProductID
		}
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return &updated, nil
}
