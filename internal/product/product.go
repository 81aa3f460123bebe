package product

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. ID is the store-assigned record id; ProductID is
// the external identifier clients choose and must be unique.
type Product struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID string             `json:"productId" bson:"productId"`
	Category  string             `json:"category" bson:"category"`
	Price     float64            `json:"price" bson:"price"`
	ImagePath string             `json:"imagePath" bson:"imagePath"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Update is a partial field set; a nil pointer means the field is left untouched.
type Update struct {
	ProductID *string
	Category  *string
	Price     *float64
	ImagePath *string
}

// Empty reports whether no field is set.
func (u Update) Empty() bool {
	return u.ProductID == nil && u.Category == nil && u.Price == nil && u.ImagePath == nil
}

// Apply copies the set fields onto p.
func (u Update) Apply(p *Product) {
	if u.ProductID != nil {
		p.ProductID = *u.ProductID
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.ImagePath != nil {
		p.ImagePath = *u.ImagePath
	}
}
