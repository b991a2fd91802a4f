package domain

import "context"

// Product is a priced item owned by a user. The owner is embedded when the
// collection is fetched.
type Product struct {
	BaseModel
	Name   string  `gorm:"size:200;not null" json:"name"`
	Price  float64 `gorm:"not null" json:"price"`
	UserID uint    `gorm:"not null;index" json:"-"`
	User   User    `gorm:"foreignKey:UserID" json:"user"`
}

// ProductRepository defines the data access interface for products.
type ProductRepository interface {
	// List returns every product in id order with its owner preloaded.
	List(ctx context.Context) ([]Product, error)
}

// ProductService defines the business logic interface for products.
type ProductService interface {
	ListProducts(ctx context.Context) ([]Product, error)
	// Invalidate drops any cached copy of the collection.
	Invalidate(ctx context.Context) error
}
