package domain

import "context"

// User is the owner of products. The listing only ever exposes id and name.
type User struct {
	BaseModel
	Name string `gorm:"size:100;not null;index" json:"name"`
}

// UserRepository defines the data access interface for users.
type UserRepository interface {
	// SearchByName returns users whose name contains name, ignoring case.
	// An empty name matches every user.
	SearchByName(ctx context.Context, name string) ([]User, error)
}

// UserService defines the business logic interface for users.
type UserService interface {
	SearchUsers(ctx context.Context, name string) ([]User, error)
}
