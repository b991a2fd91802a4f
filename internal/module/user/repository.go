package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/simp-lee/catalog/internal/domain"
	"github.com/simp-lee/catalog/internal/pkg"
)

// userRepository implements domain.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository backed by the given GORM database.
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepository{db: db}
}

// SearchByName returns the users whose name contains name, ignoring case,
// ordered by id. Only id and name are loaded.
//
// On SQLite the rows are folded and filtered in Go, since LOWER there leaves
// non-ASCII letters untouched.
func (r *userRepository) SearchByName(ctx context.Context, name string) ([]domain.User, error) {
	if r.db.Dialector.Name() == "sqlite" {
		return r.searchFolded(ctx, name)
	}

	users := []domain.User{}
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Select("id", "name").
		Scopes(pkg.ContainsFold("name", name), pkg.OrderByID).
		Find(&users).Error
	if err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

func (r *userRepository) searchFolded(ctx context.Context, name string) ([]domain.User, error) {
	var all []domain.User
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Select("id", "name").
		Scopes(pkg.OrderByID).
		Find(&all).Error
	if err != nil {
		return nil, mapError(err)
	}

	users := make([]domain.User, 0, len(all))
	for _, u := range all {
		if pkg.FoldContains(u.Name, name) {
			users = append(users, u)
		}
	}
	return users, nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}
