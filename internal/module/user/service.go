package user

import (
	"context"

	"github.com/simp-lee/catalog/internal/domain"
)

// userService implements domain.UserService.
type userService struct {
	repo domain.UserRepository
}

// NewUserService creates a new UserService with the given repository.
func NewUserService(repo domain.UserRepository) domain.UserService {
	return &userService{repo: repo}
}

// SearchUsers returns every user whose name contains name. An empty name
// matches all users. The result is never nil on success.
func (s *userService) SearchUsers(ctx context.Context, name string) ([]domain.User, error) {
	users, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
