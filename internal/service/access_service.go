package service

import (
	"context"

	"storefront-service/internal/entity"
)

// RoleReader is the slice of the user store the access policy needs.
type RoleReader interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
}

// AccessService is the single place role checks happen. Handlers never compare
// role strings themselves.
type AccessService struct {
	users RoleReader
}

func NewAccessService(users RoleReader) *AccessService {
	return &AccessService{users: users}
}

// Role returns the stored role for the email. A missing user record means
// plain "user", never an error: elevated actions are simply denied.
func (s *AccessService) Role(ctx context.Context, email string) string {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return entity.RoleUser
	}
	return user.Role
}

// RequireSelfOrAdmin allows the resource owner and admins.
func (s *AccessService) RequireSelfOrAdmin(ctx context.Context, principal, owner string) error {
	if principal != "" && principal == owner {
		return nil
	}
	if s.Role(ctx, principal) == entity.RoleAdmin {
		return nil
	}
	return ErrForbidden
}

func (s *AccessService) RequireManager(ctx context.Context, principal string) error {
	if s.Role(ctx, principal) == entity.RoleManager {
		return nil
	}
	return ErrForbidden
}

func (s *AccessService) RequireAdmin(ctx context.Context, principal string) error {
	if s.Role(ctx, principal) == entity.RoleAdmin {
		return nil
	}
	return ErrForbidden
}
