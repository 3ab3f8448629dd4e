package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront-service/internal/entity"
)

type UserRepo interface {
	UpsertUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	UpdateUserRole(ctx context.Context, id int64, role string) error
	DeleteUser(ctx context.Context, id int64) error
}

type JwtCustomClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type UserService struct {
	repo      UserRepo
	jwtSecret string
}

func NewUserService(repo UserRepo, jwtSecret string) *UserService {
	return &UserService{repo: repo, jwtSecret: jwtSecret}
}

// UpsertUser records a user on first sign-in. Repeat calls with the same email
// return the existing record untouched.
func (s *UserService) UpsertUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	storedUser, err := s.repo.UpsertUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error upserting user")
		return nil, err
	}
	return storedUser, nil
}

// Login finds or creates the user and issues a bearer token for them.
func (s *UserService) Login(ctx context.Context, email, name string) (string, *entity.User, error) {
	user, err := s.repo.UpsertUser(ctx, &entity.User{Email: email, Name: name})
	if err != nil {
		return "", nil, err
	}

	claims := &JwtCustomClaims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}

	return t, user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error getting user %s", email)
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *UserService) MakeAdmin(ctx context.Context, id int64) error {
	err := s.repo.UpdateUserRole(ctx, id, entity.RoleAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error elevating user %d", id)
		return err
	}
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		logger.Error().Err(err).Msgf("Error deleting user %d", id)
		return err
	}
	return nil
}
