package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/store"
	"github.com/storefront-labs/storefront-api/internal/validation"
)

// UserServiceImpl serves the user use cases.
type UserServiceImpl struct {
	store  store.Store
	logger *slog.Logger
}

// NewUserService creates a UserServiceImpl.
func NewUserService(s store.Store, log *slog.Logger) *UserServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &UserServiceImpl{
		store:  s,
		logger: log.With("component", "user_service"),
	}
}

// ListUsers returns every user, newest first.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns a user together with their cart items.
func (s *UserServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*domain.UserDetail, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, MsgUserNotFound)
	}

	items, err := s.store.CartItems().ListByUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	return &domain.UserDetail{User: *user, CartItems: items}, nil
}

// CreateUser saves a new user. A taken email surfaces as store.ErrDuplicate.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req validation.UserCreateRequest) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user := domain.NewUser(req.Email)
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user created", "user_id", user.ID)
	return user, nil
}

// UpdateUser applies the fields present in req. It follows the pattern of
// retrieving the full user, changing the requested fields and passing the
// complete user back to the store.
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	id uuid.UUID,
	req validation.UserUpdateRequest,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, MsgUserNotFound)
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Info("user updated", "user_id", user.ID)
	return user, nil
}

// DeleteUser removes a user and all of their cart items in one transaction.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removed int64
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx store.Store) error {
		n, err := tx.CartItems().DeleteByUser(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info("user deleted",
		"user_id", id,
		"cart_items_removed", removed)
	return nil
}
