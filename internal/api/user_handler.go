package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/storefront-labs/storefront-api/internal/api/shared"
	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/validation"
)

// UserService is the user behavior the handler needs.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.UserDetail, error)
	CreateUser(ctx context.Context, req validation.UserCreateRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req validation.UserUpdateRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	users  UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserService, log *slog.Logger) *UserHandler {
	if users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("user service cannot be nil for UserHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		users:  users,
		logger: log.With(slog.String("component", "user_handler")),
	}
}

// ListUsers handles GET /users requests.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, users, "Users fetched")
	return nil
}

// GetUser handles GET /users/{id} requests.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) error {
	id, err := getPathUUID(r, "id")
	if err != nil {
		return err
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, user, "User fetched")
	return nil
}

// CreateUser handles POST /users requests.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) error {
	payload, err := shared.DecodeJSON(w, r)
	if err != nil {
		return err
	}
	req, err := validation.ParseUserCreate(payload)
	if err != nil {
		return err
	}

	user, err := h.users.CreateUser(r.Context(), req)
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusCreated, user, "User created")
	return nil
}

// UpdateUser handles PUT /users/{id} requests.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) error {
	id, err := getPathUUID(r, "id")
	if err != nil {
		return err
	}
	payload, err := shared.DecodeJSON(w, r)
	if err != nil {
		return err
	}
	req, err := validation.ParseUserUpdate(payload)
	if err != nil {
		return err
	}

	user, err := h.users.UpdateUser(r.Context(), id, req)
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, user, "User updated")
	return nil
}

// DeleteUser handles DELETE /users/{id} requests.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) error {
	id, err := getPathUUID(r, "id")
	if err != nil {
		return err
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, nil, "User deleted")
	return nil
}
