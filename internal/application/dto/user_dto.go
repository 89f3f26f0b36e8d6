package dto

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	DNI         string             `json:"dni"`
	Password    string             `json:"password"`
	RoleID      string             `json:"role_id"`
	Permissions entity.Permissions `json:"permissions,omitempty"`
}

// UpdateUserRequest entrada parcial para actualizar un usuario.
type UpdateUserRequest struct {
	Name        *string            `json:"name"`
	Email       *string            `json:"email"`
	DNI         *string            `json:"dni"`
	RoleID      *string            `json:"role_id"`
	Permissions entity.Permissions `json:"permissions"`
	Active      *bool              `json:"active"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	DNI         string             `json:"dni"`
	RoleID      string             `json:"role_id"`
	Role        string             `json:"role"`
	Permissions entity.Permissions `json:"permissions"`
	Active      bool               `json:"active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ProfileResponse usuario autenticado con permisos efectivos (rol + propios).
type ProfileResponse struct {
	UserResponse
	EffectivePermissions entity.Permissions `json:"effective_permissions"`
}

// ChangePasswordRequest entrada para PUT /api/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
