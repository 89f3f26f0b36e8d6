package dto

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CreateRoleRequest entrada para crear un rol.
type CreateRoleRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Permissions entity.Permissions `json:"permissions"`
}

// UpdateRoleRequest entrada parcial para actualizar un rol.
type UpdateRoleRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Permissions entity.Permissions `json:"permissions"`
}

// RoleResponse salida de un rol.
type RoleResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Permissions entity.Permissions `json:"permissions"`
	IsSystem    bool               `json:"is_system"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
