package entity

import "time"

// User representa un usuario del sistema.
// Permissions son permisos adicionales que se suman a los del rol.
type User struct {
	ID           string
	Name         string
	Email        string
	DNI          string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	RoleID       string
	RoleName     string // solo lectura, resuelto con JOIN
	Permissions  Permissions
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
