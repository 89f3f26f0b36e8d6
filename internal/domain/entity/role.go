package entity

import (
	"slices"
	"time"
)

// Roles del sistema (sembrados por la migración inicial, no se pueden borrar).
const (
	RoleAdmin       = "admin"
	RoleAlmacenero  = "almacenero"
	RoleSolicitante = "solicitante"
)

// Acciones de permiso.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

// Módulos sujetos a permisos.
const (
	ModuleUsers      = "users"
	ModuleRoles      = "roles"
	ModuleWarehouses = "warehouses"
	ModuleProducts   = "products"
	ModuleOrders     = "orders"
	ModuleProjects   = "projects"
	ModuleWorkOrders = "work_orders"
	ModuleReceipts   = "receipts"
	ModuleMovements  = "movements"
	ModuleReports    = "reports"
)

// Permissions mapea módulo → acciones permitidas. Se persiste como JSONB.
type Permissions map[string][]string

// Allows informa si el conjunto contiene la acción para el módulo.
func (p Permissions) Allows(module, action string) bool {
	return slices.Contains(p[module], action)
}

// Merge devuelve la unión de p y other sin duplicados.
func (p Permissions) Merge(other Permissions) Permissions {
	out := make(Permissions, len(p)+len(other))
	for _, src := range []Permissions{p, other} {
		for module, actions := range src {
			for _, a := range actions {
				if !slices.Contains(out[module], a) {
					out[module] = append(out[module], a)
				}
			}
		}
	}
	return out
}

// Role agrupa permisos asignables a usuarios.
type Role struct {
	ID          string
	Name        string
	Description string
	Permissions Permissions
	IsSystem    bool // roles base: no se eliminan ni renombran
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
