package entity

import "time"

// Estados de proyecto.
const (
	ProjectStatusActive = "activo"
	ProjectStatusPaused = "pausado"
	ProjectStatusClosed = "cerrado"
)

// Project agrupa órdenes de trabajo (obra, cliente, centro de costo).
type Project struct {
	ID          string
	Code        string
	Name        string
	Description string
	Client      string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
