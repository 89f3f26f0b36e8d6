package entity

import "time"

// Warehouse representa un almacén o depósito que recibe mercadería.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
