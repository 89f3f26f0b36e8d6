package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products   ProductRepository
	Receipts   ReceiptRepository
	Movements  MovementRepository
	Orders     OrderRepository
	WorkOrders WorkOrderRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
