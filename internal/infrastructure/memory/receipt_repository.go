package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ReceiptRepo remitos en memoria.
type ReceiptRepo struct {
	s *Store
}

// NewReceiptRepository construye el repositorio.
func NewReceiptRepository(s *Store) *ReceiptRepo {
	return &ReceiptRepo{s: s}
}

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

func (r *ReceiptRepo) Create(_ context.Context, rc *entity.Receipt) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("receipts.create"); err != nil {
		return err
	}
	c := cloneReceipt(*rc)
	c.Products = nil
	r.s.receipts[rc.ID] = c
	return nil
}

func (r *ReceiptRepo) AddProduct(_ context.Context, line *entity.ReceiptProduct) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("receipts.add_product"); err != nil {
		return err
	}
	rc, ok := r.s.receipts[line.ReceiptID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.products[line.ProductID]; !ok {
		return domain.ErrNotFound
	}
	rc.Products = append(rc.Products, *line)
	r.s.receipts[rc.ID] = rc
	return nil
}

func (r *ReceiptRepo) get(id string) *entity.Receipt {
	rc, ok := r.s.receipts[id]
	if !ok {
		return nil
	}
	c := cloneReceipt(rc)
	for i := range c.Products {
		c.Products[i].ProductName = r.s.products[c.Products[i].ProductID].Name
	}
	return &c
}

func (r *ReceiptRepo) GetByID(_ context.Context, id string) (*entity.Receipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.get(id), nil
}

func (r *ReceiptRepo) GetForUpdate(ctx context.Context, id string) (*entity.Receipt, error) {
	return r.GetByID(ctx, id)
}

func (r *ReceiptRepo) UpdateStatus(_ context.Context, id, status string, verified bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.receipts[id]
	if !ok {
		return domain.ErrNotFound
	}
	rc.Status = status
	rc.VerificationStatus = verified
	r.s.receipts[id] = rc
	return nil
}

func (r *ReceiptRepo) List(_ context.Context, warehouseID, status string, limit, offset int) ([]*entity.Receipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Receipt, 0)
	for id, rc := range r.s.receipts {
		if warehouseID != "" && rc.WarehouseID != warehouseID {
			continue
		}
		if status != "" && rc.Status != status {
			continue
		}
		out = append(out, r.get(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.After(out[j].EntryDate) })
	return page(out, limit, offset), nil
}

func (r *ReceiptRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.receipts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.receipts, id)
	return nil
}
