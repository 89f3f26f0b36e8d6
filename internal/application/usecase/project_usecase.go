package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var projectStatuses = []string{entity.ProjectStatusActive, entity.ProjectStatusPaused, entity.ProjectStatusClosed}

// ProjectUseCase CRUD de proyectos.
type ProjectUseCase struct {
	repo repository.ProjectRepository
}

// NewProjectUseCase construye el caso de uso.
func NewProjectUseCase(repo repository.ProjectRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo}
}

func applyProject(p *entity.Project, in dto.ProjectRequest) error {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return fmt.Errorf("%w: code y name son obligatorios", domain.ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = entity.ProjectStatusActive
	}
	if !lo.Contains(projectStatuses, in.Status) {
		return fmt.Errorf("%w: status debe ser uno de %v", domain.ErrInvalidInput, projectStatuses)
	}
	start, err := ParseDate("start_date", in.StartDate)
	if err != nil {
		return err
	}
	end, err := ParseDate("end_date", in.EndDate)
	if err != nil {
		return err
	}
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	p.Code = in.Code
	p.Name = in.Name
	p.Description = in.Description
	p.Client = in.Client
	p.Status = in.Status
	p.StartDate = start
	p.EndDate = end
	return nil
}

// Create crea un proyecto con código único.
func (uc *ProjectUseCase) Create(ctx context.Context, in dto.ProjectRequest) (*dto.ProjectResponse, error) {
	p := &entity.Project{ID: uuid.New().String()}
	if err := applyProject(p, in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, p.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// GetByID obtiene un proyecto.
func (uc *ProjectUseCase) GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProjectResponse(p), nil
}

// Update reemplaza los datos del proyecto.
func (uc *ProjectUseCase) Update(ctx context.Context, id string, in dto.ProjectRequest) (*dto.ProjectResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	prevCode := p.Code
	if err := applyProject(p, in); err != nil {
		return nil, err
	}
	if p.Code != prevCode {
		other, err := uc.repo.GetByCode(ctx, p.Code)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// List lista proyectos, opcionalmente por estado.
func (uc *ProjectUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]dto.ProjectResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(p *entity.Project, _ int) dto.ProjectResponse { return *toProjectResponse(p) }), nil
}

// Delete elimina un proyecto sin órdenes de trabajo.
func (uc *ProjectUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Client:      p.Client,
		Status:      p.Status,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
