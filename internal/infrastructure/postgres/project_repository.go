package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

var projectColumns = []string{
	"id", "code", "name", "description", "client", "status", "start_date", "end_date", "created_at", "updated_at",
}

// ProjectRepo proyectos sobre PostgreSQL.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador.
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

func scanProject(row scanner) (*entity.Project, error) {
	var p entity.Project
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Client, &p.Status,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query, args, err := psql.Insert("projects").Columns(projectColumns...).
		Values(p.ID, p.Code, p.Name, p.Description, p.Client, p.Status, p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert project: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) getOne(ctx context.Context, where sq.Eq) (*entity.Project, error) {
	query, args, err := psql.Select(projectColumns...).From("projects").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get project: %w", err)
	}
	p, err := scanProject(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	if !validKey(id) {
		return nil, nil
	}
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *ProjectRepo) GetByCode(ctx context.Context, code string) (*entity.Project, error) {
	return r.getOne(ctx, sq.Eq{"code": code})
}

func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	query, args, err := psql.Update("projects").SetMap(map[string]any{
		"code":        p.Code,
		"name":        p.Name,
		"description": p.Description,
		"client":      p.Client,
		"status":      p.Status,
		"start_date":  p.StartDate,
		"end_date":    p.EndDate,
		"updated_at":  p.UpdatedAt,
	}).Where(sq.Eq{"id": p.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update project: %w", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProjectRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Project, error) {
	b := psql.Select(projectColumns...).From("projects").OrderBy("code")
	if status != "" {
		b = b.Where(sq.Eq{"status": status})
	}
	query, args, err := paginate(b, limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list projects: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina el proyecto; con órdenes de trabajo asociadas devuelve ErrConflict.
func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	if !validKey(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el proyecto tiene órdenes de trabajo", domain.ErrConflict)
		}
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
