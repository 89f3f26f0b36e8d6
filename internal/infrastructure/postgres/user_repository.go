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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func selectUsers() sq.SelectBuilder {
	return psql.Select("u.id", "u.name", "u.email", "u.dni", "u.password_hash", "u.role_id", "r.name",
		"u.permissions", "u.active", "u.created_at", "u.updated_at").
		From("users u").Join("roles r ON r.id = u.role_id")
}

func scanUser(row scanner) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.DNI, &u.PasswordHash, &u.RoleID, &u.RoleName,
		&u.Permissions, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if u.Permissions == nil {
		u.Permissions = entity.Permissions{}
	}
	return &u, nil
}

// userWriteError traduce violaciones de unicidad a los errores de dominio específicos.
func userWriteError(err error, op string) error {
	if isUniqueViolation(err) {
		switch constraintName(err) {
		case "users_email_key":
			return domain.ErrEmailAlreadyExists
		case "users_dni_key":
			return domain.ErrDNIAlreadyExists
		}
		return domain.ErrDuplicate
	}
	if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
		return fmt.Errorf("%w: rol inexistente", domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s user: %w", op, err)
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	perms := u.Permissions
	if perms == nil {
		perms = entity.Permissions{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (id, name, email, dni, password_hash, role_id, permissions, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Name, u.Email, u.DNI, u.PasswordHash, u.RoleID, perms, u.Active, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return userWriteError(err, "insert")
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, where sq.Eq) (*entity.User, error) {
	query, args, err := selectUsers().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user: %w", err)
	}
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validKey(id) {
		return nil, nil
	}
	return r.findOne(ctx, sq.Eq{"u.id": id})
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, sq.Eq{"u.email": email})
}

// GetByDNI obtiene un usuario por DNI.
func (r *UserRepo) GetByDNI(ctx context.Context, dni string) (*entity.User, error) {
	return r.findOne(ctx, sq.Eq{"u.dni": dni})
}

// Update actualiza datos, rol, permisos, estado y hash.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	perms := u.Permissions
	if perms == nil {
		perms = entity.Permissions{}
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET name = $2, email = $3, dni = $4, password_hash = $5, role_id = $6,
			permissions = $7, active = $8, updated_at = $9
		WHERE id = $1`,
		u.ID, u.Name, u.Email, u.DNI, u.PasswordHash, u.RoleID, perms, u.Active, u.UpdatedAt,
	)
	if err != nil {
		return userWriteError(err, "update")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista usuarios por nombre.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query, args, err := paginate(selectUsers().OrderBy("u.name"), limit, offset).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CountByRole cantidad de usuarios asignados al rol.
func (r *UserRepo) CountByRole(ctx context.Context, roleID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM users WHERE role_id = $1`, roleID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// Delete elimina un usuario. Si tiene registros asociados devuelve ErrConflict.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if !validKey(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el usuario tiene registros asociados", domain.ErrConflict)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
