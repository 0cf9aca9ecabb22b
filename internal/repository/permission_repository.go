package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
)

type PermissionRepository struct {
	pool *pgxpool.Pool
}

func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

func (r *PermissionRepository) List(ctx context.Context) ([]models.Permission, error) {
	const query = `SELECT id, name, COALESCE(description, '') FROM permissions ORDER BY name ASC`
	return r.queryPermissions(ctx, query)
}

func (r *PermissionRepository) GetByID(ctx context.Context, id int64) (models.Permission, error) {
	const query = `SELECT id, name, COALESCE(description, '') FROM permissions WHERE id = $1`

	var perm models.Permission
	if err := r.pool.QueryRow(ctx, query, id).Scan(&perm.ID, &perm.Name, &perm.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Permission{}, apperr.NotFound("Permission not found")
		}
		return models.Permission{}, err
	}
	return perm, nil
}

func (r *PermissionRepository) Create(ctx context.Context, name, description string) (models.Permission, error) {
	const query = `
		INSERT INTO permissions (name, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, name, COALESCE(description, '')
	`
	var perm models.Permission
	if err := r.pool.QueryRow(ctx, query, name, description).Scan(&perm.ID, &perm.Name, &perm.Description); err != nil {
		return models.Permission{}, conflictOr(err, "A permission with this name already exists")
	}
	return perm, nil
}

type PermissionPatch struct {
	Name        *string
	Description *string
}

func (r *PermissionRepository) Update(ctx context.Context, id int64, patch PermissionPatch) (models.Permission, error) {
	const query = `
		UPDATE permissions SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			updated_at  = NOW()
		WHERE id = $1
		RETURNING id, name, COALESCE(description, '')
	`
	var perm models.Permission
	if err := r.pool.QueryRow(ctx, query, id, patch.Name, patch.Description).Scan(&perm.ID, &perm.Name, &perm.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Permission{}, apperr.NotFound("Permission not found")
		}
		return models.Permission{}, conflictOr(err, "A permission with this name already exists")
	}
	return perm, nil
}

func (r *PermissionRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Permission not found")
	}
	return nil
}

// ListByUserRoles returns every permission granted through any of the
// user's roles. Duplicates across roles are collapsed by the query.
func (r *PermissionRepository) ListByUserRoles(ctx context.Context, userID int64) ([]models.Permission, error) {
	const query = `
		SELECT DISTINCT p.id, p.name, COALESCE(p.description, '')
		FROM permissions p
		JOIN roles_permissions rp ON rp.permission_id = p.id
		JOIN users_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1
	`
	return r.queryPermissions(ctx, query, userID)
}

// ListDirectByUser returns permissions assigned to the user record
// itself, bypassing roles.
func (r *PermissionRepository) ListDirectByUser(ctx context.Context, userID int64) ([]models.Permission, error) {
	const query = `
		SELECT p.id, p.name, COALESCE(p.description, '')
		FROM permissions p
		JOIN users_permissions up ON up.permission_id = p.id
		WHERE up.user_id = $1
	`
	return r.queryPermissions(ctx, query, userID)
}

func (r *PermissionRepository) queryPermissions(ctx context.Context, query string, args ...any) ([]models.Permission, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []models.Permission
	for rows.Next() {
		var perm models.Permission
		if err := rows.Scan(&perm.ID, &perm.Name, &perm.Description); err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	return perms, rows.Err()
}
