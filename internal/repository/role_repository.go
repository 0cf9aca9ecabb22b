package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	const query = `SELECT id, name, COALESCE(description, '') FROM roles ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range roles {
		perms, err := r.listPermissions(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Permissions = perms
	}
	return roles, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (models.Role, error) {
	const query = `SELECT id, name, COALESCE(description, '') FROM roles WHERE id = $1`

	var role models.Role
	if err := r.pool.QueryRow(ctx, query, id).Scan(&role.ID, &role.Name, &role.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Role{}, apperr.NotFound("Role not found")
		}
		return models.Role{}, err
	}

	perms, err := r.listPermissions(ctx, role.ID)
	if err != nil {
		return models.Role{}, err
	}
	role.Permissions = perms
	return role, nil
}

func (r *RoleRepository) Create(ctx context.Context, name, description string) (models.Role, error) {
	const query = `
		INSERT INTO roles (name, description) VALUES ($1, $2)
		RETURNING id, name, COALESCE(description, '')
	`
	var role models.Role
	if err := r.pool.QueryRow(ctx, query, name, description).Scan(&role.ID, &role.Name, &role.Description); err != nil {
		return models.Role{}, conflictOr(err, "A role with this name already exists")
	}
	return role, nil
}

type RolePatch struct {
	Name        *string
	Description *string
}

func (r *RoleRepository) Update(ctx context.Context, id int64, patch RolePatch) (models.Role, error) {
	const query = `
		UPDATE roles SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, name, COALESCE(description, '')
	`
	var role models.Role
	if err := r.pool.QueryRow(ctx, query, id, patch.Name, patch.Description).Scan(&role.ID, &role.Name, &role.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Role{}, apperr.NotFound("Role not found")
		}
		return models.Role{}, conflictOr(err, "A role with this name already exists")
	}
	return role, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Role not found")
	}
	return nil
}

// SetPermissions replaces the role's permission grants. Replace-then-
// insert without optimistic locking; last write wins.
func (r *RoleRepository) SetPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM roles_permissions WHERE role_id = $1`, roleID); err != nil {
		return err
	}
	for _, permissionID := range permissionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO roles_permissions (role_id, permission_id) VALUES ($1, $2)`, roleID, permissionID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// ListByUser returns the roles held by a user, permissions included.
func (r *RoleRepository) ListByUser(ctx context.Context, userID int64) ([]models.Role, error) {
	const query = `
		SELECT r.id, r.name, COALESCE(r.description, '')
		FROM roles r
		JOIN users_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range roles {
		perms, err := r.listPermissions(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Permissions = perms
	}
	return roles, nil
}

// ListNamesByUser returns only the role names, for identity snapshots.
func (r *RoleRepository) ListNamesByUser(ctx context.Context, userID int64) ([]string, error) {
	const query = `
		SELECT r.name
		FROM roles r
		JOIN users_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (models.Role, error) {
	const query = `SELECT id, name, COALESCE(description, '') FROM roles WHERE name = $1`

	var role models.Role
	if err := r.pool.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name, &role.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Role{}, apperr.NotFound("Role not found")
		}
		return models.Role{}, err
	}
	return role, nil
}

func (r *RoleRepository) listPermissions(ctx context.Context, roleID int64) ([]models.Permission, error) {
	const query = `
		SELECT p.id, p.name, COALESCE(p.description, '')
		FROM permissions p
		JOIN roles_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.name ASC
	`
	rows, err := r.pool.Query(ctx, query, roleID)
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
