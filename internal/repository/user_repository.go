package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
)

const userColumns = `
	id, username, email, password_hash, first_name, last_name, student_id,
	avatar_url, is_active, is_deleted, created_at, updated_at
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_deleted = FALSE`).Scan(&total)
	return total, err
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.StudentID,
		&user.AvatarURL,
		&user.IsActive,
		&user.IsDeleted,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (
			username, email, password_hash, first_name, last_name, student_id,
			avatar_url, is_active, is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, NOW(), NOW())
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.StudentID,
		user.AvatarURL,
		user.IsActive,
	)
	created, err := scanUser(row)
	if err != nil {
		return models.User{}, conflictOr(err, "A user with this value already exists")
	}
	return created, nil
}

// GetByID returns a user regardless of active status but never a
// soft-deleted one.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_deleted = FALSE`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_deleted = FALSE`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND is_deleted = FALSE`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) FindByStudentID(ctx context.Context, studentID string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE student_id = $1 AND is_deleted = FALSE`

	user, err := scanUser(r.pool.QueryRow(ctx, query, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	const countQuery = `SELECT COUNT(*) FROM users WHERE is_deleted = FALSE`
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_deleted = FALSE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// UserPatch applies partial updates: nil fields are left unchanged.
type UserPatch struct {
	FirstName *string
	LastName  *string
	StudentID *string
	AvatarURL *string
	IsActive  *bool
}

func (r *UserRepository) Update(ctx context.Context, id int64, patch UserPatch) (models.User, error) {
	const query = `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			student_id = COALESCE($4, student_id),
			avatar_url = COALESCE($5, avatar_url),
			is_active  = COALESCE($6, is_active),
			updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query, id,
		patch.FirstName, patch.LastName, patch.StudentID, patch.AvatarURL, patch.IsActive)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, conflictOr(err, "A user with this value already exists")
	}
	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash []byte) error {
	const query = `
		UPDATE users SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`
	cmd, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

// SoftDelete marks the record deleted and forces it inactive. The row
// is never physically removed.
func (r *UserRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `
		UPDATE users SET is_deleted = TRUE, is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

// SetRoles replaces the user's role set. Delete-then-insert in one
// transaction; concurrent reassignments race and the later write wins.
func (r *UserRepository) SetRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM users_roles WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users_roles (user_id, role_id) VALUES ($1, $2)`, userID, roleID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// SetPermissions replaces the user's direct permission grants.
func (r *UserRepository) SetPermissions(ctx context.Context, userID int64, permissionIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM users_permissions WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for _, permissionID := range permissionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users_permissions (user_id, permission_id) VALUES ($1, $2)`, userID, permissionID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
