package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
)

// TaxonomyRepository covers the lookup tables backing the catalog:
// categories, authors, publishers, departments and material types.
type TaxonomyRepository struct {
	pool *pgxpool.Pool
}

func NewTaxonomyRepository(pool *pgxpool.Pool) *TaxonomyRepository {
	return &TaxonomyRepository{pool: pool}
}

func (r *TaxonomyRepository) ListCategories(ctx context.Context, categoryType string) ([]models.Category, error) {
	query := `SELECT id, name, name_kh, icon, type, count, created_at, updated_at FROM categories`
	var args []any
	if categoryType != "" {
		query += ` WHERE type = $1`
		args = append(args, categoryType)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.NameKh, &c.Icon, &c.Type, &c.Count, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *TaxonomyRepository) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	const query = `SELECT id, name, name_kh, icon, type, count, created_at, updated_at FROM categories WHERE id = $1`

	var c models.Category
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.NameKh, &c.Icon, &c.Type, &c.Count, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Category{}, apperr.NotFound("Category not found")
		}
		return models.Category{}, err
	}
	return c, nil
}

func (r *TaxonomyRepository) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	const query = `
		INSERT INTO categories (name, name_kh, icon, type, count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, NOW(), NOW())
		RETURNING id, name, name_kh, icon, type, count, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, c.Name, c.NameKh, c.Icon, c.Type).
		Scan(&c.ID, &c.Name, &c.NameKh, &c.Icon, &c.Type, &c.Count, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Category{}, conflictOr(err, "A category with this name already exists")
	}
	return c, nil
}

type CategoryPatch struct {
	Name   *string
	NameKh *string
	Icon   *string
	Type   *string
}

func (r *TaxonomyRepository) UpdateCategory(ctx context.Context, id int64, patch CategoryPatch) (models.Category, error) {
	const query = `
		UPDATE categories SET
			name       = COALESCE($2, name),
			name_kh    = COALESCE($3, name_kh),
			icon       = COALESCE($4, icon),
			type       = COALESCE($5, type),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, name_kh, icon, type, count, created_at, updated_at
	`
	var c models.Category
	err := r.pool.QueryRow(ctx, query, id, patch.Name, patch.NameKh, patch.Icon, patch.Type).
		Scan(&c.ID, &c.Name, &c.NameKh, &c.Icon, &c.Type, &c.Count, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Category{}, apperr.NotFound("Category not found")
		}
		return models.Category{}, err
	}
	return c, nil
}

func (r *TaxonomyRepository) DeleteCategory(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "categories", "Category not found", id)
}

// RecountCategories refreshes the cached per-category book counts.
func (r *TaxonomyRepository) RecountCategories(ctx context.Context) error {
	const query = `
		UPDATE categories c SET count = (
			SELECT COUNT(*) FROM books b
			WHERE b.category_id = c.id AND b.is_deleted = FALSE
		), updated_at = NOW()
		WHERE c.type = 'book'
	`
	_, err := r.pool.Exec(ctx, query)
	return err
}

func (r *TaxonomyRepository) ListAuthors(ctx context.Context) ([]models.Author, error) {
	const query = `SELECT id, name, name_kh, biography, website FROM authors ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.NameKh, &a.Biography, &a.Website); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *TaxonomyRepository) GetAuthor(ctx context.Context, id int64) (models.Author, error) {
	const query = `SELECT id, name, name_kh, biography, website FROM authors WHERE id = $1`

	var a models.Author
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.NameKh, &a.Biography, &a.Website)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Author{}, apperr.NotFound("Author not found")
		}
		return models.Author{}, err
	}
	return a, nil
}

func (r *TaxonomyRepository) CreateAuthor(ctx context.Context, a models.Author) (models.Author, error) {
	const query = `
		INSERT INTO authors (name, name_kh, biography, website)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, name_kh, biography, website
	`
	err := r.pool.QueryRow(ctx, query, a.Name, a.NameKh, a.Biography, a.Website).
		Scan(&a.ID, &a.Name, &a.NameKh, &a.Biography, &a.Website)
	if err != nil {
		return models.Author{}, conflictOr(err, "An author with this name already exists")
	}
	return a, nil
}

type AuthorPatch struct {
	Name      *string
	NameKh    *string
	Biography *string
	Website   *string
}

func (r *TaxonomyRepository) UpdateAuthor(ctx context.Context, id int64, patch AuthorPatch) (models.Author, error) {
	const query = `
		UPDATE authors SET
			name      = COALESCE($2, name),
			name_kh   = COALESCE($3, name_kh),
			biography = COALESCE($4, biography),
			website   = COALESCE($5, website)
		WHERE id = $1
		RETURNING id, name, name_kh, biography, website
	`
	var a models.Author
	err := r.pool.QueryRow(ctx, query, id, patch.Name, patch.NameKh, patch.Biography, patch.Website).
		Scan(&a.ID, &a.Name, &a.NameKh, &a.Biography, &a.Website)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Author{}, apperr.NotFound("Author not found")
		}
		return models.Author{}, err
	}
	return a, nil
}

func (r *TaxonomyRepository) DeleteAuthor(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "authors", "Author not found", id)
}

func (r *TaxonomyRepository) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	const query = `SELECT id, name, name_kh FROM publishers ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Publisher
	for rows.Next() {
		var p models.Publisher
		if err := rows.Scan(&p.ID, &p.Name, &p.NameKh); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *TaxonomyRepository) CreatePublisher(ctx context.Context, p models.Publisher) (models.Publisher, error) {
	const query = `INSERT INTO publishers (name, name_kh) VALUES ($1, $2) RETURNING id, name, name_kh`
	err := r.pool.QueryRow(ctx, query, p.Name, p.NameKh).Scan(&p.ID, &p.Name, &p.NameKh)
	if err != nil {
		return models.Publisher{}, conflictOr(err, "A publisher with this name already exists")
	}
	return p, nil
}

func (r *TaxonomyRepository) GetPublisher(ctx context.Context, id int64) (models.Publisher, error) {
	const query = `SELECT id, name, name_kh FROM publishers WHERE id = $1`

	var p models.Publisher
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.NameKh)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Publisher{}, apperr.NotFound("Publisher not found")
		}
		return models.Publisher{}, err
	}
	return p, nil
}

type PublisherPatch struct {
	Name   *string
	NameKh *string
}

func (r *TaxonomyRepository) UpdatePublisher(ctx context.Context, id int64, patch PublisherPatch) (models.Publisher, error) {
	const query = `
		UPDATE publishers SET
			name    = COALESCE($2, name),
			name_kh = COALESCE($3, name_kh)
		WHERE id = $1
		RETURNING id, name, name_kh
	`
	var p models.Publisher
	err := r.pool.QueryRow(ctx, query, id, patch.Name, patch.NameKh).Scan(&p.ID, &p.Name, &p.NameKh)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Publisher{}, apperr.NotFound("Publisher not found")
		}
		return models.Publisher{}, err
	}
	return p, nil
}

func (r *TaxonomyRepository) DeletePublisher(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "publishers", "Publisher not found", id)
}

func (r *TaxonomyRepository) ListDepartments(ctx context.Context) ([]models.Department, error) {
	const query = `SELECT id, name, code FROM departments ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Code); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *TaxonomyRepository) CreateDepartment(ctx context.Context, d models.Department) (models.Department, error) {
	const query = `INSERT INTO departments (name, code) VALUES ($1, $2) RETURNING id, name, code`
	err := r.pool.QueryRow(ctx, query, d.Name, d.Code).Scan(&d.ID, &d.Name, &d.Code)
	if err != nil {
		return models.Department{}, conflictOr(err, "A department with this name already exists")
	}
	return d, nil
}

func (r *TaxonomyRepository) GetDepartment(ctx context.Context, id int64) (models.Department, error) {
	const query = `SELECT id, name, code FROM departments WHERE id = $1`

	var d models.Department
	err := r.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Department{}, apperr.NotFound("Department not found")
		}
		return models.Department{}, err
	}
	return d, nil
}

type DepartmentPatch struct {
	Name *string
	Code *string
}

func (r *TaxonomyRepository) UpdateDepartment(ctx context.Context, id int64, patch DepartmentPatch) (models.Department, error) {
	const query = `
		UPDATE departments SET
			name = COALESCE($2, name),
			code = COALESCE($3, code)
		WHERE id = $1
		RETURNING id, name, code
	`
	var d models.Department
	err := r.pool.QueryRow(ctx, query, id, patch.Name, patch.Code).Scan(&d.ID, &d.Name, &d.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Department{}, apperr.NotFound("Department not found")
		}
		return models.Department{}, err
	}
	return d, nil
}

func (r *TaxonomyRepository) DeleteDepartment(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "departments", "Department not found", id)
}

func (r *TaxonomyRepository) ListMaterialTypes(ctx context.Context) ([]models.MaterialType, error) {
	const query = `SELECT id, name, name_kh FROM material_types ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MaterialType
	for rows.Next() {
		var m models.MaterialType
		if err := rows.Scan(&m.ID, &m.Name, &m.NameKh); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *TaxonomyRepository) CreateMaterialType(ctx context.Context, m models.MaterialType) (models.MaterialType, error) {
	const query = `INSERT INTO material_types (name, name_kh) VALUES ($1, $2) RETURNING id, name, name_kh`
	err := r.pool.QueryRow(ctx, query, m.Name, m.NameKh).Scan(&m.ID, &m.Name, &m.NameKh)
	if err != nil {
		return models.MaterialType{}, conflictOr(err, "A material type with this name already exists")
	}
	return m, nil
}

func (r *TaxonomyRepository) GetMaterialType(ctx context.Context, id int64) (models.MaterialType, error) {
	const query = `SELECT id, name, name_kh FROM material_types WHERE id = $1`

	var m models.MaterialType
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.NameKh)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MaterialType{}, apperr.NotFound("Material type not found")
		}
		return models.MaterialType{}, err
	}
	return m, nil
}

type MaterialTypePatch struct {
	Name   *string
	NameKh *string
}

func (r *TaxonomyRepository) UpdateMaterialType(ctx context.Context, id int64, patch MaterialTypePatch) (models.MaterialType, error) {
	const query = `
		UPDATE material_types SET
			name    = COALESCE($2, name),
			name_kh = COALESCE($3, name_kh)
		WHERE id = $1
		RETURNING id, name, name_kh
	`
	var m models.MaterialType
	err := r.pool.QueryRow(ctx, query, id, patch.Name, patch.NameKh).Scan(&m.ID, &m.Name, &m.NameKh)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MaterialType{}, apperr.NotFound("Material type not found")
		}
		return models.MaterialType{}, err
	}
	return m, nil
}

func (r *TaxonomyRepository) DeleteMaterialType(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "material_types", "Material type not found", id)
}

func (r *TaxonomyRepository) deleteByID(ctx context.Context, table, notFoundMsg string, id int64) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Validation("Cannot delete record because it is referenced by other records")
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound(notFoundMsg)
	}
	return nil
}
