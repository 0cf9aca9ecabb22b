package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
)

const thesisColumns = `
	id, title, title_kh, author, supervisor, major, university, year,
	abstract, description, cover_url, pdf_url, category, pages,
	views, downloads, is_active, is_deleted, created_at, updated_at
`

type ThesisRepository struct {
	pool *pgxpool.Pool
}

func NewThesisRepository(pool *pgxpool.Pool) *ThesisRepository {
	return &ThesisRepository{pool: pool}
}

func scanThesis(row pgx.Row) (models.Thesis, error) {
	var t models.Thesis
	err := row.Scan(
		&t.ID, &t.Title, &t.TitleKh, &t.Author, &t.Supervisor, &t.Major, &t.University, &t.Year,
		&t.Abstract, &t.Description, &t.CoverURL, &t.PDFURL, &t.Category, &t.Pages,
		&t.Views, &t.Downloads, &t.IsActive, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// CatalogFilter is shared by the flat catalog repositories (thesis,
// publications, journals, audios, videos).
type CatalogFilter struct {
	Search   string
	Category string
	Year     *int
	IsActive *bool
}

func (f CatalogFilter) where(searchColumns []string) (string, []any) {
	conds := []string{"is_deleted = FALSE"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		parts := make([]string, len(searchColumns))
		for i, col := range searchColumns {
			parts[i] = col + " ILIKE " + p
		}
		conds = append(conds, "("+strings.Join(parts, " OR ")+")")
	}
	if f.Category != "" {
		conds = append(conds, "category = "+arg(f.Category))
	}
	if f.Year != nil {
		conds = append(conds, "year = "+arg(*f.Year))
	}
	if f.IsActive != nil {
		conds = append(conds, "is_active = "+arg(*f.IsActive))
	}

	return strings.Join(conds, " AND "), args
}

func (r *ThesisRepository) List(ctx context.Context, filter CatalogFilter, limit, offset int) ([]models.Thesis, int64, error) {
	where, args := filter.where([]string{"title", "title_kh", "author"})

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM thesis WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM thesis WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		thesisColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []models.Thesis
	for rows.Next() {
		item, err := scanThesis(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *ThesisRepository) GetByID(ctx context.Context, id int64) (models.Thesis, error) {
	query := "SELECT " + thesisColumns + " FROM thesis WHERE id = $1 AND is_deleted = FALSE"

	item, err := scanThesis(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Thesis{}, apperr.NotFound("Thesis not found")
		}
		return models.Thesis{}, err
	}
	return item, nil
}

func (r *ThesisRepository) Create(ctx context.Context, t models.Thesis) (models.Thesis, error) {
	query := `
		INSERT INTO thesis (
			title, title_kh, author, supervisor, major, university, year,
			abstract, description, cover_url, pdf_url, category, pages,
			views, downloads, is_active, is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0, 0, $14, FALSE, NOW(), NOW())
		RETURNING ` + thesisColumns

	row := r.pool.QueryRow(ctx, query,
		t.Title, t.TitleKh, t.Author, t.Supervisor, t.Major, t.University, t.Year,
		t.Abstract, t.Description, t.CoverURL, t.PDFURL, t.Category, t.Pages, t.IsActive,
	)
	return scanThesis(row)
}

type ThesisPatch struct {
	Title       *string
	TitleKh     *string
	Author      *string
	Supervisor  *string
	Major       *string
	University  *string
	Year        *int
	Abstract    *string
	Description *string
	CoverURL    *string
	PDFURL      *string
	Category    *string
	Pages       *int
	IsActive    *bool
}

func (r *ThesisRepository) Update(ctx context.Context, id int64, patch ThesisPatch) (models.Thesis, error) {
	query := `
		UPDATE thesis SET
			title       = COALESCE($2, title),
			title_kh    = COALESCE($3, title_kh),
			author      = COALESCE($4, author),
			supervisor  = COALESCE($5, supervisor),
			major       = COALESCE($6, major),
			university  = COALESCE($7, university),
			year        = COALESCE($8, year),
			abstract    = COALESCE($9, abstract),
			description = COALESCE($10, description),
			cover_url   = COALESCE($11, cover_url),
			pdf_url     = COALESCE($12, pdf_url),
			category    = COALESCE($13, category),
			pages       = COALESCE($14, pages),
			is_active   = COALESCE($15, is_active),
			updated_at  = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING ` + thesisColumns

	row := r.pool.QueryRow(ctx, query, id,
		patch.Title, patch.TitleKh, patch.Author, patch.Supervisor, patch.Major, patch.University,
		patch.Year, patch.Abstract, patch.Description, patch.CoverURL, patch.PDFURL,
		patch.Category, patch.Pages, patch.IsActive,
	)
	item, err := scanThesis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Thesis{}, apperr.NotFound("Thesis not found")
		}
		return models.Thesis{}, err
	}
	return item, nil
}

func (r *ThesisRepository) SoftDelete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE thesis SET is_deleted = TRUE, is_active = FALSE, updated_at = NOW()
		 WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Thesis not found")
	}
	return nil
}

func (r *ThesisRepository) AddViews(ctx context.Context, id int64, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE thesis SET views = views + $2 WHERE id = $1`, id, delta)
	return err
}

func (r *ThesisRepository) AddDownloads(ctx context.Context, id int64, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE thesis SET downloads = downloads + $2 WHERE id = $1`, id, delta)
	return err
}

func (r *ThesisRepository) Search(ctx context.Context, q string, limit int) ([]models.Thesis, error) {
	query := "SELECT " + thesisColumns + ` FROM thesis
		WHERE is_deleted = FALSE AND is_active = TRUE
		  AND (title ILIKE $1 OR title_kh ILIKE $1 OR author ILIKE $1)
		ORDER BY views DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, "%"+q+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Thesis
	for rows.Next() {
		item, err := scanThesis(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ThesisRepository) Totals(ctx context.Context) (count, views, downloads int64, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(views), 0), COALESCE(SUM(downloads), 0)
		 FROM thesis WHERE is_deleted = FALSE`).Scan(&count, &views, &downloads)
	return
}

func (r *ThesisRepository) Recent(ctx context.Context, limit int) ([]models.Thesis, error) {
	query := "SELECT " + thesisColumns + ` FROM thesis
		WHERE is_deleted = FALSE AND is_active = TRUE
		ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Thesis
	for rows.Next() {
		item, err := scanThesis(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
