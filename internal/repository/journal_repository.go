package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
)

const journalColumns = `
	id, title, title_kh, author, abstract, description, cover_url, pdf_url,
	year, category, pages, volume, issn, publisher, language,
	views, downloads, is_active, is_deleted, created_at, updated_at
`

type JournalRepository struct {
	pool *pgxpool.Pool
}

func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

func scanJournal(row pgx.Row) (models.Journal, error) {
	var j models.Journal
	err := row.Scan(
		&j.ID, &j.Title, &j.TitleKh, &j.Author, &j.Abstract, &j.Description, &j.CoverURL, &j.PDFURL,
		&j.Year, &j.Category, &j.Pages, &j.Volume, &j.ISSN, &j.Publisher, &j.Language,
		&j.Views, &j.Downloads, &j.IsActive, &j.IsDeleted, &j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

func (r *JournalRepository) List(ctx context.Context, filter CatalogFilter, limit, offset int) ([]models.Journal, int64, error) {
	where, args := filter.where([]string{"title", "title_kh", "author"})

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM journals WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM journals WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		journalColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []models.Journal
	for rows.Next() {
		item, err := scanJournal(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *JournalRepository) GetByID(ctx context.Context, id int64) (models.Journal, error) {
	query := "SELECT " + journalColumns + " FROM journals WHERE id = $1 AND is_deleted = FALSE"

	item, err := scanJournal(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Journal{}, apperr.NotFound("Journal not found")
		}
		return models.Journal{}, err
	}
	return item, nil
}

func (r *JournalRepository) Create(ctx context.Context, j models.Journal) (models.Journal, error) {
	query := `
		INSERT INTO journals (
			title, title_kh, author, abstract, description, cover_url, pdf_url,
			year, category, pages, volume, issn, publisher, language,
			views, downloads, is_active, is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 0, 0, $15, FALSE, NOW(), NOW())
		RETURNING ` + journalColumns

	row := r.pool.QueryRow(ctx, query,
		j.Title, j.TitleKh, j.Author, j.Abstract, j.Description, j.CoverURL, j.PDFURL,
		j.Year, j.Category, j.Pages, j.Volume, j.ISSN, j.Publisher, j.Language, j.IsActive,
	)
	return scanJournal(row)
}

type JournalPatch struct {
	Title       *string
	TitleKh     *string
	Author      *string
	Abstract    *string
	Description *string
	CoverURL    *string
	PDFURL      *string
	Year        *int
	Category    *string
	Pages       *int
	Volume      *string
	ISSN        *string
	Publisher   *string
	Language    *string
	IsActive    *bool
}

func (r *JournalRepository) Update(ctx context.Context, id int64, patch JournalPatch) (models.Journal, error) {
	query := `
		UPDATE journals SET
			title       = COALESCE($2, title),
			title_kh    = COALESCE($3, title_kh),
			author      = COALESCE($4, author),
			abstract    = COALESCE($5, abstract),
			description = COALESCE($6, description),
			cover_url   = COALESCE($7, cover_url),
			pdf_url     = COALESCE($8, pdf_url),
			year        = COALESCE($9, year),
			category    = COALESCE($10, category),
			pages       = COALESCE($11, pages),
			volume      = COALESCE($12, volume),
			issn        = COALESCE($13, issn),
			publisher   = COALESCE($14, publisher),
			language    = COALESCE($15, language),
			is_active   = COALESCE($16, is_active),
			updated_at  = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING ` + journalColumns

	row := r.pool.QueryRow(ctx, query, id,
		patch.Title, patch.TitleKh, patch.Author, patch.Abstract, patch.Description,
		patch.CoverURL, patch.PDFURL, patch.Year, patch.Category, patch.Pages,
		patch.Volume, patch.ISSN, patch.Publisher, patch.Language, patch.IsActive,
	)
	item, err := scanJournal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Journal{}, apperr.NotFound("Journal not found")
		}
		return models.Journal{}, err
	}
	return item, nil
}

func (r *JournalRepository) SoftDelete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE journals SET is_deleted = TRUE, is_active = FALSE, updated_at = NOW()
		 WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Journal not found")
	}
	return nil
}

func (r *JournalRepository) AddViews(ctx context.Context, id int64, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE journals SET views = views + $2 WHERE id = $1`, id, delta)
	return err
}

func (r *JournalRepository) AddDownloads(ctx context.Context, id int64, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE journals SET downloads = downloads + $2 WHERE id = $1`, id, delta)
	return err
}

func (r *JournalRepository) Search(ctx context.Context, q string, limit int) ([]models.Journal, error) {
	query := "SELECT " + journalColumns + ` FROM journals
		WHERE is_deleted = FALSE AND is_active = TRUE
		  AND (title ILIKE $1 OR title_kh ILIKE $1 OR author ILIKE $1)
		ORDER BY views DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, "%"+q+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Journal
	for rows.Next() {
		item, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *JournalRepository) Totals(ctx context.Context) (count, views, downloads int64, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(views), 0), COALESCE(SUM(downloads), 0)
		 FROM journals WHERE is_deleted = FALSE`).Scan(&count, &views, &downloads)
	return
}
