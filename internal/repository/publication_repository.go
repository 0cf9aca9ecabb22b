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

const publicationColumns = `
	id, title, title_kh, author, year, category, description, publisher,
	isbn, pages, language, cover_url, pdf_url,
	views, downloads, is_active, is_deleted, created_at, updated_at
`

type PublicationRepository struct {
	pool *pgxpool.Pool
}

func NewPublicationRepository(pool *pgxpool.Pool) *PublicationRepository {
	return &PublicationRepository{pool: pool}
}

func scanPublication(row pgx.Row) (models.Publication, error) {
	var p models.Publication
	err := row.Scan(
		&p.ID, &p.Title, &p.TitleKh, &p.Author, &p.Year, &p.Category, &p.Description, &p.Publisher,
		&p.ISBN, &p.Pages, &p.Language, &p.CoverURL, &p.PDFURL,
		&p.Views, &p.Downloads, &p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *PublicationRepository) List(ctx context.Context, filter CatalogFilter, limit, offset int) ([]models.Publication, int64, error) {
	where, args := filter.where([]string{"title", "title_kh", "author"})

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM publications WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM publications WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		publicationColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []models.Publication
	for rows.Next() {
		item, err := scanPublication(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *PublicationRepository) GetByID(ctx context.Context, id int64) (models.Publication, error) {
	query := "SELECT " + publicationColumns + " FROM publications WHERE id = $1 AND is_deleted = FALSE"

	item, err := scanPublication(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Publication{}, apperr.NotFound("Publication not found")
		}
		return models.Publication{}, err
	}
	return item, nil
}

func (r *PublicationRepository) Create(ctx context.Context, p models.Publication) (models.Publication, error) {
	query := `
		INSERT INTO publications (
			title, title_kh, author, year, category, description, publisher,
			isbn, pages, language, cover_url, pdf_url,
			views, downloads, is_active, is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, 0, $13, FALSE, NOW(), NOW())
		RETURNING ` + publicationColumns

	row := r.pool.QueryRow(ctx, query,
		p.Title, p.TitleKh, p.Author, p.Year, p.Category, p.Description, p.Publisher,
		p.ISBN, p.Pages, p.Language, p.CoverURL, p.PDFURL, p.IsActive,
	)
	return scanPublication(row)
}

type PublicationPatch struct {
	Title       *string
	TitleKh     *string
	Author      *string
	Year        *int
	Category    *string
	Description *string
	Publisher   *string
	ISBN        *string
	Pages       *int
	Language    *string
	CoverURL    *string
	PDFURL      *string
	IsActive    *bool
}

func (r *PublicationRepository) Update(ctx context.Context, id int64, patch PublicationPatch) (models.Publication, error) {
	query := `
		UPDATE publications SET
			title       = COALESCE($2, title),
			title_kh    = COALESCE($3, title_kh),
			author      = COALESCE($4, author),
			year        = COALESCE($5, year),
			category    = COALESCE($6, category),
			description = COALESCE($7, description),
			publisher   = COALESCE($8, publisher),
			isbn        = COALESCE($9, isbn),
			pages       = COALESCE($10, pages),
			language    = COALESCE($11, language),
			cover_url   = COALESCE($12, cover_url),
			pdf_url     = COALESCE($13, pdf_url),
			is_active   = COALESCE($14, is_active),
			updated_at  = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING ` + publicationColumns

	row := r.pool.QueryRow(ctx, query, id,
		patch.Title, patch.TitleKh, patch.Author, patch.Year, patch.Category, patch.Description,
		patch.Publisher, patch.ISBN, patch.Pages, patch.Language, patch.CoverURL, patch.PDFURL,
		patch.IsActive,
	)
	item, err := scanPublication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Publication{}, apperr.NotFound("Publication not found")
		}
		return models.Publication{}, err
	}
	return item, nil
}

func (r *PublicationRepository) SoftDelete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE publications SET is_deleted = TRUE, is_active = FALSE, updated_at = NOW()
		 WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Publication not found")
	}
	return nil
}

func (r *PublicationRepository) AddViews(ctx context.Context, id int64, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE publications SET views = views + $2 WHERE id = $1`, id, delta)
	return err
}

func (r *PublicationRepository) AddDownloads(ctx context.Context, id int64, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE publications SET downloads = downloads + $2 WHERE id = $1`, id, delta)
	return err
}

func (r *PublicationRepository) Search(ctx context.Context, q string, limit int) ([]models.Publication, error) {
	query := "SELECT " + publicationColumns + ` FROM publications
		WHERE is_deleted = FALSE AND is_active = TRUE
		  AND (title ILIKE $1 OR title_kh ILIKE $1 OR author ILIKE $1)
		ORDER BY views DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, "%"+q+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Publication
	for rows.Next() {
		item, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PublicationRepository) Totals(ctx context.Context) (count, views, downloads int64, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(views), 0), COALESCE(SUM(downloads), 0)
		 FROM publications WHERE is_deleted = FALSE`).Scan(&count, &views, &downloads)
	return
}
