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

const bookColumns = `
	b.id, b.title, b.title_kh, b.isbn, b.publication_year, b.description,
	b.cover_url, b.pdf_url, b.pages, b.views, b.downloads,
	b.category_id, b.publisher_id, b.department_id, b.type_id,
	b.is_active, b.is_deleted, b.created_at, b.updated_at
`

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

func scanBook(row pgx.Row) (models.Book, error) {
	var book models.Book
	err := row.Scan(
		&book.ID, &book.Title, &book.TitleKh, &book.ISBN, &book.PublicationYear, &book.Description,
		&book.CoverURL, &book.PDFURL, &book.Pages, &book.Views, &book.Downloads,
		&book.CategoryID, &book.PublisherID, &book.DepartmentID, &book.TypeID,
		&book.IsActive, &book.IsDeleted, &book.CreatedAt, &book.UpdatedAt,
	)
	return book, err
}

// BookFilter narrows List results. Zero values mean "no constraint".
type BookFilter struct {
	Search          string
	CategoryID      *int64
	PublisherID     *int64
	DepartmentID    *int64
	TypeID          *int64
	PublicationYear *int
	IsActive        *bool
	SortBy          string
	SortDesc        bool
}

var bookSortColumns = map[string]string{
	"createdAt":       "b.created_at",
	"title":           "b.title",
	"publicationYear": "b.publication_year",
	"views":           "b.views",
	"downloads":       "b.downloads",
}

func (f BookFilter) where() (string, []any) {
	conds := []string{"b.is_deleted = FALSE"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf(
			"(b.title ILIKE %[1]s OR b.title_kh ILIKE %[1]s OR b.isbn ILIKE %[1]s OR b.description ILIKE %[1]s)", p))
	}
	if f.CategoryID != nil {
		conds = append(conds, "b.category_id = "+arg(*f.CategoryID))
	}
	if f.PublisherID != nil {
		conds = append(conds, "b.publisher_id = "+arg(*f.PublisherID))
	}
	if f.DepartmentID != nil {
		conds = append(conds, "b.department_id = "+arg(*f.DepartmentID))
	}
	if f.TypeID != nil {
		conds = append(conds, "b.type_id = "+arg(*f.TypeID))
	}
	if f.PublicationYear != nil {
		conds = append(conds, "b.publication_year = "+arg(*f.PublicationYear))
	}
	if f.IsActive != nil {
		conds = append(conds, "b.is_active = "+arg(*f.IsActive))
	}

	return strings.Join(conds, " AND "), args
}

func (f BookFilter) orderBy() string {
	col, ok := bookSortColumns[f.SortBy]
	if !ok {
		col = "b.created_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	return col + " " + dir
}

func (r *BookRepository) List(ctx context.Context, filter BookFilter, limit, offset int) ([]models.Book, int64, error) {
	where, args := filter.where()

	var total int64
	countQuery := "SELECT COUNT(*) FROM books b WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM books b WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		bookColumns, where, filter.orderBy(), len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range books {
		if err := r.loadRelations(ctx, &books[i]); err != nil {
			return nil, 0, err
		}
	}
	return books, total, nil
}

func (r *BookRepository) GetByID(ctx context.Context, id int64) (models.Book, error) {
	query := "SELECT " + bookColumns + " FROM books b WHERE b.id = $1 AND b.is_deleted = FALSE"

	book, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Book{}, apperr.NotFound("Book not found")
		}
		return models.Book{}, err
	}
	if err := r.loadRelations(ctx, &book); err != nil {
		return models.Book{}, err
	}
	return book, nil
}

func (r *BookRepository) Create(ctx context.Context, book models.Book) (models.Book, error) {
	query := `
		INSERT INTO books (
			title, title_kh, isbn, publication_year, description, cover_url, pdf_url, pages,
			category_id, publisher_id, department_id, type_id, is_active, is_deleted,
			views, downloads, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, FALSE, 0, 0, NOW(), NOW())
		RETURNING ` + strings.ReplaceAll(bookColumns, "b.", "")

	row := r.pool.QueryRow(ctx, query,
		book.Title, book.TitleKh, book.ISBN, book.PublicationYear, book.Description,
		book.CoverURL, book.PDFURL, book.Pages,
		book.CategoryID, book.PublisherID, book.DepartmentID, book.TypeID, book.IsActive,
	)
	created, err := scanBook(row)
	if err != nil {
		return models.Book{}, conflictOr(err, "A book with this ISBN already exists")
	}
	return created, nil
}

type BookPatch struct {
	Title           *string
	TitleKh         *string
	ISBN            *string
	PublicationYear *int
	Description     *string
	CoverURL        *string
	PDFURL          *string
	Pages           *int
	CategoryID      *int64
	PublisherID     *int64
	DepartmentID    *int64
	TypeID          *int64
	IsActive        *bool
}

func (r *BookRepository) Update(ctx context.Context, id int64, patch BookPatch) (models.Book, error) {
	query := `
		UPDATE books SET
			title            = COALESCE($2, title),
			title_kh         = COALESCE($3, title_kh),
			isbn             = COALESCE($4, isbn),
			publication_year = COALESCE($5, publication_year),
			description      = COALESCE($6, description),
			cover_url        = COALESCE($7, cover_url),
			pdf_url          = COALESCE($8, pdf_url),
			pages            = COALESCE($9, pages),
			category_id      = COALESCE($10, category_id),
			publisher_id     = COALESCE($11, publisher_id),
			department_id    = COALESCE($12, department_id),
			type_id          = COALESCE($13, type_id),
			is_active        = COALESCE($14, is_active),
			updated_at       = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING ` + strings.ReplaceAll(bookColumns, "b.", "")

	row := r.pool.QueryRow(ctx, query, id,
		patch.Title, patch.TitleKh, patch.ISBN, patch.PublicationYear, patch.Description,
		patch.CoverURL, patch.PDFURL, patch.Pages,
		patch.CategoryID, patch.PublisherID, patch.DepartmentID, patch.TypeID, patch.IsActive,
	)
	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Book{}, apperr.NotFound("Book not found")
		}
		return models.Book{}, conflictOr(err, "A book with this ISBN already exists")
	}
	return book, nil
}

func (r *BookRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `
		UPDATE books SET is_deleted = TRUE, is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Book not found")
	}
	return nil
}

// SetAuthors replaces the book's author links.
func (r *BookRepository) SetAuthors(ctx context.Context, bookID int64, authors []models.BookAuthor) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, bookID); err != nil {
		return err
	}
	for _, author := range authors {
		if _, err := tx.Exec(ctx,
			`INSERT INTO book_authors (book_id, author_id, is_primary_author) VALUES ($1, $2, $3)`,
			bookID, author.ID, author.IsPrimary); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// AddViews applies a batched counter delta flushed from the cache.
func (r *BookRepository) AddViews(ctx context.Context, id int64, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE books SET views = views + $2 WHERE id = $1`, id, delta)
	return err
}

func (r *BookRepository) AddDownloads(ctx context.Context, id int64, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE books SET downloads = downloads + $2 WHERE id = $1`, id, delta)
	return err
}

func (r *BookRepository) Popular(ctx context.Context, limit int) ([]models.Book, error) {
	query := "SELECT " + bookColumns + ` FROM books b
		WHERE b.is_deleted = FALSE AND b.is_active = TRUE
		ORDER BY b.downloads DESC LIMIT $1`
	return r.queryBooks(ctx, query, limit)
}

func (r *BookRepository) Recent(ctx context.Context, limit int) ([]models.Book, error) {
	query := "SELECT " + bookColumns + ` FROM books b
		WHERE b.is_deleted = FALSE AND b.is_active = TRUE
		ORDER BY b.created_at DESC LIMIT $1`
	return r.queryBooks(ctx, query, limit)
}

func (r *BookRepository) Totals(ctx context.Context) (count, views, downloads int64, err error) {
	const query = `
		SELECT COUNT(*), COALESCE(SUM(views), 0), COALESCE(SUM(downloads), 0)
		FROM books WHERE is_deleted = FALSE
	`
	err = r.pool.QueryRow(ctx, query).Scan(&count, &views, &downloads)
	return
}

func (r *BookRepository) queryBooks(ctx context.Context, query string, args ...any) ([]models.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

func (r *BookRepository) loadRelations(ctx context.Context, book *models.Book) error {
	const authorQuery = `
		SELECT a.id, a.name, a.name_kh, a.biography, a.website, ba.is_primary_author
		FROM authors a
		JOIN book_authors ba ON ba.author_id = a.id
		WHERE ba.book_id = $1
		ORDER BY ba.is_primary_author DESC, a.name ASC
	`
	rows, err := r.pool.Query(ctx, authorQuery, book.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	book.Authors = nil
	for rows.Next() {
		var author models.BookAuthor
		if err := rows.Scan(&author.ID, &author.Name, &author.NameKh, &author.Biography, &author.Website, &author.IsPrimary); err != nil {
			return err
		}
		book.Authors = append(book.Authors, author)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if book.CategoryID != nil {
		var c models.Category
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, name_kh FROM categories WHERE id = $1`, *book.CategoryID).
			Scan(&c.ID, &c.Name, &c.NameKh)
		if err == nil {
			book.Category = &c
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	if book.PublisherID != nil {
		var p models.Publisher
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, name_kh FROM publishers WHERE id = $1`, *book.PublisherID).
			Scan(&p.ID, &p.Name, &p.NameKh)
		if err == nil {
			book.Publisher = &p
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	if book.DepartmentID != nil {
		var d models.Department
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, code FROM departments WHERE id = $1`, *book.DepartmentID).
			Scan(&d.ID, &d.Name, &d.Code)
		if err == nil {
			book.Department = &d
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	if book.TypeID != nil {
		var m models.MaterialType
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, name_kh FROM material_types WHERE id = $1`, *book.TypeID).
			Scan(&m.ID, &m.Name, &m.NameKh)
		if err == nil {
			book.MaterialType = &m
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	return nil
}
