package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"elibrary/api/internal/models"
)

type DownloadRepository struct {
	pool *pgxpool.Pool
}

func NewDownloadRepository(pool *pgxpool.Pool) *DownloadRepository {
	return &DownloadRepository{pool: pool}
}

func (r *DownloadRepository) Create(ctx context.Context, userID, bookID int64, ipAddress string) (models.Download, error) {
	const query = `
		INSERT INTO downloads (user_id, book_id, ip_address, downloaded_at)
		VALUES ($1, $2, NULLIF($3, ''), NOW())
		RETURNING id, user_id, book_id, ip_address, downloaded_at
	`
	var d models.Download
	err := r.pool.QueryRow(ctx, query, userID, bookID, ipAddress).
		Scan(&d.ID, &d.UserID, &d.BookID, &d.IPAddress, &d.DownloadedAt)
	if err != nil {
		return models.Download{}, err
	}
	return d, nil
}

type DownloadFilter struct {
	UserID *int64
	BookID *int64
	From   *time.Time
	To     *time.Time
}

func (r *DownloadRepository) List(ctx context.Context, filter DownloadFilter, limit, offset int) ([]models.Download, int64, error) {
	conds := []string{"TRUE"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID != nil {
		conds = append(conds, "d.user_id = "+arg(*filter.UserID))
	}
	if filter.BookID != nil {
		conds = append(conds, "d.book_id = "+arg(*filter.BookID))
	}
	if filter.From != nil {
		conds = append(conds, "d.downloaded_at >= "+arg(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "d.downloaded_at <= "+arg(*filter.To))
	}
	where := strings.Join(conds, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM downloads d WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT d.id, d.user_id, d.book_id, d.ip_address, d.downloaded_at,
		       u.id, u.username, u.email, u.student_id,
		       b.id, b.title, b.isbn, b.cover_url
		FROM downloads d
		JOIN users u ON u.id = d.user_id
		JOIN books b ON b.id = d.book_id
		WHERE %s
		ORDER BY d.downloaded_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var downloads []models.Download
	for rows.Next() {
		var d models.Download
		var user models.User
		var book models.Book
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.BookID, &d.IPAddress, &d.DownloadedAt,
			&user.ID, &user.Username, &user.Email, &user.StudentID,
			&book.ID, &book.Title, &book.ISBN, &book.CoverURL,
		); err != nil {
			return nil, 0, err
		}
		d.User = &user
		d.Book = &book
		downloads = append(downloads, d)
	}
	return downloads, total, rows.Err()
}

func (r *DownloadRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Download, int64, error) {
	return r.List(ctx, DownloadFilter{UserID: &userID}, limit, offset)
}

type BookDownloadCount struct {
	Book  models.Book
	Count int64
}

// TopBooks aggregates recorded downloads by book.
func (r *DownloadRepository) TopBooks(ctx context.Context, limit int) ([]BookDownloadCount, error) {
	const query = `
		SELECT b.id, b.title, b.cover_url, COUNT(d.id) AS download_count
		FROM downloads d
		JOIN books b ON b.id = d.book_id
		GROUP BY b.id, b.title, b.cover_url
		ORDER BY download_count DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []BookDownloadCount
	for rows.Next() {
		var entry BookDownloadCount
		if err := rows.Scan(&entry.Book.ID, &entry.Book.Title, &entry.Book.CoverURL, &entry.Count); err != nil {
			return nil, err
		}
		counts = append(counts, entry)
	}
	return counts, rows.Err()
}

func (r *DownloadRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM downloads`).Scan(&total)
	return total, err
}
