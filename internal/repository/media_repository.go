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

const audioColumns = `
	id, title, title_kh, speaker, thumbnail_url, audio_url, duration,
	description, category, plays, downloads, is_active, is_deleted, created_at, updated_at
`

const videoColumns = `
	id, title, title_kh, instructor, thumbnail_url, video_url, duration,
	description, category, views, is_active, is_deleted, created_at, updated_at
`

type AudioRepository struct {
	pool *pgxpool.Pool
}

func NewAudioRepository(pool *pgxpool.Pool) *AudioRepository {
	return &AudioRepository{pool: pool}
}

func scanAudio(row pgx.Row) (models.Audio, error) {
	var a models.Audio
	err := row.Scan(
		&a.ID, &a.Title, &a.TitleKh, &a.Speaker, &a.ThumbnailURL, &a.AudioURL, &a.Duration,
		&a.Description, &a.Category, &a.Plays, &a.Downloads, &a.IsActive, &a.IsDeleted,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *AudioRepository) List(ctx context.Context, filter CatalogFilter, limit, offset int) ([]models.Audio, int64, error) {
	where, args := filter.where([]string{"title", "title_kh", "speaker"})

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM audios WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM audios WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		audioColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []models.Audio
	for rows.Next() {
		item, err := scanAudio(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *AudioRepository) GetByID(ctx context.Context, id int64) (models.Audio, error) {
	query := "SELECT " + audioColumns + " FROM audios WHERE id = $1 AND is_deleted = FALSE"

	item, err := scanAudio(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Audio{}, apperr.NotFound("Audio not found")
		}
		return models.Audio{}, err
	}
	return item, nil
}

func (r *AudioRepository) Create(ctx context.Context, a models.Audio) (models.Audio, error) {
	query := `
		INSERT INTO audios (
			title, title_kh, speaker, thumbnail_url, audio_url, duration,
			description, category, plays, downloads, is_active, is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, 0, $9, FALSE, NOW(), NOW())
		RETURNING ` + audioColumns

	row := r.pool.QueryRow(ctx, query,
		a.Title, a.TitleKh, a.Speaker, a.ThumbnailURL, a.AudioURL, a.Duration,
		a.Description, a.Category, a.IsActive,
	)
	return scanAudio(row)
}

type AudioPatch struct {
	Title        *string
	TitleKh      *string
	Speaker      *string
	ThumbnailURL *string
	AudioURL     *string
	Duration     *string
	Description  *string
	Category     *string
	IsActive     *bool
}

func (r *AudioRepository) Update(ctx context.Context, id int64, patch AudioPatch) (models.Audio, error) {
	query := `
		UPDATE audios SET
			title         = COALESCE($2, title),
			title_kh      = COALESCE($3, title_kh),
			speaker       = COALESCE($4, speaker),
			thumbnail_url = COALESCE($5, thumbnail_url),
			audio_url     = COALESCE($6, audio_url),
			duration      = COALESCE($7, duration),
			description   = COALESCE($8, description),
			category      = COALESCE($9, category),
			is_active     = COALESCE($10, is_active),
			updated_at    = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING ` + audioColumns

	row := r.pool.QueryRow(ctx, query, id,
		patch.Title, patch.TitleKh, patch.Speaker, patch.ThumbnailURL, patch.AudioURL,
		patch.Duration, patch.Description, patch.Category, patch.IsActive,
	)
	item, err := scanAudio(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Audio{}, apperr.NotFound("Audio not found")
		}
		return models.Audio{}, err
	}
	return item, nil
}

func (r *AudioRepository) SoftDelete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE audios SET is_deleted = TRUE, is_active = FALSE, updated_at = NOW()
		 WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Audio not found")
	}
	return nil
}

func (r *AudioRepository) AddPlays(ctx context.Context, id int64, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE audios SET plays = plays + $2 WHERE id = $1`, id, delta)
	return err
}

func (r *AudioRepository) Search(ctx context.Context, q string, limit int) ([]models.Audio, error) {
	query := "SELECT " + audioColumns + ` FROM audios
		WHERE is_deleted = FALSE AND is_active = TRUE
		  AND (title ILIKE $1 OR title_kh ILIKE $1 OR speaker ILIKE $1)
		ORDER BY plays DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, "%"+q+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Audio
	for rows.Next() {
		item, err := scanAudio(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *AudioRepository) TotalPlays(ctx context.Context) (int64, error) {
	var plays int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(plays), 0) FROM audios WHERE is_deleted = FALSE`).Scan(&plays)
	return plays, err
}

type VideoRepository struct {
	pool *pgxpool.Pool
}

func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.ID, &v.Title, &v.TitleKh, &v.Instructor, &v.ThumbnailURL, &v.VideoURL, &v.Duration,
		&v.Description, &v.Category, &v.Views, &v.IsActive, &v.IsDeleted,
		&v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

func (r *VideoRepository) List(ctx context.Context, filter CatalogFilter, limit, offset int) ([]models.Video, int64, error) {
	where, args := filter.where([]string{"title", "title_kh", "instructor"})

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM videos WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM videos WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		videoColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []models.Video
	for rows.Next() {
		item, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *VideoRepository) GetByID(ctx context.Context, id int64) (models.Video, error) {
	query := "SELECT " + videoColumns + " FROM videos WHERE id = $1 AND is_deleted = FALSE"

	item, err := scanVideo(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, apperr.NotFound("Video not found")
		}
		return models.Video{}, err
	}
	return item, nil
}

func (r *VideoRepository) Create(ctx context.Context, v models.Video) (models.Video, error) {
	query := `
		INSERT INTO videos (
			title, title_kh, instructor, thumbnail_url, video_url, duration,
			description, category, views, is_active, is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, FALSE, NOW(), NOW())
		RETURNING ` + videoColumns

	row := r.pool.QueryRow(ctx, query,
		v.Title, v.TitleKh, v.Instructor, v.ThumbnailURL, v.VideoURL, v.Duration,
		v.Description, v.Category, v.IsActive,
	)
	return scanVideo(row)
}

type VideoPatch struct {
	Title        *string
	TitleKh      *string
	Instructor   *string
	ThumbnailURL *string
	VideoURL     *string
	Duration     *string
	Description  *string
	Category     *string
	IsActive     *bool
}

func (r *VideoRepository) Update(ctx context.Context, id int64, patch VideoPatch) (models.Video, error) {
	query := `
		UPDATE videos SET
			title         = COALESCE($2, title),
			title_kh      = COALESCE($3, title_kh),
			instructor    = COALESCE($4, instructor),
			thumbnail_url = COALESCE($5, thumbnail_url),
			video_url     = COALESCE($6, video_url),
			duration      = COALESCE($7, duration),
			description   = COALESCE($8, description),
			category      = COALESCE($9, category),
			is_active     = COALESCE($10, is_active),
			updated_at    = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING ` + videoColumns

	row := r.pool.QueryRow(ctx, query, id,
		patch.Title, patch.TitleKh, patch.Instructor, patch.ThumbnailURL, patch.VideoURL,
		patch.Duration, patch.Description, patch.Category, patch.IsActive,
	)
	item, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, apperr.NotFound("Video not found")
		}
		return models.Video{}, err
	}
	return item, nil
}

func (r *VideoRepository) SoftDelete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE videos SET is_deleted = TRUE, is_active = FALSE, updated_at = NOW()
		 WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Video not found")
	}
	return nil
}

func (r *VideoRepository) AddViews(ctx context.Context, id int64, delta int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE videos SET views = views + $2 WHERE id = $1`, id, delta)
	return err
}

func (r *VideoRepository) Search(ctx context.Context, q string, limit int) ([]models.Video, error) {
	query := "SELECT " + videoColumns + ` FROM videos
		WHERE is_deleted = FALSE AND is_active = TRUE
		  AND (title ILIKE $1 OR title_kh ILIKE $1 OR instructor ILIKE $1)
		ORDER BY views DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, "%"+q+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Video
	for rows.Next() {
		item, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *VideoRepository) TotalViews(ctx context.Context) (int64, error) {
	var views int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(views), 0) FROM videos WHERE is_deleted = FALSE`).Scan(&views)
	return views, err
}
