package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
)

const (
	overviewCacheKey = "stats:overview"
	overviewCacheTTL = time.Minute
)

type CollectionStats struct {
	Count     int64 `json:"count"`
	Views     int64 `json:"views"`
	Downloads int64 `json:"downloads"`
}

type Overview struct {
	Books        CollectionStats `json:"books"`
	Thesis       CollectionStats `json:"thesis"`
	Publications CollectionStats `json:"publications"`
	Journals     CollectionStats `json:"journals"`
	AudioPlays   int64           `json:"audioPlays"`
	VideoViews   int64           `json:"videoViews"`
	Users        int64           `json:"users"`
	Downloads    int64           `json:"downloads"`
}

type StatsService struct {
	books        *repository.BookRepository
	thesis       *repository.ThesisRepository
	publications *repository.PublicationRepository
	journals     *repository.JournalRepository
	audios       *repository.AudioRepository
	videos       *repository.VideoRepository
	users        *repository.UserRepository
	downloads    *repository.DownloadRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

func NewStatsService(
	books *repository.BookRepository,
	thesis *repository.ThesisRepository,
	publications *repository.PublicationRepository,
	journals *repository.JournalRepository,
	audios *repository.AudioRepository,
	videos *repository.VideoRepository,
	users *repository.UserRepository,
	downloads *repository.DownloadRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *StatsService {
	return &StatsService{
		books:        books,
		thesis:       thesis,
		publications: publications,
		journals:     journals,
		audios:       audios,
		videos:       videos,
		users:        users,
		downloads:    downloads,
		rdb:          rdb,
		log:          log,
	}
}

// Overview aggregates totals across every collection. The result is
// cached in redis for a minute; stats tolerate that staleness.
func (s *StatsService) Overview(ctx context.Context) (Overview, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	var overview Overview
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error
		overview.Books.Count, overview.Books.Views, overview.Books.Downloads, err = s.books.Totals(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		overview.Thesis.Count, overview.Thesis.Views, overview.Thesis.Downloads, err = s.thesis.Totals(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		overview.Publications.Count, overview.Publications.Views, overview.Publications.Downloads, err = s.publications.Totals(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		overview.Journals.Count, overview.Journals.Views, overview.Journals.Downloads, err = s.journals.Totals(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		overview.AudioPlays, err = s.audios.TotalPlays(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		overview.VideoViews, err = s.videos.TotalViews(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		overview.Users, err = s.users.Count(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		overview.Downloads, err = s.downloads.Count(groupCtx)
		return err
	})

	if err := group.Wait(); err != nil {
		return Overview{}, err
	}

	s.toCache(ctx, overview)
	return overview, nil
}

func (s *StatsService) PopularBooks(ctx context.Context, limit int) ([]models.Book, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.books.Popular(ctx, limit)
}

func (s *StatsService) RecentAdditions(ctx context.Context, limit int) ([]models.Book, []models.Thesis, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var (
		books  []models.Book
		thesis []models.Thesis
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		books, err = s.books.Recent(groupCtx, limit)
		return err
	})
	group.Go(func() error {
		var err error
		thesis, err = s.thesis.Recent(groupCtx, limit)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return books, thesis, nil
}

func (s *StatsService) TopDownloads(ctx context.Context, limit int) ([]repository.BookDownloadCount, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.downloads.TopBooks(ctx, limit)
}

func (s *StatsService) fromCache(ctx context.Context) (Overview, bool) {
	if s.rdb == nil {
		return Overview{}, false
	}
	raw, err := s.rdb.Get(ctx, overviewCacheKey).Bytes()
	if err != nil {
		return Overview{}, false
	}
	var overview Overview
	if err := json.Unmarshal(raw, &overview); err != nil {
		return Overview{}, false
	}
	return overview, true
}

func (s *StatsService) toCache(ctx context.Context, overview Overview) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, overviewCacheKey, raw, overviewCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("stats cache write failed")
	}
}
