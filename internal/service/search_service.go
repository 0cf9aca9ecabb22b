package service

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
)

type SearchResults struct {
	Query        string               `json:"query"`
	Books        []models.Book        `json:"books"`
	Thesis       []models.Thesis      `json:"thesis"`
	Publications []models.Publication `json:"publications"`
	Journals     []models.Journal     `json:"journals"`
	Audios       []models.Audio       `json:"audios"`
	Videos       []models.Video       `json:"videos"`
	Total        int                  `json:"total"`
}

type SearchService struct {
	books        *repository.BookRepository
	thesis       *repository.ThesisRepository
	publications *repository.PublicationRepository
	journals     *repository.JournalRepository
	audios       *repository.AudioRepository
	videos       *repository.VideoRepository
}

func NewSearchService(
	books *repository.BookRepository,
	thesis *repository.ThesisRepository,
	publications *repository.PublicationRepository,
	journals *repository.JournalRepository,
	audios *repository.AudioRepository,
	videos *repository.VideoRepository,
) *SearchService {
	return &SearchService{
		books:        books,
		thesis:       thesis,
		publications: publications,
		journals:     journals,
		audios:       audios,
		videos:       videos,
	}
}

// Search fans out across the collections in parallel. The scope
// narrows the fan-out to one collection; empty or "all" hits every one.
func (s *SearchService) Search(ctx context.Context, query, scope string, limit int) (SearchResults, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return SearchResults{}, apperr.Validation("Search query must be at least 2 characters")
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if scope == "" {
		scope = "all"
	}

	results := SearchResults{Query: query}
	active := true

	group, groupCtx := errgroup.WithContext(ctx)

	if scope == "all" || scope == "books" {
		group.Go(func() error {
			filter := repository.BookFilter{Search: query, IsActive: &active}
			books, _, err := s.books.List(groupCtx, filter, limit, 0)
			results.Books = books
			return err
		})
	}
	if scope == "all" || scope == "thesis" {
		group.Go(func() error {
			var err error
			results.Thesis, err = s.thesis.Search(groupCtx, query, limit)
			return err
		})
	}
	if scope == "all" || scope == "publications" {
		group.Go(func() error {
			var err error
			results.Publications, err = s.publications.Search(groupCtx, query, limit)
			return err
		})
	}
	if scope == "all" || scope == "journals" {
		group.Go(func() error {
			var err error
			results.Journals, err = s.journals.Search(groupCtx, query, limit)
			return err
		})
	}
	if scope == "all" || scope == "audios" {
		group.Go(func() error {
			var err error
			results.Audios, err = s.audios.Search(groupCtx, query, limit)
			return err
		})
	}
	if scope == "all" || scope == "videos" {
		group.Go(func() error {
			var err error
			results.Videos, err = s.videos.Search(groupCtx, query, limit)
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return SearchResults{}, err
	}

	results.Total = len(results.Books) + len(results.Thesis) + len(results.Publications) +
		len(results.Journals) + len(results.Audios) + len(results.Videos)
	return results, nil
}
