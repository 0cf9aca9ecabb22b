package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"elibrary/api/internal/apperr"
)

func TestSearchRejectsShortQuery(t *testing.T) {
	svc := NewSearchService(nil, nil, nil, nil, nil, nil)

	for _, query := range []string{"", "a", "  b  "} {
		_, err := svc.Search(context.Background(), query, "all", 10)
		assert.True(t, apperr.Is(err, apperr.CodeValidation), "query %q", query)
		assert.EqualError(t, err, "Search query must be at least 2 characters")
	}
}
