// Package service holds the business rules that sit between the HTTP
// handlers and the repositories: input validation, ownership decisions and
// the visibility policy applied to every read.
package service

import (
	"math"
	"time"

	"blogicum/internal/models"
)

// Clock returns the current instant. Services call it once per operation.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// FeedPage is one page of a post listing.
type FeedPage struct {
	Posts       []*models.Post `json:"posts"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	Total       int64          `json:"total"`
	NumPages    int            `json:"num_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

func newFeedPage(posts []*models.Post, total int64, page, pageSize int) *FeedPage {
	numPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if numPages == 0 {
		numPages = 1
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return &FeedPage{
		Posts:       posts,
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		NumPages:    numPages,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
	}
}

// pageOffset returns the first row of page. Pages whose offset does not fit
// in an int cannot exist.
func pageOffset(page, pageSize int) (int, bool) {
	if page < 1 || page-1 > math.MaxInt/pageSize {
		return 0, false
	}
	return (page - 1) * pageSize, true
}

// checkPage rejects page numbers past the end. The first page always exists,
// even for an empty listing.
func checkPage(page int, total int64, pageSize int) error {
	if page > 1 && int64(page-1)*int64(pageSize) >= total {
		return models.NewNotFoundError("Page", page)
	}
	return nil
}
