// Package pagecache persists raw wiki API responses together with the
// bookkeeping the reconciler needs to decide whether they are still fresh.
package pagecache

//go:generate mockgen -destination=mock/mock_repository.go -package=pagecachemock github.com/KirkDiggler/lenna/internal/repositories/pagecache Repository

import (
	"context"
	"strings"
	"time"
)

// Entry is one cached page.
type Entry struct {
	PageID string
	// Payload is the raw API response body.
	Payload   []byte
	FetchedAt time.Time
	// Updateable is false once a page has been pinned after a degraded
	// lookup. Pinned entries are only replaced by a forced fetch.
	Updateable bool
}

// Repository defines the interface for page cache persistence
type Repository interface {
	// Get retrieves a cached page
	// Returns errors.InvalidArgument for empty page IDs
	// Returns errors.NotFound if the page is not cached
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put stores a page, replacing any previous entry atomically
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Internal for storage failures
	Put(ctx context.Context, input PutInput) (*PutOutput, error)
}

// GetInput defines the input for getting a page
type GetInput struct {
	PageID string
}

// GetOutput defines the output for getting a page
type GetOutput struct {
	Entry *Entry
}

// PutInput defines the input for storing a page
type PutInput struct {
	Entry *Entry
}

// PutOutput defines the output for storing a page
type PutOutput struct {
	Entry *Entry
}

// NormalizeID case-folds a page id so lookups for "Suomi" and "suomi" share
// an entry.
func NormalizeID(pageID string) string {
	return strings.ToLower(strings.TrimSpace(pageID))
}
