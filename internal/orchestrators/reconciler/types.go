package reconciler

import "time"

// State is the freshness of a cached page, computed once per reconciliation.
type State int

const (
	// StateUnchecked means the cache was not consulted (forced fetch).
	StateUnchecked State = iota
	// StateAbsent means no entry exists.
	StateAbsent
	// StatePinned means the entry is never refreshed automatically.
	StatePinned
	// StateFresh means the entry is younger than the max age.
	StateFresh
	// StateAgingUnverified means the entry is old enough to be checked
	// against the wiki's last-modified time.
	StateAgingUnverified
)

func (s State) String() string {
	switch s {
	case StateUnchecked:
		return "unchecked"
	case StateAbsent:
		return "absent"
	case StatePinned:
		return "pinned"
	case StateFresh:
		return "fresh"
	case StateAgingUnverified:
		return "aging_unverified"
	default:
		return "unknown"
	}
}

// ReconcileInput defines the request for reconciling one page
type ReconcileInput struct {
	// PageID is the cache key; it is case-folded.
	PageID string
	// Title is the wiki page title to fetch.
	Title string
	// UseCache forces the cached copy and fails when there is none.
	UseCache bool
	// Force always refetches and never reads the cache.
	Force bool
}

// ReconcileOutput defines the response for reconciling one page
type ReconcileOutput struct {
	Payload []byte
	// Update reports that the caller should persist the page.
	Update bool
	// Updateable is false when the content came from a pinned entry or a
	// forced cache read.
	Updateable bool
	State      State
	// Fetched is true when a full remote fetch happened.
	Fetched bool
	// FetchedAt is when the returned content was retrieved from the wiki.
	FetchedAt time.Time
}

// PersistInput defines the request for storing a page
type PersistInput struct {
	PageID     string
	Payload    []byte
	Updateable bool
}

// PersistOutput defines the response for storing a page
type PersistOutput struct {
	FetchedAt time.Time
}
