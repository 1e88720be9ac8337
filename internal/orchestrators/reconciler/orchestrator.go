// Package reconciler decides, per wiki page, whether the cached copy can be
// served, must be checked against the wiki, or must be refetched.
package reconciler

//go:generate mockgen -destination=mock/mock_service.go -package=reconcilermock github.com/KirkDiggler/lenna/internal/orchestrators/reconciler Service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/KirkDiggler/lenna/internal/clients/wiki"
	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/pkg/clock"
	"github.com/KirkDiggler/lenna/internal/repositories/pagecache"
)

// DefaultMaxAge is how long a cached page is trusted without asking the
// wiki whether it changed.
const DefaultMaxAge = 24 * time.Hour

// Service defines the interface for page reconciliation
type Service interface {
	// Reconcile returns the content to use for a page and whether it should
	// be persisted.
	// Returns errors.CacheNotFound when UseCache is set and nothing is cached
	// Returns errors.RemoteQueryFailed when the wiki cannot be reached
	Reconcile(ctx context.Context, input *ReconcileInput) (*ReconcileOutput, error)

	// Persist stores a page stamped with the current time.
	Persist(ctx context.Context, input *PersistInput) (*PersistOutput, error)
}

// Config holds the dependencies for the reconciler
type Config struct {
	Cache pagecache.Repository
	Wiki  wiki.Client
	// Clock defaults to the wall clock
	Clock clock.Clock
	// MaxAge defaults to DefaultMaxAge
	MaxAge time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.Cache == nil {
		vb.RequiredField("Cache")
	}
	if c.Wiki == nil {
		vb.RequiredField("Wiki")
	}
	if c.MaxAge < 0 {
		vb.InvalidField("MaxAge", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	cache  pagecache.Repository
	wiki   wiki.Client
	clock  clock.Clock
	maxAge time.Duration

	group singleflight.Group
	locks sync.Map // page id -> *sync.Mutex
}

// NewOrchestrator creates a new reconciler with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = DefaultMaxAge
	}

	return &orchestrator{
		cache:  cfg.Cache,
		wiki:   cfg.Wiki,
		clock:  c,
		maxAge: maxAge,
	}, nil
}

func (o *orchestrator) Reconcile(ctx context.Context, input *ReconcileInput) (*ReconcileOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("PageID", input.PageID, vb)
	errors.ValidateRequired("Title", input.Title, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	id := pagecache.NormalizeID(input.PageID)
	key := fmt.Sprintf("%s|cache=%t|force=%t", id, input.UseCache, input.Force)

	// The shared work outlives any single caller; the wiki client timeout
	// bounds it.
	detached := context.WithoutCancel(ctx)
	ch := o.group.DoChan(key, func() (any, error) {
		return o.reconcile(detached, id, input)
	})

	select {
	case <-ctx.Done():
		slog.WarnContext(ctx, "caller left reconciliation", "page_id", id, "error", ctx.Err())
		return nil, errors.FromContext(ctx.Err(), fmt.Sprintf("reconciliation of %s abandoned", id))
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.DebugContext(ctx, "joined in-flight reconciliation", "page_id", id)
		}
		out := *res.Val.(*ReconcileOutput)
		return &out, nil
	}
}

func (o *orchestrator) reconcile(ctx context.Context, id string, input *ReconcileInput) (*ReconcileOutput, error) {
	if input.Force {
		slog.InfoContext(ctx, "forced fetch", "page_id", id, "title", input.Title)
		return o.fetch(ctx, input.Title, StateUnchecked)
	}

	entry, err := o.read(ctx, id)
	if err != nil {
		return nil, err
	}
	state := o.state(entry)

	switch {
	case state == StateAbsent:
		if input.UseCache {
			slog.WarnContext(ctx, "cache required but absent", "page_id", id)
			return nil, errors.CacheNotFound(id)
		}
		slog.InfoContext(ctx, "no cache entry, fetching", "page_id", id, "title", input.Title)
		return o.fetch(ctx, input.Title, state)

	case state == StatePinned || input.UseCache:
		slog.WarnContext(ctx, "serving cache without refresh", "page_id", id, "state", state.String())
		return &ReconcileOutput{
			Payload:    entry.Payload,
			Update:     state != StatePinned,
			Updateable: false,
			State:      state,
			FetchedAt:  entry.FetchedAt,
		}, nil

	case state == StateFresh:
		slog.DebugContext(ctx, "cache is fresh", "page_id", id)
		return cached(entry, state), nil

	default:
		lastModified, err := o.wiki.FetchLastModified(ctx, input.Title)
		if err != nil {
			return nil, err
		}
		if entry.FetchedAt.After(lastModified) {
			slog.DebugContext(ctx, "cache newer than last edit", "page_id", id, "last_modified", lastModified)
			return cached(entry, state), nil
		}
		slog.InfoContext(ctx, "page changed since cached, fetching", "page_id", id, "last_modified", lastModified)
		return o.fetch(ctx, input.Title, state)
	}
}

func (o *orchestrator) read(ctx context.Context, id string) (*pagecache.Entry, error) {
	out, err := o.cache.Get(ctx, pagecache.GetInput{PageID: id})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read cache for %s", id)
	}
	return out.Entry, nil
}

func (o *orchestrator) state(entry *pagecache.Entry) State {
	switch {
	case entry == nil:
		return StateAbsent
	case !entry.Updateable:
		return StatePinned
	case o.clock.Now().Sub(entry.FetchedAt) < o.maxAge:
		return StateFresh
	default:
		return StateAgingUnverified
	}
}

func (o *orchestrator) fetch(ctx context.Context, title string, state State) (*ReconcileOutput, error) {
	page, err := o.wiki.FetchPage(ctx, title)
	if err != nil {
		return nil, err
	}
	return &ReconcileOutput{
		Payload:    page.Payload,
		Update:     true,
		Updateable: true,
		State:      state,
		Fetched:    true,
		FetchedAt:  o.clock.Now(),
	}, nil
}

func cached(entry *pagecache.Entry, state State) *ReconcileOutput {
	return &ReconcileOutput{
		Payload:    entry.Payload,
		Update:     false,
		Updateable: true,
		State:      state,
		FetchedAt:  entry.FetchedAt,
	}
}

func (o *orchestrator) Persist(ctx context.Context, input *PersistInput) (*PersistOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	id := pagecache.NormalizeID(input.PageID)
	if id == "" {
		return nil, errors.InvalidArgument("page ID cannot be empty")
	}

	mu := o.lock(id)
	mu.Lock()
	defer mu.Unlock()

	now := o.clock.Now()
	_, err := o.cache.Put(ctx, pagecache.PutInput{Entry: &pagecache.Entry{
		PageID:     id,
		Payload:    input.Payload,
		FetchedAt:  now,
		Updateable: input.Updateable,
	}})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to persist %s", id)
	}

	slog.InfoContext(ctx, "persisted page", "page_id", id, "updateable", input.Updateable)
	return &PersistOutput{FetchedAt: now}, nil
}

func (o *orchestrator) lock(id string) *sync.Mutex {
	mu, _ := o.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
