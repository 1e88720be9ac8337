package main

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/lenna/internal/clients/wiki"
	"github.com/KirkDiggler/lenna/internal/config"
	"github.com/KirkDiggler/lenna/internal/errors"
	"github.com/KirkDiggler/lenna/internal/orchestrators/lookup"
	"github.com/KirkDiggler/lenna/internal/orchestrators/reconciler"
	"github.com/KirkDiggler/lenna/internal/redis"
	"github.com/KirkDiggler/lenna/internal/repositories/pagecache"
)

// app is the wired lookup stack shared by every command.
type app struct {
	lookup  lookup.Service
	closers []func() error
}

func newApp(ctx context.Context, c *config.Config) (*app, error) {
	a := &app{}

	cache, err := a.newCache(ctx, c)
	if err != nil {
		a.Close()
		return nil, err
	}

	wikiClient, err := wiki.New(&wiki.Config{
		BaseURL:     c.Wiki.BaseURL,
		UserAgent:   c.Wiki.UserAgent,
		From:        c.Wiki.From,
		HTTPTimeout: c.Wiki.Timeout,
	})
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "failed to create wiki client")
	}

	rec, err := reconciler.NewOrchestrator(&reconciler.Config{
		Cache:  cache,
		Wiki:   wikiClient,
		MaxAge: c.Cache.MaxAge,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.lookup, err = lookup.NewOrchestrator(&lookup.Config{
		Reconciler:        rec,
		WeaponsPage:       c.Wiki.WeaponsPage,
		StatusEffectsPage: c.Wiki.StatusEffectsPage,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	slog.DebugContext(ctx, "lookup stack ready", "cache_backend", c.Cache.Backend)
	return a, nil
}

func (a *app) newCache(ctx context.Context, c *config.Config) (pagecache.Repository, error) {
	switch c.Cache.Backend {
	case config.BackendFS:
		return pagecache.NewFS(&pagecache.FSConfig{Dir: c.Cache.Dir})

	case config.BackendRedis:
		client, err := redis.New(c.Redis.Endpoints, &redis.Options{
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			UseTLS:   c.Redis.UseTLS,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return pagecache.NewRedis(&pagecache.RedisConfig{Client: client, KeyPrefix: c.Redis.KeyPrefix})

	case config.BackendSQLite:
		db, err := pagecache.OpenSQLite(ctx, c.SQLite.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return pagecache.NewSQL(ctx, &pagecache.SQLConfig{DB: db, Table: c.SQLite.Table})

	case config.BackendObject:
		store, err := pagecache.NewMinioStore(&pagecache.MinioConfig{
			Endpoint:  c.Object.Endpoint,
			AccessKey: c.Object.AccessKey,
			SecretKey: c.Object.SecretKey,
			Region:    c.Object.Region,
			UseSSL:    c.Object.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		return pagecache.NewObject(&pagecache.ObjectConfig{
			Store:  store,
			Bucket: c.Object.Bucket,
			Prefix: c.Object.Prefix,
		})

	default:
		return nil, errors.InvalidArgumentf("unknown cache backend %q", c.Cache.Backend)
	}
}

// Close releases backend connections.
func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			slog.Warn("failed to close backend", "error", err)
		}
	}
	a.closers = nil
}
