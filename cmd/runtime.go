package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/maypok86/otter"
	"github.com/nerdwave-nick/pokeview/internal/cache"
	"github.com/nerdwave-nick/pokeview/internal/config"
	"github.com/nerdwave-nick/pokeview/internal/metrics"
	"github.com/nerdwave-nick/pokeview/internal/pokeapi"
)

// runtime bundles what every subcommand needs to talk to the catalog.
type runtime struct {
	fetcher *pokeapi.Fetcher
	metrics *metrics.Metrics
	db      *badger.DB
}

func (r *runtime) Close() {
	if r.db == nil {
		return
	}
	if err := r.db.Close(); err != nil {
		slog.Error("shutting down db", slog.Any("error", err))
	}
}

// openRuntime builds the cache layers and the catalog client. The badger
// gc loop stops with ctx.
func openRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	m := metrics.New()
	rt := &runtime{metrics: m}

	// in memory otter cache
	oc, err := otter.MustBuilder[string, []byte](cfg.Cache.L1Size).
		WithTTL(cfg.Cache.L1TTL.Duration).
		Build()
	if err != nil {
		return nil, err
	}
	layers := []pokeapi.Cache{cache.NewOtterCache(&oc, m)}

	// persistent badger db
	if !cfg.Cache.NoPersist {
		db, err := badger.Open(badger.DefaultOptions(cfg.Cache.DBPath).WithLogger(&BadgerLoggerWrapper{}))
		if err != nil {
			return nil, fmt.Errorf("opening badger db %q: %w", cfg.Cache.DBPath, err)
		}
		rt.db = db
		layers = append(layers, cache.NewBadgerCache(db, cfg.Cache.L2TTL.Duration, m))
		badgerBackgroundGC(ctx, db, cfg.Cache.GCInterval.Duration)
		slog.Debug("badger db background gc started...")
	}

	// multi layer cache with preference for the in memory cache
	multiCache := cache.NewMultiLayerCache(layers...)
	client := pokeapi.NewClient(multiCache, http.Client{Timeout: cfg.Timeout.Duration}, cfg.BaseURL, m)
	rt.fetcher = pokeapi.NewFetcher(client, cfg.MaxID)
	return rt, nil
}

func badgerBackgroundGC(ctx context.Context, db *badger.DB, gcInterval time.Duration) {
	go func() {
		for {
			select {
			case <-time.After(gcInterval):
				err := db.RunValueLogGC(0.5)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						slog.Error("running the badger db gc", slog.Any("error", err))
					}
				}
			case <-ctx.Done():
				slog.Debug("badger gc loop shut down")
				return
			}
		}
	}()
}

type BadgerLoggerWrapper struct{}

func (*BadgerLoggerWrapper) Errorf(format string, args ...interface{}) {
	slog.Error("badger " + strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

func (*BadgerLoggerWrapper) Warningf(format string, args ...interface{}) {
	slog.Warn("badger " + strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

func (*BadgerLoggerWrapper) Infof(format string, args ...interface{}) {
	slog.Info("badger " + strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

func (*BadgerLoggerWrapper) Debugf(format string, args ...interface{}) {
	slog.Debug("badger " + strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}
