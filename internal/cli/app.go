package cli

import (
	"context"
	"time"

	"resumelens/internal/analyzer"
	"resumelens/internal/cache"
	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/extract"
	"resumelens/internal/observability"
	"resumelens/internal/roles"
	"resumelens/internal/service"
	"resumelens/internal/source"
	"resumelens/internal/store"
)

// appOptions selects which backing services a command needs.
type appOptions struct {
	store         bool
	cache         bool
	watchRoles    bool
	observability bool
}

// app is the wired service plus everything that must be closed with it.
type app struct {
	service *service.Service
	om      *observability.ObservabilityManager
	store   store.Store
	cache   cache.Cache
	watcher *roles.Watcher
	logger  *errors.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logger *errors.Logger, opts appOptions) (_ *app, err error) {
	rt := &app{logger: logger}
	defer func() {
		if err != nil {
			rt.Close()
		}
	}()

	if opts.observability {
		if rt.om, err = observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version)); err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to initialize observability", err)
		}
	}
	metrics := rt.om.GetMetrics()

	registry, err := roles.NewRegistry(cfg.Roles.File, logger)
	if err != nil {
		return nil, err
	}
	if opts.watchRoles && cfg.Roles.Watch {
		onReload := func(err error) { metrics.RecordRoleReload(context.Background(), err == nil) }
		if rt.watcher, err = roles.NewWatcher(registry, cfg.Roles.DebounceDelay, onReload, logger); err != nil {
			return nil, err
		}
		if err = rt.watcher.Start(); err != nil {
			return nil, err
		}
	}

	a := analyzer.New(
		analyzer.WithPolicy(cfg.Analysis),
		analyzer.WithExtractor(extract.New(
			extract.WithTimeout(cfg.Extraction.Timeout),
			extract.WithLogger(logger),
		)),
	)

	svcOpts := []service.Option{service.WithLogger(logger), service.WithMetrics(metrics)}
	if opts.store {
		if rt.store, err = store.Open(ctx, cfg.Store, logger); err != nil {
			return nil, err
		}
		svcOpts = append(svcOpts, service.WithStore(rt.store))
	}
	if opts.cache {
		rt.cache = cache.New(ctx, cfg.Cache, logger)
		svcOpts = append(svcOpts, service.WithCache(rt.cache))
	}
	if cfg.Storage.S3.Bucket != "" {
		src, err := source.NewS3Source(ctx, cfg.Storage.S3, cfg.App.MaxFileSize, logger)
		if err != nil {
			return nil, err
		}
		svcOpts = append(svcOpts, service.WithSource(src))
	}

	rt.service = service.New(a, registry, svcOpts...)
	return rt, nil
}

// Close releases everything newApp opened. It is safe on a partially built app.
func (rt *app) Close() {
	if rt.watcher != nil {
		if err := rt.watcher.Stop(); err != nil {
			rt.logger.LogError(err, "Failed to stop role catalog watcher")
		}
	}
	if rt.cache != nil {
		if err := rt.cache.Close(); err != nil {
			rt.logger.LogError(err, "Failed to close cache")
		}
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			rt.logger.LogError(err, "Failed to close store")
		}
	}
	if rt.om != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.om.Shutdown(ctx); err != nil {
			rt.logger.LogError(err, "Failed to shutdown observability")
		}
	}
}
