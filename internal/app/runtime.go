package app

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/avisos/internal/archive"
	"github.com/dmitrijs2005/avisos/internal/cache"
	"github.com/dmitrijs2005/avisos/internal/config"
	"github.com/dmitrijs2005/avisos/internal/identity"
	"github.com/dmitrijs2005/avisos/internal/live"
	"github.com/dmitrijs2005/avisos/internal/logging"
	"github.com/dmitrijs2005/avisos/internal/repositories/repomanager"
	"github.com/dmitrijs2005/avisos/internal/services"
	"github.com/dmitrijs2005/avisos/internal/store"
	"github.com/dmitrijs2005/avisos/internal/timex"
	"github.com/dmitrijs2005/avisos/internal/versioning"
)

// Runtime is the store plus the services built on it, shared by the daemon
// and the admin CLI.
type Runtime struct {
	Config *config.Config
	Log    logging.Logger
	Clock  timex.Clock

	Store *store.Store
	Hub   *live.Hub
	Cache *cache.NoteCache
	Users *identity.Provider

	Notes     *services.NoteService
	Lifecycle *services.LifecycleService
	Query     *services.QueryService
}

var (
	openStore   = store.Open
	newArchiver = func(ctx context.Context, o archive.S3Options) (archive.Archiver, error) {
		return archive.NewS3Archiver(ctx, o)
	}
)

// NewRuntime opens the configured store, applies migrations and wires the
// services.
func NewRuntime(ctx context.Context, cfg *config.Config, log logging.Logger) (*Runtime, error) {
	repomanager.SetLogger(log)
	st, err := openStore(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var arch archive.Archiver = archive.Nop{}
	if cfg.ArchiveEnabled() {
		arch, err = newArchiver(ctx, archive.S3Options{
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
			Prefix:       cfg.S3Prefix,
		})
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("archive init error: %w", err)
		}
	}

	hub := live.NewHub()
	c, err := cache.NewNoteCache(cfg.CacheSize, hub)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("cache init error: %w", err)
	}

	rt := &Runtime{
		Config: cfg,
		Log:    log,
		Clock:  timex.SystemClock,
		Store:  st,
		Hub:    hub,
		Cache:  c,
		Users:  identity.NewProvider(cfg.Users),
	}
	deps := services.Deps{DB: st.DB, Repos: st.Repos, Hub: hub, Clock: rt.now, Log: log}
	rt.Notes = services.NewNoteService(deps, versioning.Policy{TrackSubcategory: cfg.TrackSubcategory})
	rt.Lifecycle = services.NewLifecycleService(deps, arch, cfg.RetentionDays)
	rt.Query = services.NewQueryService(deps, c)

	log.Info(ctx, "store ready", "driver", cfg.DatabaseDriver, "archive", cfg.ArchiveEnabled())
	return rt, nil
}

// now reads Clock on every call so tests can swap it after construction.
func (r *Runtime) now() int64 { return r.Clock() }

func (r *Runtime) Close() error {
	r.Cache.Close()
	return r.Store.Close()
}
