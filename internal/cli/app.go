// Package cli wires configuration, logging, the journal store and the
// browser host into the dependencies shared by all commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/tabtile/tabtile/internal/application/usecase"
	"github.com/tabtile/tabtile/internal/config"
	"github.com/tabtile/tabtile/internal/domain/build"
	"github.com/tabtile/tabtile/internal/domain/entity"
	"github.com/tabtile/tabtile/internal/domain/repository"
	"github.com/tabtile/tabtile/internal/infrastructure/cdp"
	"github.com/tabtile/tabtile/internal/infrastructure/persistence/sqlite"
	"github.com/tabtile/tabtile/internal/logging"
)

// App holds CLI dependencies. The browser attachment is lazy: commands that
// never touch the browser (doctor, journal, version) must work while no
// browser is running.
type App struct {
	Config    *config.Config
	BuildInfo build.Info

	cfgMgr *config.Manager // nil when config loading fell back to defaults

	db      *sql.DB
	journal repository.JournalRepository

	registry *entity.ReferenceRegistry

	mu        sync.Mutex
	host      *cdp.Host
	hostErr   error
	arrange   *usecase.ArrangeUseCase
	reference *usecase.ReferenceUseCase

	ctx context.Context
}

// NewApp creates the application with config loaded and the journal opened.
func NewApp() (*App, error) {
	cfg, cfgMgr := loadConfig()

	logLevel := cfg.Logging.Level
	if envLevel := os.Getenv("TABTILE_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(logLevel),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})
	ctx := logging.WithContext(context.Background(), logger)

	app := &App{
		Config:   cfg,
		cfgMgr:   cfgMgr,
		registry: entity.NewReferenceRegistry(cfg.Reference.MaxWindows),
		ctx:      ctx,
	}

	if cfg.Journal.Enabled {
		db, err := sqlite.NewConnection(ctx, cfg.Journal.Path)
		if err != nil {
			// The journal is a convenience, not a prerequisite.
			logger.Warn().Err(err).Msg("journal unavailable, continuing without it")
		} else {
			app.db = db
			app.journal = sqlite.NewJournalRepository(db)
		}
	}

	return app, nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Journal returns the journal repository, nil when disabled or unavailable.
func (a *App) Journal() repository.JournalRepository {
	return a.journal
}

// Host attaches to the browser's DevTools endpoint on first use. The result
// is cached, including the failure: one browser, one attachment per process.
func (a *App) Host() (*cdp.Host, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.host != nil || a.hostErr != nil {
		return a.host, a.hostErr
	}

	attachCtx, cancel := context.WithTimeout(a.ctx, a.Config.Host.ConnectTimeout)
	defer cancel()

	host, err := cdp.Attach(attachCtx, a.Config.Host.DebugURL)
	if err != nil {
		a.hostErr = fmt.Errorf("no browser at %s (start it with --remote-debugging-port): %w",
			a.Config.Host.DebugURL, err)
		return nil, a.hostErr
	}
	a.host = host
	return a.host, nil
}

// Arrange returns the split use case, attaching to the browser if needed.
func (a *App) Arrange() (*usecase.ArrangeUseCase, error) {
	host, err := a.Host()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.arrange == nil {
		a.arrange = usecase.NewArrangeUseCase(host, a.journal,
			a.Config.Arrange.MinWidth, a.Config.Arrange.MinHeight)
	}
	return a.arrange, nil
}

// Reference returns the reference window use case, attaching to the browser
// if needed and subscribing it to window-removed events.
func (a *App) Reference() (*usecase.ReferenceUseCase, error) {
	host, err := a.Host()
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reference == nil {
		a.reference = usecase.NewReferenceUseCase(host, a.registry, a.journal,
			a.Config.Reference.WidthRatio)
		a.reference.Subscribe(host)
	}
	return a.reference, nil
}

// WatchConfig starts watching the config file and applies edits to the
// running process: split minima, reference capacity and width ratio take
// effect on the next operation. Meant for long-running commands; one-shot
// commands read the config once and exit.
func (a *App) WatchConfig() error {
	if a.cfgMgr == nil {
		return fmt.Errorf("config manager unavailable")
	}

	a.cfgMgr.OnConfigChange(func(cfg *config.Config) {
		a.mu.Lock()
		a.Config = cfg
		arrange := a.arrange
		reference := a.reference
		a.mu.Unlock()

		a.registry.SetCapacity(cfg.Reference.MaxWindows)
		if arrange != nil {
			arrange.SetMinSize(cfg.Arrange.MinWidth, cfg.Arrange.MinHeight)
		}
		if reference != nil {
			reference.SetWidthRatio(cfg.Reference.WidthRatio)
		}

		logging.FromContext(a.ctx).Info().
			Int("max_windows", cfg.Reference.MaxWindows).
			Int("min_width", cfg.Arrange.MinWidth).
			Int("min_height", cfg.Arrange.MinHeight).
			Msg("configuration reloaded")
	})

	return a.cfgMgr.Watch()
}

// Close releases all resources.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.host != nil {
		a.host.Close()
		a.host = nil
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// loadConfig loads configuration from standard locations. The manager is nil
// when loading fell back to the built-in defaults.
func loadConfig() (*config.Config, *config.Manager) {
	mgr, err := config.NewManager()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	if err := mgr.Load(); err != nil {
		return config.DefaultConfig(), nil
	}
	return mgr.Get(), mgr
}
