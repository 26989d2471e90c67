package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/searchktools/login-server/config"
	"github.com/searchktools/login-server/core"
	"github.com/searchktools/login-server/core/http"
	"github.com/searchktools/login-server/core/middleware"
	"github.com/searchktools/login-server/handler"
	"github.com/searchktools/login-server/static"
	"github.com/searchktools/login-server/user"
)

// App wires the engine to its collaborators
type App struct {
	cfg    *config.Config
	engine *core.Engine
	logger zerolog.Logger
	users  *user.MemoryStore
	files  *static.FileStore
}

// New creates an application instance serving cfg.WebRoot
func New(cfg *config.Config) (*App, error) {
	logger := NewLogger(cfg)

	files, err := static.NewFileStore(cfg.WebRoot)
	if err != nil {
		return nil, err
	}

	engine := core.NewEngine(core.Options{
		BaseURL:     cfg.BaseURL(),
		MaxConns:    cfg.MaxConns,
		ReadTimeout: cfg.ReadTimeoutDuration(),
		Logger:      logger,
	})
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.AllowMethods(engine.Router()))

	users := user.NewMemoryStore()
	handler.New(users, files).Register(engine.Router())

	return &App{
		cfg:    cfg,
		engine: engine,
		logger: logger,
		users:  users,
		files:  files,
	}, nil
}

// Engine returns the underlying engine
func (a *App) Engine() *core.Engine {
	return a.engine
}

// Users returns the shared user store
func (a *App) Users() *user.MemoryStore {
	return a.users
}

// Run serves until SIGINT or SIGTERM, then drains in-flight connections
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.RunContext(ctx)
}

// RunContext serves until ctx is cancelled
func (a *App) RunContext(ctx context.Context) error {
	defer a.files.Close()

	a.logger.Info().
		Int("port", a.cfg.Port).
		Str("env", a.cfg.Env).
		Str("webroot", a.files.Dir()).
		Msg("server starting")

	err := a.engine.Run(ctx, a.cfg.Addr())

	buffers := http.BufferStats()
	a.logger.Info().
		Uint64("served", a.engine.Served()).
		Int("users", a.users.Len()).
		Uint64("small_buffers", buffers.SmallGets).
		Uint64("large_buffers", buffers.LargeGets).
		Uint64("dropped_buffers", buffers.Dropped).
		Msg("server stopped")
	return err
}
