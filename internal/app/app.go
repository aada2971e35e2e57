// Package app wires configuration, storage, auth and the shell into a
// runnable program and handles shutdown signals.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/dataroom/internal/auth"
	"github.com/dmitrijs2005/dataroom/internal/blobstore"
	"github.com/dmitrijs2005/dataroom/internal/cli"
	"github.com/dmitrijs2005/dataroom/internal/config"
	"github.com/dmitrijs2005/dataroom/internal/logging"
	"github.com/dmitrijs2005/dataroom/internal/repositories/repomanager"
	"github.com/dmitrijs2005/dataroom/internal/state"
	"github.com/dmitrijs2005/dataroom/internal/storage"
)

// newS3Store is a test seam.
var newS3Store = func(ctx context.Context, c blobstore.Config) (storage.ContentStore, error) {
	return blobstore.NewS3Store(ctx, c)
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	shell  *cli.App
}

// NewApp opens the database (running migrations), connects the content
// store when configured and builds the shell on in/out. Logs go to logOut.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, _ := logging.ParseLevel(c.LogLevel)
	logger := logging.New(logOut, level, c.LogFormat)

	db, dialect, err := storage.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	opts := []storage.Option{storage.WithLogger(logger.With("component", "storage"))}
	if c.UsesS3() {
		cs, err := newS3Store(ctx, blobstore.Config{
			Region:       c.S3Region,
			AccessKey:    c.S3User,
			SecretKey:    c.S3Password,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("content store init error: %w", err)
		}
		opts = append(opts, storage.WithContentStore(cs))
	}

	engine := storage.New(db, dialect, opts...)
	authService := auth.NewService(db, repomanager.New(dialect),
		auth.Options{Secret: c.SessionSecret, TTL: c.SessionTTL},
		logger.With("component", "auth"))
	store := state.New(engine, logger.With("component", "state"), state.WithGate(authService))

	shell := cli.NewApp(cli.Deps{
		Store:     store,
		Auth:      authService,
		Stats:     engine,
		ExportDir: c.ExportDir,
		In:        in,
		Out:       out,
		Logger:    logger.With("component", "cli"),
	})

	logger.Debug(ctx, "app initialised", "driver", c.DatabaseDriver, "content_backend", c.ContentBackend)
	return &App{config: c, logger: logger, db: db, shell: shell}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the shell until the user exits or a signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	app.initSignalHandler(cancelFunc)

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.shell.Run(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down")
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "close database", "error", err)
	}
}
