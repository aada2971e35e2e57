package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/dataroom/internal/logging"
	"github.com/dmitrijs2005/dataroom/internal/models"
	"github.com/dmitrijs2005/dataroom/internal/state"
)

// Authenticator is the session surface the shell needs from auth.Service.
type Authenticator interface {
	Register(ctx context.Context, username string, password []byte) (*models.User, error)
	Login(ctx context.Context, username string, password []byte) (*models.Session, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*models.Session, error)
	IsAuthenticated(ctx context.Context) bool
	Refresh(ctx context.Context) (*models.Session, error)
	ChangePassword(ctx context.Context, username string, current, next []byte) error
}

type StatsSource interface {
	Stats(ctx context.Context) (models.Stats, error)
}

// Deps lists what NewApp wires together. In and Out default to nothing
// useful; cmd/dataroom passes stdin and stdout.
type Deps struct {
	Store     *state.Store
	Auth      Authenticator
	Stats     StatsSource
	ExportDir string
	In        io.Reader
	Out       io.Writer
	Logger    logging.Logger
}

type App struct {
	store     *state.Store
	auth      Authenticator
	stats     StatsSource
	exportDir string
	reader    *bufio.Reader
	out       io.Writer
	logger    logging.Logger
	now       func() time.Time

	activity string
}

func NewApp(d Deps) *App {
	logger := d.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &App{
		store:     d.Store,
		auth:      d.Auth,
		stats:     d.Stats,
		exportDir: d.ExportDir,
		reader:    bufio.NewReader(d.In),
		out:       d.Out,
		logger:    logger,
		now:       time.Now,
	}
}

// Run prints the welcome banner, opens the root folder when a session from
// a previous run is still valid, and then serves commands until exit.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the data room (type 'help' for commands)")

	unsubscribe := a.store.Subscribe(a.onStateChange)
	defer unsubscribe()

	if a.isLoggedIn(ctx) {
		if sess, err := a.auth.Session(ctx); err == nil {
			fmt.Fprintf(a.out, "Resuming session for %s\n", sess.Username)
		}
		if err := a.store.Navigate(ctx, nil); err != nil {
			a.logger.Error(ctx, "initial load failed", "error", err)
		}
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

// onStateChange announces long-running store work once when it starts.
func (a *App) onStateChange(snap state.Snapshot) {
	var activity string
	switch {
	case snap.IsUploading:
		activity = "Uploading..."
	case snap.IsSearching:
		activity = "Searching..."
	}
	if activity != "" && activity != a.activity {
		fmt.Fprintln(a.out, activity)
	}
	a.activity = activity
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.auth.IsAuthenticated(ctx)
}

// status renders the prompt prefix: current path and user.
func (a *App) status(ctx context.Context) string {
	sess, err := a.auth.Session(ctx)
	if err != nil {
		return "(guest)"
	}
	return fmt.Sprintf("%s (%s)", a.currentPath(), sess.Username)
}

func (a *App) currentPath() string {
	crumbs := a.store.Snapshot().Breadcrumbs
	if len(crumbs) == 0 {
		return "/"
	}
	return crumbs[len(crumbs)-1].Path
}
