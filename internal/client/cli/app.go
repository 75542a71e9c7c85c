package cli

import (
	"bufio"
	"context"
	"os"
	"sync"

	"github.com/asaskevich/EventBus"

	"github.com/ndvals/notably/internal/client/api"
	"github.com/ndvals/notably/internal/client/config"
	"github.com/ndvals/notably/internal/client/session"
	"github.com/ndvals/notably/internal/client/token"
	"github.com/ndvals/notably/internal/logging"
)

// App is the interactive client. It owns the session manager and the
// password-reset flow and reads commands from stdin.
type App struct {
	config  *config.Config
	session *session.Manager
	reset   *session.PasswordReset
	log     logging.Logger
	reader  *bufio.Reader

	// statusMu guards the snapshot cached from session change events; the
	// prompt renders from this cache instead of polling the manager.
	statusMu sync.Mutex
	lastSnap session.Snapshot
}

func NewApp(c *config.Config, log logging.Logger) *App {
	store := token.NewFileStore(c.TokenPath)
	bus := EventBus.New()

	apiClient := api.NewHTTPClient(c.APIBaseURL, store, log,
		api.WithTimeout(c.RequestTimeout),
		api.WithOnAuthFailure(func() {
			printlnFn("Session expired. Please log in again.")
		}),
	)

	a := &App{
		config:  c,
		session: session.NewManager(apiClient, store, bus, log),
		reset:   session.NewPasswordReset(apiClient),
		log:     log,
		reader:  bufio.NewReader(os.Stdin),
	}

	a.lastSnap = a.session.Snapshot()
	_ = bus.Subscribe(session.TopicChanged, func(snap session.Snapshot) {
		a.statusMu.Lock()
		a.lastSnap = snap
		a.statusMu.Unlock()
	})

	return a
}

// Run recovers any persisted session and enters the REPL. It blocks until
// the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	a.session.Bootstrap(ctx)

	snap := a.session.Snapshot()
	if snap.IsAuthenticated {
		printlnFn("Welcome back,", snap.User.Name)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) Snapshot() session.Snapshot {
	return a.session.Snapshot()
}

func (a *App) status() string {
	a.statusMu.Lock()
	snap := a.lastSnap
	a.statusMu.Unlock()
	switch {
	case snap.Loading:
		return "(loading)"
	case snap.User != nil:
		return "(" + snap.User.Email + ")"
	default:
		return ""
	}
}
