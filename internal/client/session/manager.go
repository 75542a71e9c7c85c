// Package session holds the single source of truth for "who is logged in
// right now". A Manager wraps the API client and credential store, exposes
// imperative actions, and publishes a fresh Snapshot on every state change.
package session

import (
	"context"
	"io"
	"sync"

	"github.com/asaskevich/EventBus"

	"github.com/ndvals/notably/internal/client/api"
	"github.com/ndvals/notably/internal/client/token"
	"github.com/ndvals/notably/internal/logging"
)

// TopicChanged is the event-bus topic on which snapshot changes are
// published. Subscribers receive the new Snapshot as the sole argument.
const TopicChanged = "session.changed"

// Snapshot is the current view of authentication state. It is replaced
// wholesale on every state change, never patched, so a consumer can never
// observe a half-updated profile. The User pointer is shared; consumers must
// treat it as read-only.
type Snapshot struct {
	User *api.User

	// LoadingUser holds an optimistic profile the instant login or
	// registration succeeds, letting the UI greet the user before the view
	// transition completes. It is cleared only when a new login/register
	// starts or fails.
	LoadingUser *api.User

	Loading         bool
	Error           string
	IsAuthenticated bool
}

// Manager is the session state machine. Exactly one instance exists per
// running application. Actions are not mutually exclusive; when two race,
// last-write-wins applies, but each snapshot write is atomic.
type Manager struct {
	client api.Client
	store  token.Store
	bus    EventBus.Bus
	log    logging.Logger

	mu          sync.Mutex
	user        *api.User
	loadingUser *api.User
	loading     bool
	errMsg      string
}

// NewManager builds a Manager in the Bootstrapping state (loading=true).
// Call Bootstrap once to recover any persisted session. A nil bus gets a
// private one.
func NewManager(client api.Client, store token.Store, bus EventBus.Bus, log logging.Logger) *Manager {
	if bus == nil {
		bus = EventBus.New()
	}
	return &Manager{client: client, store: store, bus: bus, log: log, loading: true}
}

// Bus exposes the event bus so views can subscribe to TopicChanged.
func (m *Manager) Bus() EventBus.Bus {
	return m.bus
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		User:            m.user,
		LoadingUser:     m.loadingUser,
		Loading:         m.loading,
		Error:           m.errMsg,
		IsAuthenticated: m.user != nil,
	}
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// mutate applies fn under the lock and publishes the resulting snapshot.
func (m *Manager) mutate(fn func(*Manager)) {
	m.mu.Lock()
	fn(m)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.bus.Publish(TopicChanged, snap)
}

// Bootstrap performs the one-time session recovery at startup. If a live
// token is persisted, the current user is fetched; any failure clears the
// offending token and settles the session as unauthenticated. Loading flips
// to false exactly once, whatever path is taken.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.mutate(func(m *Manager) { m.loading = true; m.errMsg = "" })

	if !token.CheckStatus(m.store) {
		m.log.Info(ctx, "no persisted session")
		m.mutate(func(m *Manager) { m.loading = false })
		return
	}

	u, err := m.client.GetCurrentUser(ctx)
	if err != nil {
		m.log.Warn(ctx, "session bootstrap failed", "error", err)
		_ = m.store.Remove()
		m.mutate(func(m *Manager) { m.errMsg = api.ErrorMessage(err); m.loading = false })
		return
	}

	m.log.Info(ctx, "session restored", "user", u.Email)
	m.mutate(func(m *Manager) { m.user = u; m.loading = false })
}

// Login authenticates and, on success, sets both the optimistic LoadingUser
// and User. The error is re-returned so the calling form can react (keep its
// values, stay on page).
func (m *Manager) Login(ctx context.Context, credentials api.LoginData) error {
	m.mutate(func(m *Manager) { m.loading = true; m.errMsg = ""; m.loadingUser = nil })

	u, err := m.client.Login(ctx, credentials)
	if err != nil {
		m.mutate(func(m *Manager) {
			m.errMsg = api.ErrorMessage(err)
			m.loadingUser = nil
			m.loading = false
		})
		return err
	}

	m.mutate(func(m *Manager) { m.loadingUser = u; m.user = u; m.loading = false })
	return nil
}

// Register creates an account; symmetric to Login.
func (m *Manager) Register(ctx context.Context, data api.RegisterData) error {
	m.mutate(func(m *Manager) { m.loading = true; m.errMsg = ""; m.loadingUser = nil })

	u, err := m.client.Register(ctx, data)
	if err != nil {
		m.mutate(func(m *Manager) {
			m.errMsg = api.ErrorMessage(err)
			m.loadingUser = nil
			m.loading = false
		})
		return err
	}

	m.mutate(func(m *Manager) { m.loadingUser = u; m.user = u; m.loading = false })
	return nil
}

// Logout clears the user and error unconditionally. Remote failure is
// already swallowed by the client's guaranteed local cleanup.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.client.Logout(ctx); err != nil {
		m.log.Warn(ctx, "logout failed", "error", err)
	}
	m.mutate(func(m *Manager) { m.user = nil; m.errMsg = "" })
}

// runProfileAction is the shared skeleton of the profile mutations: set
// loading, clear error, replace the user wholesale on success, surface and
// re-return the classified error on failure.
func (m *Manager) runProfileAction(action func() (*api.User, error)) error {
	m.mutate(func(m *Manager) { m.loading = true; m.errMsg = "" })

	u, err := action()
	if err != nil {
		m.mutate(func(m *Manager) { m.errMsg = api.ErrorMessage(err); m.loading = false })
		return err
	}

	m.mutate(func(m *Manager) { m.user = u; m.loading = false })
	return nil
}

// UpdateProfile patches the profile and replaces the cached user.
func (m *Manager) UpdateProfile(ctx context.Context, data api.UpdateProfileData) error {
	return m.runProfileAction(func() (*api.User, error) {
		return m.client.UpdateProfile(ctx, data)
	})
}

// UploadProfilePicture uploads a new picture and replaces the cached user.
func (m *Manager) UploadProfilePicture(ctx context.Context, filename string, file io.Reader) error {
	return m.runProfileAction(func() (*api.User, error) {
		res, err := m.client.UploadProfilePicture(ctx, filename, file)
		if err != nil {
			return nil, err
		}
		return res.User, nil
	})
}

// DeleteProfilePicture removes the picture and replaces the cached user.
func (m *Manager) DeleteProfilePicture(ctx context.Context) error {
	return m.runProfileAction(func() (*api.User, error) {
		return m.client.DeleteProfilePicture(ctx)
	})
}

// DeleteAccount permanently removes the account after password
// confirmation. On success the client has already discarded the stored
// token; the session settles unauthenticated. The server's confirmation
// message is returned for display.
func (m *Manager) DeleteAccount(ctx context.Context, password string) (string, error) {
	m.mutate(func(m *Manager) { m.loading = true; m.errMsg = "" })

	msg, err := m.client.DeleteAccount(ctx, password)
	if err != nil {
		m.mutate(func(m *Manager) { m.errMsg = api.ErrorMessage(err); m.loading = false })
		return "", err
	}

	m.mutate(func(m *Manager) { m.user = nil; m.loading = false })
	return msg, nil
}

// ClearError resets the error field. Pure state change, no I/O.
func (m *Manager) ClearError() {
	m.mutate(func(m *Manager) { m.errMsg = "" })
}

// IsAuthenticated checks the persisted credential, removing it when expired.
func (m *Manager) IsAuthenticated() bool {
	return token.CheckStatus(m.store)
}

// Token returns the raw stored credential, or token.ErrNoToken.
func (m *Manager) Token() (string, error) {
	return m.store.Get()
}
