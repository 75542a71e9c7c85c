// Package guard decides whether a view may be shown for a given session
// snapshot. Guards are pure functions; they never trigger navigation
// themselves, they only tell the caller what to do.
package guard

import "github.com/ndvals/notably/internal/client/session"

// LoginRoute is where unauthenticated users are sent when they hit a
// protected view.
const LoginRoute = "login"

// HomeRoute is where authenticated users are sent away from auth-only views
// such as the login form.
const HomeRoute = "home"

// Action is a guard's verdict.
type Action int

const (
	// ActionAllow renders the requested view.
	ActionAllow Action = iota
	// ActionWait keeps the current view until session bootstrap settles.
	ActionWait
	// ActionRedirect navigates to Decision.RedirectTo instead.
	ActionRedirect
)

// Decision is the outcome of a guard check. From carries the originally
// requested view on redirects so it can be resumed after login.
type Decision struct {
	Action     Action
	RedirectTo string
	From       string
}

// Protected gates views that require an authenticated user. While the
// session is still loading no verdict is possible yet.
func Protected(snap session.Snapshot, target string) Decision {
	if snap.Loading {
		return Decision{Action: ActionWait}
	}
	if !snap.IsAuthenticated {
		return Decision{Action: ActionRedirect, RedirectTo: LoginRoute, From: target}
	}
	return Decision{Action: ActionAllow}
}

// AuthenticatedOnly is Protected without return-to tracking.
func AuthenticatedOnly(snap session.Snapshot) Decision {
	return Protected(snap, "")
}

// UnauthenticatedOnly gates views that only make sense logged out, such as
// the login and registration forms.
func UnauthenticatedOnly(snap session.Snapshot) Decision {
	if snap.Loading {
		return Decision{Action: ActionWait}
	}
	if snap.IsAuthenticated {
		return Decision{Action: ActionRedirect, RedirectTo: HomeRoute}
	}
	return Decision{Action: ActionAllow}
}
