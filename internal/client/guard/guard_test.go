package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndvals/notably/internal/client/api"
	"github.com/ndvals/notably/internal/client/session"
)

func TestProtectedWhileLoading(t *testing.T) {
	d := Protected(session.Snapshot{Loading: true}, "profile")
	assert.Equal(t, ActionWait, d.Action)
}

func TestProtectedUnauthenticated(t *testing.T) {
	d := Protected(session.Snapshot{}, "profile")
	assert.Equal(t, ActionRedirect, d.Action)
	assert.Equal(t, LoginRoute, d.RedirectTo)
	assert.Equal(t, "profile", d.From)
}

func TestProtectedAuthenticated(t *testing.T) {
	snap := session.Snapshot{User: &api.User{ID: "u1"}, IsAuthenticated: true}
	d := Protected(snap, "profile")
	assert.Equal(t, ActionAllow, d.Action)
}

func TestUnauthenticatedOnly(t *testing.T) {
	d := UnauthenticatedOnly(session.Snapshot{Loading: true})
	assert.Equal(t, ActionWait, d.Action)

	d = UnauthenticatedOnly(session.Snapshot{})
	assert.Equal(t, ActionAllow, d.Action)

	snap := session.Snapshot{User: &api.User{ID: "u1"}, IsAuthenticated: true}
	d = UnauthenticatedOnly(snap)
	assert.Equal(t, ActionRedirect, d.Action)
	assert.Equal(t, HomeRoute, d.RedirectTo)
}

func TestAuthenticatedOnly(t *testing.T) {
	d := AuthenticatedOnly(session.Snapshot{})
	assert.Equal(t, ActionRedirect, d.Action)
	assert.Empty(t, d.From)
}
