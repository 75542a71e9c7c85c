package session

import (
	"context"
	"sync"

	"github.com/ndvals/notably/internal/client/api"
)

// ResetState is the view of an in-progress password-reset flow.
type ResetState struct {
	Loading bool
	Error   string
	Success string
}

// PasswordReset drives the forgot/reset password flow. It is independent of
// the session Manager: neither operation requires an authenticated session.
type PasswordReset struct {
	client api.Client

	mu    sync.Mutex
	state ResetState
}

func NewPasswordReset(client api.Client) *PasswordReset {
	return &PasswordReset{client: client}
}

func (p *PasswordReset) State() ResetState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *PasswordReset) set(fn func(*ResetState)) {
	p.mu.Lock()
	fn(&p.state)
	p.mu.Unlock()
}

// ForgotPassword requests a reset email and records the server's
// confirmation message. The error is re-returned for the calling form.
func (p *PasswordReset) ForgotPassword(ctx context.Context, email string) error {
	p.set(func(s *ResetState) { *s = ResetState{Loading: true} })

	msg, err := p.client.ForgotPassword(ctx, email)
	if err != nil {
		p.set(func(s *ResetState) { *s = ResetState{Error: api.ErrorMessage(err)} })
		return err
	}

	p.set(func(s *ResetState) { *s = ResetState{Success: msg} })
	return nil
}

// ResetPassword exchanges a reset token for a new password. On success the
// client has already persisted the freshly issued session token.
func (p *PasswordReset) ResetPassword(ctx context.Context, data api.ResetPasswordData) error {
	p.set(func(s *ResetState) { *s = ResetState{Loading: true} })

	if _, err := p.client.ResetPassword(ctx, data); err != nil {
		p.set(func(s *ResetState) { *s = ResetState{Error: api.ErrorMessage(err)} })
		return err
	}

	p.set(func(s *ResetState) { *s = ResetState{Success: "Password reset successfully"} })
	return nil
}

// ClearMessages resets error and success messages.
func (p *PasswordReset) ClearMessages() {
	p.set(func(s *ResetState) { s.Error, s.Success = "", "" })
}
