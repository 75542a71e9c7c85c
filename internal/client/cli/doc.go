// Package cli provides the interactive Notably command-line client.
//
// It wires configuration, the credential store, the API client, and the
// session manager into an interactive REPL. On startup the app recovers any
// persisted session, then executes user commands.
//
// Key features:
//   - Register / Login / Logout with field validation before any network call
//   - Profile: show, update, upload and remove the profile picture
//   - Password reset: request an email, redeem a reset token
//   - Account deletion with password confirmation
//
// Commands that require an authenticated session are gated by the guard
// package; when a guard redirects to login, the original command is
// remembered and re-run after a successful login.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
