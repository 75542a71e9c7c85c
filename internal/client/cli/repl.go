package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/ndvals/notably/internal/client/guard"
	"github.com/ndvals/notably/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Snapshot() session.Snapshot
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	UpdateProfile(ctx context.Context) error
	UploadPicture(ctx context.Context) error
	DeletePicture(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// protectedCommands require an authenticated session. When a guard check
// redirects to login, the command is remembered and re-run after the next
// successful login.
var protectedCommands = map[string]bool{
	"whoami":     true,
	"profile":    true,
	"upload":     true,
	"rmpicture":  true,
	"delaccount": true,
	"logout":     true,
}

// authFormCommands only make sense logged out.
var authFormCommands = map[string]bool{
	"login":    true,
	"register": true,
}

// runREPL starts a simple read–eval–print loop for the Notably CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - forgot         — request a password-reset email
//	  - reset          — redeem a password-reset token
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the current profile
//	  - profile        — update name / mobile
//	  - upload         — upload a profile picture
//	  - rmpicture      — remove the profile picture
//	  - delaccount     — delete the account (password confirmation)
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	pending := ""

	for {
		printlnFn(fmt.Sprintf("notably> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if protectedCommands[cmd] {
			switch d := guard.Protected(a.Snapshot(), cmd); d.Action {
			case guard.ActionWait:
				printlnFn("Session is still loading, try again.")
				continue
			case guard.ActionRedirect:
				printlnFn("Please log in first.")
				pending = d.From
				if err := a.Login(ctx); err != nil {
					pending = ""
					continue
				}
				cmd = pending
				pending = ""
			}
		}

		if authFormCommands[cmd] {
			if d := guard.UnauthenticatedOnly(a.Snapshot()); d.Action == guard.ActionRedirect {
				printlnFn("Already logged in.")
				continue
			}
		}

		switch cmd {
		case "help":
			if a.Snapshot().IsAuthenticated {
				printlnFn("Available commands: whoami, profile, upload, rmpicture, delaccount, logout, exit")
			} else {
				printlnFn("Available commands: register, login, forgot, reset, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "forgot":
			_ = a.ForgotPassword(ctx)

		case "reset":
			_ = a.ResetPassword(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			_ = a.UpdateProfile(ctx)

		case "upload":
			_ = a.UploadPicture(ctx)

		case "rmpicture":
			_ = a.DeletePicture(ctx)

		case "delaccount":
			_ = a.DeleteAccount(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
