package cli

import (
	"context"
	"errors"
	"os"
	"sort"

	"github.com/ndvals/notably/internal/client/api"
	"github.com/ndvals/notably/internal/client/validation"
)

// errValidation marks a command aborted by local validation, before any
// network call was made.
var errValidation = errors.New("validation failed")

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// printValidation reports local validation failures, one field per line, in
// a stable order.
func printValidation(res validation.Result) {
	fields := make([]string, 0, len(res.Errors))
	for f := range res.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		printlnFn(f + ": " + res.Errors[f])
	}
}

// printErr reports a failed remote operation, including per-field details
// when the server rejected the submitted values.
func printErr(err error) {
	printlnFn(api.ErrorMessage(err))
	if fields := api.ValidationFields(err); len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for f := range fields {
			keys = append(keys, f)
		}
		sort.Strings(keys)
		for _, f := range keys {
			printlnFn("  " + f + ": " + fields[f])
		}
	}
}

// Register prompts for the registration form, validates it locally, and
// creates the account. Validation failures are printed and no network call
// is made; the user can retry with corrected values.
func (a *App) Register(ctx context.Context) error {
	data := api.RegisterData{}
	var err error

	if data.Name, err = getSimpleText(a.reader, "Enter name", os.Stdout); err != nil {
		return err
	}
	if data.Email, err = getSimpleText(a.reader, "Enter email", os.Stdout); err != nil {
		return err
	}
	if data.Password, err = getPassword(os.Stdout, "Enter password"); err != nil {
		return err
	}
	if data.PasswordConfirm, err = getPassword(os.Stdout, "Confirm password"); err != nil {
		return err
	}
	if data.Mobile, err = getSimpleText(a.reader, "Enter mobile (optional)", os.Stdout); err != nil {
		return err
	}

	if res := validation.ValidateRegisterData(data); !res.Valid {
		printValidation(res)
		return errValidation
	}

	if err := a.session.Register(ctx, data); err != nil {
		printErr(err)
		return err
	}

	printlnFn("Account created. Welcome,", a.session.Snapshot().User.Name)
	return nil
}

// Login prompts for credentials, validates them locally, and authenticates.
func (a *App) Login(ctx context.Context) error {
	data := api.LoginData{}
	var err error

	if data.Email, err = getSimpleText(a.reader, "Enter email", os.Stdout); err != nil {
		return err
	}
	if data.Password, err = getPassword(os.Stdout, "Enter password"); err != nil {
		return err
	}

	if res := validation.ValidateLoginData(data); !res.Valid {
		printValidation(res)
		return errValidation
	}

	if err := a.session.Login(ctx, data); err != nil {
		printErr(err)
		return err
	}

	printlnFn("Logged in as", a.session.Snapshot().User.Email)
	return nil
}

// Logout ends the session. Local state is always cleared.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}

// ForgotPassword requests a password-reset email.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	if msg := validation.ValidateField("email", email); msg != "" {
		printlnFn(msg)
		return errValidation
	}

	if err := a.reset.ForgotPassword(ctx, email); err != nil {
		printErr(err)
		return err
	}

	printlnFn(a.reset.State().Success)
	return nil
}

// ResetPassword redeems a reset token for a new password. On success the
// fresh session token is already persisted.
func (a *App) ResetPassword(ctx context.Context) error {
	data := api.ResetPasswordData{}
	var err error

	if data.Token, err = getSimpleText(a.reader, "Enter reset token", os.Stdout); err != nil {
		return err
	}
	if data.Password, err = getPassword(os.Stdout, "Enter new password"); err != nil {
		return err
	}
	if data.PasswordConfirm, err = getPassword(os.Stdout, "Confirm new password"); err != nil {
		return err
	}

	if res := validation.ValidateResetPasswordData(data); !res.Valid {
		printValidation(res)
		return errValidation
	}

	if err := a.reset.ResetPassword(ctx, data); err != nil {
		printErr(err)
		return err
	}

	printlnFn(a.reset.State().Success)
	return nil
}
