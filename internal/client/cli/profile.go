package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ndvals/notably/internal/client/api"
	"github.com/ndvals/notably/internal/client/validation"
)

// WhoAmI prints the current profile.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.Snapshot().User
	if u == nil {
		printlnFn("Not logged in.")
		return nil
	}

	printlnFn("Name:  ", u.Name)
	printlnFn("Email: ", u.Email)
	if u.Mobile != "" {
		printlnFn("Mobile:", u.Mobile)
	}
	if u.ProfilePicture != nil && u.ProfilePicture.URL != "" {
		printlnFn("Picture:", u.ProfilePicture.URL)
	}
	return nil
}

// UpdateProfile prompts for new profile values. Empty answers keep the
// current value; only changed fields are sent.
func (a *App) UpdateProfile(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "New name (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	mobile, err := getSimpleText(a.reader, "New mobile (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}

	data := api.UpdateProfileData{}
	if name != "" {
		data.Name = &name
	}
	if mobile != "" {
		data.Mobile = &mobile
	}
	if data.Name == nil && data.Mobile == nil {
		printlnFn("Nothing to update.")
		return nil
	}

	if res := validation.ValidateUpdateProfileData(data); !res.Valid {
		printValidation(res)
		return errValidation
	}

	if err := a.session.UpdateProfile(ctx, data); err != nil {
		printErr(err)
		return err
	}

	printlnFn("Profile updated.")
	return nil
}

// UploadPicture reads an image from disk and uploads it as the profile
// picture.
func (a *App) UploadPicture(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Path to image file", os.Stdout)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		printlnFn("Cannot open file:", err.Error())
		return err
	}
	defer f.Close()

	if err := a.session.UploadProfilePicture(ctx, filepath.Base(path), f); err != nil {
		printErr(err)
		return err
	}

	printlnFn("Profile picture updated.")
	return nil
}

// DeletePicture removes the profile picture.
func (a *App) DeletePicture(ctx context.Context) error {
	if err := a.session.DeleteProfilePicture(ctx); err != nil {
		printErr(err)
		return err
	}

	printlnFn("Profile picture removed.")
	return nil
}

// DeleteAccount permanently deletes the account. The password is required
// as confirmation; the operation cannot be undone.
func (a *App) DeleteAccount(ctx context.Context) error {
	confirm, err := getSimpleText(a.reader, "Type DELETE to confirm account deletion", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "DELETE" {
		printlnFn("Aborted.")
		return nil
	}

	password, err := getPassword(os.Stdout, "Enter password")
	if err != nil {
		return err
	}

	msg, err := a.session.DeleteAccount(ctx, password)
	if err != nil {
		printErr(err)
		return err
	}

	printlnFn(msg)
	return nil
}
