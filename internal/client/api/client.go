// Package api implements the Notably session client: the set of remote
// authentication operations and the classifier that turns failed HTTP
// responses into typed errors. Raw transport errors never leave this
// package unclassified.
package api

import (
	"context"
	"io"
)

// Client defines the remote session operations used by the rest of the
// application. The concrete implementation is HTTPClient; tests substitute
// struct fakes.
type Client interface {
	Register(ctx context.Context, data RegisterData) (*User, error)
	Login(ctx context.Context, credentials LoginData) (*User, error)
	Logout(ctx context.Context) error
	GetCurrentUser(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, data UpdateProfileData) (*User, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, data ResetPasswordData) (*User, error)
	UploadProfilePicture(ctx context.Context, filename string, file io.Reader) (*ProfilePictureResult, error)
	DeleteProfilePicture(ctx context.Context) (*User, error)
	DeleteAccount(ctx context.Context, password string) (string, error)
}
