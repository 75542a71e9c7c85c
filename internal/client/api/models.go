package api

import "time"

// User is the profile owned by the remote system. The client holds a read
// cache only, replaced wholesale on every successful fetch or mutation.
type User struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Mobile         string          `json:"mobile,omitempty"`
	ProfilePicture *ProfilePicture `json:"profilePicture,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type ProfilePicture struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	OriginalName string `json:"originalName"`
}

type RegisterData struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,strongpassword"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
	Mobile          string `json:"mobile,omitempty" validate:"omitempty,mobile"`
	ProfilePicture  string `json:"profilePicture,omitempty"`
}

type LoginData struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileData uses pointers so "field not provided" and "field set to
// empty" stay distinguishable, matching PATCH semantics.
type UpdateProfileData struct {
	Name           *string `json:"name,omitempty"`
	Mobile         *string `json:"mobile,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

type ResetPasswordData struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,strongpassword"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// ProfilePictureResult is the payload of a successful picture upload.
type ProfilePictureResult struct {
	ProfilePictureURL string
	User              *User
}

// envelope is the wire format shared by all endpoints:
// {status:"success"|"error", message?, token?, data?, errors?}.
type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Token   string            `json:"token,omitempty"`
	Data    *envelopeData     `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type envelopeData struct {
	User              *User  `json:"user,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

func (e *envelope) success() bool {
	return e.Status == "success"
}
