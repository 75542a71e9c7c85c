// Package validation provides the client-side field validators used by the
// signup, login, and profile forms. All functions are pure and synchronous;
// they return structured results and never raise.
package validation

import (
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/ndvals/notably/internal/client/api"
)

// Result is the outcome of an aggregate validation: a field-name → message
// map owned by whichever form is currently active.
type Result struct {
	Valid  bool
	Errors map[string]string
}

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	digitRe  = regexp.MustCompile(`\d`)
	symbolRe = regexp.MustCompile(`[@$!%*?&]`)
	mobileRe = regexp.MustCompile(`^\+?[\d\s()-]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields under their wire names so error maps line up with the
	// server's own validation envelopes
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsValidPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return IsValidMobile(fl.Field().String())
	})
	return v
}

// IsValidEmail reports whether email looks like a deliverable address.
func IsValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// IsValidPassword enforces the password policy: at least 8 characters with
// upper case, lower case, a digit, and a symbol from @$!%*?&.
func IsValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= 8 &&
		upperRe.MatchString(password) &&
		lowerRe.MatchString(password) &&
		digitRe.MatchString(password) &&
		symbolRe.MatchString(password)
}

// IsValidMobile accepts digits with optional leading + and common
// separators.
func IsValidMobile(mobile string) bool {
	return mobileRe.MatchString(mobile)
}

// IsValidName accepts names of 1 to 100 characters.
func IsValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n > 0 && n <= 100
}

// PasswordErrors returns the ordered list of policy failures for progressive
// feedback while the user types. Empty for a conforming password.
func PasswordErrors(password string) []string {
	var errs []string

	if utf8.RuneCountInString(password) < 8 {
		errs = append(errs, "Password must be at least 8 characters long")
	}
	if !upperRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if !lowerRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if !digitRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one number")
	}
	if !symbolRe.MatchString(password) {
		errs = append(errs, "Password must contain at least one special character (@$!%*?&)")
	}
	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		if fe.Tag() == "required" {
			return "Name is required"
		}
		return "Name must be between 1 and 100 characters"
	case "email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "Please enter a valid email address"
	case "password":
		if fe.Tag() == "required" {
			return "Password is required"
		}
		if pw, ok := fe.Value().(string); ok {
			return strings.Join(PasswordErrors(pw), ". ")
		}
		return "Password does not meet the requirements"
	case "passwordConfirm":
		if fe.Tag() == "required" {
			return "Password confirmation is required"
		}
		return "Passwords do not match"
	case "mobile":
		return "Please enter a valid phone number"
	case "token":
		return "Reset token is required"
	default:
		return "Invalid value"
	}
}

func resultFrom(err error) Result {
	res := Result{Valid: true, Errors: map[string]string{}}
	if err == nil {
		return res
	}

	res.Valid = false
	if ferrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ferrs {
			// first failure per field wins, matching the per-field message model
			if _, seen := res.Errors[fe.Field()]; !seen {
				res.Errors[fe.Field()] = messageFor(fe)
			}
		}
	}
	return res
}

// ValidateRegisterData checks a full registration form.
func ValidateRegisterData(data api.RegisterData) Result {
	data.Name = strings.TrimSpace(data.Name)
	data.Email = strings.TrimSpace(data.Email)
	return resultFrom(validate.Struct(data))
}

// ValidateLoginData checks a login form. Only presence is enforced for the
// password; the policy applies to new passwords, not existing ones.
func ValidateLoginData(data api.LoginData) Result {
	data.Email = strings.TrimSpace(data.Email)
	return resultFrom(validate.Struct(data))
}

// ValidateResetPasswordData checks a password-reset form.
func ValidateResetPasswordData(data api.ResetPasswordData) Result {
	return resultFrom(validate.Struct(data))
}

// ValidateUpdateProfileData checks a profile patch. Absent fields pass;
// provided fields must be valid, and a provided name must not be blank.
func ValidateUpdateProfileData(data api.UpdateProfileData) Result {
	errs := map[string]string{}

	if data.Name != nil {
		name := strings.TrimSpace(*data.Name)
		switch {
		case name == "":
			errs["name"] = "Name cannot be empty"
		case !IsValidName(name):
			errs["name"] = "Name must be between 1 and 100 characters"
		}
	}

	if data.Mobile != nil && strings.TrimSpace(*data.Mobile) != "" {
		if !IsValidMobile(*data.Mobile) {
			errs["mobile"] = "Please enter a valid phone number"
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ValidateField validates a single form field and returns one message, or ""
// when the value is acceptable. Used for per-keystroke feedback.
func ValidateField(field, value string) string {
	switch field {
	case "email":
		if value == "" {
			return "Email is required"
		}
		if !IsValidEmail(value) {
			return "Please enter a valid email address"
		}
	case "password":
		if value == "" {
			return "Password is required"
		}
		if !IsValidPassword(value) {
			return strings.Join(PasswordErrors(value), ". ")
		}
	case "name":
		if value == "" {
			return "Name is required"
		}
		if !IsValidName(value) {
			return "Name must be between 1 and 100 characters"
		}
	case "mobile":
		if value != "" && !IsValidMobile(value) {
			return "Please enter a valid phone number"
		}
	}
	return ""
}
