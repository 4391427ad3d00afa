package forms

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxUsernameLength = 150
	minPasswordLength = 8
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// reservedUsernames clash with top-level routes.
var reservedUsernames = map[string]struct{}{
	"new": {}, "follow": {}, "group": {}, "auth": {}, "media": {},
}

// SignupForm registers a new author.
type SignupForm struct {
	Username  string
	Password  string
	Password2 string

	Errors FieldErrors
}

// Validate returns the cleaned username.
func (f *SignupForm) Validate() (string, error) {
	f.Errors = FieldErrors{}
	username := strings.TrimSpace(f.Username)

	switch {
	case username == "":
		f.Errors.Add("username", msgRequired)
	case utf8.RuneCountInString(username) > maxUsernameLength:
		f.Errors.Add("username", "Ensure this value has at most 150 characters.")
	case !usernamePattern.MatchString(username):
		f.Errors.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	default:
		if _, reserved := reservedUsernames[strings.ToLower(username)]; reserved {
			f.Errors.Add("username", "A user with that username already exists.")
		}
	}

	switch {
	case f.Password == "":
		f.Errors.Add("password", msgRequired)
	case utf8.RuneCountInString(f.Password) < minPasswordLength:
		f.Errors.Add("password", "This password is too short. It must contain at least 8 characters.")
	case f.Password != f.Password2:
		f.Errors.Add("password2", "The two password fields didn't match.")
	}

	if f.Errors.Any() {
		return "", &ValidationError{Fields: f.Errors}
	}
	return username, nil
}

// RejectUsername records that the username is taken.
func (f *SignupForm) RejectUsername() *ValidationError {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	f.Errors.Add("username", "A user with that username already exists.")
	return &ValidationError{Fields: f.Errors}
}

// LoginForm authenticates an existing author.
type LoginForm struct {
	Username string
	Password string

	Errors FieldErrors
}

func (f *LoginForm) Validate() error {
	f.Errors = FieldErrors{}
	if strings.TrimSpace(f.Username) == "" {
		f.Errors.Add("username", msgRequired)
	}
	if f.Password == "" {
		f.Errors.Add("password", msgRequired)
	}
	if f.Errors.Any() {
		return &ValidationError{Fields: f.Errors}
	}
	return nil
}

// RejectCredentials records a failed login without saying which half was
// wrong.
func (f *LoginForm) RejectCredentials() *ValidationError {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	f.Errors.Add(NonFieldErrors, "Please enter a correct username and password.")
	return &ValidationError{Fields: f.Errors}
}
