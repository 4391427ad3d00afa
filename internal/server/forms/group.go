package forms

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxGroupTitleLength = 200
	maxSlugLength       = 50
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// GroupForm creates a community. Groups are managed by administrators
// only.
type GroupForm struct {
	Title       string
	Slug        string
	Description string

	Errors FieldErrors
}

// Validate trims the fields in place.
func (f *GroupForm) Validate() error {
	f.Errors = FieldErrors{}
	f.Title = strings.TrimSpace(f.Title)
	f.Slug = strings.TrimSpace(f.Slug)
	f.Description = strings.TrimSpace(f.Description)

	switch {
	case f.Title == "":
		f.Errors.Add("title", msgRequired)
	case utf8.RuneCountInString(f.Title) > maxGroupTitleLength:
		f.Errors.Add("title", "Ensure this value has at most 200 characters.")
	}

	switch {
	case f.Slug == "":
		f.Errors.Add("slug", msgRequired)
	case len(f.Slug) > maxSlugLength:
		f.Errors.Add("slug", "Ensure this value has at most 50 characters.")
	case !slugPattern.MatchString(f.Slug):
		f.Errors.Add("slug", "Enter a valid “slug” consisting of letters, numbers, underscores or hyphens.")
	}

	if f.Description == "" {
		f.Errors.Add("description", msgRequired)
	}

	if f.Errors.Any() {
		return &ValidationError{Fields: f.Errors}
	}
	return nil
}

// RejectSlug records that the slug is taken.
func (f *GroupForm) RejectSlug() *ValidationError {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	f.Errors.Add("slug", "Group with this Slug already exists.")
	return &ValidationError{Fields: f.Errors}
}
