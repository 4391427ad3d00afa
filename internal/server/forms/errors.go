// Package forms validates submitted HTML forms. Validation is pure: it
// turns raw input into a draft ready for persistence, or into field errors
// to show next to the inputs. Nothing here touches the database.
package forms

import (
	"sort"
	"strings"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgImageTooLarge = "The uploaded image is larger than 10 MB."
)

// FieldErrors maps a field name to its error messages. The key "__all__"
// holds errors that are not tied to a single field.
type FieldErrors map[string][]string

const NonFieldErrors = "__all__"

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

// Get returns the messages for field, for use in templates.
func (fe FieldErrors) Get(field string) []string {
	return fe[field]
}

// ValidationError is returned when a form does not validate.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid form: " + strings.Join(names, ", ")
}
