package forms

import "strings"

// CommentForm is the single-field form under a post.
type CommentForm struct {
	Text string

	Errors FieldErrors
}

// Validate returns the trimmed comment text.
func (f *CommentForm) Validate() (string, error) {
	f.Errors = FieldErrors{}
	text := strings.TrimSpace(f.Text)
	if text == "" {
		f.Errors.Add("text", msgRequired)
		return "", &ValidationError{Fields: f.Errors}
	}
	return text, nil
}
