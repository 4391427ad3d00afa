package forms

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"
)

// MaxImageSize caps an uploaded picture, in bytes.
const MaxImageSize = 10 << 20

// Upload is a file received from a multipart form. Size is the size the
// client declared; Data may stop short of it once the cap is exceeded.
type Upload struct {
	Filename string
	Size     int64
	Data     []byte
}

// TooLarge reports whether the upload exceeds MaxImageSize.
func (u *Upload) TooLarge() bool {
	return u.Size > MaxImageSize || len(u.Data) > MaxImageSize
}

// Image is an upload that decoded as a picture.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PostForm is the create/edit form of a post: group, text and image.
type PostForm struct {
	Group      string
	Text       string
	Image      *Upload
	ClearImage bool

	Errors FieldErrors
}

// PostDraft is a validated PostForm.
type PostDraft struct {
	GroupID    *int64
	Text       string
	Image      *Image
	ClearImage bool
}

// Validate checks the form. Text is required (surrounding whitespace is
// dropped), Group is optional but must be an id when present, and an
// uploaded file must fit MaxImageSize and decode as GIF, JPEG or PNG.
// Whether the group exists is left to the caller.
func (f *PostForm) Validate() (*PostDraft, error) {
	f.Errors = FieldErrors{}
	draft := &PostDraft{ClearImage: f.ClearImage}

	draft.Text = strings.TrimSpace(f.Text)
	if draft.Text == "" {
		f.Errors.Add("text", msgRequired)
	}

	if g := strings.TrimSpace(f.Group); g != "" {
		id, err := strconv.ParseInt(g, 10, 64)
		if err != nil || id < 1 {
			f.Errors.Add("group", msgInvalidChoice)
		} else {
			draft.GroupID = &id
		}
	}

	switch {
	case f.Image == nil:
	case f.Image.TooLarge():
		f.Errors.Add("image", msgImageTooLarge)
	case len(f.Image.Data) > 0:
		img, ok := decodeImage(f.Image)
		if !ok {
			f.Errors.Add("image", msgInvalidImage)
		} else {
			draft.Image = img
		}
	}

	if f.Errors.Any() {
		return nil, &ValidationError{Fields: f.Errors}
	}
	return draft, nil
}

// RejectGroup records that the chosen group does not exist.
func (f *PostForm) RejectGroup() *ValidationError {
	if f.Errors == nil {
		f.Errors = FieldErrors{}
	}
	f.Errors.Add("group", msgInvalidChoice)
	return &ValidationError{Fields: f.Errors}
}

// GroupSelected reports whether id is the group chosen in the form; the
// template uses it to preselect the option.
func (f *PostForm) GroupSelected(id int64) bool {
	return f.Group == strconv.FormatInt(id, 10)
}

func decodeImage(u *Upload) (*Image, bool) {
	_, format, err := image.DecodeConfig(bytes.NewReader(u.Data))
	if err != nil {
		return nil, false
	}
	return &Image{
		Filename:    u.Filename,
		ContentType: "image/" + format,
		Data:        u.Data,
	}, true
}
