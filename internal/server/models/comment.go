package models

import "time"

// Comment is a reply to a post. Comments are never edited; they go away
// with their post or their author.
type Comment struct {
	ID       int64
	PostID   int64
	AuthorID int64
	Text     string
	Created  time.Time

	Author *User
}
