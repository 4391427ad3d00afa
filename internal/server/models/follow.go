package models

import "time"

// Follow makes UserID's feed include AuthorID's posts. The pair is unique.
type Follow struct {
	ID        int64
	UserID    int64
	AuthorID  int64
	CreatedAt time.Time
}
