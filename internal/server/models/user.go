// Package models defines the entities persisted by Yatube and the actor
// that performs requests against them.
package models

import "time"

// User is an author account. Salt and Verifier hold the argon2id password
// verifier; they never leave the server.
type User struct {
	ID        int64
	UserName  string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

func (u *User) String() string {
	return u.UserName
}
