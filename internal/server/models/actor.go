package models

// Actor is the identity behind a request: an authenticated user or the
// anonymous visitor.
type Actor struct {
	User *User
}

// Anonymous returns the actor of a request without a valid session.
func Anonymous() Actor {
	return Actor{}
}

// AsUser returns the actor for an authenticated user.
func AsUser(u *User) Actor {
	return Actor{User: u}
}

func (a Actor) IsAuthenticated() bool {
	return a.User != nil
}

// Is reports whether the actor is the user with the given id.
func (a Actor) Is(userID int64) bool {
	return a.User != nil && a.User.ID == userID
}

// ID returns the user id, or 0 for the anonymous actor.
func (a Actor) ID() int64 {
	if a.User == nil {
		return 0
	}
	return a.User.ID
}
