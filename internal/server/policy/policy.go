// Package policy holds the authorization decisions of Yatube. Every
// function is pure; callers must consult the relevant one before mutating
// anything and stop when it says no.
package policy

import "github.com/dmitrijs2005/yatube/internal/server/models"

// CanCreatePost reports whether actor may publish a new post.
func CanCreatePost(actor models.Actor) bool {
	return actor.IsAuthenticated()
}

// CanEditPost reports whether actor may change post. Only the author can.
func CanEditPost(actor models.Actor, post *models.Post) bool {
	return actor.IsAuthenticated() && post != nil && actor.Is(post.AuthorID)
}

// CanComment reports whether actor may comment on posts.
func CanComment(actor models.Actor) bool {
	return actor.IsAuthenticated()
}

// CanFollow reports whether actor may follow target. Following yourself is
// not allowed.
func CanFollow(actor models.Actor, target *models.User) bool {
	return actor.IsAuthenticated() && target != nil && !actor.Is(target.ID)
}
