// Package common contains shared constants and sentinel errors used across
// Yatube components.
package common

// AccessTokenCookieName is the cookie that carries the session token
// issued on login.
const AccessTokenCookieName = "access_token"

// DefaultPostsPerPage is the page size used when configuration does not
// provide one.
const DefaultPostsPerPage = 10
