package models

import "time"

// Session is the cached credential of a signed-in console user.
type Session struct {
	Role     string     `json:"role"`
	Token    string     `json:"token"`
	User     PublicUser `json:"user"`
	SignedIn time.Time  `json:"signedIn"`
}
