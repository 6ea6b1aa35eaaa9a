package models

import "encoding/json"

// User mirrors the backend's user object. The JSON encoding of this
// struct is exactly what gets stored in the "user" cookie.
type User struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Profile  json.RawMessage `json:"profile,omitempty"`
}

// Session is the web tier's belief about which user, if any, is
// currently authenticated. The server-set cookies are the only writer;
// everything else reads.
type Session struct {
	User User `json:"user"`
}
