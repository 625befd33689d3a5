// Package session carries the sender identity the message store needs when
// appending. The session is an explicit value the caller passes in,
// populated from request headers; there is no process-wide ambient user.
package session

import "net/http"

// Header names the auth layer uses to convey the current user.
const (
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
)

// Session identifies the current user for a single operation.
type Session struct {
	Name  string
	Email string
}

// Valid reports whether the session carries enough identity to stamp a
// message.
func (s Session) Valid() bool {
	return s.Name != "" && s.Email != ""
}

// FromRequest extracts the session from request headers. The returned
// session may be invalid; callers decide whether that is fatal.
func FromRequest(r *http.Request) Session {
	return Session{
		Name:  r.Header.Get(HeaderUserName),
		Email: r.Header.Get(HeaderUserEmail),
	}
}
