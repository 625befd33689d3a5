package models

import "powerchat/pkg/identity"

// User is an account record as stored under its identity key.
type User struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// SafeKey returns the derived identity key used as this record's primary key.
func (u User) SafeKey() string {
	return identity.SafeKey(u.Email)
}

// DisplayName is the denormalized name written into the directory listing.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// ProfilePictureKey returns the blob object name for the user's picture.
func (u User) ProfilePictureKey() string {
	return identity.ProfilePictureKey(u.Email)
}

// DirectoryEntry is the projection of a User appended to the shared
// `users` listing on every insert. The listing is append-only and not
// deduplicated; inserting the same user twice produces two entries.
type DirectoryEntry struct {
	Name  string `json:"name"`
	Email string `json:"email"` // identity-key form
}
