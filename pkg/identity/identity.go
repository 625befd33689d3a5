// Package identity derives stable storage keys from email addresses.
//
// Email addresses contain characters that are illegal in tree paths (`.`
// and `@`), so records keyed by email are keyed by their safe form instead.
// The mapping is deterministic and order-sensitive: dots are replaced
// before the at sign.
package identity

import "strings"

// ProfilePictureSuffix is appended to a safe key to name the profile
// picture object for that user.
const ProfilePictureSuffix = "_profile_picture.png"

// SafeKey returns the storage key for an email address. Every `.` is
// replaced with `--`, then every `@`. Pure and total; an email containing
// a literal `--` maps to the same key as its escaped sibling, which is
// accepted.
func SafeKey(email string) string {
	k := strings.ReplaceAll(email, ".", "--")
	k = strings.ReplaceAll(k, "@", "--")
	return k
}

// ProfilePictureKey returns the blob-store object name for the user's
// profile picture.
func ProfilePictureKey(email string) string {
	return SafeKey(email) + ProfilePictureSuffix
}
