// Package directory maintains user records keyed by identity key and the
// flat `users` listing every insert appends to.
package directory

import (
	"encoding/json"
	"errors"
	"fmt"

	"powerchat/pkg/identity"
	"powerchat/pkg/logger"
	"powerchat/pkg/models"
	"powerchat/pkg/store"
)

const listingPath = "users"

func userPath(key string) string { return "user:" + key }

// Exists reports whether an account for the email is present. Absent or
// malformed records are simply "not there"; only store failures error.
func Exists(email string) (bool, error) {
	key := identity.SafeKey(email)
	v, err := store.GetPath(userPath(key))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	var u models.User
	if err := json.Unmarshal(v, &u); err != nil {
		logger.Warn("user_record_malformed", "key", key)
		return false, nil
	}
	return true, nil
}

// Get returns the stored user record for an email.
func Get(email string) (models.User, error) {
	key := identity.SafeKey(email)
	v, err := store.GetPath(userPath(key))
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	if err := json.Unmarshal(v, &u); err != nil {
		return models.User{}, fmt.Errorf("%w: user record at %s", models.ErrFetchFailed, key)
	}
	return u, nil
}

// Insert writes the user record under its identity key, then appends a
// listing entry to the shared `users` collection, creating the collection
// when absent. The listing append runs under the store's per-path lock;
// duplicate inserts still produce duplicate entries, the listing is
// append-only and never deduplicated.
func Insert(u models.User) error {
	key := u.SafeKey()
	rec, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user record: %w", err)
	}
	if err := store.SetPath(userPath(key), rec); err != nil {
		logger.Error("user_insert_failed", "key", key, "error", err)
		return fmt.Errorf("%w: user record: %v", models.ErrWriteFailed, err)
	}

	entry := models.DirectoryEntry{Name: u.DisplayName(), Email: key}
	err = store.UpdatePath(listingPath, func(old []byte) ([]byte, error) {
		var listing []models.DirectoryEntry
		if old != nil {
			if err := json.Unmarshal(old, &listing); err != nil {
				return nil, fmt.Errorf("%w: users listing", models.ErrFetchFailed)
			}
		}
		listing = append(listing, entry)
		return json.Marshal(listing)
	})
	if err != nil {
		if errors.Is(err, models.ErrFetchFailed) {
			return err
		}
		logger.Error("listing_append_failed", "key", key, "error", err)
		return fmt.Errorf("%w: users listing: %v", models.ErrWriteFailed, err)
	}
	logger.Info("user_inserted", "key", key)
	return nil
}

// ListAll materializes the directory listing. An absent listing is an
// empty directory, not an error; a non-array node is ErrFetchFailed.
func ListAll() ([]models.DirectoryEntry, error) {
	v, err := store.GetPath(listingPath)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []models.DirectoryEntry{}, nil
		}
		return nil, err
	}
	var listing []models.DirectoryEntry
	if err := json.Unmarshal(v, &listing); err != nil {
		return nil, fmt.Errorf("%w: users listing", models.ErrFetchFailed)
	}
	return listing, nil
}

// CountRecords returns the number of stored user records. Used by the
// directory audit to spot drift between records and the listing.
func CountRecords() (int, error) {
	keys, err := store.ListPaths("user:")
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
