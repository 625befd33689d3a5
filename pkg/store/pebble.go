// Package store provides the path-addressed tree the sync layer persists
// into, backed by a local Pebble database. Values are raw JSON documents;
// callers own their shape. Paths in use:
//
//	user:<identityKey>    user record
//	users                 flat directory listing (JSON array)
//	chatrooms             chatroom collection (JSON array)
//	room:<id>:messages    per-chatroom message array
package store

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"

	"powerchat/pkg/logger"
)

var (
	db     *pebble.DB
	dbPath string
)

// ErrNotFound reports that no value exists at a tree path. Callers must
// treat it as "doesn't exist yet", distinct from malformed data.
var ErrNotFound = errors.New("no value at path")

// treePrefix namespaces tree values inside pebble.
const treePrefix = "tree:"

// pathLocks serializes read-modify-write sequences per tree path so that
// concurrent appends to a shared collection cannot lose entries within
// this process. Cross-process writers are not coordinated; see UpdatePath.
var pathLocks sync.Map // path -> *sync.Mutex

// Open opens (or creates) a Pebble database at the given path and keeps a
// global handle for simple usage in this package.
func Open(path string) error {
	var err error
	logger.Info("opening_tree_store", "path", path)
	db, err = pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("tree_store_open_failed", "path", path, "error", err)
		return err
	}
	dbPath = path
	logger.Info("tree_store_opened", "path", path)
	return nil
}

// Close closes the opened pebble DB if present.
func Close() error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return err
	}
	db = nil
	logger.Info("tree_store_closed")
	return nil
}

// Ready reports whether the store is opened and ready.
func Ready() bool {
	return db != nil
}

// GetPath returns the raw value stored at a tree path, or ErrNotFound.
func GetPath(path string) ([]byte, error) {
	if db == nil {
		return nil, fmt.Errorf("tree store not opened; call store.Open first")
	}
	v, closer, err := db.Get([]byte(treePrefix + path))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			readsTotal.WithLabelValues("miss").Inc()
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		readsTotal.WithLabelValues("error").Inc()
		logger.Error("tree_get_failed", "path", path, "error", err)
		return nil, err
	}
	defer closer.Close()
	readsTotal.WithLabelValues("hit").Inc()
	out := append([]byte(nil), v...)
	return out, nil
}

// SetPath stores a raw value at a tree path, overwriting any prior value.
func SetPath(path string, value []byte) error {
	if db == nil {
		return fmt.Errorf("tree store not opened; call store.Open first")
	}
	if err := db.Set([]byte(treePrefix+path), value, pebble.Sync); err != nil {
		writesTotal.WithLabelValues("error").Inc()
		logger.Error("tree_set_failed", "path", path, "error", err)
		return err
	}
	writesTotal.WithLabelValues("ok").Inc()
	logger.Debug("tree_set_ok", "path", path, "len", len(value))
	return nil
}

// DeletePath removes the value at a tree path. Deleting an absent path is
// not an error.
func DeletePath(path string) error {
	if db == nil {
		return fmt.Errorf("tree store not opened; call store.Open first")
	}
	if err := db.Delete([]byte(treePrefix+path), pebble.Sync); err != nil {
		logger.Error("tree_delete_failed", "path", path, "error", err)
		return err
	}
	return nil
}

// UpdatePath runs fn over the current value at path and stores the result,
// holding a per-path lock for the whole read-modify-write. fn receives nil
// when the path does not exist yet. This is the append primitive for the
// shared collections (users listing, message arrays); an unlocked
// read-then-overwrite here would drop concurrent writes.
func UpdatePath(path string, fn func(old []byte) ([]byte, error)) error {
	if db == nil {
		return fmt.Errorf("tree store not opened; call store.Open first")
	}
	muIface, _ := pathLocks.LoadOrStore(path, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	old, err := GetPath(path)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	next, err := fn(old)
	if err != nil {
		return err
	}
	if err := SetPath(path, next); err != nil {
		return err
	}
	updatesTotal.Inc()
	return nil
}

// ListPaths returns all tree paths that start with the given prefix. An
// empty prefix returns every path.
func ListPaths(prefix string) ([]string, error) {
	if db == nil {
		return nil, fmt.Errorf("tree store not opened; call store.Open first")
	}
	pfx := []byte(treePrefix + prefix)
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	for iter.SeekGE(pfx); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), pfx) {
			break
		}
		k := string(iter.Key())
		out = append(out, strings.TrimPrefix(k, treePrefix))
	}
	return out, iter.Error()
}
