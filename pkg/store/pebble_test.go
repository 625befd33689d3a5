package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) {
	t.Helper()
	if err := Open(filepath.Join(t.TempDir(), "db")); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = Close() })
}

func TestSetGetDelete(t *testing.T) {
	openTestStore(t)

	if err := SetPath("user:alice", []byte(`{"email":"a@b.c"}`)); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	v, err := GetPath("user:alice")
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if string(v) != `{"email":"a@b.c"}` {
		t.Fatalf("unexpected value %q", v)
	}
	if err := DeletePath("user:alice"); err != nil {
		t.Fatalf("DeletePath: %v", err)
	}
	if _, err := GetPath("user:alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetPathNotFound(t *testing.T) {
	openTestStore(t)
	if _, err := GetPath("no-such-path"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	openTestStore(t)
	if err := DeletePath("never-written"); err != nil {
		t.Fatalf("DeletePath absent: %v", err)
	}
}

func TestUpdatePathCreates(t *testing.T) {
	openTestStore(t)
	err := UpdatePath("users", func(old []byte) ([]byte, error) {
		if old != nil {
			t.Fatalf("expected nil old value for absent path, got %q", old)
		}
		return []byte(`["first"]`), nil
	})
	if err != nil {
		t.Fatalf("UpdatePath: %v", err)
	}
	v, err := GetPath("users")
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if string(v) != `["first"]` {
		t.Fatalf("unexpected value %q", v)
	}
}

// Concurrent appends through UpdatePath must never lose entries.
func TestUpdatePathConcurrentAppends(t *testing.T) {
	openTestStore(t)

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := UpdatePath("room:x:messages", func(old []byte) ([]byte, error) {
				var arr []int
				if old != nil {
					if err := json.Unmarshal(old, &arr); err != nil {
						return nil, err
					}
				}
				arr = append(arr, i)
				return json.Marshal(arr)
			})
			if err != nil {
				t.Errorf("UpdatePath: %v", err)
			}
		}(i)
	}
	wg.Wait()

	v, err := GetPath("room:x:messages")
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	var arr []int
	if err := json.Unmarshal(v, &arr); err != nil {
		t.Fatalf("final value not an array: %v", err)
	}
	if len(arr) != n {
		t.Fatalf("lost appends: got %d entries, want %d", len(arr), n)
	}
}

func TestListPaths(t *testing.T) {
	openTestStore(t)
	for _, p := range []string{"user:a", "user:b", "chatrooms"} {
		if err := SetPath(p, []byte("{}")); err != nil {
			t.Fatalf("SetPath %s: %v", p, err)
		}
	}
	keys, err := ListPaths("user:")
	if err != nil {
		t.Fatalf("ListPaths: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 user paths, got %v", keys)
	}
	for _, k := range keys {
		if k != "user:a" && k != "user:b" {
			t.Fatalf("unexpected path %q", k)
		}
	}
}
