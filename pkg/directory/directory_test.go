package directory

import (
	"errors"
	"path/filepath"
	"testing"

	"powerchat/pkg/models"
	"powerchat/pkg/store"
)

func openTestStore(t *testing.T) {
	t.Helper()
	if err := store.Open(filepath.Join(t.TempDir(), "db")); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
}

func TestExistsInsertGet(t *testing.T) {
	openTestStore(t)

	u := models.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada.l@example.com"}

	ok, err := Exists(u.Email)
	if err != nil {
		t.Fatalf("Exists before insert: %v", err)
	}
	if ok {
		t.Fatalf("user should not exist yet")
	}

	if err := Insert(u); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	ok, err = Exists(u.Email)
	if err != nil {
		t.Fatalf("Exists after insert: %v", err)
	}
	if !ok {
		t.Fatalf("user should exist after insert")
	}

	got, err := Get(u.Email)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != u {
		t.Fatalf("Get = %+v, want %+v", got, u)
	}
}

func TestListAllEmpty(t *testing.T) {
	openTestStore(t)
	listing, err := ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(listing) != 0 {
		t.Fatalf("expected empty listing, got %v", listing)
	}
}

// The listing is append-only; inserting the same user twice yields two
// entries.
func TestListingAppendsDuplicates(t *testing.T) {
	openTestStore(t)

	u := models.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada.l@example.com"}
	if err := Insert(u); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if err := Insert(u); err != nil {
		t.Fatalf("second Insert: %v", err)
	}

	listing, err := ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(listing) != 2 {
		t.Fatalf("expected 2 listing entries, got %d", len(listing))
	}
	want := models.DirectoryEntry{Name: "Ada Lovelace", Email: "ada--l--example--com"}
	for _, e := range listing {
		if e != want {
			t.Fatalf("listing entry = %+v, want %+v", e, want)
		}
	}
}

func TestInsertFailsOnMalformedListing(t *testing.T) {
	openTestStore(t)

	if err := store.SetPath("users", []byte(`{"not":"an array"}`)); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	u := models.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada.l@example.com"}
	if err := Insert(u); !errors.Is(err, models.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestListAllFailsOnMalformedListing(t *testing.T) {
	openTestStore(t)

	if err := store.SetPath("users", []byte(`"scalar"`)); err != nil {
		t.Fatalf("SetPath: %v", err)
	}
	if _, err := ListAll(); !errors.Is(err, models.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestConcurrentInserts(t *testing.T) {
	openTestStore(t)

	emails := []string{
		"a.one@example.com", "b.two@example.com", "c.three@example.com",
		"d.four@example.com", "e.five@example.com",
	}
	done := make(chan error, len(emails))
	for _, em := range emails {
		go func(em string) {
			done <- Insert(models.User{FirstName: "F", LastName: "L", Email: em})
		}(em)
	}
	for range emails {
		if err := <-done; err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	listing, err := ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(listing) != len(emails) {
		t.Fatalf("lost listing entries: got %d, want %d", len(listing), len(emails))
	}
	n, err := CountRecords()
	if err != nil {
		t.Fatalf("CountRecords: %v", err)
	}
	if n != len(emails) {
		t.Fatalf("CountRecords = %d, want %d", n, len(emails))
	}
}
