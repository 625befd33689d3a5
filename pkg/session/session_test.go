package session

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/chatrooms/0000/messages", nil)
	r.Header.Set(HeaderUserName, "Ada Lovelace")
	r.Header.Set(HeaderUserEmail, "ada.l@example.com")

	s := FromRequest(r)
	if s.Name != "Ada Lovelace" || s.Email != "ada.l@example.com" {
		t.Fatalf("unexpected session %+v", s)
	}
	if !s.Valid() {
		t.Fatalf("session with both headers should be valid")
	}
}

func TestValidRequiresBothFields(t *testing.T) {
	cases := []Session{
		{},
		{Name: "Ada"},
		{Email: "ada.l@example.com"},
	}
	for _, s := range cases {
		if s.Valid() {
			t.Fatalf("session %+v should be invalid", s)
		}
	}
}
