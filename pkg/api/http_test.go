package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"powerchat/pkg/blob"
	"powerchat/pkg/config"
	"powerchat/pkg/models"
	"powerchat/pkg/rooms"
	"powerchat/pkg/session"
	"powerchat/pkg/store"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	tmp := t.TempDir()
	if err := store.Open(filepath.Join(tmp, "db")); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	blob.Init(tmp, "http://localhost:8080")
	rooms.SetPolicy(config.DefaultPowerWindows())
	srv := httptest.NewServer(Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = store.Close()
	})
	return srv
}

func TestUserEndpoints(t *testing.T) {
	srv := setupServer(t)
	client := srv.Client()

	// exists before insert
	resp, err := client.Get(srv.URL + "/v1/users/exists?email=ada.l@example.com")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	var ex map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&ex); err != nil {
		t.Fatalf("decode exists: %v", err)
	}
	resp.Body.Close()
	if ex["exists"] {
		t.Fatalf("user should not exist yet")
	}

	// insert
	body := []byte(`{"first_name":"Ada","last_name":"Lovelace","email":"ada.l@example.com"}`)
	resp, err = client.Post(srv.URL+"/v1/users", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("insert status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		Key               string `json:"key"`
		ProfilePictureKey string `json:"profile_picture_key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode insert: %v", err)
	}
	resp.Body.Close()
	if created.Key != "ada--l--example--com" {
		t.Fatalf("key = %q", created.Key)
	}
	if created.ProfilePictureKey != "ada--l--example--com_profile_picture.png" {
		t.Fatalf("profile picture key = %q", created.ProfilePictureKey)
	}

	// listing reflects the insert
	resp, err = client.Get(srv.URL + "/v1/users")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var listing struct {
		Users []models.DirectoryEntry `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(listing.Users) != 1 || listing.Users[0].Name != "Ada Lovelace" {
		t.Fatalf("listing = %v", listing.Users)
	}
}

func TestInsertUserValidation(t *testing.T) {
	srv := setupServer(t)
	resp, err := srv.Client().Post(srv.URL+"/v1/users", "application/json",
		bytes.NewReader([]byte(`{"first_name":"Ada"}`)))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestChatroomAndMessageEndpoints(t *testing.T) {
	srv := setupServer(t)
	client := srv.Client()

	// provision rooms
	body := []byte(`{"chatrooms":[{"id":"0000","name":"Generals","message":"welcome"}]}`)
	resp, err := client.Post(srv.URL+"/v1/chatrooms", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("provision status = %d, want 200", resp.StatusCode)
	}

	// rooms come back with the power window attached
	resp, err = client.Get(srv.URL + "/v1/chatrooms")
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	var rl struct {
		Chatrooms []models.Chatroom `json:"chatrooms"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rl); err != nil {
		t.Fatalf("decode rooms: %v", err)
	}
	resp.Body.Close()
	if len(rl.Chatrooms) != 1 {
		t.Fatalf("rooms = %v", rl.Chatrooms)
	}
	if rl.Chatrooms[0].MaxPower != 1.0 || rl.Chatrooms[0].MinPower != 1.0 {
		t.Fatalf("room 0000 window = [%v, %v]", rl.Chatrooms[0].MaxPower, rl.Chatrooms[0].MinPower)
	}

	// append without session headers is unauthorized
	msg := []byte(`{"kind":"text","text":"hello"}`)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/chatrooms/0000/messages", bytes.NewReader(msg))
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("append without session = %d, want 401", resp.StatusCode)
	}

	// append with session headers
	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/v1/chatrooms/0000/messages", bytes.NewReader(msg))
	req.Header.Set(session.HeaderUserName, "Ada Lovelace")
	req.Header.Set(session.HeaderUserEmail, "ada.l@example.com")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("append status = %d, want 201", resp.StatusCode)
	}

	// non-text kinds are rejected
	photo := []byte(`{"kind":"photo","text":"x"}`)
	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/v1/chatrooms/0000/messages", bytes.NewReader(photo))
	req.Header.Set(session.HeaderUserName, "Ada Lovelace")
	req.Header.Set(session.HeaderUserEmail, "ada.l@example.com")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("append photo: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("photo append status = %d, want 400", resp.StatusCode)
	}

	// listing the room returns the stamped message
	resp, err = client.Get(srv.URL + "/v1/chatrooms/0000/messages")
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	var ml struct {
		Chatroom string           `json:"chatroom"`
		Messages []models.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ml); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	resp.Body.Close()
	if ml.Chatroom != "0000" || len(ml.Messages) != 1 {
		t.Fatalf("messages = %+v", ml)
	}
	if ml.Messages[0].SenderKey != "ada--l--example--com" {
		t.Fatalf("sender key = %q", ml.Messages[0].SenderKey)
	}
}

func TestRoomWindowEndpoint(t *testing.T) {
	srv := setupServer(t)
	resp, err := srv.Client().Get(srv.URL + "/v1/chatrooms/0010/window")
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	defer resp.Body.Close()
	var w models.PowerWindow
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		t.Fatalf("decode window: %v", err)
	}
	if w.Max != 0.5 || w.Min != 0.5 {
		t.Fatalf("window 0010 = %+v, want [0.5, 0.5]", w)
	}
}

func TestImageEndpoints(t *testing.T) {
	srv := setupServer(t)
	client := srv.Client()

	resp, err := client.Post(srv.URL+"/v1/images/ada--l--example--com_profile_picture.png",
		"application/octet-stream", bytes.NewReader([]byte("png-bytes")))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201", resp.StatusCode)
	}
	var up map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	resp.Body.Close()
	if up["url"] == "" {
		t.Fatalf("upload response missing url: %v", up)
	}

	resp, err = client.Get(srv.URL + "/v1/images/ada--l--example--com_profile_picture.png/url")
	if err != nil {
		t.Fatalf("url: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("url status = %d, want 200", resp.StatusCode)
	}
}
