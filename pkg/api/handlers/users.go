package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"powerchat/pkg/directory"
	"powerchat/pkg/logger"
	"powerchat/pkg/models"
	"powerchat/pkg/utils"
)

// RegisterUsers registers HTTP handlers for the user directory.
func RegisterUsers(r *mux.Router) {
	r.HandleFunc("/users", insertUser).Methods(http.MethodPost)
	r.HandleFunc("/users", listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users/exists", userExists).Methods(http.MethodGet)
}

func insertUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if u.FirstName == "" || u.LastName == "" || u.Email == "" {
		utils.JSONError(w, http.StatusBadRequest, "first_name, last_name and email are required")
		return
	}
	if err := directory.Insert(u); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrFetchFailed) {
			status = http.StatusConflict
		}
		utils.JSONError(w, status, err.Error())
		return
	}
	logger.Info("user_created", "key", u.SafeKey())
	_ = utils.JSONWrite(w, http.StatusCreated, struct {
		Key               string `json:"key"`
		ProfilePictureKey string `json:"profile_picture_key"`
	}{Key: u.SafeKey(), ProfilePictureKey: u.ProfilePictureKey()})
}

func listUsers(w http.ResponseWriter, r *http.Request) {
	listing, err := directory.ListAll()
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Users []models.DirectoryEntry `json:"users"`
	}{Users: listing})
}

func userExists(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		utils.JSONError(w, http.StatusBadRequest, "email query parameter required")
		return
	}
	ok, err := directory.Exists(email)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]bool{"exists": ok})
}
