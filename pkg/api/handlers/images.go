package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"powerchat/pkg/blob"
	"powerchat/pkg/logger"
	"powerchat/pkg/utils"
)

// maxUploadBytes bounds profile-picture uploads.
const maxUploadBytes = 8 << 20

// RegisterImages registers HTTP handlers for the blob store.
func RegisterImages(r *mux.Router) {
	r.HandleFunc("/images/{name}", uploadImage).Methods(http.MethodPost)
	r.HandleFunc("/images/{name}/url", imageURL).Methods(http.MethodGet)
}

func uploadImage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(data) == 0 {
		utils.JSONError(w, http.StatusBadRequest, "empty upload")
		return
	}
	if len(data) > maxUploadBytes {
		utils.JSONError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	url, err := blob.Upload(data, name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, blob.ErrUploadFailed) {
			status = http.StatusBadRequest
		}
		utils.JSONError(w, status, err.Error())
		return
	}
	logger.Info("image_uploaded", "name", name)
	_ = utils.JSONWrite(w, http.StatusCreated, map[string]string{"url": url})
}

func imageURL(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	url, err := blob.DownloadURL("images/" + name)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"url": url})
}
