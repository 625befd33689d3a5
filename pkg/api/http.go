package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"powerchat/pkg/api/handlers"
)

// Handler returns the versioned API router. The caller wraps it with the
// auth gateway and mounts health, metrics and image serving next to it.
func Handler() http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterUsers(v1)
	handlers.RegisterChatrooms(v1)
	handlers.RegisterImages(v1)
	return r
}
