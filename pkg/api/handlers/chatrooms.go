package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"powerchat/pkg/logger"
	"powerchat/pkg/messages"
	"powerchat/pkg/models"
	"powerchat/pkg/rooms"
	"powerchat/pkg/session"
	"powerchat/pkg/utils"
)

// RegisterChatrooms registers HTTP handlers for chatroom and message
// endpoints.
func RegisterChatrooms(r *mux.Router) {
	r.HandleFunc("/chatrooms", listChatrooms).Methods(http.MethodGet)
	r.HandleFunc("/chatrooms", saveChatrooms).Methods(http.MethodPost)
	r.HandleFunc("/chatrooms/watch", watchChatrooms).Methods(http.MethodGet)
	r.HandleFunc("/chatrooms/{id}/window", roomWindow).Methods(http.MethodGet)
	r.HandleFunc("/chatrooms/{id}/messages", listRoomMessages).Methods(http.MethodGet)
	r.HandleFunc("/chatrooms/{id}/messages", appendRoomMessage).Methods(http.MethodPost)
}

func listChatrooms(w http.ResponseWriter, r *http.Request) {
	list, err := rooms.ListAll()
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Chatrooms []models.Chatroom `json:"chatrooms"`
	}{Chatrooms: list})
}

// saveChatrooms provisions the room collection. Frontend keys are blocked
// by the gateway; this is a backend/admin operation.
func saveChatrooms(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Chatrooms []models.Chatroom `json:"chatrooms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := rooms.SaveAll(body.Chatrooms); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Info("chatrooms_provisioned", "count", len(body.Chatrooms))
	_ = utils.JSONWrite(w, http.StatusOK, map[string]int{"count": len(body.Chatrooms)})
}

// watchChatrooms streams room-list snapshots as server-sent events: one
// snapshot immediately, then one per provisioning update.
func watchChatrooms(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.JSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	ch, cancel := rooms.Watch()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	writeSnapshot := func(list []models.Chatroom) bool {
		b, err := json.Marshal(list)
		if err != nil {
			return false
		}
		if _, err := w.Write([]byte("data: " + string(b) + "\n\n")); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if list, err := rooms.ListAll(); err == nil {
		if !writeSnapshot(list) {
			return
		}
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case list, ok := <-ch:
			if !ok {
				return
			}
			if !writeSnapshot(list) {
				return
			}
		}
	}
}

func roomWindow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	_ = utils.JSONWrite(w, http.StatusOK, rooms.Window(id))
}

func listRoomMessages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	msgs, err := messages.List(id)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Chatroom string           `json:"chatroom"`
		Messages []models.Message `json:"messages"`
	}{Chatroom: id, Messages: msgs})
}

func appendRoomMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var m models.Message
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if m.Kind == "" {
		m.Kind = models.KindText
	}
	s := session.FromRequest(r)
	if err := messages.Append(id, m, s); err != nil {
		switch {
		case errors.Is(err, models.ErrSessionMissing):
			utils.JSONError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, models.ErrUnsupportedKind):
			utils.JSONError(w, http.StatusBadRequest, err.Error())
		default:
			utils.JSONError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	logger.Info("message_created", "room", id)
	_ = utils.JSONWrite(w, http.StatusCreated, map[string]string{"chatroom": id})
}
