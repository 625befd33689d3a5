// Package messages owns the per-chatroom append-only message log.
package messages

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"powerchat/pkg/identity"
	"powerchat/pkg/logger"
	"powerchat/pkg/models"
	"powerchat/pkg/session"
	"powerchat/pkg/store"
	"powerchat/pkg/utils"
)

func logPath(chatroomID string) string { return "room:" + chatroomID + ":messages" }

// List materializes all messages in a chatroom, oldest first. A room with
// no log yet is an empty list, not an error. Entries that fail to decode
// are skipped; a log that is not an array at all is ErrFetchFailed.
func List(chatroomID string) ([]models.Message, error) {
	v, err := store.GetPath(logPath(chatroomID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []models.Message{}, nil
		}
		return nil, err
	}
	var entries []models.MessageEntry
	if err := json.Unmarshal(v, &entries); err != nil {
		return nil, fmt.Errorf("%w: message log for %s", models.ErrFetchFailed, chatroomID)
	}
	out := make([]models.Message, 0, len(entries))
	for _, e := range entries {
		m, err := e.Decode()
		if err != nil {
			logger.Debug("message_entry_skipped", "room", chatroomID, "id", e.ID, "error", err)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// Append stamps the message with the sender's session identity and appends
// it to the room's log, creating the log on first message. The whole
// read-modify-write runs under the store's per-path lock. Fails with
// ErrSessionMissing when the session is incomplete and ErrUnsupportedKind
// when the kind has no wire form.
func Append(chatroomID string, m models.Message, s session.Session) error {
	if !s.Valid() {
		return models.ErrSessionMissing
	}
	m.SenderName = s.Name
	m.SenderKey = identity.SafeKey(s.Email)
	if m.ID == "" {
		m.ID = utils.GenID()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now().UTC()
	}
	entry, err := m.Entry()
	if err != nil {
		return err
	}

	err = store.UpdatePath(logPath(chatroomID), func(old []byte) ([]byte, error) {
		var entries []models.MessageEntry
		if old != nil {
			if err := json.Unmarshal(old, &entries); err != nil {
				return nil, fmt.Errorf("%w: message log for %s", models.ErrFetchFailed, chatroomID)
			}
		}
		entries = append(entries, entry)
		return json.Marshal(entries)
	})
	if err != nil {
		if errors.Is(err, models.ErrFetchFailed) {
			return err
		}
		logger.Error("message_append_failed", "room", chatroomID, "id", m.ID, "error", err)
		return fmt.Errorf("%w: message log: %v", models.ErrWriteFailed, err)
	}
	logger.Info("message_appended", "room", chatroomID, "id", m.ID, "sender", m.SenderKey)
	return nil
}
