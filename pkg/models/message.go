package models

import (
	"errors"
	"fmt"
	"time"
)

// Kind tags a message payload variant. Only text serializes to the wire;
// every other kind is accepted in memory but refuses serialization with
// ErrUnsupportedKind so callers cannot silently lose a payload.
type Kind string

const (
	KindText           Kind = "text"
	KindAttributedText Kind = "attributed_text"
	KindPhoto          Kind = "photo"
	KindVideo          Kind = "video"
	KindLocation       Kind = "location"
	KindEmoji          Kind = "emoji"
	KindAudio          Kind = "audio"
	KindContact        Kind = "contact"
	KindLinkPreview    Kind = "link_preview"
	KindCustom         Kind = "custom"
)

// WireDateFormat is the shared date layout for message entries. Second
// precision; round-trips without loss.
const WireDateFormat = "2006-01-02 15:04:05 -0700"

// ErrUnsupportedKind reports a message kind with no wire serialization.
var ErrUnsupportedKind = errors.New("message kind has no wire serialization")

// Message is an in-memory chat message. Messages belong to exactly one
// chatroom and are appended once, never mutated or deleted.
type Message struct {
	SenderKey  string    `json:"sender_key"` // identity-key form
	SenderName string    `json:"sender_name"`
	ID         string    `json:"id"`
	SentAt     time.Time `json:"sent_at"`
	Kind       Kind      `json:"kind"`
	Text       string    `json:"text,omitempty"` // payload for the text kind
}

// MessageEntry is the wire form stored in a room's message array.
type MessageEntry struct {
	Content     string `json:"content"`
	Date        string `json:"date"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	SenderEmail string `json:"senderEmail"`
	Type        string `json:"type"`
}

// WireContent returns the serialized payload for the message's kind. Every
// kind has an explicit arm; anything but text is refused.
func (m Message) WireContent() (string, error) {
	switch m.Kind {
	case KindText:
		return m.Text, nil
	case KindAttributedText, KindPhoto, KindVideo, KindLocation,
		KindEmoji, KindAudio, KindContact, KindLinkPreview, KindCustom:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, m.Kind)
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrUnsupportedKind, string(m.Kind))
	}
}

// Entry builds the wire entry for the message. The sender fields must
// already be filled in (the message store stamps them from the session).
func (m Message) Entry() (MessageEntry, error) {
	content, err := m.WireContent()
	if err != nil {
		return MessageEntry{}, err
	}
	return MessageEntry{
		Content:     content,
		Date:        m.SentAt.Format(WireDateFormat),
		ID:          m.ID,
		Name:        m.SenderName,
		SenderEmail: m.SenderKey,
		Type:        string(m.Kind),
	}, nil
}

// Decode materializes a Message from its wire entry. All fields are
// required and the date must parse with the shared layout; a malformed
// entry returns an error and is skipped by the message store.
func (e MessageEntry) Decode() (Message, error) {
	if e.ID == "" || e.Name == "" || e.SenderEmail == "" || e.Type == "" || e.Date == "" {
		return Message{}, fmt.Errorf("message entry missing required fields")
	}
	sent, err := time.Parse(WireDateFormat, e.Date)
	if err != nil {
		return Message{}, fmt.Errorf("message entry has bad date %q: %w", e.Date, err)
	}
	return Message{
		SenderKey:  e.SenderEmail,
		SenderName: e.Name,
		ID:         e.ID,
		SentAt:     sent,
		Kind:       Kind(e.Type),
		Text:       e.Content,
	}, nil
}
