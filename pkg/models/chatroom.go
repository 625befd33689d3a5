package models

// Chatroom is room metadata as stored in the `chatrooms` collection.
// Rooms are provisioned externally and read-only from the sync layer's
// perspective. MaxPower/MinPower are not persisted; they are resolved from
// the power-window policy table when the room is materialized.
type Chatroom struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Message  string  `json:"message"` // topic / description line
	MaxPower float64 `json:"max_power,omitempty"`
	MinPower float64 `json:"min_power,omitempty"`
}

// PowerWindow is the [min, max] range an external power signal is checked
// against before a room may be entered.
type PowerWindow struct {
	Max float64 `json:"max"`
	Min float64 `json:"min"`
}

// DefaultWindow is the widest window, applied to room ids absent from the
// policy table: unrestricted.
var DefaultWindow = PowerWindow{Max: 1.0, Min: 0.0}
