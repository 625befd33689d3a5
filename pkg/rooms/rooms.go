// Package rooms lists available chatrooms and resolves their power-window
// policy. Rooms are provisioned via SaveAll and read-only otherwise;
// subscribers get push updates through Watch.
package rooms

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"powerchat/pkg/logger"
	"powerchat/pkg/models"
	"powerchat/pkg/store"
)

const roomsPath = "chatrooms"

// wireRoom is the stored shape of a chatroom; power bounds are policy, not
// data, and are attached on read.
type wireRoom struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

var (
	policyMu sync.RWMutex
	policy   map[string]models.PowerWindow

	watchMu  sync.Mutex
	watchers map[int]chan []models.Chatroom
	watchSeq int
)

// SetPolicy installs the power-window table keyed by chatroom id. Called
// once at startup from the effective config.
func SetPolicy(table map[string]models.PowerWindow) {
	policyMu.Lock()
	defer policyMu.Unlock()
	policy = make(map[string]models.PowerWindow, len(table))
	for id, w := range table {
		policy[id] = w
	}
}

// Window returns the power window for a chatroom id, or the widest window
// when the id has no policy entry.
func Window(id string) models.PowerWindow {
	policyMu.RLock()
	defer policyMu.RUnlock()
	if w, ok := policy[id]; ok {
		return w
	}
	return models.DefaultWindow
}

// ListAll materializes every chatroom with its power window attached. An
// absent collection is an empty list. One malformed entry fails the whole
// batch with ErrFetchFailed; callers never see a partial room list.
func ListAll() ([]models.Chatroom, error) {
	v, err := store.GetPath(roomsPath)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []models.Chatroom{}, nil
		}
		return nil, err
	}
	return decodeRooms(v)
}

// SaveAll overwrites the chatroom collection and notifies watchers. This
// is the provisioning operation; the sync layer itself never mutates rooms.
func SaveAll(list []models.Chatroom) error {
	wire := make([]wireRoom, 0, len(list))
	for _, c := range list {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("chatroom missing id or name")
		}
		wire = append(wire, wireRoom{ID: c.ID, Name: c.Name, Message: c.Message})
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return fmt.Errorf("marshal chatrooms: %w", err)
	}
	if err := store.SetPath(roomsPath, b); err != nil {
		return fmt.Errorf("%w: chatrooms: %v", models.ErrWriteFailed, err)
	}
	logger.Info("chatrooms_saved", "count", len(wire))
	notifyWatchers()
	return nil
}

// Watch subscribes to room-list updates. The returned channel receives the
// full decorated list after every successful SaveAll; slow subscribers miss
// intermediate snapshots rather than block the writer. The cancel func
// releases the subscription.
func Watch() (<-chan []models.Chatroom, func()) {
	watchMu.Lock()
	defer watchMu.Unlock()
	if watchers == nil {
		watchers = make(map[int]chan []models.Chatroom)
	}
	id := watchSeq
	watchSeq++
	ch := make(chan []models.Chatroom, 1)
	watchers[id] = ch
	return ch, func() {
		watchMu.Lock()
		defer watchMu.Unlock()
		if c, ok := watchers[id]; ok {
			delete(watchers, id)
			close(c)
		}
	}
}

func notifyWatchers() {
	list, err := ListAll()
	if err != nil {
		logger.Warn("watch_refresh_failed", "error", err)
		return
	}
	watchMu.Lock()
	defer watchMu.Unlock()
	for _, ch := range watchers {
		select {
		case ch <- list:
		default:
			// drop stale snapshot, replace with the fresh one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- list:
			default:
			}
		}
	}
}

func decodeRooms(v []byte) ([]models.Chatroom, error) {
	var wire []wireRoom
	if err := json.Unmarshal(v, &wire); err != nil {
		return nil, fmt.Errorf("%w: chatrooms collection", models.ErrFetchFailed)
	}
	out := make([]models.Chatroom, 0, len(wire))
	for _, r := range wire {
		if r.ID == "" || r.Name == "" || r.Message == "" {
			// one bad record poisons the batch
			return nil, fmt.Errorf("%w: chatroom entry missing id/name/message", models.ErrFetchFailed)
		}
		w := Window(r.ID)
		out = append(out, models.Chatroom{
			ID:       r.ID,
			Name:     r.Name,
			Message:  r.Message,
			MaxPower: w.Max,
			MinPower: w.Min,
		})
	}
	return out, nil
}
