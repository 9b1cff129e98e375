package ws

import (
	"sync"

	"github.com/google/uuid"

	"promptcraft/internal/domain"
	"promptcraft/internal/pkg/logger"
)

// Channel is one live delivery target. Send must not block; it reports
// whether the event was accepted.
type Channel interface {
	Send(ev domain.Event) bool
	Close()
}

// Hub fans engine events out to a user's open connections. It implements
// the usecase Notifier port.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[Channel]bool
	log     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[Channel]bool),
		log:     log,
	}
}

func (h *Hub) Attach(userID uuid.UUID, ch Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[Channel]bool)
		h.clients[userID] = set
	}
	set[ch] = true
}

func (h *Hub) Detach(userID uuid.UUID, ch Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(userID, ch)
}

func (h *Hub) detachLocked(userID uuid.UUID, ch Channel) {
	set, ok := h.clients[userID]
	if !ok || !set[ch] {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(h.clients, userID)
	}
	ch.Close()
}

// SendToUser pushes ev to every channel the user has open and reports how
// many accepted it. A channel that refuses the event is too far behind to
// catch up and gets dropped.
func (h *Hub) SendToUser(userID uuid.UUID, ev domain.Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for ch := range h.clients[userID] {
		if ch.Send(ev) {
			delivered++
			continue
		}
		h.log.Warn("dropping slow websocket channel", "userId", userID)
		h.detachLocked(userID, ch)
	}
	return delivered
}

func (h *Hub) Broadcast(ev domain.Event, excludeUserID *uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, set := range h.clients {
		if excludeUserID != nil && userID == *excludeUserID {
			continue
		}
		for ch := range set {
			if !ch.Send(ev) {
				h.detachLocked(userID, ch)
			}
		}
	}
}

// Shutdown sends server_shutdown to everyone and closes all channels.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	ev := domain.NewEvent(domain.EventServerShutdown, nil)
	for _, set := range h.clients {
		for ch := range set {
			ch.Send(ev)
			ch.Close()
		}
	}
	h.clients = make(map[uuid.UUID]map[Channel]bool)
}

// Connections reports how many channels a user currently holds.
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
