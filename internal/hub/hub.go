// Package hub is the real-time fan-out core: it tracks which connections
// are attached to which channel, relays chat messages (persist first, then
// broadcast) and voice presence, and forwards WebRTC signaling frames
// between clients in a voice channel.
package hub

import (
	"sync"

	"ankachat/pkg/chat"
)

// MessageStore persists a chat message and returns the canonical record
// with its server-assigned id and timestamp.
type MessageStore interface {
	Create(userID, channelID uint, content string) (*chat.Message, error)
}

type Hub struct {
	registry *Registry
	store    MessageStore

	// publish serializes persist-then-broadcast per text channel so frames
	// fan out in persistence-commit order. Distinct from the registry lock:
	// the store is never called while the registry is locked.
	publishMu sync.Mutex
	publish   map[uint]*sync.Mutex
}

func New(store MessageStore) *Hub {
	return &Hub{
		registry: NewRegistry(),
		store:    store,
		publish:  make(map[uint]*sync.Mutex),
	}
}

func (h *Hub) Registry() *Registry { return h.registry }

func (h *Hub) publishLock(channelID uint) *sync.Mutex {
	h.publishMu.Lock()
	defer h.publishMu.Unlock()
	mu, ok := h.publish[channelID]
	if !ok {
		mu = &sync.Mutex{}
		h.publish[channelID] = mu
	}
	return mu
}

// prunePublishLock drops the channel's publish mutex once nobody is left to
// publish through it. Safe because a publisher is always a registered
// connection: if the channel is empty, no publish can be in flight.
func (h *Hub) prunePublishLock(channelID uint) {
	h.publishMu.Lock()
	defer h.publishMu.Unlock()
	if h.registry.ChannelConns(channelID) == 0 {
		delete(h.publish, channelID)
	}
}
