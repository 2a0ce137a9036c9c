package hub

import (
	"sort"
	"sync"

	"ankachat/pkg/chat"
)

// Registry is the single source of truth for who is connected where. All
// methods are safe for concurrent use by the per-connection session
// goroutines; one mutex guards both maps. Outbound delivery never blocks
// under the lock: recipients are snapshotted first and frames go out through
// each connection's buffered queue.
type Registry struct {
	mu sync.RWMutex

	// Live connections per channel, in join order. A user with several tabs
	// open holds several entries; chat connections are deliberately not
	// deduplicated.
	channels map[uint][]*Conn

	// Voice participants per channel, deduplicated by user id. The count
	// tracks live connections for that user so the roster entry only goes
	// away when the last one disconnects.
	voice map[uint]map[uint]*voicePresence
}

type voicePresence struct {
	user  chat.UserInfo
	conns int
}

func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[uint][]*Conn),
		voice:    make(map[uint]map[uint]*voicePresence),
	}
}

// Join attaches a connection to a channel. Callers must not join the same
// connection twice; a double join would duplicate fan-out.
func (r *Registry) Join(channelID uint, c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[channelID] = append(r.channels[channelID], c)
}

// Leave detaches a connection. An emptied channel entry is pruned so churn
// never grows the map.
func (r *Registry) Leave(channelID uint, c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.channels[channelID]
	for i, other := range conns {
		if other == c {
			r.channels[channelID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(r.channels[channelID]) == 0 {
		delete(r.channels, channelID)
	}
}

// Broadcast fans a frame out to every connection in the channel except
// exclude (which may be nil). A full or closed recipient queue drops that
// one delivery; the broken connection's own read loop handles cleanup.
func (r *Registry) Broadcast(channelID uint, frame []byte, exclude *Conn) {
	r.mu.RLock()
	recipients := make([]*Conn, 0, len(r.channels[channelID]))
	for _, c := range r.channels[channelID] {
		if c != exclude {
			recipients = append(recipients, c)
		}
	}
	r.mu.RUnlock()

	for _, c := range recipients {
		c.deliver(frame)
	}
}

// SendTo delivers a frame to a single connection.
func (r *Registry) SendTo(c *Conn, frame []byte) {
	c.deliver(frame)
}

// FindUser returns some live connection in the channel bound to the given
// user id, or nil. Used for targeted signaling delivery; a miss is an
// expected race, not an error.
func (r *Registry) FindUser(channelID, userID uint) *Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.channels[channelID] {
		if c.user.ID == userID {
			return c
		}
	}
	return nil
}

// VoiceJoin records a user's presence in a voice channel and returns the
// resulting roster. A second connection for the same user bumps a reference
// count instead of adding a duplicate entry.
func (r *Registry) VoiceJoin(channelID uint, user chat.UserInfo) []chat.UserInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, ok := r.voice[channelID]
	if !ok {
		users = make(map[uint]*voicePresence)
		r.voice[channelID] = users
	}

	if p, ok := users[user.ID]; ok {
		p.conns++
	} else {
		users[user.ID] = &voicePresence{user: user, conns: 1}
	}

	return r.rosterLocked(channelID)
}

// VoiceLeave drops one connection's worth of presence and returns the
// resulting roster. The user stays on the roster while other connections of
// theirs remain.
func (r *Registry) VoiceLeave(channelID uint, user chat.UserInfo) []chat.UserInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if users, ok := r.voice[channelID]; ok {
		if p, ok := users[user.ID]; ok {
			p.conns--
			if p.conns <= 0 {
				delete(users, user.ID)
			}
		}
		if len(users) == 0 {
			delete(r.voice, channelID)
		}
	}

	return r.rosterLocked(channelID)
}

// VoiceRoster returns a snapshot of the users present in a voice channel.
func (r *Registry) VoiceRoster(channelID uint) []chat.UserInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rosterLocked(channelID)
}

// rosterLocked builds a roster snapshot sorted by user id so broadcasts are
// deterministic. Caller holds r.mu.
func (r *Registry) rosterLocked(channelID uint) []chat.UserInfo {
	users := r.voice[channelID]
	roster := make([]chat.UserInfo, 0, len(users))
	for _, p := range users {
		roster = append(roster, p.user)
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })
	return roster
}

// ChannelConns reports the number of live connections in a channel.
func (r *Registry) ChannelConns(channelID uint) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels[channelID])
}
