package realtime

import "sync"

// SessionRouter maps a guest id to its single live channel id. The state is
// rebuilt from connection events only; it is never persisted and is lost on
// restart. A lookup miss just means the guest is offline.
type SessionRouter struct {
	mu        sync.RWMutex
	byGuest   map[uint]string
	byChannel map[string]uint
}

func NewSessionRouter() *SessionRouter {
	return &SessionRouter{
		byGuest:   make(map[uint]string),
		byChannel: make(map[string]uint),
	}
}

// Connect binds a guest to a channel. A reconnect replaces the prior
// mapping; the returned previous channel id (if any) lets the hub close the
// stale connection.
func (r *SessionRouter) Connect(guestID uint, channelID string) (previous string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.byGuest[guestID]; ok {
		delete(r.byChannel, prior)
		previous = prior
	}
	r.byGuest[guestID] = channelID
	r.byChannel[channelID] = guestID
	return previous
}

// Disconnect removes a channel's mapping, if it is still current.
func (r *SessionRouter) Disconnect(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	guestID, ok := r.byChannel[channelID]
	if !ok {
		return
	}
	delete(r.byChannel, channelID)
	if r.byGuest[guestID] == channelID {
		delete(r.byGuest, guestID)
	}
}

// Resolve returns the guest's live channel id, or false if offline.
func (r *SessionRouter) Resolve(guestID uint) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channelID, ok := r.byGuest[guestID]
	return channelID, ok
}

// ResolveChannel returns the channel id for a possibly-nil guest reference,
// or "" when the guest is unknown or offline. Convenience for the common
// "order may have no resolved guest" case.
func (r *SessionRouter) ResolveChannel(guestID *uint) string {
	if guestID == nil {
		return ""
	}
	if channelID, ok := r.Resolve(*guestID); ok {
		return channelID
	}
	return ""
}
