package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionRouterConnectResolve(t *testing.T) {
	r := NewSessionRouter()

	_, ok := r.Resolve(1)
	assert.False(t, ok)

	previous := r.Connect(1, "chan-a")
	assert.Empty(t, previous)

	channel, ok := r.Resolve(1)
	assert.True(t, ok)
	assert.Equal(t, "chan-a", channel)
}

func TestSessionRouterReconnectReplaces(t *testing.T) {
	r := NewSessionRouter()

	r.Connect(1, "chan-a")
	previous := r.Connect(1, "chan-b")
	assert.Equal(t, "chan-a", previous)

	channel, ok := r.Resolve(1)
	assert.True(t, ok)
	assert.Equal(t, "chan-b", channel)

	// Disconnecting the replaced channel must not unbind the new one.
	r.Disconnect("chan-a")
	channel, ok = r.Resolve(1)
	assert.True(t, ok)
	assert.Equal(t, "chan-b", channel)

	r.Disconnect("chan-b")
	_, ok = r.Resolve(1)
	assert.False(t, ok)
}

func TestSessionRouterResolveChannel(t *testing.T) {
	r := NewSessionRouter()
	r.Connect(1, "chan-a")

	guestID := uint(1)
	assert.Equal(t, "chan-a", r.ResolveChannel(&guestID))

	offline := uint(2)
	assert.Empty(t, r.ResolveChannel(&offline))
	assert.Empty(t, r.ResolveChannel(nil))
}
