package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// dialPair spins up a one-shot upgrade server and returns both ends of a live
// websocket connection.
func dialPair(t *testing.T) (server *websocket.Conn, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server connection")
	}
	t.Cleanup(func() { server.Close() })
	return server, client
}

func readEvent(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHubPublishToStaff(t *testing.T) {
	hub := NewHub(NewSessionRouter())

	staffA, clientA := dialPair(t)
	staffB, clientB := dialPair(t)
	hub.RegisterStaff(staffA, "owner")
	hub.RegisterStaff(staffB, "employee")

	hub.Publish(Audience{Staff: true}, Message{
		Event: EventNewOrder,
		Data:  map[string]interface{}{"order_id": 1},
	})

	for _, client := range []*websocket.Conn{clientA, clientB} {
		msg := readEvent(t, client)
		assert.Equal(t, EventNewOrder, msg.Event)
	}
}

func TestHubPublishToGuestChannel(t *testing.T) {
	hub := NewHub(NewSessionRouter())

	guestServer, guestClient := dialPair(t)
	otherServer, otherClient := dialPair(t)
	staffServer, staffClient := dialPair(t)

	channel := hub.RegisterGuest(guestServer, 1)
	hub.RegisterGuest(otherServer, 2)
	hub.RegisterStaff(staffServer, "owner")

	channelFromRouter, ok := hub.Router().Resolve(1)
	require.True(t, ok)
	assert.Equal(t, channel, channelFromRouter)

	hub.Publish(Audience{GuestChannel: channel}, Message{
		Event: EventOrderStatusUpdated,
		Data:  map[string]interface{}{"orderId": 1, "newStatus": "Rejected"},
	})

	msg := readEvent(t, guestClient)
	assert.Equal(t, EventOrderStatusUpdated, msg.Event)

	// Neither the other guest nor the staff room received anything.
	for _, conn := range []*websocket.Conn{otherClient, staffClient} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
		_, _, err := conn.ReadMessage()
		assert.Error(t, err)
	}
}

func TestHubGuestReconnectClosesStaleConnection(t *testing.T) {
	hub := NewHub(NewSessionRouter())

	staleServer, staleClient := dialPair(t)
	freshServer, freshClient := dialPair(t)

	staleChannel := hub.RegisterGuest(staleServer, 1)
	freshChannel := hub.RegisterGuest(freshServer, 1)
	assert.NotEqual(t, staleChannel, freshChannel)

	current, ok := hub.Router().Resolve(1)
	require.True(t, ok)
	assert.Equal(t, freshChannel, current)

	// The stale connection was closed server-side.
	require.NoError(t, staleClient.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := staleClient.ReadMessage()
	assert.Error(t, err)

	// Publishing to the replaced channel is a no-op, the fresh one delivers.
	hub.Publish(Audience{GuestChannel: staleChannel}, Message{Event: EventPayment})
	hub.Publish(Audience{GuestChannel: freshChannel}, Message{Event: EventPayment})

	msg := readEvent(t, freshClient)
	assert.Equal(t, EventPayment, msg.Event)
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub(NewSessionRouter())

	guestServer, _ := dialPair(t)
	staffServer, _ := dialPair(t)

	channel := hub.RegisterGuest(guestServer, 1)
	hub.RegisterStaff(staffServer, "owner")

	hub.UnregisterGuest(channel)
	_, ok := hub.Router().Resolve(1)
	assert.False(t, ok)

	hub.UnregisterStaff(staffServer)

	// Publishing after teardown reaches nobody and must not panic.
	hub.Publish(Audience{Staff: true, GuestChannel: channel}, Message{Event: EventUpdateOrder})
}
