package realtime

// Wire event names. Clients switch on these, do not rename.
const (
	EventNewOrder           = "new-order"
	EventUpdateOrder        = "update-order"
	EventOrderRejected      = "order-rejected"
	EventOrderStatusUpdated = "order-status-updated"
	EventPayment            = "payment"
)

// Message is the websocket frame.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Audience addresses a publication: the staff room, a single guest channel,
// or both. An empty GuestChannel means no guest delivery.
type Audience struct {
	Staff        bool
	GuestChannel string
}

// Broadcaster publishes domain events to live listeners. Delivery is
// fire-and-forget: a missing or dead listener never fails the mutation that
// produced the event.
type Broadcaster interface {
	Publish(audience Audience, msg Message)
}
