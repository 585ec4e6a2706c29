package models

// OrderStatus is the lifecycle state of an order. The wire values are fixed;
// clients and the payment gateway both match on them.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusPaid       OrderStatus = "Paid"
	OrderStatusRejected   OrderStatus = "Rejected"
)

// orderStatusTransitions is the full transition graph:
//
//	Pending -> Processing -> Delivered -> Paid
//	Pending | Processing  -> Rejected
//
// Paid and Rejected are terminal.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusRejected},
	OrderStatusProcessing: {OrderStatusDelivered, OrderStatusRejected},
	OrderStatusDelivered:  {OrderStatusPaid},
	OrderStatusPaid:       {},
	OrderStatusRejected:   {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusTransitions[s]
	return ok
}

// CanTransition reports whether s -> to is an edge in the graph.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderStatusTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(orderStatusTransitions[s]) == 0
}

func (s OrderStatus) String() string {
	return string(s)
}
