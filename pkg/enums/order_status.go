package enums

import "fmt"

// OrderStatus tracks the fulfillment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusConfirmed       OrderStatus = "confirmed"
	OrderStatusPackaging       OrderStatus = "packaging"
	OrderStatusOutForDelivery  OrderStatus = "out_for_delivery"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusFailedToDeliver OrderStatus = "failed_to_deliver"
	OrderStatusReturned        OrderStatus = "returned"
	OrderStatusCanceled        OrderStatus = "canceled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPackaging,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusFailedToDeliver,
	OrderStatusReturned,
	OrderStatusCanceled,
}

// fulfillmentStage orders the happy-path statuses; alternate terminals carry no stage.
var fulfillmentStage = map[OrderStatus]int{
	OrderStatusPending:        0,
	OrderStatusConfirmed:      1,
	OrderStatusPackaging:      2,
	OrderStatusOutForDelivery: 3,
	OrderStatusDelivered:      4,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusFailedToDeliver, OrderStatusReturned, OrderStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the fulfillment state machine permits moving
// from s to next. Happy-path statuses only move forward; failed_to_deliver,
// returned and canceled are reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.IsValid() || !next.IsValid() || s == next {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if next.IsTerminal() && next != OrderStatusDelivered {
		return true
	}
	return fulfillmentStage[next] > fulfillmentStage[s]
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
