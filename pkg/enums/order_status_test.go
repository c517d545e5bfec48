package enums

import "testing"

func TestCanTransitionTo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"forward one step", OrderStatusPending, OrderStatusConfirmed, true},
		{"forward skipping stages", OrderStatusPending, OrderStatusPackaging, true},
		{"forward to delivered", OrderStatusOutForDelivery, OrderStatusDelivered, true},
		{"backward rejected", OrderStatusPackaging, OrderStatusConfirmed, false},
		{"same status rejected", OrderStatusConfirmed, OrderStatusConfirmed, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusReturned, false},
		{"canceled is terminal", OrderStatusCanceled, OrderStatusPending, false},
		{"cancel from pending", OrderStatusPending, OrderStatusCanceled, true},
		{"cancel from out for delivery", OrderStatusOutForDelivery, OrderStatusCanceled, true},
		{"failed to deliver from packaging", OrderStatusPackaging, OrderStatusFailedToDeliver, true},
		{"returned from confirmed", OrderStatusConfirmed, OrderStatusReturned, true},
		{"delivered reachable as forward skip", OrderStatusPending, OrderStatusDelivered, true},
		{"unknown source rejected", OrderStatus("shipped"), OrderStatusDelivered, false},
		{"unknown target rejected", OrderStatusPending, OrderStatus("shipped"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
				t.Fatalf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	terminal := []OrderStatus{OrderStatusDelivered, OrderStatusFailedToDeliver, OrderStatusReturned, OrderStatusCanceled}
	for _, status := range terminal {
		if !status.IsTerminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	active := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusPackaging, OrderStatusOutForDelivery}
	for _, status := range active {
		if status.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", status)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseOrderStatus("out_for_delivery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != OrderStatusOutForDelivery {
		t.Fatalf("expected out_for_delivery, got %s", status)
	}

	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
