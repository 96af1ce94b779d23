package model

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus validates a raw status string against the enumerated
// vocabulary. Unknown values return ErrInvalidStatus.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(raw), nil
	default:
		return "", ErrInvalidStatus
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether an administrative transition from s to
// target is allowed. Any transition between non-terminal states is
// permitted (administrative override); terminal states are frozen.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	return !s.IsTerminal()
}
