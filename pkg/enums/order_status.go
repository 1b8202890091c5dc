package enums

// GuestUserID is the sentinel owner recorded for unauthenticated checkouts.
const GuestUserID = "guest"

// OrderStatus tracks the administrative lifecycle of a placed order.
// Customers never mutate it; cancellation is a transition, not a delete.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// ValidOrderStatus reports whether the value is a known status.
func ValidOrderStatus(value OrderStatus) bool {
	switch value {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
