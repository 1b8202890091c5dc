package enums

// OutboxEventType names the domain events queued for best-effort delivery.
type OutboxEventType string

const (
	EventOrderPlaced    OutboxEventType = "order.placed"
	EventOrderDelivered OutboxEventType = "order.delivered"
	EventBackInStock    OutboxEventType = "product.back_in_stock"
)

// OutboxAggregateType names the entity an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder   OutboxAggregateType = "order"
	AggregateProduct OutboxAggregateType = "product"
)
