package events

// Topic constants for domain events emitted by the checkout engine.
const (
	TopicCheckoutCompleted  = "checkout.completed"
	TopicCheckoutRejected   = "checkout.rejected"
	TopicShipmentDispatched = "shipment.dispatched"
)

