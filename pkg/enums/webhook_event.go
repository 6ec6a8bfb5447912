package enums

import "fmt"

// WebhookEvent enumerates the notification types tenants can subscribe to.
type WebhookEvent string

const (
	WebhookEventBookingCreated     WebhookEvent = "booking.created"
	WebhookEventBookingConfirmed   WebhookEvent = "booking.confirmed"
	WebhookEventBookingCancelled   WebhookEvent = "booking.cancelled"
	WebhookEventBookingRescheduled WebhookEvent = "booking.rescheduled"
	WebhookEventBookingCompleted   WebhookEvent = "booking.completed"
	WebhookEventClientCreated      WebhookEvent = "client.created"
	WebhookEventClientUpdated      WebhookEvent = "client.updated"
	WebhookEventPaymentReceived    WebhookEvent = "payment.received"
	WebhookEventPaymentFailed      WebhookEvent = "payment.failed"
	WebhookEventPaymentRefunded    WebhookEvent = "payment.refunded"
	WebhookEventInvoiceSent        WebhookEvent = "invoice.sent"
	WebhookEventInvoicePaid        WebhookEvent = "invoice.paid"
	WebhookEventInvoiceOverdue     WebhookEvent = "invoice.overdue"

	// WebhookEventTest is reserved for endpoint validation deliveries and is
	// not subscribable.
	WebhookEventTest WebhookEvent = "webhook.test"
)

var validWebhookEvents = []WebhookEvent{
	WebhookEventBookingCreated,
	WebhookEventBookingConfirmed,
	WebhookEventBookingCancelled,
	WebhookEventBookingRescheduled,
	WebhookEventBookingCompleted,
	WebhookEventClientCreated,
	WebhookEventClientUpdated,
	WebhookEventPaymentReceived,
	WebhookEventPaymentFailed,
	WebhookEventPaymentRefunded,
	WebhookEventInvoiceSent,
	WebhookEventInvoicePaid,
	WebhookEventInvoiceOverdue,
}

// WebhookEventCatalog returns the subscribable events in a stable order.
func WebhookEventCatalog() []WebhookEvent {
	out := make([]WebhookEvent, len(validWebhookEvents))
	copy(out, validWebhookEvents)
	return out
}

// IsValid checks whether the event belongs to the subscribable catalog.
func (e WebhookEvent) IsValid() bool {
	for _, candidate := range validWebhookEvents {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseWebhookEvent converts raw strings into WebhookEvent.
func ParseWebhookEvent(value string) (WebhookEvent, error) {
	for _, candidate := range validWebhookEvents {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid webhook event %q", value)
}
