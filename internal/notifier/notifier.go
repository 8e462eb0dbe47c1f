package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=./mocks/notifier_mock.go -package=mocks

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"tourdesk/config"
	"tourdesk/infras/kafka"
	"tourdesk/infras/otel"
	"tourdesk/shared/constant"
	"tourdesk/shared/timezone"
)

const (
	EventBookingCreated = "booking.created"
	EventBookingUpdated = "booking.updated"
	EventBookingDeleted = "booking.deleted"

	EventPaymentRecorded = "payment.recorded"
	EventPaymentUpdated  = "payment.updated"
	EventPaymentDeleted  = "payment.deleted"
)

// Event is the payload published for every booking and payment lifecycle
// change.
type Event struct {
	Type       string    `json:"type"`
	AccountID  string    `json:"account_id"`
	EntityID   string    `json:"entity_id"`
	BookingID  string    `json:"booking_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier publishes lifecycle events fire-and-forget. Publishing problems are
// logged and never fail the mutation that triggered them.
type Notifier interface {
	BookingEvent(ctx context.Context, eventType, accountID, bookingID string)
	PaymentEvent(ctx context.Context, eventType, accountID, paymentID, bookingID string)
}

type notifierImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(client kafka.Client, cfg *config.Config, otel otel.Otel) Notifier {
	return &notifierImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (n *notifierImpl) BookingEvent(ctx context.Context, eventType, accountID, bookingID string) {
	n.publish(ctx, n.cfg.Kafka.Topics.BookingEvents, Event{
		Type:       eventType,
		AccountID:  accountID,
		EntityID:   bookingID,
		BookingID:  bookingID,
		OccurredAt: timezone.Now(),
	})
}

func (n *notifierImpl) PaymentEvent(ctx context.Context, eventType, accountID, paymentID, bookingID string) {
	n.publish(ctx, n.cfg.Kafka.Topics.PaymentEvents, Event{
		Type:       eventType,
		AccountID:  accountID,
		EntityID:   paymentID,
		BookingID:  bookingID,
		OccurredAt: timezone.Now(),
	})
}

func (n *notifierImpl) publish(ctx context.Context, topic string, event Event) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".publish")
	defer scope.End()

	message := kafka.Message{
		Key:   event.EntityID,
		Value: event,
	}

	if err := n.client.SendMessages(ctx, topic, message); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("topic", topic).Str("type", event.Type).Msg("failed to publish lifecycle event")
	}
}
