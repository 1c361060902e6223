package tracking

import (
	"context"
	"net/http"
	"time"

	"github.com/matst80/slask-catalog/pkg/common"
	"github.com/matst80/slask-catalog/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const trackingPrefix = "global"

type publishFunc func(ctx context.Context, data any) error

// RabbitTracking batches events and publishes them on the global tracking
// topic.
type RabbitTracking struct {
	country    string
	connection *amqp.Connection
	queue      *common.QueueHandler[any]
	publish    publishFunc
}

func NewRabbitTracking(url, country string) (*RabbitTracking, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := messaging.DefineTopic(ch, trackingPrefix, messaging.Tracking); err != nil {
		conn.Close()
		return nil, err
	}
	rt := newRabbitTracking(country, func(ctx context.Context, data any) error {
		return messaging.SendChange(ctx, conn, trackingPrefix, messaging.Tracking, data)
	})
	rt.connection = conn
	return rt, nil
}

func newRabbitTracking(country string, publish publishFunc) *RabbitTracking {
	rt := &RabbitTracking{
		country: country,
		publish: publish,
	}
	rt.queue = common.NewQueueHandler(rt.sendBatch, 50, 2*time.Second)
	return rt
}

func (rt *RabbitTracking) sendBatch(events []any) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, e := range events {
		if err := rt.publish(ctx, e); err != nil {
			log.Warn().Err(err).Msg("failed to send tracking event")
		}
	}
}

func (rt *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	rt.queue.Add(newSession(newBaseEvent(EventSession, sessionId, rt.country), r))
}

func (rt *RabbitTracking) TrackFilterChange(sessionId string, data FilterChangeData) {
	rt.queue.Add(FilterChangeEvent{
		BaseEvent:        newBaseEvent(EventFilterChange, sessionId, rt.country),
		FilterChangeData: data,
	})
}

// Close sends what is queued and closes the connection.
func (rt *RabbitTracking) Close() error {
	rt.queue.Stop()
	if rt.connection == nil {
		return nil
	}
	return rt.connection.Close()
}
