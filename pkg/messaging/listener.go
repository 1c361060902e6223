package messaging

import (
	"github.com/matst80/slask-catalog/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	if err = ch.QueueBind(q.Name, name, name, false, nil); err != nil {
		return nil, err
	}
	return ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
}

// ListenToTopic consumes the topic on a goroutine until the channel closes.
// Messages the handler fails are rejected without requeue.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, handler func(amqp.Delivery) error) error {
	msgs, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}
	go func() {
		defer ch.Close()
		consume(msgs, handler)
	}()
	return nil
}

func consume(msgs <-chan amqp.Delivery, handler func(amqp.Delivery) error) {
	for d := range msgs {
		if err := handler(d); err != nil {
			log.Warn().Err(err).Str("exchange", d.Exchange).Msg("failed to process message")
			if err := d.Nack(false, false); err != nil {
				log.Warn().Err(err).Msg("nack failed")
			}
			continue
		}
		if err := d.Ack(false); err != nil {
			log.Warn().Err(err).Msg("ack failed")
		}
	}
}

// Decode unmarshals a json delivery body.
func Decode[V any](d amqp.Delivery) (V, error) {
	var v V
	err := jsoncompat.Unmarshal(d.Body, &v)
	return v, err
}
