package main

import (
	"context"
	"time"

	"github.com/matst80/slask-catalog/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// ConnectAmqp listens for catalog changes and drops cached reads when one
// arrives.
func (a *app) ConnectAmqp(amqpUrl string) error {
	conn, err := amqp.DialConfig(amqpUrl, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return err
	}
	a.conn = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := messaging.DefineTopic(ch, a.cfg.Country, messaging.CatalogChanged); err != nil {
		return err
	}
	if err := messaging.ListenToTopic(ch, a.cfg.Country, messaging.CatalogChanged, a.onCatalogChanged); err != nil {
		return err
	}
	log.Info().Str("country", a.cfg.Country).Msg("listening for catalog changes")
	return nil
}

func (a *app) onCatalogChanged(d amqp.Delivery) error {
	change, err := messaging.Decode[messaging.CatalogChange](d)
	if err != nil {
		return err
	}
	if change.Country != "" && change.Country != a.cfg.Country {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate shared cache")
	}
	a.web.Invalidate()
	log.Info().Str("reason", change.Reason).Msg("catalog changed, cache invalidated")
	return nil
}
