package queue

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/btcpeg/custody-api-service/internal/config"
	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/queue/client"
)

// EventPublisher forwards persisted audit events to the monitor exchange.
// Publication is best-effort: a broker outage must never fail the state
// mutation the event describes.
type EventPublisher struct {
	queueClient client.QueueClient
}

func New(cfg *config.QueueConfig) (*EventPublisher, error) {
	if !cfg.Enabled {
		return &EventPublisher{}, nil
	}
	queueClient, err := client.NewQueueClient(cfg.Url, cfg.User, cfg.Password, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	return &EventPublisher{queueClient: queueClient}, nil
}

func (p *EventPublisher) PublishEvent(ctx context.Context, event *model.EventDocument) {
	if p == nil || p.queueClient == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("kind", event.Kind.String()).Msg("failed to marshal event for publication")
		return
	}
	if err := p.queueClient.SendMessage(ctx, event.Kind.String(), body); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("kind", event.Kind.String()).Msg("failed to publish event")
	}
}

func (p *EventPublisher) IsConnectionHealthy() error {
	if p == nil || p.queueClient == nil {
		return nil
	}
	return p.queueClient.IsConnectionHealthy()
}

func (p *EventPublisher) Stop() {
	if p == nil || p.queueClient == nil {
		return
	}
	if err := p.queueClient.Stop(); err != nil {
		log.Error().Err(err).Msg("failed to stop queue client")
	}
}
