package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/btcpeg/custody-api-service/internal/db"
	"github.com/btcpeg/custody-api-service/internal/db/model"
	"github.com/btcpeg/custody-api-service/internal/observability/metrics"
	"github.com/btcpeg/custody-api-service/internal/types"
)

// emitEvent is the single observability channel for state changes: the event
// is persisted to the audit log, counted, logged, and (when configured)
// forwarded to the monitor exchange. Emission failures are logged but never
// fail the state mutation the event describes.
func (s *Services) emitEvent(ctx context.Context, event *types.Event) {
	doc := &model.EventDocument{
		ID:        uuid.NewString(),
		Kind:      event.Kind,
		Custodian: event.Custodian,
		Caller:    event.Caller,
		Payload:   event.Payload,
		CreatedAt: s.now(),
	}

	if err := s.DbClient.SaveEvent(ctx, doc); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("kind", event.Kind.String()).Msg("failed to persist audit event")
	}

	metrics.RecordEventEmitted(event.Kind.String())

	log.Ctx(ctx).Info().
		Str("kind", event.Kind.String()).
		Str("custodian", event.Custodian).
		Str("caller", event.Caller).
		Interface("payload", event.Payload).
		Msg("event emitted")

	if s.Publisher != nil {
		s.Publisher.PublishEvent(ctx, doc)
	}
}

// EventPublic is the API view of a persisted audit event.
type EventPublic struct {
	ID        string                 `json:"id"`
	Kind      string                 `json:"kind"`
	Custodian string                 `json:"custodian,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt string                 `json:"created_at"`
}

func fromEventDocument(d model.EventDocument) EventPublic {
	return EventPublic{
		ID:        d.ID,
		Kind:      d.Kind.String(),
		Custodian: d.Custodian,
		Caller:    d.Caller,
		Payload:   d.Payload,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Services) EventsByCustodian(ctx context.Context, custodianID, pageToken string) ([]EventPublic, string, *types.Error) {
	resultMap, err := s.DbClient.FindEventsByCustodian(ctx, custodianID, pageToken)
	if err != nil {
		if db.IsInvalidPaginationTokenError(err) {
			log.Ctx(ctx).Warn().Err(err).Msg("Invalid pagination token when fetching events")
			return nil, "", types.NewError(http.StatusBadRequest, types.BadRequest, err)
		}
		log.Ctx(ctx).Error().Err(err).Msg("Failed to find events by custodian")
		return nil, "", types.NewInternalServiceError(err)
	}
	var events []EventPublic
	for _, d := range resultMap.Data {
		events = append(events, fromEventDocument(d))
	}
	return events, resultMap.PaginationToken, nil
}
