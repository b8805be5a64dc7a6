package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/btcpeg/custody-api-service/internal/clients"
	"github.com/btcpeg/custody-api-service/internal/config"
	"github.com/btcpeg/custody-api-service/internal/db"
	"github.com/btcpeg/custody-api-service/internal/queue"
	"github.com/btcpeg/custody-api-service/internal/types"
)

// Service layer contains the capital-control engine and is used to interact
// with the database and the external collaborators (oracle, token primitive).
type Services struct {
	DbClient  db.DBClient
	Clients   *clients.Clients
	Publisher *queue.EventPublisher
	cfg       *config.Config

	// now is swapped in tests to drive deadline comparisons.
	now func() time.Time
}

func New(ctx context.Context, cfg *config.Config, clients *clients.Clients, publisher *queue.EventPublisher) (*Services, error) {
	var dbClient db.DBClient
	if cfg.Db.InMemory {
		log.Ctx(ctx).Warn().Msg("using in-memory storage, state will not survive a restart")
		dbClient = db.NewInMemoryDatabase()
	} else {
		mongoClient, err := db.New(ctx, cfg.Db)
		if err != nil {
			log.Ctx(ctx).Fatal().Err(err).Msg("error while creating db client")
			return nil, err
		}
		dbClient = mongoClient
	}
	return &Services{
		DbClient:  dbClient,
		Clients:   clients,
		Publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}, nil
}

// DoHealthCheck checks the health of the services by ping the database.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	return s.DbClient.Ping(ctx)
}

// authorize checks the caller's granted roles against the operation's
// precondition. Every mutating operation runs this before touching state.
func (s *Services) authorize(caller *types.Caller, roles ...types.Role) *types.Error {
	if caller == nil {
		return types.NewErrorWithMsg(http.StatusForbidden, types.Forbidden, "missing caller identity")
	}
	if caller.HasAnyRole(roles...) {
		return nil
	}
	if len(roles) == 1 {
		return types.NewErrorWithMsg(
			http.StatusForbidden, types.MissingRole,
			fmt.Sprintf("missing required role: %s", roles[0]),
		)
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.String())
	}
	return types.NewErrorWithMsg(
		http.StatusForbidden, types.MissingRole,
		fmt.Sprintf("missing one of required roles: %v", names),
	)
}
