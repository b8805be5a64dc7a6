package clients

import (
	"github.com/btcpeg/custody-api-service/internal/clients/oracle"
	"github.com/btcpeg/custody-api-service/internal/clients/token"
	"github.com/btcpeg/custody-api-service/internal/config"
)

type Clients struct {
	Oracle oracle.OracleClientInterface
	Token  token.TokenClientInterface
}

func New(cfg *config.Config) *Clients {
	oracleClient := oracle.NewOracleClient(&cfg.Oracle)
	tokenClient := token.NewTokenClient(&cfg.Token)

	return &Clients{
		Oracle: oracleClient,
		Token:  tokenClient,
	}
}
