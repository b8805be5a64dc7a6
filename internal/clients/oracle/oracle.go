package oracle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	baseclient "github.com/btcpeg/custody-api-service/internal/clients/base"
	"github.com/btcpeg/custody-api-service/internal/config"
	"github.com/btcpeg/custody-api-service/internal/types"
)

type OracleClient struct {
	config     *config.OracleConfig
	httpClient *http.Client
}

func NewOracleClient(config *config.OracleConfig) *OracleClient {
	httpClient := &http.Client{
		Timeout: time.Duration(config.Timeout) * time.Millisecond,
	}
	return &OracleClient{
		config,
		httpClient,
	}
}

func (c *OracleClient) GetBaseURL() string {
	return c.config.BaseURL
}

func (c *OracleClient) GetDefaultRequestTimeout() int {
	return c.config.Timeout
}

func (c *OracleClient) GetHttpClient() *http.Client {
	return c.httpClient
}

// GetReserveBalance queries the oracle for a custodian's attested reserve
// balance and its staleness flag. Any transport or upstream failure surfaces
// as an error so callers can run their degradation path.
func (c *OracleClient) GetReserveBalance(ctx context.Context, custodianID string) (*ReserveBalance, *types.Error) {
	opts := &baseclient.BaseClientOptions{
		Path:    fmt.Sprintf("/v1/reserves/%s", custodianID),
		Headers: map[string]string{"Accept": "application/json"},
	}

	return baseclient.SendRequest[any, ReserveBalance](ctx, c, http.MethodGet, opts, nil)
}
