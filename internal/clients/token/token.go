package token

import (
	"context"
	"fmt"
	"net/http"
	"time"

	baseclient "github.com/btcpeg/custody-api-service/internal/clients/base"
	"github.com/btcpeg/custody-api-service/internal/config"
	"github.com/btcpeg/custody-api-service/internal/types"
)

// TokenClient talks to the token bridge service that owns the ERC20-style
// mint/burn primitives. The ledger treats it as a substitutable collaborator.
type TokenClient struct {
	config     *config.TokenConfig
	httpClient *http.Client
}

func NewTokenClient(config *config.TokenConfig) *TokenClient {
	httpClient := &http.Client{
		Timeout: time.Duration(config.Timeout) * time.Millisecond,
	}
	return &TokenClient{
		config,
		httpClient,
	}
}

func (c *TokenClient) GetBaseURL() string {
	return c.config.BaseURL
}

func (c *TokenClient) GetDefaultRequestTimeout() int {
	return c.config.Timeout
}

func (c *TokenClient) GetHttpClient() *http.Client {
	return c.httpClient
}

func (c *TokenClient) Mint(ctx context.Context, to, amountFine string) (*TxResult, *types.Error) {
	opts := &baseclient.BaseClientOptions{
		Path:    "/v1/mint",
		Headers: map[string]string{"Content-Type": "application/json"},
	}
	input := &MintRequest{To: to, AmountFine: amountFine}
	return baseclient.SendRequest[MintRequest, TxResult](ctx, c, http.MethodPost, opts, input)
}

func (c *TokenClient) BurnFrom(ctx context.Context, from, amountFine string) (*TxResult, *types.Error) {
	opts := &baseclient.BaseClientOptions{
		Path:    "/v1/burn-from",
		Headers: map[string]string{"Content-Type": "application/json"},
	}
	input := &BurnFromRequest{From: from, AmountFine: amountFine}
	return baseclient.SendRequest[BurnFromRequest, TxResult](ctx, c, http.MethodPost, opts, input)
}

func (c *TokenClient) BalanceOf(ctx context.Context, address string) (*Balance, *types.Error) {
	opts := &baseclient.BaseClientOptions{
		Path:    fmt.Sprintf("/v1/balance/%s", address),
		Headers: map[string]string{"Accept": "application/json"},
	}
	return baseclient.SendRequest[any, Balance](ctx, c, http.MethodGet, opts, nil)
}

func (c *TokenClient) TransferFrom(ctx context.Context, from, to, amountFine string) (*TxResult, *types.Error) {
	opts := &baseclient.BaseClientOptions{
		Path:    "/v1/transfer-from",
		Headers: map[string]string{"Content-Type": "application/json"},
	}
	input := &TransferFromRequest{From: from, To: to, AmountFine: amountFine}
	return baseclient.SendRequest[TransferFromRequest, TxResult](ctx, c, http.MethodPost, opts, input)
}
