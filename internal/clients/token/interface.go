package token

import (
	"context"
	"net/http"

	"github.com/btcpeg/custody-api-service/internal/types"
)

type MintRequest struct {
	To         string `json:"to"`
	AmountFine string `json:"amount_fine"`
}

type BurnFromRequest struct {
	From       string `json:"from"`
	AmountFine string `json:"amount_fine"`
}

type TransferFromRequest struct {
	From       string `json:"from"`
	To         string `json:"to"`
	AmountFine string `json:"amount_fine"`
}

type TxResult struct {
	TxHash string `json:"tx_hash"`
}

type Balance struct {
	AmountFine string `json:"amount_fine"`
}

type TokenClientInterface interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() int
	GetHttpClient() *http.Client
	Mint(ctx context.Context, to, amountFine string) (*TxResult, *types.Error)
	BurnFrom(ctx context.Context, from, amountFine string) (*TxResult, *types.Error)
	BalanceOf(ctx context.Context, address string) (*Balance, *types.Error)
	TransferFrom(ctx context.Context, from, to, amountFine string) (*TxResult, *types.Error)
}
