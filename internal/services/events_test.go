package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventsRecordedForLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActiveCustodian(t, 50_000_000)

	_, err := env.services.Mint(ctx, minterCaller, testCustodianID, testRecipient, "100000000000000000")
	require.Nil(t, err)

	events, _, err := env.services.EventsByCustodian(ctx, testCustodianID, "")
	require.Nil(t, err)

	kinds := make([]string, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	assert.Contains(t, kinds, "custodian_registered")
	assert.Contains(t, kinds, "status_changed")
	assert.Contains(t, kinds, "sync_succeeded")
	assert.Contains(t, kinds, "mint_executed")

	// The mint event carries before and after supply counters.
	var mintEvent *EventPublic
	for i := range events {
		if events[i].Kind == "mint_executed" {
			mintEvent = &events[i]
			break
		}
	}
	require.NotNil(t, mintEvent)
	assert.Equal(t, "minter", mintEvent.Caller)
	assert.EqualValues(t, 0, mintEvent.Payload["minted_before"])
	assert.EqualValues(t, 10_000_000, mintEvent.Payload["minted_after"])
}
