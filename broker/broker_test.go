package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRejectDescriptions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", RejectNone.Description())
	assert.Equal(t, "invalid stop loss - check the distance", RejectInvalidStops.Description())
	assert.Contains(t, RejectReason(999).Description(), "unknown rejection")
}

func TestSideSign(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, Buy.Sign())
	assert.Equal(t, -1.0, Sell.Sign())
	assert.Equal(t, "BUY", Buy.String())
	assert.Equal(t, "SELL", Sell.String())
}

func TestConnectRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	dial := func(ctx context.Context) (Gateway, error) {
		calls++
		if calls < 3 {
			return nil, ErrUnavailable
		}
		return nil, nil
	}

	gw, err := Connect(context.Background(), dial, 3, time.Millisecond)
	assert.NoError(t, err)
	assert.Nil(t, gw)
	assert.Equal(t, 3, calls)
}

func TestConnectExhaustsAttempts(t *testing.T) {
	t.Parallel()

	dial := func(ctx context.Context) (Gateway, error) {
		return nil, ErrUnavailable
	}

	_, err := Connect(context.Background(), dial, 2, time.Millisecond)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestConnectHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dial := func(ctx context.Context) (Gateway, error) {
		return nil, ErrUnavailable
	}

	_, err := Connect(ctx, dial, 5, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
