package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fxcycle/trader/broker"
	"github.com/fxcycle/trader/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal() *Terminal {
	t := NewTerminal(broker.Account{Currency: "USD", Balance: 10000, Equity: 10000})
	t.SetTick(market.Tick{Symbol: "EURUSD", Bid: 1.0849, Ask: 1.0851, Time: time.Now()})
	return t
}

func TestSubmitOrderFillsAtAskForBuy(t *testing.T) {
	t.Parallel()

	term := newTestTerminal()
	res, err := term.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "EURUSD", Side: broker.Buy, Volume: 0.10, StopLoss: 1.0800,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.OrderID)
	assert.InDelta(t, 1.0851, res.FilledPrice, 1e-9)

	positions, err := term.GetPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, broker.Buy, positions[0].Side)
	assert.InDelta(t, 1.0851, positions[0].OpenPrice, 1e-9)
}

func TestSubmitOrderFillsAtBidForSell(t *testing.T) {
	t.Parallel()

	term := newTestTerminal()
	res, err := term.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "EURUSD", Side: broker.Sell, Volume: 0.10, StopLoss: 1.0900,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.InDelta(t, 1.0849, res.FilledPrice, 1e-9)
}

func TestSubmitOrderRejectsInvalidVolume(t *testing.T) {
	t.Parallel()

	term := newTestTerminal()
	res, err := term.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "EURUSD", Side: broker.Buy, Volume: 0.001,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, broker.RejectInvalidVolume, res.Reject)
}

func TestSubmitOrderUnknownSymbol(t *testing.T) {
	t.Parallel()

	term := newTestTerminal()
	res, err := term.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "DOGEUSD", Side: broker.Buy, Volume: 0.10,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, broker.RejectSymbolUnavailable, res.Reject)
}

func TestStopLossTriggersOnTick(t *testing.T) {
	t.Parallel()

	term := newTestTerminal()
	_, err := term.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "EURUSD", Side: broker.Buy, Volume: 1.00, StopLoss: 1.0800,
	})
	require.NoError(t, err)

	// Bid drops through the stop; the position closes at the stop price.
	term.SetTick(market.Tick{Symbol: "EURUSD", Bid: 1.0790, Ask: 1.0792, Time: time.Now()})

	positions, err := term.GetPositions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, positions)

	acct, err := term.GetAccount(context.Background())
	require.NoError(t, err)
	// Loss: (1.0800 - 1.0851) * 1 lot * 100k = -510
	assert.InDelta(t, 10000-510, acct.Balance, 0.01)
}

func TestTakeProfitTriggersOnTick(t *testing.T) {
	t.Parallel()

	term := newTestTerminal()
	_, err := term.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "EURUSD", Side: broker.Buy, Volume: 1.00, StopLoss: 1.0800, TakeProfit: 1.0900,
	})
	require.NoError(t, err)

	term.SetTick(market.Tick{Symbol: "EURUSD", Bid: 1.0910, Ask: 1.0912, Time: time.Now()})

	positions, err := term.GetPositions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, positions)

	acct, err := term.GetAccount(context.Background())
	require.NoError(t, err)
	// Profit: (1.0900 - 1.0851) * 1 lot * 100k = +490
	assert.InDelta(t, 10000+490, acct.Balance, 0.01)
}

func TestCloseAllCountsClosedPositions(t *testing.T) {
	t.Parallel()

	term := newTestTerminal()
	for i := 0; i < 3; i++ {
		_, err := term.SubmitOrder(context.Background(), broker.OrderRequest{
			Symbol: "EURUSD", Side: broker.Buy, Volume: 0.10, StopLoss: 1.0800,
		})
		require.NoError(t, err)
	}

	n, err := term.CloseAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	positions, err := term.GetPositions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestModifyStop(t *testing.T) {
	t.Parallel()

	term := newTestTerminal()
	res, err := term.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "EURUSD", Side: broker.Buy, Volume: 0.10, StopLoss: 1.0800,
	})
	require.NoError(t, err)

	require.NoError(t, term.ModifyStop(context.Background(), res.OrderID, 1.0820))

	positions, err := term.GetPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.InDelta(t, 1.0820, positions[0].StopLoss, 1e-9)

	assert.Error(t, term.ModifyStop(context.Background(), "no-such-ticket", 1.0))
}

func TestUnavailableInjection(t *testing.T) {
	t.Parallel()

	term := newTestTerminal()
	term.SetUnavailable(true)

	_, err := term.GetAccount(context.Background())
	assert.True(t, errors.Is(err, broker.ErrUnavailable))

	_, err = term.GetPositions(context.Background())
	assert.True(t, errors.Is(err, broker.ErrUnavailable))

	_, err = term.SubmitOrder(context.Background(), broker.OrderRequest{Symbol: "EURUSD", Side: broker.Buy, Volume: 0.1})
	assert.True(t, errors.Is(err, broker.ErrUnavailable))
}

func TestRejectNextInjection(t *testing.T) {
	t.Parallel()

	term := newTestTerminal()
	term.RejectNext(broker.RejectRequote)

	res, err := term.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "EURUSD", Side: broker.Buy, Volume: 0.10,
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, broker.RejectRequote, res.Reject)

	// Injection is one-shot.
	res, err = term.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "EURUSD", Side: broker.Buy, Volume: 0.10,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestEquityReflectsFloatingLoss(t *testing.T) {
	t.Parallel()

	term := newTestTerminal()
	_, err := term.SubmitOrder(context.Background(), broker.OrderRequest{
		Symbol: "EURUSD", Side: broker.Buy, Volume: 1.00, StopLoss: 1.0500,
	})
	require.NoError(t, err)

	term.SetTick(market.Tick{Symbol: "EURUSD", Bid: 1.0751, Ask: 1.0753, Time: time.Now()})

	acct, err := term.GetAccount(context.Background())
	require.NoError(t, err)
	// Floating: (1.0751 - 1.0851) * 100k = -1000
	assert.InDelta(t, 10000.0, acct.Balance, 0.01)
	assert.InDelta(t, 9000.0, acct.Equity, 0.01)
}
