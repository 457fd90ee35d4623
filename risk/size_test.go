package risk

import (
	"testing"

	"github.com/fxcycle/trader/market"
	"github.com/stretchr/testify/assert"
)

func eurusd() market.InstrumentMeta {
	m, _ := market.Lookup("EURUSD")
	return m
}

func TestVolumeRiskBudget(t *testing.T) {
	t.Parallel()

	// balance=1000, risk=2%, stop 25 pips on EURUSD:
	// 20 / (25 * 0.0001 * 100000) = 0.08 lots.
	got := Volume(SizeInputs{
		Balance:      1000,
		RiskFraction: 0.02,
		Entry:        1.1000,
		Stop:         1.0975,
		Meta:         eurusd(),
	})
	assert.InDelta(t, 0.08, got, 1e-9)
}

func TestVolumeClampedToMinLot(t *testing.T) {
	t.Parallel()

	// Tiny balance: raw size rounds below the minimum lot.
	got := Volume(SizeInputs{
		Balance:      50,
		RiskFraction: 0.02,
		Entry:        1.1000,
		Stop:         1.0900,
		Meta:         eurusd(),
	})
	assert.InDelta(t, 0.01, got, 1e-9)
}

func TestVolumeClampedToMaxLot(t *testing.T) {
	t.Parallel()

	got := Volume(SizeInputs{
		Balance:      100000000,
		RiskFraction: 0.02,
		Entry:        1.1000,
		Stop:         1.0999,
		Meta:         eurusd(),
	})
	assert.InDelta(t, eurusd().MaxLot, got, 1e-9)
}

func TestVolumeRoundsDownToLotStep(t *testing.T) {
	t.Parallel()

	// 23 / (30 * 0.0001 * 100000) = 0.07666… => 0.07 lots.
	got := Volume(SizeInputs{
		Balance:      1150,
		RiskFraction: 0.02,
		Entry:        1.2000,
		Stop:         1.1970,
		Meta:         eurusd(),
	})
	assert.InDelta(t, 0.07, got, 1e-9)
}

func TestVolumeZeroStopDistanceFallsBack(t *testing.T) {
	t.Parallel()

	got := Volume(SizeInputs{
		Balance:      1000,
		RiskFraction: 0.02,
		Entry:        1.1000,
		Stop:         1.1000,
		Meta:         eurusd(),
	})
	assert.InDelta(t, 0.01, got, 1e-9)
}

func TestVolumeMissingMetadataFallsBack(t *testing.T) {
	t.Parallel()

	got := Volume(SizeInputs{
		Balance:      1000,
		RiskFraction: 0.02,
		Entry:        1.1000,
		Stop:         1.0975,
		Meta:         market.InstrumentMeta{}, // unknown symbol
	})
	assert.InDelta(t, 0.01, got, 1e-9)
}

func TestVolumeJPYPipLocation(t *testing.T) {
	t.Parallel()

	meta, _ := market.Lookup("USDJPY")
	// 30 pip stop at pip=0.01: 20 / (30 * 0.01 * 100000) = 0.0066 => min lot.
	got := Volume(SizeInputs{
		Balance:      1000,
		RiskFraction: 0.02,
		Entry:        150.00,
		Stop:         149.70,
		Meta:         meta,
	})
	assert.InDelta(t, 0.01, got, 1e-9)
}
