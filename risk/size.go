package risk

import (
	"math"

	"github.com/fxcycle/trader/market"
)

// SizeInputs carries what Volume needs to turn an account risk budget
// into a lot size. Entry and Stop are absolute prices.
type SizeInputs struct {
	Balance      float64
	RiskFraction float64
	Entry        float64
	Stop         float64
	Meta         market.InstrumentMeta
}

// Volume computes the lot size that risks Balance*RiskFraction if the
// stop is hit:
//
//	lots = (balance * riskFraction) / (stopPips * pipSize * contractSize)
//
// clamped to the instrument's [MinLot, MaxLot] and rounded down to the
// lot step. Degenerate inputs (zero stop distance, missing metadata)
// fall back to the minimum lot rather than failing the cycle.
func Volume(in SizeInputs) float64 {
	meta := in.Meta
	if meta.ContractSize <= 0 || meta.LotStep <= 0 {
		if meta.MinLot > 0 {
			return meta.MinLot
		}
		return 0.01
	}

	pip := meta.PipSize()
	stopPips := math.Abs(in.Entry-in.Stop) / pip
	if stopPips <= 0 || in.Balance <= 0 || in.RiskFraction <= 0 {
		return meta.MinLot
	}

	riskAmt := in.Balance * in.RiskFraction
	lots := riskAmt / (stopPips * pip * meta.ContractSize)

	lots = math.Floor(lots/meta.LotStep) * meta.LotStep
	lots = math.Max(lots, meta.MinLot)
	lots = math.Min(lots, meta.MaxLot)

	// Lot steps are hundredths in this domain; keep the float clean.
	return math.Round(lots*100) / 100
}
