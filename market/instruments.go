package market

import "math"

// InstrumentMeta describes the broker-side trading parameters for a
// symbol. Pip location follows the usual convention: -4 means a pip is
// 0.0001 price units, -2 means 0.01 (JPY pairs, metals).
type InstrumentMeta struct {
	Symbol       string
	PipLocation  int
	ContractSize float64
	MinLot       float64
	MaxLot       float64
	LotStep      float64
	QuoteCcy     string
}

// PipSize returns the price increment of one pip for this instrument.
func (m InstrumentMeta) PipSize() float64 {
	return math.Pow(10, float64(m.PipLocation))
}

var Instruments = map[string]InstrumentMeta{
	"EURUSD": {
		Symbol:       "EURUSD",
		PipLocation:  -4,
		ContractSize: 100000,
		MinLot:       0.01,
		MaxLot:       100,
		LotStep:      0.01,
		QuoteCcy:     "USD",
	},
	"GBPUSD": {
		Symbol:       "GBPUSD",
		PipLocation:  -4,
		ContractSize: 100000,
		MinLot:       0.01,
		MaxLot:       100,
		LotStep:      0.01,
		QuoteCcy:     "USD",
	},
	"USDJPY": {
		Symbol:       "USDJPY",
		PipLocation:  -2,
		ContractSize: 100000,
		MinLot:       0.01,
		MaxLot:       100,
		LotStep:      0.01,
		QuoteCcy:     "JPY",
	},
	"XAUUSD": {
		Symbol:       "XAUUSD",
		PipLocation:  -2,
		ContractSize: 100,
		MinLot:       0.01,
		MaxLot:       50,
		LotStep:      0.01,
		QuoteCcy:     "USD",
	},
}

// Lookup returns instrument metadata for a symbol. The second return
// value reports whether the symbol is known; callers that size
// positions fall back to a minimum lot when it is not.
func Lookup(symbol string) (InstrumentMeta, bool) {
	m, ok := Instruments[symbol]
	return m, ok
}
