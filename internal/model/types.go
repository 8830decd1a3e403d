package model

import (
	"time"

	"github.com/google/uuid"
)

// StrikeSpacing is the distance between adjacent strikes for the
// underlyings this cache tracks (index options, 100-point grid).
const StrikeSpacing = 100

// WindowHalfWidth is how many strikes are kept on each side of the
// at-the-money strike.
const WindowHalfWidth = 5

// Lakh is the open-interest reporting unit (100,000 contracts).
const Lakh = 100_000

// -----------------------------------------------------------------------------
// Raw provider types
// -----------------------------------------------------------------------------

// Greeks holds per-leg option greeks as reported by the provider.
type Greeks struct {
	Delta float64 `json:"delta"`
	Theta float64 `json:"theta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
}

// LegData is one side (CE or PE) of an option-chain entry.
//
// Every field is optional in the upstream payload; a field absent from the
// JSON decodes to its zero value, which is the documented default.
type LegData struct {
	LastPrice         float64 `json:"last_price"`
	OI                float64 `json:"oi"`
	PreviousOI        float64 `json:"previous_oi"`
	Volume            float64 `json:"volume"`
	TopAskPrice       float64 `json:"top_ask_price"`
	TopBidPrice       float64 `json:"top_bid_price"`
	ImpliedVolatility float64 `json:"implied_volatility"`
	Greeks            Greeks  `json:"greeks"`
}

// StrikePair holds both legs for one strike price.
type StrikePair struct {
	CE LegData `json:"ce"`
	PE LegData `json:"pe"`
}

// RawChain is the provider's option chain for one underlying/expiry:
// the underlying's last traded price plus a strike-price-string keyed
// mapping of leg pairs.
type RawChain struct {
	LastPrice float64               `json:"last_price"`
	Strikes   map[string]StrikePair `json:"oc"`
}

// -----------------------------------------------------------------------------
// Derived analytics types
// -----------------------------------------------------------------------------

// StrikeRow is the derived analytics for a single strike.
//
// Open interest and change-in-OI are in lakhs. SpreadPct is
// (ask-bid)/mid*100 from the top of book, with mid pinned to 1 when both
// sides are zero.
type StrikeRow struct {
	Strike float64

	// Call side
	CallLastPrice  float64
	CallOI         float64
	CallChangeInOI float64
	CallIV         float64
	CallDelta      float64
	CallGamma      float64
	CallSpreadPct  float64

	// Put side
	PutLastPrice  float64
	PutOI         float64
	PutChangeInOI float64
	PutIV         float64
	PutDelta      float64
	PutGamma      float64
	PutSpreadPct  float64

	// Cross fields
	PutMinusCallOI   float64 // PutOI - CallOI
	TrendingOI       float64 // PutChangeInOI - CallChangeInOI
	CallVolume       float64
	PutVolume        float64
	VolumeDifference float64 // PutVolume - CallVolume
}

// Snapshot is one immutable, fully-formed refresh result.
//
// A snapshot is created once by a successful refresh and never mutated;
// a later refresh produces a brand-new snapshot. Rows are ordered by
// ascending strike and cover the strikes atm+100k, k in [-5,5], that the
// provider reported.
type Snapshot struct {
	ID        uuid.UUID
	TakenAt   time.Time // UTC
	ATMStrike float64
	Rows      []StrikeRow
}
