package transform

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/optiondata/chaincache/internal/model"
)

// ErrNoLastPrice means the raw chain had no resolvable underlying price,
// so the at-the-money strike cannot be computed.
var ErrNoLastPrice = errors.New("transform: raw chain has no underlying last price")

// Chain builds a snapshot from a raw option chain.
//
// The snapshot covers the strikes atm+100k for k in [-5,5] that exist in
// raw, ordered by ascending strike. A chain with none of those strikes
// still yields a snapshot with an empty row set; only a missing
// underlying price is an error.
func Chain(raw *model.RawChain, takenAt time.Time) (*model.Snapshot, error) {
	if raw.LastPrice <= 0 {
		return nil, ErrNoLastPrice
	}

	atm := math.Round(raw.LastPrice/model.StrikeSpacing) * model.StrikeSpacing

	window := make(map[float64]bool, 2*model.WindowHalfWidth+1)
	for k := -model.WindowHalfWidth; k <= model.WindowHalfWidth; k++ {
		window[atm+float64(k*model.StrikeSpacing)] = true
	}

	rows := make([]model.StrikeRow, 0, len(window))
	for key, pair := range raw.Strikes {
		strike, err := strconv.ParseFloat(key, 64)
		if err != nil {
			// Provider keys are "48200.000000" strings; skip anything else.
			continue
		}
		if !window[strike] {
			continue
		}
		rows = append(rows, buildRow(strike, pair))
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Strike < rows[j].Strike })

	return &model.Snapshot{
		ID:        uuid.New(),
		TakenAt:   takenAt.UTC(),
		ATMStrike: atm,
		Rows:      rows,
	}, nil
}

func buildRow(strike float64, pair model.StrikePair) model.StrikeRow {
	ceOI := pair.CE.OI / model.Lakh
	cePrevOI := pair.CE.PreviousOI / model.Lakh
	peOI := pair.PE.OI / model.Lakh
	pePrevOI := pair.PE.PreviousOI / model.Lakh

	ceChange := ceOI - cePrevOI
	peChange := peOI - pePrevOI

	return model.StrikeRow{
		Strike: strike,

		CallLastPrice:  pair.CE.LastPrice,
		CallOI:         ceOI,
		CallChangeInOI: ceChange,
		CallIV:         pair.CE.ImpliedVolatility,
		CallDelta:      pair.CE.Greeks.Delta,
		CallGamma:      pair.CE.Greeks.Gamma,
		CallSpreadPct:  spreadPct(pair.CE.TopAskPrice, pair.CE.TopBidPrice),

		PutLastPrice:  pair.PE.LastPrice,
		PutOI:         peOI,
		PutChangeInOI: peChange,
		PutIV:         pair.PE.ImpliedVolatility,
		PutDelta:      pair.PE.Greeks.Delta,
		PutGamma:      pair.PE.Greeks.Gamma,
		PutSpreadPct:  spreadPct(pair.PE.TopAskPrice, pair.PE.TopBidPrice),

		PutMinusCallOI:   peOI - ceOI,
		TrendingOI:       peChange - ceChange,
		CallVolume:       pair.CE.Volume,
		PutVolume:        pair.PE.Volume,
		VolumeDifference: pair.PE.Volume - pair.CE.Volume,
	}
}

// spreadPct is the top-of-book spread as a percentage of the mid price.
// An empty book (ask and bid both zero) pins the mid to 1 so the spread
// reports as 0 instead of dividing by zero.
func spreadPct(ask, bid float64) float64 {
	mid := (ask + bid) / 2
	if ask+bid == 0 {
		mid = 1
	}
	return (ask - bid) / mid * 100
}
