package hvac

import (
	"math"

	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

// DefaultMaxLossRatio caps the emission losses relative to the delivered load.
const DefaultMaxLossRatio = 0.25

// EmissionLosses estimates terminal-unit losses from the temperature rise
// of the emitter over the zone, relative to the indoor-outdoor difference.
type EmissionLosses struct {
	MaxLossRatio float64
}

func NewEmissionLosses(maxLossRatio float64) (*EmissionLosses, error) {
	if maxLossRatio < 0 || maxLossRatio > 1 {
		return nil, ErrInvalidLossRatio
	}
	return &EmissionLosses{MaxLossRatio: maxLossRatio}, nil
}

func (e *EmissionLosses) Losses(p *building.Properties, rec *record.Record, t int, load float64) float64 {
	if load == 0 {
		return 0
	}
	regime := building.RegimeHeating
	if load < 0 {
		regime = building.RegimeCooling
	}
	delta := p.EmissionDelta(regime)
	if delta <= 0 {
		return 0
	}
	ratio := e.MaxLossRatio
	if dT := math.Abs(rec.TInt[t] - rec.TExt[t]); dT > 0 {
		ratio = math.Min(delta/dT, e.MaxLossRatio)
	}
	return load * ratio
}
