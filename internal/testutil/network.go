package testutil

import (
	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/ports"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

// AffineNetwork is a network solver whose zone temperature responds exactly
// as T(P) = T0 + K*P.
type AffineNetwork struct {
	T0 float64
	K  float64

	Powers  []float64
	Regimes []building.Regime
}

func (n *AffineNetwork) Solve(_ *building.Properties, _ *record.Record, _ int, power float64, regime building.Regime) ports.NetworkState {
	n.Powers = append(n.Powers, power)
	n.Regimes = append(n.Regimes, regime)
	tInt := n.T0 + n.K*power
	return ports.NetworkState{
		TInt:      tInt,
		TMass:     n.T0,
		TCore:     0.5 * (n.T0 + tInt),
		TEnvelope: 0.5 * (n.T0 + tInt),
		Coefficients: ports.Coefficients{
			HEm:     80,
			HOpM:    72,
			ThetaEm: 0,
			HEc:     36,
			ThetaEc: 0,
			HEa:     50,
			ThetaEa: 10,
		},
	}
}

// Last returns the power of the most recent evaluation.
func (n *AffineNetwork) Last() float64 {
	if len(n.Powers) == 0 {
		return 0
	}
	return n.Powers[len(n.Powers)-1]
}
