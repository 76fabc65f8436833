package testutil

import (
	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/ports"
)

// FakeAirHandler returns a fixed output whatever it is asked.
type FakeAirHandler struct {
	Out ports.AirHandlerOutput

	Called  bool
	Regime  building.Regime
	FlowArg float64
}

func (f *FakeAirHandler) Condition(regime building.Regime, flow, _, _ float64) ports.AirHandlerOutput {
	f.Called = true
	f.Regime = regime
	f.FlowArg = flow
	return f.Out
}

type RecirculationCall struct {
	Sensible float64
	Latent   float64
	TControl bool
	XControl bool
}

// FakeRecirculation delivers Gain times the requested sensible power (the
// request itself when Gain is zero) and meets any latent demand exactly.
type FakeRecirculation struct {
	Gain             float64
	Flow             float64
	SupplyTemp       float64
	Aux              float64
	Dehumidification float64 // condensation when only temperature is controlled
	Err              error

	Calls []RecirculationCall
}

func (f *FakeRecirculation) Condition(sensible, latent, tPrev, _ float64, tControl, xControl bool) (ports.RecirculationOutput, error) {
	f.Calls = append(f.Calls, RecirculationCall{Sensible: sensible, Latent: latent, TControl: tControl, XControl: xControl})
	if f.Err != nil {
		return ports.RecirculationOutput{}, f.Err
	}
	var out ports.RecirculationOutput
	if tControl {
		out.Sensible = sensible
		if f.Gain != 0 {
			out.Sensible = sensible * f.Gain
		}
	}
	switch {
	case xControl && latent > 0:
		out.Dehumidification = latent
	case tControl && sensible < 0:
		out.Dehumidification = f.Dehumidification
	}
	out.Latent = -out.Dehumidification * 2.466e6
	if out.Sensible != 0 || out.Dehumidification != 0 {
		out.Flow = f.Flow
		out.SupplyTemp = f.SupplyTemp
		out.ReturnTemp = tPrev
		out.Aux = f.Aux
	}
	return out, nil
}
