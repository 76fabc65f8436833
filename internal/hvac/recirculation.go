package hvac

import (
	"math"

	"github.com/Agrid-Dev/rcdemand/internal/ports"
)

type RecirculationParams struct {
	SupplyTempHeating float64 // [C]
	SupplyTempCooling float64 // coil leaving temperature [C]
	MinFlow           float64 // [kg/s]
	SpecificFanPower  float64 // [W/(kg/s)]
}

func (params *RecirculationParams) Validate() error {
	if params.SupplyTempHeating <= params.SupplyTempCooling {
		return ErrInvalidSupplyTemp
	}
	if params.MinFlow < 0 {
		return ErrNegativeFlow
	}
	if params.SpecificFanPower < 0 {
		return ErrNegativeFanPower
	}
	return nil
}

// RecirculationUnit is a local fan coil conditioning zone air. Sizing the
// flow to the demand is bounded below by MinFlow, so small demands are
// over-delivered.
type RecirculationUnit struct {
	params RecirculationParams
}

func NewRecirculationUnit(params RecirculationParams) (*RecirculationUnit, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &RecirculationUnit{params: params}, nil
}

// Condition sizes the unit for a sensible demand [W] and a dehumidification
// demand [kg/s] given the zone state of the previous hour.
//
// With tControl the flow follows the sensible demand; with only xControl the
// unit dehumidifies and reheats to zone temperature, so it delivers no
// sensible power. Heating never dehumidifies.
func (u *RecirculationUnit) Condition(sensible, latent, tPrev, xPrev float64, tControl, xControl bool) (ports.RecirculationOutput, error) {
	var out ports.RecirculationOutput

	switch {
	case tControl && sensible > 0:
		return u.heat(sensible, tPrev)
	case tControl && sensible < 0:
		var err error
		out, err = u.cool(sensible, tPrev)
		if err != nil {
			return out, err
		}
		if xControl {
			u.dehumidify(&out, latent, tPrev, xPrev)
		} else {
			u.condense(&out, xPrev)
		}
	case xControl && latent > 0:
		out.ReturnTemp = tPrev
		out.SupplyTemp = tPrev
		u.dehumidify(&out, latent, tPrev, xPrev)
		if out.Flow == 0 {
			return ports.RecirculationOutput{}, nil
		}
	default:
		return out, nil
	}

	out.Aux = out.Flow * u.params.SpecificFanPower
	return out, nil
}

func (u *RecirculationUnit) heat(sensible, tPrev float64) (ports.RecirculationOutput, error) {
	dT := u.params.SupplyTempHeating - tPrev
	if dT <= 0 {
		return ports.RecirculationOutput{}, ErrDegenerateFlow
	}
	flow := math.Max(sensible/(CpAir*dT), u.params.MinFlow)
	return ports.RecirculationOutput{
		Sensible:   flow * CpAir * dT,
		Flow:       flow,
		SupplyTemp: u.params.SupplyTempHeating,
		ReturnTemp: tPrev,
		Aux:        flow * u.params.SpecificFanPower,
	}, nil
}

func (u *RecirculationUnit) cool(sensible, tPrev float64) (ports.RecirculationOutput, error) {
	dT := tPrev - u.params.SupplyTempCooling
	if dT <= 0 {
		return ports.RecirculationOutput{}, ErrDegenerateFlow
	}
	flow := math.Max(-sensible/(CpAir*dT), u.params.MinFlow)
	return ports.RecirculationOutput{
		Sensible:   -flow * CpAir * dT,
		Flow:       flow,
		SupplyTemp: u.params.SupplyTempCooling,
		ReturnTemp: tPrev,
	}, nil
}

// condense accounts for the moisture the coil removes as a side effect of
// sensible cooling.
func (u *RecirculationUnit) condense(out *ports.RecirculationOutput, xPrev float64) {
	xCoil := SaturationMoisture(u.params.SupplyTempCooling)
	if xPrev <= xCoil {
		return
	}
	out.Dehumidification = out.Flow * (xPrev - xCoil)
	out.Latent = -out.Dehumidification * HWe
}

// dehumidify raises the flow through the coil until the demand is met and
// reheats the surplus so the sensible delivery is unchanged.
func (u *RecirculationUnit) dehumidify(out *ports.RecirculationOutput, latent, tPrev, xPrev float64) {
	xCoil := SaturationMoisture(u.params.SupplyTempCooling)
	if xPrev <= xCoil {
		return
	}
	if latent > 0 {
		flowX := latent / (xPrev - xCoil)
		if flowX > out.Flow {
			out.Flow = flowX
			out.SupplyTemp = tPrev + out.Sensible/(CpAir*flowX)
		}
	}
	out.Dehumidification = out.Flow * (xPrev - xCoil)
	out.Latent = -out.Dehumidification * HWe
}
