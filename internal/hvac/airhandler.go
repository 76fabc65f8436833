package hvac

import (
	"math"

	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/ports"
)

type AirHandlerParams struct {
	SupplyTempHeating float64 // [C]
	SupplyTempCooling float64 // [C], also the coil leaving temperature
	SpecificFanPower  float64 // [W/(kg/s)]
}

func (params *AirHandlerParams) Validate() error {
	if params.SupplyTempHeating <= params.SupplyTempCooling {
		return ErrInvalidSupplyTemp
	}
	if params.SpecificFanPower < 0 {
		return ErrNegativeFanPower
	}
	return nil
}

// AirHandlingUnit conditions the mechanical ventilation air to a fixed supply
// temperature. It never humidifies; in cooling the coil condenses whatever the
// supply temperature cannot hold.
type AirHandlingUnit struct {
	params AirHandlerParams
}

func NewAirHandlingUnit(params AirHandlerParams) (*AirHandlingUnit, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &AirHandlingUnit{params: params}, nil
}

func (a *AirHandlingUnit) Condition(regime building.Regime, flow, tIn, xIn float64) ports.AirHandlerOutput {
	out := ports.AirHandlerOutput{SupplyTemp: tIn, SupplyHumidity: xIn, Flow: flow}
	if flow <= 0 {
		out.Flow = 0
		return out
	}

	switch regime {
	case building.RegimeHeating:
		if tIn < a.params.SupplyTempHeating {
			out.SupplyTemp = a.params.SupplyTempHeating
			out.Sensible = flow * CpAir * (out.SupplyTemp - tIn)
		}
	case building.RegimeCooling:
		if tIn > a.params.SupplyTempCooling {
			out.SupplyTemp = a.params.SupplyTempCooling
			out.Sensible = flow * CpAir * (out.SupplyTemp - tIn)
			out.SupplyHumidity = math.Min(xIn, SaturationMoisture(out.SupplyTemp))
			out.Latent = flow * HWe * (out.SupplyHumidity - xIn)
		}
	}
	if out.Sensible != 0 {
		out.Aux = flow * a.params.SpecificFanPower
	}
	return out
}
