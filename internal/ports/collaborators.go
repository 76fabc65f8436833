package ports

import (
	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

// Coefficients are the aggregate heat-transfer coefficients and boundary
// temperatures of one network evaluation.
type Coefficients struct {
	HEm     float64 // mass node to exterior [W/K]
	HOpM    float64 // opaque envelope conductance [W/K]
	ThetaEm float64 // exterior temperature seen by the mass node [C]
	HEc     float64 // window conductance [W/K]
	ThetaEc float64 // exterior temperature seen by the central node [C]
	HEa     float64 // ventilation conductance [W/K]
	ThetaEa float64 // supply air temperature [C]
}

// NetworkState is the result of evaluating the thermal network for one hour.
type NetworkState struct {
	TInt      float64
	TMass     float64
	TCore     float64
	TEnvelope float64
	Coefficients
}

// NetworkSolver evaluates the building's thermal network at an applied sensible
// power. It keeps the mass temperature of the previous hour internally, so
// repeated calls for the same hour are independent of each other.
type NetworkSolver interface {
	Solve(p *building.Properties, rec *record.Record, t int, power float64, regime building.Regime) NetworkState
}

// AirHandlerOutput is what the central air-handling unit delivers to the zone.
type AirHandlerOutput struct {
	Sensible       float64 // [W]
	Latent         float64 // [W]
	SupplyTemp     float64 // [C]
	SupplyHumidity float64 // [kg/kg]
	Flow           float64 // [kg/s]
	Aux            float64 // fan electricity [W]
}

// AirHandler conditions the mechanical ventilation air.
type AirHandler interface {
	Condition(regime building.Regime, flow, tAfterHex, xAfterHex float64) AirHandlerOutput
}

// RecirculationOutput is what the local air-recirculation unit delivers.
type RecirculationOutput struct {
	Sensible         float64 // [W]
	Latent           float64 // [W]
	Dehumidification float64 // [kg/s], >= 0
	Flow             float64 // [kg/s]
	SupplyTemp       float64 // [C]
	ReturnTemp       float64 // [C]
	Aux              float64 // fan electricity [W]
}

// RecirculationUnit meets a sensible and/or latent demand with zone air.
// A latent demand is a dehumidification rate [kg/s].
type RecirculationUnit interface {
	Condition(sensible, latent, tPrev, xPrev float64, tControl, xControl bool) (RecirculationOutput, error)
}

// EmissionLossModel returns the distribution losses of a delivered sensible load.
// The losses carry the sign of the load.
type EmissionLossModel interface {
	Losses(p *building.Properties, rec *record.Record, t int, load float64) float64
}

// MoistureModel updates the zone humidity of hour t.
type MoistureModel interface {
	Balance(p *building.Properties, rec *record.Record, t int, gHu, gDhu float64)
	DehumidificationDemand(p *building.Properties, rec *record.Record, t int) float64
}
