package demand

import (
	"math"

	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/hvac"
	"github.com/Agrid-Dev/rcdemand/internal/ports"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

// handler turns the probe result of an hour into the delivered power of one
// system archetype. Handlers are sign-agnostic: h.sign is +1 in heating and
// -1 in cooling.
type handler func(e *Engine, h *hour) error

func heatingHandlers() map[building.Archetype]handler {
	return map[building.Archetype]handler{
		building.ArchetypeRadiator:  radiant,
		building.ArchetypeLocalAC:   localAC,
		building.ArchetypeCentralAC: centralAC,
		building.ArchetypeHybrid:    hybrid,
	}
}

func coolingHandlers() map[building.Archetype]handler {
	return map[building.Archetype]handler{
		building.ArchetypeRadiator:  radiant,
		building.ArchetypeLocalAC:   localAC,
		building.ArchetypeCentralAC: centralAC,
		building.ArchetypeHybrid:    hybrid,
	}
}

type statusSet struct {
	radiant, ac, overshoot, hybrid record.Status
}

var statuses = map[building.Regime]statusSet{
	building.RegimeHeating: {
		radiant:   record.StatusHeatingRadiator,
		ac:        record.StatusHeatingAC,
		overshoot: record.StatusHeatingACOverheat,
		hybrid:    record.StatusHeatingHybrid,
	},
	building.RegimeCooling: {
		radiant:   record.StatusCoolingRadiative,
		ac:        record.StatusCoolingAC,
		overshoot: record.StatusCoolingACOvercool,
		hybrid:    record.StatusCoolingHybrid,
	},
}

// radiant delivers the probe power through water-based terminal units.
func radiant(e *Engine, h *hour) error {
	_, h.xSup = hvac.AfterHeatRecovery(&e.props, h.rec, h.t, h.regime)
	h.status = statuses[h.regime].radiant
	return nil
}

func localAC(e *Engine, h *hour) error {
	tPrev, xPrev := e.previousZone(h)
	aru, err := e.c.Recirculation.Condition(h.requested, 0, tPrev, xPrev, true, false)
	if err != nil {
		return e.fail(h, KindProbeDegeneracy, "recirculation unit: %v", err)
	}
	_, h.xSup = hvac.AfterHeatRecovery(&e.props, h.rec, h.t, h.regime)

	h.delivered = h.limit(aru.Sensible)
	h.aux = aru.Aux
	h.recirculation = aru.Flow
	if h.regime == building.RegimeCooling {
		h.latent = aru.Latent
		h.gDhu = aru.Dehumidification
	}
	h.airLoop(aru.Flow, aru.SupplyTemp, tPrev)
	h.status = statuses[h.regime].ac
	if h.overshoot(h.delivered) {
		h.status = statuses[h.regime].overshoot
	}
	return nil
}

// centralAC conditions the ventilation air first. A recirculation unit covers
// what the air-handling unit leaves of the sensible demand and, in cooling, of
// the dehumidification demand.
func centralAC(e *Engine, h *hour) error {
	ahu, dhuLeft := e.airHandler(h)
	tPrev, xPrev := e.previousZone(h)

	gap := h.requested - ahu.Sensible
	var aru ports.RecirculationOutput
	var err error
	switch h.regime {
	case building.RegimeHeating:
		if gap > 0 {
			aru, err = e.c.Recirculation.Condition(gap, 0, tPrev, xPrev, true, false)
		}
	case building.RegimeCooling:
		aru, err = e.c.Recirculation.Condition(math.Min(gap, 0), dhuLeft, tPrev, xPrev, true, true)
	}
	if err != nil {
		return e.fail(h, KindProbeDegeneracy, "recirculation unit: %v", err)
	}

	h.combine(ahu, aru, tPrev)
	h.delivered = h.limit(ahu.Sensible + aru.Sensible)
	h.status = statuses[h.regime].ac
	if h.overshoot(h.delivered) {
		h.status = statuses[h.regime].overshoot
	}
	return nil
}

// hybrid serves the ventilation air, then an uncontrolled recirculation unit
// that only dehumidifies in cooling, and leaves the residual sensible demand
// to radiant terminal units.
func hybrid(e *Engine, h *hour) error {
	ahu, dhuLeft := e.airHandler(h)
	tPrev, xPrev := e.previousZone(h)

	// in heating neither control is set, so the unit contributes nothing
	xControl := h.regime == building.RegimeCooling
	aru, err := e.c.Recirculation.Condition(0, dhuLeft, tPrev, xPrev, false, xControl)
	if err != nil {
		return e.fail(h, KindProbeDegeneracy, "recirculation unit: %v", err)
	}

	h.combine(ahu, aru, tPrev)
	air := ahu.Sensible + aru.Sensible
	residual := h.sign * math.Max(0, h.sign*(h.requested-air))
	h.delivered = h.limit(air + residual)
	h.status = statuses[h.regime].hybrid
	if h.overshoot(h.limit(air)) {
		h.status = statuses[h.regime].overshoot
	}
	return nil
}

// airHandler runs the air-handling unit on the mechanical ventilation flow
// and returns the dehumidification demand it leaves to the zone [kg/s].
func (e *Engine) airHandler(h *hour) (ports.AirHandlerOutput, float64) {
	tHex, xHex := hvac.AfterHeatRecovery(&e.props, h.rec, h.t, h.regime)
	ahu := e.c.AirHandler.Condition(h.regime, h.rec.MVeMech[h.t], tHex, xHex)
	h.xSup = ahu.SupplyHumidity
	if h.regime != building.RegimeCooling {
		return ahu, 0
	}
	removed := -ahu.Latent / hvac.HWe
	demand := e.c.Moisture.DehumidificationDemand(&e.props, h.rec, h.t)
	return ahu, math.Max(0, demand-removed)
}

// combine records the air-side contributions of both units.
func (h *hour) combine(ahu ports.AirHandlerOutput, aru ports.RecirculationOutput, tPrev float64) {
	h.aux = ahu.Aux + aru.Aux
	h.recirculation = aru.Flow
	if h.regime == building.RegimeCooling {
		h.latent = ahu.Latent + aru.Latent
		h.gDhu = -ahu.Latent/hvac.HWe + aru.Dehumidification
	}
	flow := ahu.Flow + aru.Flow
	if flow > 0 {
		h.airLoop(flow, (ahu.Flow*ahu.SupplyTemp+aru.Flow*aru.SupplyTemp)/flow, tPrev)
	}
}

func (h *hour) airLoop(flow, supplyTemp, returnTemp float64) {
	if flow <= 0 {
		return
	}
	h.supplyFlow = flow
	h.supplyTemp = supplyTemp
	h.returnTemp = returnTemp
}

// overshoot reports whether delivered power worsens the zone beyond the setpoint.
func (h *hour) overshoot(delivered float64) bool {
	return h.sign*delivered > h.sign*h.requested
}

func (e *Engine) previousZone(h *hour) (float64, float64) {
	tPrev := record.Prev(h.rec.TInt, h.t, hvac.DefaultIndoorTemperature)
	xPrev := record.Prev(h.rec.XInt, h.t, h.rec.XExt[h.t])
	return tPrev, xPrev
}
