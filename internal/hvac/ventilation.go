package hvac

import (
	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

// DefaultIndoorTemperature seeds the first hour when no previous zone state exists.
const DefaultIndoorTemperature = 20.0

// AfterHeatRecovery returns the state of the mechanical ventilation air leaving
// the heat exchanger at hour t. The exchanger is bypassed in cooling when the
// outdoor air is colder than the zone. Moisture is not recovered.
func AfterHeatRecovery(p *building.Properties, rec *record.Record, t int, regime building.Regime) (float64, float64) {
	tExt := rec.TExt[t]
	tPrev := record.Prev(rec.TInt, t, DefaultIndoorTemperature)
	if regime == building.RegimeCooling && tExt < tPrev {
		return tExt, rec.XExt[t]
	}
	return tExt + p.HeatRecoveryEfficiency*(tPrev-tExt), rec.XExt[t]
}

// SupplyConditions mixes infiltration and mechanical ventilation into a single
// supply stream: total flow [kg/s], temperature [C] and moisture [kg/kg].
func SupplyConditions(p *building.Properties, rec *record.Record, t int, regime building.Regime) (float64, float64, float64) {
	mInf := p.InfiltrationFlow
	mMech := rec.MVeMech[t]
	tMech, xMech := AfterHeatRecovery(p, rec, t, regime)
	m := mInf + mMech
	tSup := (mInf*rec.TExt[t] + mMech*tMech) / m
	xSup := (mInf*rec.XExt[t] + mMech*xMech) / m
	return m, tSup, xSup
}
