package testutil

import (
	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

// FakeEmission loses a fixed share of the load.
type FakeEmission struct {
	Ratio float64
}

func (f *FakeEmission) Losses(_ *building.Properties, _ *record.Record, _ int, load float64) float64 {
	return f.Ratio * load
}

// FakeMoisture keeps the zone at the outdoor humidity and reports a fixed
// dehumidification demand.
type FakeMoisture struct {
	Demand float64

	BalanceCalls int
	GHu          float64
	GDhu         float64
}

func (f *FakeMoisture) Balance(_ *building.Properties, rec *record.Record, t int, gHu, gDhu float64) {
	f.BalanceCalls++
	f.GHu, f.GDhu = gHu, gDhu
	rec.XInt[t] = rec.XExt[t]
	rec.GHu[t] = gHu
	rec.GDhu[t] = gDhu
}

func (f *FakeMoisture) DehumidificationDemand(_ *building.Properties, _ *record.Record, _ int) float64 {
	return f.Demand
}
