package hvac

import (
	"math"

	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

// DefaultMaxRelativeHumidity is the indoor humidity limit held in cooling.
const DefaultMaxRelativeHumidity = 0.7

const stepSeconds = 3600.0

// MoistureBalance is a single-node moisture balance of the zone air, solved
// implicitly over one hour.
type MoistureBalance struct {
	MaxRelativeHumidity float64
}

func NewMoistureBalance(maxRH float64) (*MoistureBalance, error) {
	if maxRH <= 0 || maxRH > 1 {
		return nil, ErrInvalidHumidity
	}
	return &MoistureBalance{MaxRelativeHumidity: maxRH}, nil
}

// supply returns the ventilation flow [kg/s] and its moisture content. Heat
// recovery does not transfer moisture and the air-handling unit's removal is
// accounted in the dehumidification term, so the supply carries outdoor air.
func supply(p *building.Properties, rec *record.Record, t int) (float64, float64) {
	return p.InfiltrationFlow + rec.MVeMech[t], rec.XExt[t]
}

// capacity returns the moisture storage of the zone air per second [kg/s].
func capacity(p *building.Properties) float64 {
	return RhoAir * p.Volume() / stepSeconds
}

// Balance writes XInt, GHu and GDhu of hour t.
func (mb *MoistureBalance) Balance(p *building.Properties, rec *record.Record, t int, gHu, gDhu float64) {
	c := capacity(p)
	m, xSup := supply(p, rec, t)
	xPrev := record.Prev(rec.XInt, t, rec.XExt[t])

	x := (c*xPrev + m*xSup + rec.MoistureGain[t] + gHu - gDhu) / (c + m)
	rec.XInt[t] = math.Max(x, 0)
	rec.GHu[t] = gHu
	rec.GDhu[t] = gDhu
}

// DehumidificationDemand returns the moisture removal [kg/s] needed to keep the
// zone at MaxRelativeHumidity at the cooling setpoint during hour t.
func (mb *MoistureBalance) DehumidificationDemand(p *building.Properties, rec *record.Record, t int) float64 {
	tSet := rec.CoolingSetpoint[t]
	if math.IsNaN(tSet) {
		tSet = record.Prev(rec.TInt, t, DefaultIndoorTemperature)
	}
	xSet := MoistureContent(tSet, mb.MaxRelativeHumidity)

	c := capacity(p)
	m, xSup := supply(p, rec, t)
	xPrev := record.Prev(rec.XInt, t, rec.XExt[t])

	g := c*(xPrev-xSet) + m*(xSup-xSet) + rec.MoistureGain[t]
	return math.Max(g, 0)
}
