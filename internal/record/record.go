package record

import (
	"fmt"
	"math"
	"strings"
)

// HoursPerYear is the length of a standard simulation year.
const HoursPerYear = 8760

// Record holds the hourly series of one building. Inputs are filled by the
// orchestration layer before the year starts, outputs are written hour by hour
// by the demand engine and start undefined (NaN).
type Record struct {
	BuildingID string
	Hours      int

	// boundary conditions
	TExt         []float64 // outdoor air temperature [C]
	XExt         []float64 // outdoor moisture content [kg/kg]
	PhiInt       []float64 // internal gains [W]
	PhiSol       []float64 // solar gains [W]
	MVeMech      []float64 // mechanical ventilation flow [kg/s]
	MoistureGain []float64 // internal moisture gains [kg/s]

	HeatingSeason   []bool
	CoolingSeason   []bool
	HeatingSetpoint []float64 // NaN when the system is off
	CoolingSetpoint []float64 // NaN when the system is off

	// temperatures
	TInt      []float64
	TMass     []float64
	TCore     []float64
	TEnvelope []float64

	// heating
	QhsSen    []float64
	QhsSenSys []float64
	QhsLatSys []float64
	EhsLatAux []float64
	QhsEmLs   []float64
	QhsSys    []float64

	// cooling
	QcsSen    []float64
	QcsSenSys []float64
	QcsLatSys []float64
	EcsLatAux []float64
	QcsEmLs   []float64
	QcsSys    []float64

	// air loop
	MaSupHs          []float64
	TaSupHs          []float64
	TaReHs           []float64
	MaSupCs          []float64
	TaSupCs          []float64
	TaReCs           []float64
	MVeRecirculation []float64
	XSup             []float64

	// humidity
	GHu  []float64
	GDhu []float64
	XInt []float64

	// heat flow breakdown
	QGainWall []float64
	QGainBase []float64
	QGainRoof []float64
	QGainWind []float64
	QGainVent []float64

	Status []Status
}

// Series is a named view on one hourly float series.
type Series struct {
	Name   string
	Values []float64
}

func New(buildingID string, hours int) (*Record, error) {
	if hours <= 0 {
		return nil, ErrInvalidHours
	}
	r := &Record{
		BuildingID:    buildingID,
		Hours:         hours,
		HeatingSeason: make([]bool, hours),
		CoolingSeason: make([]bool, hours),
		Status:        make([]Status, hours),
	}
	for _, s := range r.inputPtrs() {
		*s.ptr = make([]float64, hours)
	}
	r.HeatingSetpoint = fill(hours, math.NaN())
	r.CoolingSetpoint = fill(hours, math.NaN())
	for _, s := range r.outputPtrs() {
		*s.ptr = fill(hours, math.NaN())
	}
	return r, nil
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

type seriesPtr struct {
	name string
	ptr  *[]float64
}

func (r *Record) inputPtrs() []seriesPtr {
	return []seriesPtr{
		{"t_ext", &r.TExt},
		{"x_ext", &r.XExt},
		{"phi_int", &r.PhiInt},
		{"phi_sol", &r.PhiSol},
		{"m_ve_mech", &r.MVeMech},
		{"moisture_gain", &r.MoistureGain},
	}
}

func (r *Record) outputPtrs() []seriesPtr {
	return []seriesPtr{
		{"t_int", &r.TInt},
		{"t_mass", &r.TMass},
		{"t_core", &r.TCore},
		{"t_envelope", &r.TEnvelope},
		{"qhs_sen", &r.QhsSen},
		{"qhs_sen_sys", &r.QhsSenSys},
		{"qhs_lat_sys", &r.QhsLatSys},
		{"ehs_lat_aux", &r.EhsLatAux},
		{"qhs_em_ls", &r.QhsEmLs},
		{"qhs_sys", &r.QhsSys},
		{"qcs_sen", &r.QcsSen},
		{"qcs_sen_sys", &r.QcsSenSys},
		{"qcs_lat_sys", &r.QcsLatSys},
		{"ecs_lat_aux", &r.EcsLatAux},
		{"qcs_em_ls", &r.QcsEmLs},
		{"qcs_sys", &r.QcsSys},
		{"ma_sup_hs", &r.MaSupHs},
		{"ta_sup_hs", &r.TaSupHs},
		{"ta_re_hs", &r.TaReHs},
		{"ma_sup_cs", &r.MaSupCs},
		{"ta_sup_cs", &r.TaSupCs},
		{"ta_re_cs", &r.TaReCs},
		{"m_ve_recirculation", &r.MVeRecirculation},
		{"x_sup", &r.XSup},
		{"g_hu", &r.GHu},
		{"g_dhu", &r.GDhu},
		{"x_int", &r.XInt},
		{"q_gain_wall", &r.QGainWall},
		{"q_gain_base", &r.QGainBase},
		{"q_gain_roof", &r.QGainRoof},
		{"q_gain_wind", &r.QGainWind},
		{"q_gain_vent", &r.QGainVent},
	}
}

// Inputs returns the boundary-condition series in export order.
func (r *Record) Inputs() []Series {
	out := toSeries(r.inputPtrs())
	return append(out,
		Series{"heating_setpoint", r.HeatingSetpoint},
		Series{"cooling_setpoint", r.CoolingSetpoint},
	)
}

// Outputs returns the series written by the demand engine in export order.
func (r *Record) Outputs() []Series {
	return toSeries(r.outputPtrs())
}

func toSeries(ptrs []seriesPtr) []Series {
	out := make([]Series, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, Series{Name: p.name, Values: *p.ptr})
	}
	return out
}

func (r *Record) CheckHour(t int) error {
	if t < 0 || t >= r.Hours {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrHourOutOfRange, t, r.Hours)
	}
	return nil
}

// Complete verifies that every output of hour t has been written.
func (r *Record) Complete(t int) error {
	if err := r.CheckHour(t); err != nil {
		return err
	}
	var missing []string
	for _, s := range r.outputPtrs() {
		if math.IsNaN((*s.ptr)[t]) {
			missing = append(missing, s.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: hour %d: %s", ErrIncompleteHour, t, strings.Join(missing, ", "))
	}
	if !r.Status[t].Valid() {
		return fmt.Errorf("%w: hour %d", ErrStatusUnset, t)
	}
	return nil
}

// Prev returns series[t-1], or fallback for the first hour.
func Prev(series []float64, t int, fallback float64) float64 {
	if t <= 0 || math.IsNaN(series[t-1]) {
		return fallback
	}
	return series[t-1]
}

// ClearHeating zeroes every heating output of hour t.
func (r *Record) ClearHeating(t int) {
	r.QhsSen[t] = 0
	r.QhsSenSys[t] = 0
	r.QhsLatSys[t] = 0
	r.EhsLatAux[t] = 0
	r.QhsEmLs[t] = 0
	r.QhsSys[t] = 0
	r.MaSupHs[t] = 0
	r.TaSupHs[t] = 0
	r.TaReHs[t] = 0
}

// ClearCooling zeroes every cooling output of hour t.
func (r *Record) ClearCooling(t int) {
	r.QcsSen[t] = 0
	r.QcsSenSys[t] = 0
	r.QcsLatSys[t] = 0
	r.EcsLatAux[t] = 0
	r.QcsEmLs[t] = 0
	r.QcsSys[t] = 0
	r.MaSupCs[t] = 0
	r.TaSupCs[t] = 0
	r.TaReCs[t] = 0
}
