// Package report aggregates resolved hourly records into annual building summaries.
package report

import (
	"math"

	"github.com/Agrid-Dev/rcdemand/internal/record"
)

// UnmetTolerance is the temperature band [K] below (heating) or above (cooling)
// the setpoint that still counts as met.
const UnmetTolerance = 0.1

// Failure describes the fatal condition that aborted a building.
type Failure struct {
	Hour    int    `json:"hour" yaml:"hour"`
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

type Summary struct {
	RunID      string   `json:"run_id" yaml:"run_id"`
	BuildingID string   `json:"building_id" yaml:"building_id"`
	Hours      int      `json:"hours" yaml:"hours"`
	Completed  bool     `json:"completed" yaml:"completed"`
	Failure    *Failure `json:"failure,omitempty" yaml:"failure,omitempty"`

	HeatingKWh         float64 `json:"heating_kwh" yaml:"heating_kwh"`
	CoolingKWh         float64 `json:"cooling_kwh" yaml:"cooling_kwh"`
	CoolingLatentKWh   float64 `json:"cooling_latent_kwh" yaml:"cooling_latent_kwh"`
	HeatingEmissionKWh float64 `json:"heating_emission_kwh" yaml:"heating_emission_kwh"`
	CoolingEmissionKWh float64 `json:"cooling_emission_kwh" yaml:"cooling_emission_kwh"`
	AuxiliaryKWh       float64 `json:"auxiliary_kwh" yaml:"auxiliary_kwh"`
	PeakHeatingW       float64 `json:"peak_heating_w" yaml:"peak_heating_w"`
	PeakCoolingW       float64 `json:"peak_cooling_w" yaml:"peak_cooling_w"`
	UnmetHeatingHours  int     `json:"unmet_heating_hours" yaml:"unmet_heating_hours"`
	UnmetCoolingHours  int     `json:"unmet_cooling_hours" yaml:"unmet_cooling_hours"`
	MeanIndoorTemp     float64 `json:"mean_indoor_temp" yaml:"mean_indoor_temp"`
	MinIndoorTemp      float64 `json:"min_indoor_temp" yaml:"min_indoor_temp"`
	MaxIndoorTemp      float64 `json:"max_indoor_temp" yaml:"max_indoor_temp"`

	StatusHours map[string]int `json:"status_hours" yaml:"status_hours"`
}

// Summarize aggregates the first `hours` resolved hours of rec. Energies are
// reported in kWh, with cooling negative.
func Summarize(rec *record.Record, hours int) Summary {
	s := Summary{
		BuildingID:  rec.BuildingID,
		Hours:       hours,
		Completed:   hours == rec.Hours,
		StatusHours: make(map[string]int),
	}
	if hours <= 0 {
		return s
	}

	s.MinIndoorTemp = math.Inf(1)
	s.MaxIndoorTemp = math.Inf(-1)
	var sumT float64

	for t := 0; t < hours; t++ {
		s.HeatingKWh += rec.QhsSys[t] / 1000
		s.CoolingKWh += rec.QcsSys[t] / 1000
		s.CoolingLatentKWh += rec.QcsLatSys[t] / 1000
		s.HeatingEmissionKWh += rec.QhsEmLs[t] / 1000
		s.CoolingEmissionKWh += rec.QcsEmLs[t] / 1000
		s.AuxiliaryKWh += (rec.EhsLatAux[t] + rec.EcsLatAux[t]) / 1000

		s.PeakHeatingW = math.Max(s.PeakHeatingW, rec.QhsSenSys[t])
		s.PeakCoolingW = math.Min(s.PeakCoolingW, rec.QcsSenSys[t])

		st := rec.Status[t]
		s.StatusHours[st.String()]++
		if st.Heating() && rec.TInt[t] < rec.HeatingSetpoint[t]-UnmetTolerance {
			s.UnmetHeatingHours++
		}
		if st.Cooling() && rec.TInt[t] > rec.CoolingSetpoint[t]+UnmetTolerance {
			s.UnmetCoolingHours++
		}

		sumT += rec.TInt[t]
		s.MinIndoorTemp = math.Min(s.MinIndoorTemp, rec.TInt[t])
		s.MaxIndoorTemp = math.Max(s.MaxIndoorTemp, rec.TInt[t])
	}
	s.MeanIndoorTemp = sumT / float64(hours)
	return s
}
