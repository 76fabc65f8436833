// Package schedule builds the hourly operating calendar of a building:
// seasons, setpoints, occupancy gains and ventilation.
package schedule

import (
	"math"

	"github.com/Agrid-Dev/rcdemand/internal/record"
)

const daysPerYear = 365

// Season is a range of days of year, 1-based and inclusive. A season whose
// end precedes its start wraps over the new year. The zero Season is empty.
type Season struct {
	Start int
	End   int
}

func (s Season) Empty() bool {
	return s.Start == 0 && s.End == 0
}

func (s Season) Validate() error {
	if s.Empty() {
		return nil
	}
	if s.Start < 1 || s.Start > daysPerYear || s.End < 1 || s.End > daysPerYear {
		return ErrInvalidDay
	}
	return nil
}

func (s Season) Contains(day int) bool {
	if s.Empty() {
		return false
	}
	if s.Start <= s.End {
		return day >= s.Start && day <= s.End
	}
	return day >= s.Start || day <= s.End
}

// Setpoints gives the target temperature during and outside occupied hours.
// With Setback false the system is off outside occupied hours.
type Setpoints struct {
	Occupied   float64
	Unoccupied float64
	Setback    bool
}

// Schedule is the same for every day of the year.
type Schedule struct {
	Heating Season
	Cooling Season

	HeatingSetpoints Setpoints
	CoolingSetpoints Setpoints

	OccupiedFrom int // hour of day, inclusive
	OccupiedTo   int // hour of day, exclusive

	InternalGains       float64 // occupied, [W/m2]
	BaseGains           float64 // unoccupied, [W/m2]
	Ventilation         float64 // occupied mechanical ventilation [kg/(s m2)]
	MoistureGain        float64 // occupied [kg/(s m2)]
	VentilateUnoccupied bool
}

func (s *Schedule) Validate() error {
	if err := s.Heating.Validate(); err != nil {
		return err
	}
	if err := s.Cooling.Validate(); err != nil {
		return err
	}
	for day := 1; day <= daysPerYear; day++ {
		if s.Heating.Contains(day) && s.Cooling.Contains(day) {
			return ErrOverlappingSeasons
		}
	}
	if s.OccupiedFrom < 0 || s.OccupiedTo > 24 || s.OccupiedFrom > s.OccupiedTo {
		return ErrInvalidHourOfDay
	}
	if s.InternalGains < 0 || s.BaseGains < 0 || s.Ventilation < 0 || s.MoistureGain < 0 {
		return ErrNegativeLoad
	}
	if s.HeatingSetpoints.Occupied > s.CoolingSetpoints.Occupied {
		return ErrInvalidSetpoints
	}
	return nil
}

func (s *Schedule) occupied(hourOfDay int) bool {
	return hourOfDay >= s.OccupiedFrom && hourOfDay < s.OccupiedTo
}

func (sp Setpoints) at(occupied bool) float64 {
	switch {
	case occupied:
		return sp.Occupied
	case sp.Setback:
		return sp.Unoccupied
	default:
		return math.NaN()
	}
}

// Apply writes seasons, setpoints, internal gains, mechanical ventilation and
// moisture gains of every hour of rec for a building of floor area af.
func (s *Schedule) Apply(rec *record.Record, af float64) {
	for t := 0; t < rec.Hours; t++ {
		day := (t/24)%daysPerYear + 1
		occupied := s.occupied(t % 24)

		rec.HeatingSeason[t] = s.Heating.Contains(day)
		rec.CoolingSeason[t] = s.Cooling.Contains(day)
		rec.HeatingSetpoint[t] = math.NaN()
		rec.CoolingSetpoint[t] = math.NaN()
		if rec.HeatingSeason[t] {
			rec.HeatingSetpoint[t] = s.HeatingSetpoints.at(occupied)
		}
		if rec.CoolingSeason[t] {
			rec.CoolingSetpoint[t] = s.CoolingSetpoints.at(occupied)
		}

		rec.PhiInt[t] = s.BaseGains * af
		rec.MVeMech[t] = 0
		rec.MoistureGain[t] = 0
		if occupied {
			rec.PhiInt[t] = s.InternalGains * af
			rec.MoistureGain[t] = s.MoistureGain * af
		}
		if occupied || s.VentilateUnoccupied {
			rec.MVeMech[t] = s.Ventilation * af
		}
	}
}

// Default is an office calendar for a temperate climate.
func Default() Schedule {
	return Schedule{
		Heating:          Season{Start: 274, End: 120},
		Cooling:          Season{Start: 152, End: 243},
		HeatingSetpoints: Setpoints{Occupied: 21, Unoccupied: 16, Setback: true},
		CoolingSetpoints: Setpoints{Occupied: 26},
		OccupiedFrom:     7,
		OccupiedTo:       19,
		InternalGains:    10,
		BaseGains:        2,
		Ventilation:      0.0003,
		MoistureGain:     1e-7,
	}
}
