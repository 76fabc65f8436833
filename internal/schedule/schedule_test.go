package schedule

import (
	"errors"
	"math"
	"testing"

	"github.com/Agrid-Dev/rcdemand/internal/record"
)

func TestSeasonContains(t *testing.T) {
	tests := []struct {
		name   string
		season Season
		day    int
		want   bool
	}{
		{"inside", Season{152, 243}, 200, true},
		{"first day", Season{152, 243}, 152, true},
		{"last day", Season{152, 243}, 243, true},
		{"outside", Season{152, 243}, 244, false},
		{"wrapping, december", Season{274, 120}, 360, true},
		{"wrapping, january", Season{274, 120}, 1, true},
		{"wrapping, summer", Season{274, 120}, 200, false},
		{"empty", Season{}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.season.Contains(tt.day); got != tt.want {
				t.Fatalf("Contains(%d) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Schedule)
		want   error
	}{
		{"default", func(*Schedule) {}, nil},
		{"day out of range", func(s *Schedule) { s.Heating.End = 366 }, ErrInvalidDay},
		{"overlap", func(s *Schedule) { s.Cooling.Start = 100 }, ErrOverlappingSeasons},
		{"inverted occupancy", func(s *Schedule) { s.OccupiedFrom = 20 }, ErrInvalidHourOfDay},
		{"negative gains", func(s *Schedule) { s.InternalGains = -1 }, ErrNegativeLoad},
		{"crossed setpoints", func(s *Schedule) { s.HeatingSetpoints.Occupied = 27 }, ErrInvalidSetpoints},
		{"no cooling", func(s *Schedule) { s.Cooling = Season{} }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestScheduleApply(t *testing.T) {
	s := Default()
	rec, err := record.New("b", record.HoursPerYear)
	if err != nil {
		t.Fatal(err)
	}
	s.Apply(rec, 100)

	// January 1st
	if !rec.HeatingSeason[10] || rec.CoolingSeason[10] {
		t.Fatal("January must be in the heating season only")
	}
	if rec.HeatingSetpoint[10] != 21 || rec.HeatingSetpoint[2] != 16 {
		t.Fatalf("heating setpoints: occupied %v, setback %v", rec.HeatingSetpoint[10], rec.HeatingSetpoint[2])
	}
	if !math.IsNaN(rec.CoolingSetpoint[10]) {
		t.Fatal("cooling setpoint outside the cooling season must be undefined")
	}
	if rec.PhiInt[10] != 1000 || rec.PhiInt[2] != 200 {
		t.Fatalf("internal gains: %v, %v", rec.PhiInt[10], rec.PhiInt[2])
	}
	if math.Abs(rec.MVeMech[10]-0.03) > 1e-12 || rec.MVeMech[2] != 0 {
		t.Fatalf("ventilation: %v, %v", rec.MVeMech[10], rec.MVeMech[2])
	}

	// July 1st, day 182
	july := 181 * 24
	if rec.HeatingSeason[july+10] || !rec.CoolingSeason[july+10] {
		t.Fatal("July must be in the cooling season only")
	}
	if rec.CoolingSetpoint[july+10] != 26 {
		t.Fatalf("occupied cooling setpoint = %v", rec.CoolingSetpoint[july+10])
	}
	if !math.IsNaN(rec.CoolingSetpoint[july+2]) {
		t.Fatal("cooling without setback must be off at night")
	}

	// May 15th, between seasons
	may := 134 * 24
	if rec.HeatingSeason[may+10] || rec.CoolingSeason[may+10] {
		t.Fatal("mid-May is outside both seasons")
	}
}
