// Package weather provides the hourly outdoor boundary conditions of a simulation.
package weather

import (
	"fmt"

	"github.com/Agrid-Dev/rcdemand/internal/hvac"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

// Hour is the outdoor state of one hour.
type Hour struct {
	TExt             float64 // [C]
	RelativeHumidity float64 // [0..1]
	Solar            float64 // irradiance on the glazing [W/m2]
}

func (h Hour) Validate() error {
	if h.RelativeHumidity < 0 || h.RelativeHumidity > 1 {
		return ErrInvalidHumidity
	}
	if h.Solar < 0 {
		return ErrNegativeSolar
	}
	return nil
}

// Series is an hourly weather year, index 0 being the first hour of January 1st.
type Series []Hour

// Apply writes the outdoor temperature, moisture content and solar gains of
// the series into rec. aperture converts irradiance into gains [m2].
func (s Series) Apply(rec *record.Record, aperture float64) error {
	if len(s) < rec.Hours {
		return fmt.Errorf("%w: %d hours for %d", ErrShortSeries, len(s), rec.Hours)
	}
	for t := 0; t < rec.Hours; t++ {
		h := s[t]
		if err := h.Validate(); err != nil {
			return fmt.Errorf("hour %d: %w", t, err)
		}
		rec.TExt[t] = h.TExt
		rec.XExt[t] = hvac.MoistureContent(h.TExt, h.RelativeHumidity)
		rec.PhiSol[t] = h.Solar * aperture
	}
	return nil
}
