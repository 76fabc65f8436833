package hvac

import "math"

const (
	// CpAir is the specific heat of dry air [J/(kg K)].
	CpAir = 1005.0
	// HWe is the latent heat of vaporization of water [J/kg].
	HWe = 2.466e6
	// RhoAir is the density of air at indoor conditions [kg/m3].
	RhoAir = 1.2
	// AtmosphericPressure [Pa].
	AtmosphericPressure = 101325.0
)

// SaturationPressure returns the water vapour saturation pressure [Pa] at temperature t [C] (Magnus).
func SaturationPressure(t float64) float64 {
	return 610.94 * math.Exp(17.625*t/(t+243.04))
}

// MoistureContent returns x [kg/kg] of air at temperature t [C] and relative humidity rh [0..1].
func MoistureContent(t, rh float64) float64 {
	pv := rh * SaturationPressure(t)
	return 0.622 * pv / (AtmosphericPressure - pv)
}

// SaturationMoisture returns x at saturation for temperature t.
func SaturationMoisture(t float64) float64 {
	return MoistureContent(t, 1)
}

// RelativeHumidity returns rh [0..1] of air with moisture content x at temperature t.
func RelativeHumidity(t, x float64) float64 {
	pv := x * AtmosphericPressure / (0.622 + x)
	return pv / SaturationPressure(t)
}
