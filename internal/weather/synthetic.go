package weather

import (
	"math"
)

type SyntheticParams struct {
	MeanTemperature  float64 // annual mean [C]
	AnnualAmplitude  float64 // [K]
	DailyAmplitude   float64 // [K]
	ColdestDay       int     // day of year, 0-based
	RelativeHumidity float64 // mean [0..1]
	HumiditySwing    float64 // daily swing, opposite to temperature
	PeakSolar        float64 // summer noon irradiance [W/m2]
	WinterSolarRatio float64 // winter noon over summer noon
}

func DefaultSyntheticParams() SyntheticParams {
	return SyntheticParams{
		MeanTemperature:  10,
		AnnualAmplitude:  10,
		DailyAmplitude:   4,
		ColdestDay:       15,
		RelativeHumidity: 0.7,
		HumiditySwing:    0.15,
		PeakSolar:        600,
		WinterSolarRatio: 0.3,
	}
}

func (params *SyntheticParams) Validate() error {
	if params.RelativeHumidity < 0 || params.RelativeHumidity > 1 {
		return ErrInvalidHumidity
	}
	if params.PeakSolar < 0 || params.WinterSolarRatio < 0 {
		return ErrNegativeSolar
	}
	return nil
}

// Synthetic builds a weather series from an annual and a daily sinusoid. The
// daily minimum falls at 4h and the maximum at 16h; solar irradiance follows
// a half sine between 6h and 18h.
func Synthetic(params SyntheticParams, hours int) (Series, error) {
	if hours <= 0 {
		return nil, ErrInvalidHours
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := make(Series, hours)
	for t := range s {
		day := float64(t / 24)
		hour := float64(t % 24)

		// 0 on the coldest day, 1 half a year later
		season := 0.5 * (1 - math.Cos(2*math.Pi*(day-float64(params.ColdestDay))/365))
		daily := -math.Cos(2 * math.Pi * (hour - 4) / 24)

		s[t].TExt = params.MeanTemperature +
			params.AnnualAmplitude*(2*season-1) +
			params.DailyAmplitude*daily

		rh := params.RelativeHumidity - params.HumiditySwing*daily
		s[t].RelativeHumidity = math.Min(1, math.Max(0, rh))

		if hour > 6 && hour < 18 {
			peak := params.PeakSolar * (params.WinterSolarRatio + (1-params.WinterSolarRatio)*season)
			s[t].Solar = peak * math.Sin(math.Pi*(hour-6)/12)
		}
	}
	return s, nil
}
