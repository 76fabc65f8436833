package weather

import "errors"

var (
	ErrInvalidHumidity = errors.New("relative humidity must be within [0, 1]")
	ErrNegativeSolar   = errors.New("solar irradiance must be greater or equal to zero")
	ErrInvalidHours    = errors.New("number of hours must be greater than zero")
	ErrShortSeries     = errors.New("weather series shorter than the simulated period")
	ErrInvalidHeader   = errors.New("invalid weather header")
	ErrHourSequence    = errors.New("weather hours must be consecutive from 0")
)
