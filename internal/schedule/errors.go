package schedule

import "errors"

var (
	ErrInvalidDay         = errors.New("season days must be within [1, 365]")
	ErrInvalidHourOfDay   = errors.New("occupied hours must be within [0, 24]")
	ErrOverlappingSeasons = errors.New("heating and cooling seasons overlap")
	ErrNegativeLoad       = errors.New("internal gains and ventilation must be greater or equal to zero")
	ErrInvalidSetpoints   = errors.New("heating setpoint must not exceed cooling setpoint")
)
