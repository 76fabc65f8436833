package hvac

import "errors"

var (
	ErrDegenerateFlow    = errors.New("supply and zone temperatures leave no driving temperature difference")
	ErrInvalidSupplyTemp = errors.New("heating supply temperature must be above cooling supply temperature")
	ErrNegativeFlow      = errors.New("air flows must be greater or equal to zero")
	ErrNegativeFanPower  = errors.New("specific fan power must be greater or equal to zero")
	ErrInvalidHumidity   = errors.New("relative humidity limit must be within (0, 1]")
	ErrInvalidLossRatio  = errors.New("emission loss ratio must be within [0, 1]")
)
