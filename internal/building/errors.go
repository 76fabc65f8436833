package building

import "errors"

var (
	ErrInvalidFloorArea    = errors.New("floor area must be strictly positive")
	ErrInvalidHeight       = errors.New("zone height must be strictly positive")
	ErrInvalidHeatCapacity = errors.New("heat capacity must be strictly positive")
	ErrInvalidMassArea     = errors.New("mass area must be strictly positive and below internal surface area")
	ErrNegativeConductance = errors.New("envelope areas and U-values must be greater or equal to zero")
	ErrNegativeCapacity    = errors.New("system capacity must be greater or equal to zero")
	ErrInvalidArchetype    = errors.New("invalid system archetype")
	ErrInvalidEfficiency   = errors.New("heat recovery efficiency must be within [0, 1]")
	ErrInvalidVentilation  = errors.New("infiltration flow must be strictly positive")
)
