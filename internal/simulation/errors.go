package simulation

import "errors"

var (
	ErrNoBuildings       = errors.New("no buildings to simulate")
	ErrDuplicateBuilding = errors.New("duplicate building id")
	ErrEmptyBuildingID   = errors.New("building id must not be empty")
	ErrInvalidWorkers    = errors.New("workers must be greater than zero")
	ErrNegativeAperture  = errors.New("solar aperture must be greater or equal to zero")
)
