package demand

import (
	"errors"
	"fmt"
)

var (
	ErrProbeDegeneracy       = errors.New("probe degeneracy")
	ErrCapacityInconsistency = errors.New("capacity inconsistency")
	ErrMissingCollaborator   = errors.New("missing collaborator")
	ErrInvalidProbePower     = errors.New("probe power per area must be greater than zero")
)

// Kind names a fatal condition of one resolved hour.
type Kind int

const (
	KindProbeDegeneracy Kind = iota + 1
	KindCapacityInconsistency
)

func (k Kind) String() string {
	switch k {
	case KindProbeDegeneracy:
		return "probe_degeneracy"
	case KindCapacityInconsistency:
		return "capacity_inconsistency"
	default:
		return "unknown"
	}
}

// HourError aborts the simulation of one building.
type HourError struct {
	Building string
	Hour     int
	Kind     Kind
	Detail   string
}

func (e *HourError) Error() string {
	return fmt.Sprintf("building %s: hour %d: %s: %s", e.Building, e.Hour, e.Kind, e.Detail)
}

func (e *HourError) Unwrap() error {
	switch e.Kind {
	case KindProbeDegeneracy:
		return ErrProbeDegeneracy
	case KindCapacityInconsistency:
		return ErrCapacityInconsistency
	default:
		return nil
	}
}
