package building

import "fmt"

// Archetype is the mechanical system configuration of a building for one regime.
type Archetype int

const (
	ArchetypeUnknown Archetype = iota
	ArchetypeNone
	ArchetypeRadiator
	ArchetypeLocalAC
	ArchetypeCentralAC
	ArchetypeHybrid
)

func (a Archetype) Valid() bool {
	return a >= ArchetypeNone && a <= ArchetypeHybrid
}

// IsAir reports whether the archetype conditions the zone through an air loop.
func (a Archetype) IsAir() bool {
	return a == ArchetypeLocalAC || a == ArchetypeCentralAC || a == ArchetypeHybrid
}

func (a Archetype) String() string {
	switch a {
	case ArchetypeNone:
		return "none"
	case ArchetypeRadiator:
		return "radiator"
	case ArchetypeLocalAC:
		return "local_ac"
	case ArchetypeCentralAC:
		return "central_ac"
	case ArchetypeHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// ParseArchetype accepts the names used in scenario files.
func ParseArchetype(s string) (Archetype, error) {
	switch s {
	case "none", "":
		return ArchetypeNone, nil
	case "radiator":
		return ArchetypeRadiator, nil
	case "local_ac":
		return ArchetypeLocalAC, nil
	case "central_ac":
		return ArchetypeCentralAC, nil
	case "hybrid":
		return ArchetypeHybrid, nil
	default:
		return ArchetypeUnknown, fmt.Errorf("%w: %q", ErrInvalidArchetype, s)
	}
}

// Regime is the conditioning direction of one hour.
type Regime int

const (
	RegimeNone Regime = iota
	RegimeHeating
	RegimeCooling
)

func (r Regime) String() string {
	switch r {
	case RegimeHeating:
		return "heating"
	case RegimeCooling:
		return "cooling"
	default:
		return "none"
	}
}

// Sign is +1 for heating, -1 for cooling and 0 otherwise.
func (r Regime) Sign() float64 {
	switch r {
	case RegimeHeating:
		return 1
	case RegimeCooling:
		return -1
	default:
		return 0
	}
}
