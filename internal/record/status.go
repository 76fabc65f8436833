package record

import "fmt"

// Status labels the system state resolved for one hour.
type Status int

const (
	StatusUnset Status = iota
	StatusOff
	StatusHeatingRadiator
	StatusHeatingAC
	StatusHeatingACOverheat
	StatusHeatingHybrid
	StatusCoolingRadiative
	StatusCoolingAC
	StatusCoolingACOvercool
	StatusCoolingHybrid
)

var statusNames = map[Status]string{
	StatusUnset:             "UNSET",
	StatusOff:               "OFF",
	StatusHeatingRadiator:   "HEATING_RADIATOR",
	StatusHeatingAC:         "HEATING_AC",
	StatusHeatingACOverheat: "HEATING_AC_OVERHEAT",
	StatusHeatingHybrid:     "HEATING_HYBRID",
	StatusCoolingRadiative:  "COOLING_RADIATIVE",
	StatusCoolingAC:         "COOLING_AC",
	StatusCoolingACOvercool: "COOLING_AC_OVERCOOL",
	StatusCoolingHybrid:     "COOLING_HYBRID",
}

func (s Status) Valid() bool {
	return s > StatusUnset && s <= StatusCoolingHybrid
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "UNKNOWN"
}

func (s Status) Heating() bool {
	return s >= StatusHeatingRadiator && s <= StatusHeatingHybrid
}

func (s Status) Cooling() bool {
	return s >= StatusCoolingRadiative && s <= StatusCoolingHybrid
}

// Overshoot reports whether the air system delivered more than the zone required.
func (s Status) Overshoot() bool {
	return s == StatusHeatingACOverheat || s == StatusCoolingACOvercool
}

func ParseStatus(v string) (Status, error) {
	for s, n := range statusNames {
		if n == v && s != StatusUnset {
			return s, nil
		}
	}
	return StatusUnset, fmt.Errorf("invalid status: %q", v)
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// AllStatuses lists the resolvable statuses in declaration order.
func AllStatuses() []Status {
	out := make([]Status, 0, len(statusNames)-1)
	for s := StatusOff; s <= StatusCoolingHybrid; s++ {
		out = append(out, s)
	}
	return out
}
