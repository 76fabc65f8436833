package building

// Standard SIA 2044 / ISO 13790 coefficients.
const (
	// SurfaceToFloorRatio gives the internal surface area At from the floor area.
	SurfaceToFloorRatio = 4.5
	// DefaultGroundFactor reduces the conductance of elements in contact with the ground.
	DefaultGroundFactor = 0.7
)

// Properties is the constant description of one building for a simulated year.
type Properties struct {
	FloorArea           float64 // Af [m2]
	Height              float64 // [m]
	MassArea            float64 // Am [m2]
	InternalSurfaceArea float64 // At [m2], 0 means SurfaceToFloorRatio * Af
	HeatCapacity        float64 // Cm [J/K]

	WallArea     float64
	UWall        float64
	RoofArea     float64
	URoof        float64
	BaseArea     float64
	UBase        float64
	GroundFactor float64 // Bf, 0 means DefaultGroundFactor
	WindowArea   float64
	UWindow      float64

	InfiltrationFlow       float64 // [kg/s]
	HeatRecoveryEfficiency float64

	HeatingSystem     Archetype
	CoolingSystem     Archetype
	MaxHeatingPerArea float64 // [W/m2]
	MaxCoolingPerArea float64 // [W/m2], positive

	EmissionDeltaHeating float64 // [K]
	EmissionDeltaCooling float64 // [K]
}

func (p *Properties) Validate() error {
	if !(p.FloorArea > 0) {
		return ErrInvalidFloorArea
	}
	if !(p.Height > 0) {
		return ErrInvalidHeight
	}
	if !(p.HeatCapacity > 0) {
		return ErrInvalidHeatCapacity
	}
	if !(p.MassArea > 0) || p.MassArea >= p.SurfaceArea() {
		return ErrInvalidMassArea
	}
	for _, v := range []float64{
		p.WallArea, p.UWall, p.RoofArea, p.URoof, p.BaseArea, p.UBase, p.WindowArea, p.UWindow,
	} {
		if v < 0 {
			return ErrNegativeConductance
		}
	}
	if !(p.InfiltrationFlow > 0) {
		return ErrInvalidVentilation
	}
	if p.HeatRecoveryEfficiency < 0 || p.HeatRecoveryEfficiency > 1 {
		return ErrInvalidEfficiency
	}
	if p.MaxHeatingPerArea < 0 || p.MaxCoolingPerArea < 0 {
		return ErrNegativeCapacity
	}
	if !p.HeatingSystem.Valid() || !p.CoolingSystem.Valid() {
		return ErrInvalidArchetype
	}
	return nil
}

// SurfaceArea returns At.
func (p *Properties) SurfaceArea() float64 {
	if p.InternalSurfaceArea > 0 {
		return p.InternalSurfaceArea
	}
	return SurfaceToFloorRatio * p.FloorArea
}

func (p *Properties) Bf() float64 {
	if p.GroundFactor > 0 {
		return p.GroundFactor
	}
	return DefaultGroundFactor
}

// Volume is the conditioned air volume [m3].
func (p *Properties) Volume() float64 {
	return p.FloorArea * p.Height
}

// HeatingCapacity is the installed heating power [W].
func (p *Properties) HeatingCapacity() float64 {
	return p.MaxHeatingPerArea * p.FloorArea
}

// CoolingCapacity is the installed cooling power [W], reported as a magnitude.
func (p *Properties) CoolingCapacity() float64 {
	return p.MaxCoolingPerArea * p.FloorArea
}

// Capacity returns the installed power for a regime as a magnitude.
func (p *Properties) Capacity(r Regime) float64 {
	switch r {
	case RegimeHeating:
		return p.HeatingCapacity()
	case RegimeCooling:
		return p.CoolingCapacity()
	default:
		return 0
	}
}

// System returns the archetype installed for a regime.
func (p *Properties) System(r Regime) Archetype {
	switch r {
	case RegimeHeating:
		return p.HeatingSystem
	case RegimeCooling:
		return p.CoolingSystem
	default:
		return ArchetypeNone
	}
}

// OpaqueConductance is H_op, the transmission conductance of walls, roof and base [W/K].
func (p *Properties) OpaqueConductance() float64 {
	return p.WallArea*p.UWall + p.RoofArea*p.URoof + p.BaseArea*p.UBase*p.Bf()
}

// WindowConductance is H_tr_w [W/K].
func (p *Properties) WindowConductance() float64 {
	return p.WindowArea * p.UWindow
}

// EmissionDelta returns the emission temperature rise of the regime's terminal units.
func (p *Properties) EmissionDelta(r Regime) float64 {
	switch r {
	case RegimeHeating:
		return p.EmissionDeltaHeating
	case RegimeCooling:
		return p.EmissionDeltaCooling
	default:
		return 0
	}
}
