package simulation

import (
	"fmt"

	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/demand"
	"github.com/Agrid-Dev/rcdemand/internal/hvac"
	"github.com/Agrid-Dev/rcdemand/internal/rcmodel"
	"github.com/Agrid-Dev/rcdemand/internal/schedule"
)

// DefaultSolarFactor is the share of the irradiance on the glazing that
// reaches the zone when no aperture is configured.
const DefaultSolarFactor = 0.5

// Building is one simulated building.
type Building struct {
	ID                 string
	Properties         building.Properties
	Schedule           schedule.Schedule
	Aperture           float64 // effective solar aperture [m2], 0 means DefaultSolarFactor * WindowArea
	InitialTemperature float64 // mass temperature before the first hour [C]
}

func (b *Building) Validate() error {
	if b.ID == "" {
		return ErrEmptyBuildingID
	}
	if err := b.Properties.Validate(); err != nil {
		return fmt.Errorf("building %s: %w", b.ID, err)
	}
	if err := b.Schedule.Validate(); err != nil {
		return fmt.Errorf("building %s: %w", b.ID, err)
	}
	if b.Aperture < 0 {
		return fmt.Errorf("building %s: %w", b.ID, ErrNegativeAperture)
	}
	return nil
}

func (b *Building) aperture() float64 {
	if b.Aperture > 0 {
		return b.Aperture
	}
	return DefaultSolarFactor * b.Properties.WindowArea
}

// Systems parameterizes the mechanical system models shared by every building.
type Systems struct {
	AirHandler          hvac.AirHandlerParams
	Recirculation       hvac.RecirculationParams
	MaxLossRatio        float64
	MaxRelativeHumidity float64
}

func DefaultSystems() Systems {
	return Systems{
		AirHandler: hvac.AirHandlerParams{
			SupplyTempHeating: 30,
			SupplyTempCooling: 16,
			SpecificFanPower:  1000,
		},
		Recirculation: hvac.RecirculationParams{
			SupplyTempHeating: 36,
			SupplyTempCooling: 12,
			MinFlow:           0.01,
			SpecificFanPower:  1000,
		},
		MaxLossRatio:        hvac.DefaultMaxLossRatio,
		MaxRelativeHumidity: hvac.DefaultMaxRelativeHumidity,
	}
}

func (s *Systems) Validate() error {
	if err := s.AirHandler.Validate(); err != nil {
		return fmt.Errorf("air handler: %w", err)
	}
	if err := s.Recirculation.Validate(); err != nil {
		return fmt.Errorf("recirculation unit: %w", err)
	}
	if s.MaxLossRatio < 0 || s.MaxLossRatio > 1 {
		return hvac.ErrInvalidLossRatio
	}
	if s.MaxRelativeHumidity <= 0 || s.MaxRelativeHumidity > 1 {
		return hvac.ErrInvalidHumidity
	}
	return nil
}

// collaborators builds the models of one building. Each building gets its own
// network solver since the solver carries the mass temperature between hours.
func (s *Systems) collaborators(b *Building) (demand.Collaborators, error) {
	ahu, err := hvac.NewAirHandlingUnit(s.AirHandler)
	if err != nil {
		return demand.Collaborators{}, err
	}
	aru, err := hvac.NewRecirculationUnit(s.Recirculation)
	if err != nil {
		return demand.Collaborators{}, err
	}
	emission, err := hvac.NewEmissionLosses(s.MaxLossRatio)
	if err != nil {
		return demand.Collaborators{}, err
	}
	moisture, err := hvac.NewMoistureBalance(s.MaxRelativeHumidity)
	if err != nil {
		return demand.Collaborators{}, err
	}
	initial := b.InitialTemperature
	if initial == 0 {
		initial = hvac.DefaultIndoorTemperature
	}
	return demand.Collaborators{
		Solver:        rcmodel.New(initial),
		AirHandler:    ahu,
		Recirculation: aru,
		Emission:      emission,
		Moisture:      moisture,
	}, nil
}
