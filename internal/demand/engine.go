// Package demand resolves, hour by hour, the power a building's heating and
// cooling systems deliver to hold or approach the setpoint.
package demand

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/hvac"
	"github.com/Agrid-Dev/rcdemand/internal/ports"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

// DefaultProbePowerPerArea is the reference power of the second probe evaluation [W/m2].
const DefaultProbePowerPerArea = 10.0

type Collaborators struct {
	Solver        ports.NetworkSolver
	AirHandler    ports.AirHandler
	Recirculation ports.RecirculationUnit
	Emission      ports.EmissionLossModel
	Moisture      ports.MoistureModel
}

type Options struct {
	// ProbePowerPerArea defaults to DefaultProbePowerPerArea.
	ProbePowerPerArea float64
	// IdleWhenSatisfied resolves hours whose free-running temperature already
	// meets the setpoint on the idle path instead of failing them.
	IdleWhenSatisfied bool
}

// Engine resolves the hours of one building. It is not safe for concurrent use:
// hours must be resolved in order because the solver carries the mass
// temperature from one hour to the next.
type Engine struct {
	props    building.Properties
	c        Collaborators
	opts     Options
	logger   *slog.Logger
	handlers map[building.Regime]map[building.Archetype]handler
}

func New(props building.Properties, c Collaborators, opts Options, logger *slog.Logger) (*Engine, error) {
	if err := props.Validate(); err != nil {
		return nil, err
	}
	if opts.ProbePowerPerArea == 0 {
		opts.ProbePowerPerArea = DefaultProbePowerPerArea
	}
	if !(opts.ProbePowerPerArea > 0) {
		return nil, ErrInvalidProbePower
	}
	if err := checkCollaborators(&props, c); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		props:  props,
		c:      c,
		opts:   opts,
		logger: logger,
		handlers: map[building.Regime]map[building.Archetype]handler{
			building.RegimeHeating: heatingHandlers(),
			building.RegimeCooling: coolingHandlers(),
		},
	}, nil
}

func checkCollaborators(p *building.Properties, c Collaborators) error {
	if c.Solver == nil {
		return fmt.Errorf("%w: network solver", ErrMissingCollaborator)
	}
	if c.Emission == nil {
		return fmt.Errorf("%w: emission loss model", ErrMissingCollaborator)
	}
	if c.Moisture == nil {
		return fmt.Errorf("%w: moisture model", ErrMissingCollaborator)
	}
	for _, a := range []building.Archetype{p.HeatingSystem, p.CoolingSystem} {
		if (a == building.ArchetypeCentralAC || a == building.ArchetypeHybrid) && c.AirHandler == nil {
			return fmt.Errorf("%w: air handler for %s", ErrMissingCollaborator, a)
		}
		if a.IsAir() && c.Recirculation == nil {
			return fmt.Errorf("%w: recirculation unit for %s", ErrMissingCollaborator, a)
		}
	}
	return nil
}

func (e *Engine) Properties() building.Properties {
	return e.props
}

// hour carries the resolution of one hour from regime selection to finalization.
type hour struct {
	rec      *record.Record
	t        int
	regime   building.Regime
	sign     float64
	setpoint float64
	capacity float64 // magnitude

	state     ports.NetworkState
	requested float64 // probe power, clipped
	delivered float64 // system sensible power

	latent float64 // [W]
	aux    float64 // [W]
	gHu    float64 // [kg/s]
	gDhu   float64 // [kg/s]
	xSup   float64

	supplyFlow    float64
	supplyTemp    float64
	returnTemp    float64
	recirculation float64

	status record.Status
}

// Resolve writes every output of hour t. Fatal conditions are returned as
// *HourError and leave the hour incomplete.
func (e *Engine) Resolve(rec *record.Record, t int) error {
	if err := rec.CheckHour(t); err != nil {
		return err
	}
	h := e.selectRegime(rec, t)
	if h.regime == building.RegimeNone {
		e.idle(h)
		e.finalize(h)
		return nil
	}

	system := e.props.System(h.regime)
	run, ok := e.handlers[h.regime][system]
	if !ok {
		e.logger.Warn("unmatched archetype, building treated as unconditioned",
			"building", rec.BuildingID, "hour", t, "regime", h.regime.String(), "archetype", system.String())
		h.regime = building.RegimeNone
		e.idle(h)
		e.finalize(h)
		return nil
	}

	satisfied, err := e.probe(h)
	if err != nil {
		return err
	}
	if satisfied {
		// keep the regime so the recorded state is the evaluation that met the setpoint
		e.idle(h)
		e.finalize(h)
		return nil
	}
	if err := run(e, h); err != nil {
		return err
	}
	e.settle(h)
	e.finalize(h)
	return nil
}

func (e *Engine) selectRegime(rec *record.Record, t int) *hour {
	h := &hour{rec: rec, t: t, regime: building.RegimeNone}
	heating := rec.HeatingSeason[t] && !math.IsNaN(rec.HeatingSetpoint[t])
	cooling := rec.CoolingSeason[t] && !math.IsNaN(rec.CoolingSetpoint[t])

	switch {
	case heating && cooling:
		e.logger.Warn("heating and cooling seasons overlap, hour left unconditioned",
			"building", rec.BuildingID, "hour", t)
	case heating:
		h.regime = building.RegimeHeating
		h.setpoint = rec.HeatingSetpoint[t]
	case cooling:
		h.regime = building.RegimeCooling
		h.setpoint = rec.CoolingSetpoint[t]
	}
	if h.regime != building.RegimeNone && e.props.System(h.regime) == building.ArchetypeNone {
		h.regime = building.RegimeNone
	}
	h.sign = h.regime.Sign()
	h.capacity = e.props.Capacity(h.regime)
	return h
}

func (e *Engine) solve(h *hour, power float64) ports.NetworkState {
	return e.c.Solver.Solve(&e.props, h.rec, h.t, power, h.regime)
}

func (e *Engine) fail(h *hour, kind Kind, format string, args ...any) error {
	return &HourError{
		Building: h.rec.BuildingID,
		Hour:     h.t,
		Kind:     kind,
		Detail:   fmt.Sprintf(format, args...),
	}
}

// idle evaluates the free-running zone with the ventilation of h.regime, then
// leaves the hour without an active regime.
func (e *Engine) idle(h *hour) {
	h.sign = 0
	h.state = e.solve(h, 0)
	_, h.xSup = hvac.AfterHeatRecovery(&e.props, h.rec, h.t, h.regime)
	h.regime = building.RegimeNone
	h.status = record.StatusOff
}
