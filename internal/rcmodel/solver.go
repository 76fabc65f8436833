// Package rcmodel implements the 5R1C thermal network of SIA 2044 / ISO 13790
// solved with the Crank-Nicolson scheme on a one-hour step.
package rcmodel

import (
	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/hvac"
	"github.com/Agrid-Dev/rcdemand/internal/ports"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

const (
	hIS = 3.45 // air to surface heat transfer per internal surface area [W/(m2 K)]
	hMS = 9.1  // surface to mass heat transfer per mass area [W/(m2 K)]

	stepSeconds = 3600.0
)

// Solver evaluates the network of one building. It remembers the mass
// temperature at the end of the previous hour; every evaluation of hour t
// starts from that state, and the last evaluation of hour t becomes the state
// hour t+1 starts from.
type Solver struct {
	hour     int
	prevMass float64
	lastMass float64
}

func New(initialMassTemperature float64) *Solver {
	return &Solver{
		hour:     -1,
		prevMass: initialMassTemperature,
		lastMass: initialMassTemperature,
	}
}

// MassMemory returns the mass temperature the current hour starts from.
func (s *Solver) MassMemory() float64 {
	return s.prevMass
}

func (s *Solver) advance(t int) {
	if t == s.hour {
		return
	}
	if s.hour >= 0 {
		s.prevMass = s.lastMass
	}
	s.hour = t
}

type conductances struct {
	hVe, hIs, hMs, hEm, hW, hOp float64
	h1, h2, h3                  float64
}

func networkConductances(p *building.Properties, mVe float64) conductances {
	c := conductances{
		hVe: mVe * hvac.CpAir,
		hIs: hIS * p.SurfaceArea(),
		hMs: hMS * p.MassArea,
		hW:  p.WindowConductance(),
		hOp: p.OpaqueConductance(),
	}
	switch {
	case c.hOp <= 0:
		c.hEm = 0
	case 1/c.hOp-1/c.hMs <= 0:
		c.hEm = c.hOp
	default:
		c.hEm = 1 / (1/c.hOp - 1/c.hMs)
	}
	c.h1 = 1 / (1/c.hVe + 1/c.hIs)
	c.h2 = c.h1 + c.hW
	c.h3 = 1 / (1/c.h2 + 1/c.hMs)
	return c
}

func (s *Solver) Solve(p *building.Properties, rec *record.Record, t int, power float64, regime building.Regime) ports.NetworkState {
	s.advance(t)

	mVe, tSup, _ := hvac.SupplyConditions(p, rec, t, regime)
	c := networkConductances(p, mVe)
	tExt := rec.TExt[t]

	at := p.SurfaceArea()
	gains := 0.5*rec.PhiInt[t] + rec.PhiSol[t]
	phiIa := 0.5 * rec.PhiInt[t]
	phiM := p.MassArea / at * gains
	phiSt := (1 - p.MassArea/at - c.hW/(hMS*at)) * gains

	phiMTot := phiM + c.hEm*tExt +
		c.h3*(phiSt+c.hW*tExt+c.h1*((phiIa+power)/c.hVe+tSup))/c.h2

	cm := p.HeatCapacity / stepSeconds
	massEnd := (s.prevMass*(cm-0.5*(c.h3+c.hEm)) + phiMTot) / (cm + 0.5*(c.h3+c.hEm))
	massAvg := 0.5 * (massEnd + s.prevMass)

	surface := (c.hMs*massAvg + phiSt + c.hW*tExt + c.h1*(tSup+(phiIa+power)/c.hVe)) /
		(c.hMs + c.hW + c.h1)
	air := (c.hIs*surface + c.hVe*tSup + phiIa + power) / (c.hIs + c.hVe)

	s.lastMass = massEnd

	return ports.NetworkState{
		TInt:      air,
		TMass:     massEnd,
		TCore:     surface,
		TEnvelope: 0.3*air + 0.7*surface,
		Coefficients: ports.Coefficients{
			HEm:     c.hEm,
			HOpM:    c.hOp,
			ThetaEm: tExt,
			HEc:     c.hW,
			ThetaEc: tExt,
			HEa:     c.hVe,
			ThetaEa: tSup,
		},
	}
}
