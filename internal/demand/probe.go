package demand

import (
	"math"
)

// probe finds the power that brings the zone air to the setpoint. The network
// response over one hour is affine in the applied power, so two evaluations
// determine it exactly. The result is clipped to the installed capacity and
// the network is evaluated once more at that power.
//
// It reports satisfied when the zone needs no conditioning and the engine is
// configured to idle in that case.
func (e *Engine) probe(h *hour) (bool, error) {
	t0 := e.solve(h, 0).TInt
	pRef := h.sign * e.opts.ProbePowerPerArea * e.props.FloorArea
	t10 := e.solve(h, pRef).TInt

	if e.opts.IdleWhenSatisfied && h.sign*(h.setpoint-t0) <= 0 {
		return true, nil
	}
	if t10 == t0 || !finite(t0) || !finite(t10) {
		return false, e.fail(h, KindProbeDegeneracy,
			"no thermal response: T0=%g T10=%g at %g W", t0, t10, pRef)
	}

	required := pRef * (h.setpoint - t0) / (t10 - t0)
	if !finite(required) {
		return false, e.fail(h, KindProbeDegeneracy, "required power %g", required)
	}

	power, err := e.clip(h, required)
	if err != nil {
		return false, err
	}
	h.requested = power
	h.delivered = power
	h.state = e.solve(h, power)
	return false, nil
}

// clip bounds a required power to the capacity of the active regime.
func (e *Engine) clip(h *hour, required float64) (float64, error) {
	magnitude := h.sign * required
	switch {
	case magnitude > 0 && magnitude <= h.capacity:
		return required, nil
	case magnitude > h.capacity:
		return h.sign * h.capacity, nil
	default:
		return 0, e.fail(h, KindCapacityInconsistency,
			"%s requires %g W with %g W installed (setpoint %g)", h.regime, required, h.capacity, h.setpoint)
	}
}

// limit bounds a delivered power to the installed capacity without changing its sign.
func (h *hour) limit(power float64) float64 {
	if h.sign*power > h.capacity {
		return h.sign * h.capacity
	}
	return power
}

// settle re-evaluates the network when the systems deliver a power other
// than the one the probe settled on.
func (e *Engine) settle(h *hour) {
	h.delivered = h.limit(h.delivered)
	if h.delivered != h.requested {
		h.state = e.solve(h, h.delivered)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
