package demand

import (
	"github.com/Agrid-Dev/rcdemand/internal/building"
)

// finalize writes the resolved hour into the record. Every output is written,
// the fields of the inactive regime are zeroed.
func (e *Engine) finalize(h *hour) {
	rec, t := h.rec, h.t

	rec.TInt[t] = h.state.TInt
	rec.TMass[t] = h.state.TMass
	rec.TCore[t] = h.state.TCore
	rec.TEnvelope[t] = h.state.TEnvelope
	rec.XSup[t] = h.xSup
	rec.MVeRecirculation[t] = h.recirculation

	e.c.Moisture.Balance(&e.props, rec, t, h.gHu, h.gDhu)

	var losses float64
	if h.delivered != 0 {
		losses = e.c.Emission.Losses(&e.props, rec, t, h.delivered)
	}

	rec.ClearHeating(t)
	rec.ClearCooling(t)
	switch h.regime {
	case building.RegimeHeating:
		rec.QhsSen[t] = h.requested
		rec.QhsSenSys[t] = h.delivered
		rec.QhsLatSys[t] = h.latent
		rec.EhsLatAux[t] = h.aux
		rec.QhsEmLs[t] = losses
		rec.QhsSys[t] = h.delivered + losses
		rec.MaSupHs[t] = h.supplyFlow
		rec.TaSupHs[t] = h.supplyTemp
		rec.TaReHs[t] = h.returnTemp
	case building.RegimeCooling:
		rec.QcsSen[t] = h.requested
		rec.QcsSenSys[t] = h.delivered
		rec.QcsLatSys[t] = h.latent
		rec.EcsLatAux[t] = h.aux
		rec.QcsEmLs[t] = losses
		rec.QcsSys[t] = h.delivered + losses + h.latent
		rec.MaSupCs[t] = h.supplyFlow
		rec.TaSupCs[t] = h.supplyTemp
		rec.TaReCs[t] = h.returnTemp
	}

	e.breakdown(h)
	rec.Status[t] = h.status
}

// breakdown splits the network's aggregate conductances back onto the
// envelope components.
func (e *Engine) breakdown(h *hour) {
	p, s := &e.props, h.state
	rec, t := h.rec, h.t

	var wall, roof, base float64
	if s.HOpM > 0 {
		scale := s.HEm / s.HOpM
		wall = scale * p.WallArea * p.UWall
		roof = scale * p.RoofArea * p.URoof
		base = scale * p.BaseArea * p.UBase * p.Bf()
	}
	rec.QGainWall[t] = wall * (s.ThetaEm - s.TMass)
	rec.QGainRoof[t] = roof * (s.ThetaEm - s.TMass)
	rec.QGainBase[t] = base * (s.ThetaEm - s.TMass)
	rec.QGainWind[t] = s.HEc * (s.ThetaEc - s.TCore)
	rec.QGainVent[t] = s.HEa * (s.ThetaEa - s.TInt)
}
