package record

import (
	"encoding/json"
	"math"
)

// Value is an hourly quantity in a snapshot. NaN marks an unresolved output or
// an undefined setpoint and is encoded as JSON null.
type Value float64

func (v Value) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(v)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(v))
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Value(f)
	return nil
}

// Hour is a value snapshot of one hour, used by publishers and the API.
type Hour struct {
	BuildingID string `json:"building_id"`
	Hour       int    `json:"hour"`
	Status     Status `json:"status"`

	TExt            float64 `json:"t_ext"`
	HeatingSetpoint Value   `json:"heating_setpoint"`
	CoolingSetpoint Value   `json:"cooling_setpoint"`

	TInt      Value `json:"t_int"`
	TMass     Value `json:"t_mass"`
	TCore     Value `json:"t_core"`
	TEnvelope Value `json:"t_envelope"`

	QhsSen    Value `json:"qhs_sen"`
	QhsSenSys Value `json:"qhs_sen_sys"`
	QhsLatSys Value `json:"qhs_lat_sys"`
	EhsLatAux Value `json:"ehs_lat_aux"`
	QhsEmLs   Value `json:"qhs_em_ls"`
	QhsSys    Value `json:"qhs_sys"`

	QcsSen    Value `json:"qcs_sen"`
	QcsSenSys Value `json:"qcs_sen_sys"`
	QcsLatSys Value `json:"qcs_lat_sys"`
	EcsLatAux Value `json:"ecs_lat_aux"`
	QcsEmLs   Value `json:"qcs_em_ls"`
	QcsSys    Value `json:"qcs_sys"`

	MaSupHs          Value `json:"ma_sup_hs"`
	TaSupHs          Value `json:"ta_sup_hs"`
	TaReHs           Value `json:"ta_re_hs"`
	MaSupCs          Value `json:"ma_sup_cs"`
	TaSupCs          Value `json:"ta_sup_cs"`
	TaReCs           Value `json:"ta_re_cs"`
	MVeRecirculation Value `json:"m_ve_recirculation"`

	GHu  Value `json:"g_hu"`
	GDhu Value `json:"g_dhu"`
	XInt Value `json:"x_int"`

	QGainWall Value `json:"q_gain_wall"`
	QGainBase Value `json:"q_gain_base"`
	QGainRoof Value `json:"q_gain_roof"`
	QGainWind Value `json:"q_gain_wind"`
	QGainVent Value `json:"q_gain_vent"`
}

// Hour returns the snapshot of hour t.
func (r *Record) Hour(t int) Hour {
	return Hour{
		BuildingID:       r.BuildingID,
		Hour:             t,
		Status:           r.Status[t],
		TExt:             r.TExt[t],
		HeatingSetpoint:  Value(r.HeatingSetpoint[t]),
		CoolingSetpoint:  Value(r.CoolingSetpoint[t]),
		TInt:             Value(r.TInt[t]),
		TMass:            Value(r.TMass[t]),
		TCore:            Value(r.TCore[t]),
		TEnvelope:        Value(r.TEnvelope[t]),
		QhsSen:           Value(r.QhsSen[t]),
		QhsSenSys:        Value(r.QhsSenSys[t]),
		QhsLatSys:        Value(r.QhsLatSys[t]),
		EhsLatAux:        Value(r.EhsLatAux[t]),
		QhsEmLs:          Value(r.QhsEmLs[t]),
		QhsSys:           Value(r.QhsSys[t]),
		QcsSen:           Value(r.QcsSen[t]),
		QcsSenSys:        Value(r.QcsSenSys[t]),
		QcsLatSys:        Value(r.QcsLatSys[t]),
		EcsLatAux:        Value(r.EcsLatAux[t]),
		QcsEmLs:          Value(r.QcsEmLs[t]),
		QcsSys:           Value(r.QcsSys[t]),
		MaSupHs:          Value(r.MaSupHs[t]),
		TaSupHs:          Value(r.TaSupHs[t]),
		TaReHs:           Value(r.TaReHs[t]),
		MaSupCs:          Value(r.MaSupCs[t]),
		TaSupCs:          Value(r.TaSupCs[t]),
		TaReCs:           Value(r.TaReCs[t]),
		MVeRecirculation: Value(r.MVeRecirculation[t]),
		GHu:              Value(r.GHu[t]),
		GDhu:             Value(r.GDhu[t]),
		XInt:             Value(r.XInt[t]),
		QGainWall:        Value(r.QGainWall[t]),
		QGainBase:        Value(r.QGainBase[t]),
		QGainRoof:        Value(r.QGainRoof[t]),
		QGainWind:        Value(r.QGainWind[t]),
		QGainVent:        Value(r.QGainVent[t]),
	}
}
