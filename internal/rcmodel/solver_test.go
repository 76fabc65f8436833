package rcmodel

import (
	"math"
	"testing"

	"github.com/Agrid-Dev/rcdemand/internal/building"
	"github.com/Agrid-Dev/rcdemand/internal/record"
)

func testBuilding() building.Properties {
	return building.Properties{
		FloorArea:              100,
		Height:                 3,
		MassArea:               250,
		HeatCapacity:           16.5e6,
		WallArea:               120,
		UWall:                  0.3,
		RoofArea:               100,
		URoof:                  0.2,
		BaseArea:               100,
		UBase:                  0.4,
		WindowArea:             30,
		UWindow:                1.2,
		InfiltrationFlow:       0.02,
		HeatRecoveryEfficiency: 0.7,
		HeatingSystem:          building.ArchetypeRadiator,
		CoolingSystem:          building.ArchetypeNone,
		MaxHeatingPerArea:      50,
	}
}

func constantWeather(t *testing.T, hours int, tExt float64) *record.Record {
	t.Helper()
	rec, err := record.New("b", hours)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < hours; i++ {
		rec.TExt[i] = tExt
		rec.MVeMech[i] = 0.03
	}
	return rec
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestSolve_AffineInPower(t *testing.T) {
	p := testBuilding()
	rec := constantWeather(t, 1, 0)
	s := New(20)

	t0 := s.Solve(&p, rec, 0, 0, building.RegimeHeating).TInt
	t1 := s.Solve(&p, rec, 0, 1000, building.RegimeHeating).TInt
	t2 := s.Solve(&p, rec, 0, 2000, building.RegimeHeating).TInt

	if !(t1 > t0) {
		t.Fatalf("heating must raise the air temperature: %v -> %v", t0, t1)
	}
	if !almostEqual(t2-t1, t1-t0, 1e-9) {
		t.Fatalf("response not affine: %v, %v, %v", t0, t1, t2)
	}
}

func TestSolve_RepeatedEvaluationsShareState(t *testing.T) {
	p := testBuilding()
	rec := constantWeather(t, 2, 5)
	s := New(20)

	a := s.Solve(&p, rec, 0, 0, building.RegimeNone)
	_ = s.Solve(&p, rec, 0, 5000, building.RegimeHeating)
	b := s.Solve(&p, rec, 0, 0, building.RegimeNone)

	if a != b {
		t.Fatalf("evaluations of the same hour must not depend on each other: %+v vs %+v", a, b)
	}
	if s.MassMemory() != 20 {
		t.Fatalf("mass memory changed within the hour: %v", s.MassMemory())
	}
}

func TestSolve_MemoryAdvancesFromLastEvaluation(t *testing.T) {
	p := testBuilding()
	rec := constantWeather(t, 2, 5)
	s := New(20)

	_ = s.Solve(&p, rec, 0, 0, building.RegimeNone)
	final := s.Solve(&p, rec, 0, 3000, building.RegimeHeating)
	_ = s.Solve(&p, rec, 1, 0, building.RegimeNone)

	if s.MassMemory() != final.TMass {
		t.Fatalf("hour 1 should start from the last evaluation of hour 0: %v vs %v", s.MassMemory(), final.TMass)
	}
}

func TestSolve_FreeRunningConvergesToOutdoor(t *testing.T) {
	p := testBuilding()
	const hours = 24 * 120
	rec := constantWeather(t, hours, 5)
	s := New(20)

	var st float64
	for h := 0; h < hours; h++ {
		state := s.Solve(&p, rec, h, 0, building.RegimeNone)
		rec.TInt[h] = state.TInt
		st = state.TInt
	}
	if !almostEqual(st, 5, 0.05) {
		t.Fatalf("free-running zone should settle at the outdoor temperature, got %v", st)
	}
}

func TestSolve_Coefficients(t *testing.T) {
	p := testBuilding()
	rec := constantWeather(t, 1, -3)
	s := New(20)

	c := s.Solve(&p, rec, 0, 0, building.RegimeHeating).Coefficients
	if c.HOpM != p.OpaqueConductance() {
		t.Fatalf("HOpM=%v want %v", c.HOpM, p.OpaqueConductance())
	}
	if c.HEc != p.WindowConductance() {
		t.Fatalf("HEc=%v want %v", c.HEc, p.WindowConductance())
	}
	if !(c.HEm > c.HOpM) {
		t.Fatalf("HEm=%v should exceed HOpM=%v", c.HEm, c.HOpM)
	}
	if c.ThetaEm != -3 || c.ThetaEc != -3 {
		t.Fatalf("exterior temperatures not forwarded: %+v", c)
	}
	// heat recovery warms the mechanical share of the supply air
	if !(c.ThetaEa > -3) {
		t.Fatalf("supply temperature %v should be above outdoor", c.ThetaEa)
	}
}
