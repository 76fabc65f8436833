package record

import "testing"

func TestStatusString_Table(t *testing.T) {
	cases := []struct {
		in   Status
		want string
	}{
		{StatusOff, "OFF"},
		{StatusHeatingRadiator, "HEATING_RADIATOR"},
		{StatusHeatingAC, "HEATING_AC"},
		{StatusHeatingACOverheat, "HEATING_AC_OVERHEAT"},
		{StatusCoolingRadiative, "COOLING_RADIATIVE"},
		{StatusCoolingAC, "COOLING_AC"},
		{StatusCoolingACOvercool, "COOLING_AC_OVERCOOL"},
		{Status(999), "UNKNOWN"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.in.String(); got != tc.want {
				t.Fatalf("Status(%d).String()=%q want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		got, err := ParseStatus(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseStatus(%q)=%v,%v", s.String(), got, err)
		}
	}
	if _, err := ParseStatus("UNSET"); err == nil {
		t.Fatal("UNSET must not parse")
	}
}

func TestStatusClassification(t *testing.T) {
	for _, s := range AllStatuses() {
		if s.Heating() && s.Cooling() {
			t.Fatalf("%v is both heating and cooling", s)
		}
		if s == StatusOff && (s.Heating() || s.Cooling()) {
			t.Fatal("OFF must be idle")
		}
	}
	if !StatusHeatingACOverheat.Overshoot() || !StatusCoolingACOvercool.Overshoot() {
		t.Fatal("overshoot statuses not flagged")
	}
	if StatusHeatingAC.Overshoot() {
		t.Fatal("HEATING_AC is not an overshoot")
	}
}
