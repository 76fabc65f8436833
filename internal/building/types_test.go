package building

import "testing"

func TestArchetypeValid(t *testing.T) {
	cases := []struct {
		a    Archetype
		want bool
	}{
		{ArchetypeUnknown, false},
		{ArchetypeNone, true},
		{ArchetypeRadiator, true},
		{ArchetypeLocalAC, true},
		{ArchetypeCentralAC, true},
		{ArchetypeHybrid, true},
		{Archetype(999), false},
		{Archetype(-1), false},
	}

	for _, tc := range cases {
		if got := tc.a.Valid(); got != tc.want {
			t.Fatalf("Archetype(%d).Valid()=%v want %v", tc.a, got, tc.want)
		}
	}
}

func TestParseArchetype_RoundTrip(t *testing.T) {
	for _, a := range []Archetype{ArchetypeNone, ArchetypeRadiator, ArchetypeLocalAC, ArchetypeCentralAC, ArchetypeHybrid} {
		t.Run(a.String(), func(t *testing.T) {
			got, err := ParseArchetype(a.String())
			if err != nil {
				t.Fatalf("ParseArchetype(%q) error: %v", a.String(), err)
			}
			if got != a {
				t.Fatalf("ParseArchetype(%q)=%v want %v", a.String(), got, a)
			}
		})
	}
}

func TestParseArchetype_Invalid(t *testing.T) {
	got, err := ParseArchetype("heat_pump")
	if err == nil {
		t.Fatal("expected error")
	}
	if got != ArchetypeUnknown {
		t.Fatalf("expected ArchetypeUnknown, got %v", got)
	}
}

func TestArchetypeIsAir(t *testing.T) {
	cases := map[Archetype]bool{
		ArchetypeNone:      false,
		ArchetypeRadiator:  false,
		ArchetypeLocalAC:   true,
		ArchetypeCentralAC: true,
		ArchetypeHybrid:    true,
	}
	for a, want := range cases {
		if got := a.IsAir(); got != want {
			t.Errorf("%v.IsAir()=%v want %v", a, got, want)
		}
	}
}

func TestRegimeSign(t *testing.T) {
	if RegimeHeating.Sign() != 1 || RegimeCooling.Sign() != -1 || RegimeNone.Sign() != 0 {
		t.Fatalf("unexpected regime signs")
	}
}
