package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oxygene76/orbittracker/internal/types"
)

const sample = `
stars:
  - name: Sirius
    aliases: [alpha CMa, "HIP  32349"]
    ra: 101.287155
    dec: -16.716116
    parallax: 379.21
    pmra: -546.01
    pmdec: -1223.07
    radial_velocity: -7.6
    orbit:
      period_years: 50.1
      eccentricity: 0.59
      inclination_deg: 136.3
  - name: Vega
    ra: 279.234735
    dec: 38.783689
    parallax: 130.23
    pmra: 200.94
    pmdec: 286.23
`

func TestParseYAMLLookup(t *testing.T) {
	c, err := ParseYAML([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}

	tests := []struct {
		query string
		want  string
	}{
		{"Sirius", "Sirius"},
		{"  sirius ", "Sirius"},
		{"ALPHA   cma", "Sirius"},
		{"hip 32349", "Sirius"},
		{"vega", "Vega"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			s, err := c.Lookup(context.Background(), tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if s.Name != tt.want {
				t.Errorf("got %q, want %q", s.Name, tt.want)
			}
		})
	}

	s, _ := c.Lookup(context.Background(), "Sirius")
	if s.RadialVelocity == nil || *s.RadialVelocity != -7.6 {
		t.Errorf("radial velocity = %v", s.RadialVelocity)
	}
	if !s.HasOrbitalMotion() || s.Orbit.Eccentricity != 0.59 {
		t.Errorf("orbit = %+v", s.Orbit)
	}
	v, _ := c.Lookup(context.Background(), "Vega")
	if v.RadialVelocity != nil || v.Orbit != nil {
		t.Errorf("absent fields should stay nil: %+v", v)
	}
}

func TestLookupNotFound(t *testing.T) {
	c := NewMemoryCatalog()
	_, err := c.Lookup(context.Background(), "Betelgeuse")
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	c := NewMemoryCatalog()
	if err := c.Add(types.StarRecord{Name: "A", RA: types.Float(1)}); err != nil {
		t.Fatal(err)
	}
	s, _ := c.Lookup(context.Background(), "a")
	*s.RA = 99

	again, _ := c.Lookup(context.Background(), "a")
	if *again.RA != 1 {
		t.Errorf("catalog entry mutated through lookup: %v", *again.RA)
	}
}

func TestAddRejectsDuplicates(t *testing.T) {
	c := NewMemoryCatalog()
	if err := c.Add(types.StarRecord{Name: "Sirius"}, "alpha CMa"); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(types.StarRecord{Name: "Other"}, "Alpha  CMa"); err == nil {
		t.Error("duplicate alias accepted")
	}
	if c.Len() != 1 {
		t.Errorf("len = %d after rejected add", c.Len())
	}
	if err := c.Add(types.StarRecord{Name: "  "}); err == nil {
		t.Error("blank name accepted")
	}
}

func TestParseYAMLRejectsUnknownFields(t *testing.T) {
	_, err := ParseYAML([]byte("stars:\n  - name: X\n    paralax: 3\n"))
	if err == nil {
		t.Error("misspelled field accepted")
	}
}

func TestMarshalLoadRoundTrip(t *testing.T) {
	entries := []Entry{{
		StarRecord: types.StarRecord{Name: "Vega", RA: types.Float(279.23), Dec: types.Float(38.78), Parallax: types.Float(130.23), PMRA: types.Float(200.94), PMDec: types.Float(286.23)},
		Aliases:    []string{"alpha Lyr"},
	}}
	data, err := MarshalYAML(entries)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "stars.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadYAML(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := c.Lookup(context.Background(), "alpha lyr")
	if err != nil {
		t.Fatal(err)
	}
	if *s.Parallax != 130.23 {
		t.Errorf("parallax = %v", *s.Parallax)
	}
}

func TestExampleCatalogLoads(t *testing.T) {
	c, err := LoadYAML(filepath.Join("..", "..", "configs", "stars.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Lookup(context.Background(), "proxima"); err != nil {
		t.Error(err)
	}
	list := c.List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Errorf("list not sorted: %q > %q", list[i-1].Name, list[i].Name)
		}
	}
}
