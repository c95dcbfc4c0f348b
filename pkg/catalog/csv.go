package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oxygene76/orbittracker/internal/types"
)

// csvColumns maps accepted header names (Gaia archive names included) to
// the record field they fill.
var csvColumns = map[string]string{
	"name":                  "name",
	"designation":           "name",
	"source_id":             "source_id",
	"ra":                    "ra",
	"dec":                   "dec",
	"parallax":              "parallax",
	"pmra":                  "pmra",
	"pmdec":                 "pmdec",
	"radial_velocity":       "radial_velocity",
	"dr2_radial_velocity":   "radial_velocity",
	"parallax_error":        "parallax_error",
	"pmra_error":            "pmra_error",
	"pmdec_error":           "pmdec_error",
	"radial_velocity_error": "radial_velocity_error",
	"orbit_period_years":    "orbit_period_years",
	"orbit_eccentricity":    "orbit_eccentricity",
	"orbit_inclination_deg": "orbit_inclination_deg",
	"aliases":               "aliases",
}

// LoadCSV reads a comma-separated star table with a header row
func LoadCSV(path string) (*MemoryCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	defer f.Close()

	c, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCSV decodes a star table. Empty cells leave optional fields unset,
// aliases are separated by ';' and lines starting with '#' are ignored.
func ParseCSV(r io.Reader) (*MemoryCatalog, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		field, ok := csvColumns[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		cols[field] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("header has no name column")
	}

	c := NewMemoryCatalog()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		star, aliases, err := parseCSVRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := c.Add(star, aliases...); err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", line, star.Name, err)
		}
	}
	return c, nil
}

func parseCSVRecord(record []string, cols map[string]int) (types.StarRecord, []string, error) {
	cell := func(field string) string {
		i, ok := cols[field]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	star := types.StarRecord{
		Name:     cell("name"),
		SourceID: cell("source_id"),
	}

	numeric := []struct {
		field string
		dst   **float64
	}{
		{"ra", &star.RA},
		{"dec", &star.Dec},
		{"parallax", &star.Parallax},
		{"pmra", &star.PMRA},
		{"pmdec", &star.PMDec},
		{"radial_velocity", &star.RadialVelocity},
		{"parallax_error", &star.ParallaxError},
		{"pmra_error", &star.PMRAError},
		{"pmdec_error", &star.PMDecError},
		{"radial_velocity_error", &star.RadialVelocityError},
	}
	for _, n := range numeric {
		v, err := parseOptional(cell(n.field))
		if err != nil {
			return star, nil, fmt.Errorf("%s: %w", n.field, err)
		}
		*n.dst = v
	}

	// the orbit is all-or-nothing on the period
	period, err := parseOptional(cell("orbit_period_years"))
	if err != nil {
		return star, nil, fmt.Errorf("orbit_period_years: %w", err)
	}
	if period != nil {
		orbit := &types.BinaryOrbit{PeriodYears: *period}
		if v, err := parseOptional(cell("orbit_eccentricity")); err != nil {
			return star, nil, fmt.Errorf("orbit_eccentricity: %w", err)
		} else if v != nil {
			orbit.Eccentricity = *v
		}
		if v, err := parseOptional(cell("orbit_inclination_deg")); err != nil {
			return star, nil, fmt.Errorf("orbit_inclination_deg: %w", err)
		} else if v != nil {
			orbit.InclinationDeg = *v
		}
		star.Orbit = orbit
	}

	var aliases []string
	for _, a := range strings.Split(cell("aliases"), ";") {
		if a = strings.TrimSpace(a); a != "" {
			aliases = append(aliases, a)
		}
	}
	return star, aliases, nil
}

func parseOptional(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Load picks the loader by file extension: .csv files are tables, anything
// else is YAML.
func Load(path string) (*MemoryCatalog, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return LoadCSV(path)
	}
	return LoadYAML(path)
}
