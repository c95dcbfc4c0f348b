package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxygene76/orbittracker/internal/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the star catalogue",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogue stars",
	RunE:  runCatalogList,
}

var catalogPath string

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)

	catalogCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Star catalogue, YAML or CSV (overrides catalog.path)")
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}

	fmt.Println("Name                    RA (°)     Dec (°)    Dist (ly)  Binary")
	fmt.Println("------------------------------------------------------------------")
	for _, s := range cat.List() {
		fmt.Printf("%-22s %9.4f %10.4f %11s  %s\n", s.Name, deref(s.RA), deref(s.Dec), distance(s), binary(s))
	}
	fmt.Printf("\n%d stars\n", cat.Len())
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func distance(s types.StarRecord) string {
	if s.Parallax == nil || *s.Parallax <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", s.DistanceLy())
}

func binary(s types.StarRecord) string {
	if s.Orbit == nil {
		return "no"
	}
	return fmt.Sprintf("P=%.1f yr", s.Orbit.PeriodYears)
}
