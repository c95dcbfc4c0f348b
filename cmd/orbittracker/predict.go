package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/prediction"
)

var predictCmd = &cobra.Command{
	Use:   "predict [star]",
	Short: "Predict the motion of a star",
	Long: `
Predict a star's position, distance and velocity over a time period.

The star is either looked up by name in the catalogue or given inline
with --ra, --dec and --parallax (plus optional proper motion and radial
velocity).

Examples:
  # Sirius over the next century from the bundled catalogue
  orbittracker predict sirius

  # 1000 years in 200 steps, standard model, no Monte Carlo
  orbittracker predict "barnard's star" --years 1000 --steps 200 --standard --no-uncertainty

  # Inline astrometry
  orbittracker predict --name Test --ra 101.287 --dec -16.716 --parallax 379.21 --pmra -546.01 --pmdec -1223.07 --rv -5.5
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPredict,
}

var (
	predCatalog       string
	predYears         float64
	predSteps         int
	predStandard      bool
	predNoUncertainty bool
	predOutput        string
	predSummaryOnly   bool
	predSave          bool

	inlineName     string
	inlineRA       float64
	inlineDec      float64
	inlineParallax float64
	inlinePMRA     float64
	inlinePMDec    float64
	inlineRV       float64
)

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVar(&predCatalog, "catalog", "", "Star catalogue, YAML or CSV (overrides catalog.path)")
	predictCmd.Flags().Float64Var(&predYears, "years", 0, "Time period in years (default from config)")
	predictCmd.Flags().IntVar(&predSteps, "steps", 0, "Number of time steps (default from config)")
	predictCmd.Flags().BoolVar(&predStandard, "standard", false, "Use the standard linear model")
	predictCmd.Flags().BoolVar(&predNoUncertainty, "no-uncertainty", false, "Skip Monte Carlo uncertainty bands")
	predictCmd.Flags().StringVar(&predOutput, "output", "", "Write the JSON result to a file instead of stdout")
	predictCmd.Flags().BoolVar(&predSummaryOnly, "summary", false, "Print a short summary instead of JSON")
	predictCmd.Flags().BoolVar(&predSave, "save", false, "Archive the result (always on with store.auto_save)")

	predictCmd.Flags().StringVar(&inlineName, "name", "", "Star name for inline astrometry")
	predictCmd.Flags().Float64Var(&inlineRA, "ra", 0, "Right ascension in degrees")
	predictCmd.Flags().Float64Var(&inlineDec, "dec", 0, "Declination in degrees")
	predictCmd.Flags().Float64Var(&inlineParallax, "parallax", 0, "Parallax in mas")
	predictCmd.Flags().Float64Var(&inlinePMRA, "pmra", 0, "Proper motion in RA in mas/yr")
	predictCmd.Flags().Float64Var(&inlinePMDec, "pmdec", 0, "Proper motion in Dec in mas/yr")
	predictCmd.Flags().Float64Var(&inlineRV, "rv", 0, "Radial velocity in km/s")
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := appConfig.PredictionOptions()
	if cmd.Flags().Changed("years") {
		opts.TimePeriodYears = predYears
	}
	if cmd.Flags().Changed("steps") {
		opts.TimeSteps = predSteps
	}
	if predStandard {
		opts.Mode = types.ModeStandard
	}
	if predNoUncertainty {
		opts.SkipUncertainty = true
	}

	orch := &prediction.Orchestrator{
		Uncertainty: appConfig.UncertaintyEngine(),
		Logger:      logger,
		Metrics:     metrics,
		Tracer:      tracer,
	}

	var (
		result *types.PredictionResult
		err    error
	)
	switch {
	case len(args) == 1:
		cat, cerr := loadCatalog(predCatalog)
		if cerr != nil {
			return fmt.Errorf("failed to load catalogue: %w", cerr)
		}
		orch.Catalog = cat
		result, err = orch.PredictByName(ctx, args[0], opts)
	case cmd.Flags().Changed("ra"):
		result, err = orch.Predict(ctx, inlineStar(cmd), opts)
	default:
		return fmt.Errorf("give a star name or inline astrometry with --ra/--dec/--parallax")
	}
	if err != nil {
		return err
	}

	if predSave || appConfig.Store.AutoSave {
		if err := archive(ctx, result); err != nil {
			return err
		}
	}

	if predSummaryOnly {
		printSummary(result)
		return nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if predOutput == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(predOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	logger.Infof("result written to %s", predOutput)
	return nil
}

// inlineStar builds a star from the inline flags; unset optional flags stay nil
func inlineStar(cmd *cobra.Command) types.StarRecord {
	star := types.StarRecord{
		Name: inlineName,
		RA:   types.Float(inlineRA),
	}
	if star.Name == "" {
		star.Name = "Unnamed star"
	}
	optional := []struct {
		flag string
		val  float64
		dst  **float64
	}{
		{"dec", inlineDec, &star.Dec},
		{"parallax", inlineParallax, &star.Parallax},
		{"pmra", inlinePMRA, &star.PMRA},
		{"pmdec", inlinePMDec, &star.PMDec},
		{"rv", inlineRV, &star.RadialVelocity},
	}
	for _, o := range optional {
		if cmd.Flags().Changed(o.flag) {
			*o.dst = types.Float(o.val)
		}
	}
	return star
}

func printSummary(r *types.PredictionResult) {
	fmt.Println(r.SummaryText)
	fmt.Printf("  Mode:              %s\n", r.Mode)
	fmt.Printf("  Distance:          %.4f ly -> %.4f ly (%+.4f)\n",
		r.Summary.InitialDistanceLy, r.Summary.FinalDistanceLy, r.Summary.DistanceChangeLy)
	fmt.Printf("  Sky displacement:  %.2f\" (RA %+.2f\", Dec %+.2f\")\n",
		r.Summary.TotalDisplacementArcsec, r.Summary.RADisplacementArcsec, r.Summary.DecDisplacementArcsec)
	fmt.Printf("  Tangential v:      %.2f km/s mean, %.2f km/s max\n",
		r.Summary.AverageTangentialVelocityKmS, r.Summary.MaxTangentialVelocityKmS)
	if n := len(r.Uncertainty); n > 0 {
		last := r.Uncertainty[n-1]
		fmt.Printf("  Separation at end: %.2f\" (68%%: %.2f\" to %.2f\")\n",
			last.Separation.P50, last.Separation.P16, last.Separation.P84)
	}
	if r.Diagnostics.FallbackToStandard {
		fmt.Println("  Note: high-fidelity model failed, standard model used")
	}
}

func archive(ctx context.Context, results ...*types.PredictionResult) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, r := range results {
		if err := st.SaveResult(ctx, r); err != nil {
			return err
		}
		logger.Debugf("archived prediction %s", r.ID)
	}
	return nil
}
