package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/jobs"
	"github.com/oxygene76/orbittracker/pkg/prediction"
)

var batchCmd = &cobra.Command{
	Use:   "batch [star...]",
	Short: "Predict many catalogue stars in parallel",
	Long: `
Run predictions for the named stars, or for every catalogue star when no
names are given, on a pool of workers.

Examples:
  orbittracker batch --years 1000 --output predictions.json
  orbittracker batch sirius "proxima centauri" --workers 2
`,
	RunE: runBatch,
}

var (
	batchCatalog string
	batchWorkers int
	batchYears   float64
	batchSteps   int
	batchOutput  string
	batchSave    bool
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchCatalog, "catalog", "", "Star catalogue, YAML or CSV (overrides catalog.path)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", runtime.NumCPU(), "Number of concurrent predictions")
	batchCmd.Flags().Float64Var(&batchYears, "years", 0, "Time period in years (default from config)")
	batchCmd.Flags().IntVar(&batchSteps, "steps", 0, "Number of time steps (default from config)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "Write all job results as JSON to a file")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "Archive completed results (always on with store.auto_save)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cat, err := loadCatalog(batchCatalog)
	if err != nil {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}

	var stars []types.StarRecord
	if len(args) == 0 {
		stars = cat.List()
	}
	for _, name := range args {
		s, err := cat.Lookup(ctx, name)
		if err != nil {
			return err
		}
		stars = append(stars, s)
	}

	opts := appConfig.PredictionOptions()
	if cmd.Flags().Changed("years") {
		opts.TimePeriodYears = batchYears
	}
	if cmd.Flags().Changed("steps") {
		opts.TimeSteps = batchSteps
	}

	orch := &prediction.Orchestrator{
		Uncertainty: appConfig.UncertaintyEngine(),
		Logger:      logger,
		Metrics:     metrics,
		Tracer:      tracer,
	}
	manager := jobs.NewManager(orch, len(stars), batchWorkers, logger)
	defer manager.Shutdown(10 * time.Second)

	start := time.Now()
	ids := make([]string, 0, len(stars))
	for _, s := range stars {
		j, err := manager.Submit(s, opts)
		if err != nil {
			return err
		}
		ids = append(ids, j.ID)
	}

	results := make([]jobs.Job, 0, len(ids))
	for _, id := range ids {
		j, err := manager.Wait(ctx, id)
		if err != nil {
			return fmt.Errorf("interrupted: %w", err)
		}
		results = append(results, j)
	}

	fmt.Println("Star                    Status      Final dist (ly)  Displacement (\")")
	fmt.Println("-----------------------------------------------------------------------")
	for _, j := range results {
		if j.Result == nil {
			fmt.Printf("%-22s  %-10s  %s\n", j.Star, j.Status, j.Error)
			continue
		}
		fmt.Printf("%-22s  %-10s  %15.4f  %16.2f\n", j.Star, j.Status,
			j.Result.Summary.FinalDistanceLy, j.Result.Summary.TotalDisplacementArcsec)
	}
	stats := manager.Statistics()
	fmt.Printf("\n%d completed, %d failed in %v\n", stats.CompletedJobs, stats.FailedJobs, time.Since(start))

	if batchSave || appConfig.Store.AutoSave {
		var done []*types.PredictionResult
		for _, j := range results {
			if j.Result != nil {
				done = append(done, j.Result)
			}
		}
		if err := archive(ctx, done...); err != nil {
			return err
		}
	}

	if batchOutput != "" {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		if err := os.WriteFile(batchOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		fmt.Printf("Results saved to: %s\n", batchOutput)
	}
	return nil
}
