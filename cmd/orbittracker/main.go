package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oxygene76/orbittracker/pkg/catalog"
	"github.com/oxygene76/orbittracker/pkg/store"
	"github.com/oxygene76/orbittracker/pkg/telemetry"
	"github.com/oxygene76/orbittracker/pkg/utils"
)

const (
	appName = "orbittracker"
	version = "v0.1.0"
)

var (
	cfgFile string
	verbose bool

	appConfig *utils.Config
	logger    *telemetry.Logger
	metrics   *telemetry.Metrics
	tracer    *telemetry.Tracer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Forecast the apparent motion of stars",
	Long: `orbittracker forecasts how a star's sky position, distance and velocity
evolve over decades to millennia from its catalogue astrometry.

Two models are available: a high-fidelity model that propagates the star's
heliocentric state under solar gravity, and a standard linear model.
Monte Carlo sampling of the catalogue errors yields uncertainty bands.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appConfig == nil {
			return nil
		}
		if err := tracer.Shutdown(cmd.Context()); err != nil {
			logger.WithError(err).Warn("failed to flush traces")
		}
		if err := metrics.WriteTextfile(appConfig.Metrics.TextfilePath); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.orbittracker/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() error {
	cfg, err := utils.LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	l, err := telemetry.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}

	t, err := telemetry.NewTracer(cfg.Tracing, appName, version)
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = l
	metrics = telemetry.NewMetrics(cfg.Metrics)
	tracer = t
	return nil
}

// openStore opens the prediction archive configured under store.path
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	path := appConfig.Store.Path
	if path == "" {
		return nil, fmt.Errorf("no prediction archive configured (store.path)")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}
	return store.Open(ctx, store.Config{Path: path})
}

// loadCatalog opens path, falling back to the configured catalog
func loadCatalog(path string) (*catalog.MemoryCatalog, error) {
	if path == "" {
		path = appConfig.Catalog.Path
	}
	if path == "" {
		return nil, fmt.Errorf("no catalog file given (use --catalog or catalog.path)")
	}
	return catalog.Load(path)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
