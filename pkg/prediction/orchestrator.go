// Package prediction drives a complete star forecast: validation,
// propagation, Monte Carlo uncertainty and summary.
package prediction

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/oxygene76/orbittracker/internal/types"
	"github.com/oxygene76/orbittracker/pkg/astronomy/coords"
	"github.com/oxygene76/orbittracker/pkg/astronomy/orbital"
	"github.com/oxygene76/orbittracker/pkg/astronomy/units"
	"github.com/oxygene76/orbittracker/pkg/catalog"
	"github.com/oxygene76/orbittracker/pkg/propagation"
	"github.com/oxygene76/orbittracker/pkg/telemetry"
	"github.com/oxygene76/orbittracker/pkg/uncertainty"
)

// Orchestrator runs predictions. All fields are optional and a zero value
// is ready to use; it holds no per-call state and is safe for concurrent use.
type Orchestrator struct {
	Catalog     catalog.Catalog
	Uncertainty *uncertainty.Engine
	Logger      *telemetry.Logger
	Metrics     *telemetry.Metrics
	Tracer      *telemetry.Tracer
}

func (o *Orchestrator) logger() *telemetry.Logger {
	if o.Logger == nil {
		return telemetry.Nop()
	}
	return o.Logger
}

func (o *Orchestrator) engine() *uncertainty.Engine {
	if o.Uncertainty == nil {
		return uncertainty.NewEngine()
	}
	return o.Uncertainty
}

// PredictByName resolves name through the catalog and predicts it
func (o *Orchestrator) PredictByName(ctx context.Context, name string, opts Options) (*types.PredictionResult, error) {
	if o.Catalog == nil {
		return nil, errorsmod.Wrap(types.ErrConfig, "no catalog configured")
	}
	star, err := o.Catalog.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return o.Predict(ctx, star, opts)
}

// Predict forecasts star over opts.TimePeriodYears.
//
// Only validation errors and context errors are returned; numerical
// trouble degrades the result and is reported in its diagnostics. The
// context is checked between phases, not inside the numeric work.
func (o *Orchestrator) Predict(ctx context.Context, star types.StarRecord, opts Options) (*types.PredictionResult, error) {
	ctx, span := o.Tracer.Start(ctx, "prediction.predict", attribute.String("star.name", star.Name))
	defer span.End()

	result, err := o.predict(ctx, star, opts)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("prediction.id", result.ID),
		attribute.String("prediction.mode", string(result.Mode)),
		attribute.Int("prediction.time_steps", result.TimeSteps),
	)
	telemetry.RecordSuccess(span)
	return result, nil
}

func (o *Orchestrator) predict(ctx context.Context, star types.StarRecord, opts Options) (*types.PredictionResult, error) {
	start := time.Now()
	opts = opts.withDefaults()
	log := o.logger().NewComponentLogger("prediction").WithField("star", star.Name)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Validate
	if err := ValidateStar(star); err != nil {
		o.Metrics.RecordPrediction(string(opts.Mode), "validation_error", 0)
		return nil, err
	}
	if err := ValidateOptions(opts); err != nil {
		o.Metrics.RecordPrediction(string(opts.Mode), "validation_error", 0)
		return nil, err
	}
	star = star.Clone()

	// Propagate
	times := propagation.TimeGrid(opts.TimePeriodYears, opts.TimeSteps)
	mode := opts.Mode
	log.Debugf("propagating %d steps over %.1f years in %s mode", opts.TimeSteps, opts.TimePeriodYears, mode)

	_, propSpan := o.Tracer.Start(ctx, "prediction.propagate", attribute.String("mode", string(mode)))
	points, stats := propagation.ForMode(mode).Propagate(star, times)
	diag := types.Diagnostics{
		KeplerSteps:     stats.KeplerSteps,
		DriftSteps:      stats.DriftSteps,
		KeplerFallbacks: stats.Fallbacks,
	}
	if mode == types.ModeHighFidelity && !allFinite(points) {
		log.Warn("high-fidelity propagation produced non-finite values, using standard model")
		points, _ = propagation.Kinematic{}.Propagate(star, times)
		mode = types.ModeStandard
		diag = types.Diagnostics{FallbackToStandard: true}
	}
	propSpan.SetAttributes(
		attribute.Int("kepler_steps", diag.KeplerSteps),
		attribute.Int("drift_steps", diag.DriftSteps),
		attribute.Bool("fallback_to_standard", diag.FallbackToStandard),
	)
	propSpan.End()
	if !allFinite(points) {
		o.Metrics.RecordPrediction(string(mode), "validation_error", 0)
		return nil, errorsmod.Wrap(types.ErrValidation, "star parameters produce non-finite positions")
	}
	if diag.KeplerFallbacks > 0 {
		log.Warnf("%d Kepler steps fell back to linear drift", diag.KeplerFallbacks)
	}
	diag.Mode = mode
	if mode == types.ModeHighFidelity && !star.HasOrbitalMotion() {
		describeInitialOrbit(star, &diag)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Uncertainty
	var bands []types.UncertaintyBand
	if !opts.SkipUncertainty {
		_, mcSpan := o.Tracer.Start(ctx, "prediction.uncertainty")
		mc := o.engine().Run(star, times)
		mcSpan.SetAttributes(attribute.Int("samples_used", mc.Used), attribute.Int("samples_dropped", mc.Dropped))
		mcSpan.End()
		bands = mc.Bands
		diag.SamplesRequested = mc.Requested
		diag.SamplesUsed = mc.Used
		diag.SamplesDropped = mc.Dropped
		diag.ErrorsEstimated = mc.Budget.Estimated
		if len(bands) == 0 {
			log.Debug("no usable error sources, uncertainty bands omitted")
		}
		o.Metrics.AddSamplesDropped(mc.Dropped)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Summarize
	ra0, dec0 := *star.RA, *star.Dec
	diag.EpochMismatchArcsec = coords.AngularSeparation(ra0, dec0, points[0].RA, points[0].Dec) * units.ArcsecPerDegree
	diag.Duration = time.Since(start)

	o.Metrics.AddKeplerFallbacks(diag.KeplerFallbacks)
	o.Metrics.RecordPrediction(string(mode), "success", diag.Duration)
	log.Debugf("prediction finished in %s", diag.Duration)

	return &types.PredictionResult{
		ID:              uuid.NewString(),
		Star:            star,
		Mode:            mode,
		TimePeriodYears: opts.TimePeriodYears,
		TimeSteps:       opts.TimeSteps,
		Predictions:     points,
		Uncertainty:     bands,
		Summary:         Summarize(points),
		SummaryText:     SummaryText(star.Name, opts.TimePeriodYears, opts.TimeSteps),
		Diagnostics:     diag,
		CreatedAt:       start.UTC(),
	}, nil
}

// describeInitialOrbit records the energy and osculating elements of the
// initial heliocentric state.
func describeInitialOrbit(star types.StarRecord, diag *types.Diagnostics) {
	s0 := propagation.InitialState(star)
	diag.SpecificEnergy = s0.SpecificEnergy(units.MuSun)
	diag.Bound = s0.IsBound(units.MuSun)

	oe := orbital.CartesianToOrbital(s0.Position, s0.Velocity, units.MuSun)
	if finite(oe.SemiMajorAxis) && finite(oe.Eccentricity) {
		diag.OsculatingSemiMajorAxisAU = oe.SemiMajorAxis
		diag.OsculatingEccentricity = oe.Eccentricity
	}
}

func allFinite(points []types.PredictionPoint) bool {
	for _, p := range points {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}
