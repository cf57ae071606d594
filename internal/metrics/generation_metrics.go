package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("testcase-generator")

// GenerationMetrics records test case generation activity. A nil
// *GenerationMetrics is valid and records nothing.
type GenerationMetrics struct {
	generationsCounter metric.Int64Counter
	fallbacksCounter   metric.Int64Counter
	completionsCounter metric.Int64Counter
	rowsCounter        metric.Int64Counter
	durationHistogram  metric.Float64Histogram
	activeGenerations  metric.Int64UpDownCounter
}

// NewGenerationMetrics creates the generation instruments
func NewGenerationMetrics() (*GenerationMetrics, error) {
	generationsCounter, err := meter.Int64Counter(
		"testcase_generator.generations",
		metric.WithDescription("Total number of generation requests processed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	fallbacksCounter, err := meter.Int64Counter(
		"testcase_generator.fallbacks",
		metric.WithDescription("Categories or scenarios served from fallback templates"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return nil, err
	}

	completionsCounter, err := meter.Int64Counter(
		"testcase_generator.completions",
		metric.WithDescription("Outbound completion calls by kind and outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	rowsCounter, err := meter.Int64Counter(
		"testcase_generator.rows",
		metric.WithDescription("Test case rows produced"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, err
	}

	durationHistogram, err := meter.Float64Histogram(
		"testcase_generator.generation.duration",
		metric.WithDescription("Duration of a generation request in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	activeGenerations, err := meter.Int64UpDownCounter(
		"testcase_generator.generations.active",
		metric.WithDescription("Number of generation requests in progress"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &GenerationMetrics{
		generationsCounter: generationsCounter,
		fallbacksCounter:   fallbacksCounter,
		completionsCounter: completionsCounter,
		rowsCounter:        rowsCounter,
		durationHistogram:  durationHistogram,
		activeGenerations:  activeGenerations,
	}, nil
}

// RecordGenerationStarted marks a generation as in progress
func (gm *GenerationMetrics) RecordGenerationStarted(ctx context.Context, mode string) {
	if gm == nil {
		return
	}
	gm.activeGenerations.Add(ctx, 1,
		metric.WithAttributes(attribute.String("mode", mode)),
	)
}

// RecordGenerationFinished records the outcome of a generation
func (gm *GenerationMetrics) RecordGenerationFinished(ctx context.Context, mode string, rows int, usedFallback bool, duration time.Duration) {
	if gm == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.Bool("fallback", usedFallback),
	)
	gm.generationsCounter.Add(ctx, 1, attrs)
	gm.rowsCounter.Add(ctx, int64(rows), attrs)
	gm.durationHistogram.Record(ctx, duration.Seconds(), attrs)
	gm.activeGenerations.Add(ctx, -1,
		metric.WithAttributes(attribute.String("mode", mode)),
	)
}

// RecordFallback records a category or scenario that fell back, with the error kind
func (gm *GenerationMetrics) RecordFallback(ctx context.Context, category, reason string) {
	if gm == nil {
		return
	}
	gm.fallbacksCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("category", category),
			attribute.String("reason", reason),
		),
	)
}

// RecordCompletion records one outbound completion call
func (gm *GenerationMetrics) RecordCompletion(ctx context.Context, kind string, success bool) {
	if gm == nil {
		return
	}
	status := "success"
	if !success {
		status = "failed"
	}
	gm.completionsCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
}
