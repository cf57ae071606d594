// Package generation turns acceptance criteria into test case rows, using a
// completion model when it can and canned templates when it cannot.
package generation

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/llm"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/metrics"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/ratelimit"
)

var tracer = otel.Tracer("testcase-generation")

// Limiter gates outbound completion calls.
type Limiter interface {
	CheckAndConsume() error
}

// Config holds the tunable parts of the pipeline.
type Config struct {
	TitleParams         llm.Params
	StepParams          llm.Params
	ComprehensiveParams llm.Params

	// CategoryPause spaces the starts of consecutive categories in
	// comprehensive mode.
	CategoryPause time.Duration

	// SinglePass makes comprehensive mode ask for every category in one
	// completion instead of two round trips per category.
	SinglePass bool

	ComprehensivePlan []PlanEntry
}

// DefaultConfig returns the production parameters.
func DefaultConfig() Config {
	return Config{
		TitleParams:         llm.Params{Temperature: 0.8, MaxTokens: 2000},
		StepParams:          llm.Params{Temperature: 0.7, MaxTokens: 3000},
		ComprehensiveParams: llm.Params{Temperature: 0.4, MaxTokens: 6000},
		CategoryPause:       500 * time.Millisecond,
		ComprehensivePlan:   DefaultComprehensivePlan,
	}
}

// Source says where a category's scenarios came from.
type Source string

const (
	SourceAI       Source = "ai"
	SourcePartial  Source = "partial"
	SourceFallback Source = "fallback"
)

// CategoryOutcome summarizes one category pass.
type CategoryOutcome struct {
	Category  Category `json:"category"`
	Source    Source   `json:"source"`
	Scenarios int      `json:"scenarios"`
	Reason    string   `json:"reason,omitempty"`
	Err       error    `json:"-"`
}

// Result is the output of a generation.
type Result struct {
	Mode              Mode              `json:"mode"`
	Rows              []Row             `json:"rows"`
	Scenarios         []Scenario        `json:"scenarios"`
	Outcomes          []CategoryOutcome `json:"outcomes"`
	RateLimited       bool              `json:"rateLimited"`
	RetryAfterSeconds int               `json:"retryAfterSeconds,omitempty"`
}

// UsedFallback reports whether any scenario or step came from templates.
func (r *Result) UsedFallback() bool {
	for _, o := range r.Outcomes {
		if o.Source != SourceAI {
			return true
		}
	}
	return false
}

// Breakdown counts scenarios per category.
func (r *Result) Breakdown() map[Category]int {
	counts := make(map[Category]int, len(r.Outcomes))
	for _, sc := range r.Scenarios {
		counts[sc.Category]++
	}
	return counts
}

// Warnings lists a human-readable line per degraded category.
func (r *Result) Warnings() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Err == nil {
			continue
		}
		out = append(out, string(o.Category)+": "+o.Err.Error())
	}
	return out
}

func (r *Result) record(scenarios []Scenario, outcome CategoryOutcome) {
	outcome.Scenarios = len(scenarios)
	if outcome.Err != nil {
		outcome.Reason = reasonOf(outcome.Err)
		r.noteRateLimit(outcome.Err)
	}
	r.Scenarios = append(r.Scenarios, scenarios...)
	r.Outcomes = append(r.Outcomes, outcome)
}

func (r *Result) noteRateLimit(err error) {
	var rateErr *ratelimit.ExceededError
	if errors.As(err, &rateErr) {
		r.RateLimited = true
		r.RetryAfterSeconds = max(r.RetryAfterSeconds, rateErr.WaitSeconds)
	}
}

// Progress stages.
const (
	StageCategoryStarted  = "category_started"
	StageScenarioReady    = "scenario_ready"
	StageCategoryComplete = "category_complete"
)

// Progress is reported while a generation runs.
type Progress struct {
	Stage    string   `json:"stage"`
	Category Category `json:"category"`
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Title    string   `json:"title,omitempty"`
	Source   Source   `json:"source,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// ProgressFunc receives progress events. It is called from the generating goroutine.
type ProgressFunc func(Progress)

// Orchestrator runs the generation pipeline.
type Orchestrator struct {
	completer llm.Completer
	limiter   Limiter
	parser    Parser
	metrics   *metrics.GenerationMetrics
	cfg       Config
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) { o.cfg = cfg }
}

// WithParser sets the response parser.
func WithParser(p Parser) Option {
	return func(o *Orchestrator) { o.parser = p }
}

// WithMetrics enables metric recording.
func WithMetrics(m *metrics.GenerationMetrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// NewOrchestrator wires a pipeline. A nil limiter disables rate limiting.
func NewOrchestrator(completer llm.Completer, limiter Limiter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		completer: completer,
		limiter:   limiter,
		parser:    Parser{Strategy: Lenient},
		cfg:       DefaultConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.cfg.ComprehensivePlan) == 0 {
		o.cfg.ComprehensivePlan = DefaultComprehensivePlan
	}
	return o
}

// Generate runs the pipeline. Only a *ValidationError is returned; every
// other failure is replaced by fallback scenarios.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	return o.Stream(ctx, req, nil)
}

// Stream is Generate with progress reporting.
func (o *Orchestrator) Stream(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(Progress) {}
	}
	req.Criteria = strings.TrimSpace(req.Criteria)
	mode := req.Mode()

	ctx, span := tracer.Start(ctx, "generation.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("mode", string(mode)),
		attribute.Int("criteria_length", len(req.Criteria)),
	)

	start := time.Now()
	o.metrics.RecordGenerationStarted(ctx, string(mode))

	result := &Result{Mode: mode}
	plan := o.plan(req)

	if mode == ModeComprehensive && o.cfg.SinglePass {
		o.singlePass(ctx, req.Criteria, plan, result, progress)
	} else {
		pacer := rate.NewLimiter(rate.Every(o.cfg.CategoryPause), 1)
		for i, entry := range plan {
			if err := pacer.Wait(ctx); err != nil {
				log.Printf(`{"level":"warn","message":"Category pacing interrupted","category":"%s","error":"%v"}`, entry.Category, err)
			}
			progress(Progress{Stage: StageCategoryStarted, Category: entry.Category, Index: i, Total: len(plan)})
			scenarios, outcome := o.generateCategory(ctx, req.Criteria, entry, progress)
			result.record(scenarios, outcome)
			progress(Progress{Stage: StageCategoryComplete, Category: entry.Category, Index: i, Total: len(plan), Source: outcome.Source, Reason: reasonOf(outcome.Err)})
		}
	}

	result.Rows = Flatten(result.Scenarios, req.Metadata)

	span.SetAttributes(
		attribute.Int("rows", len(result.Rows)),
		attribute.Bool("fallback", result.UsedFallback()),
		attribute.Bool("rate_limited", result.RateLimited),
	)
	o.metrics.RecordGenerationFinished(ctx, string(mode), len(result.Rows), result.UsedFallback(), time.Since(start))

	return result, nil
}

func (o *Orchestrator) plan(req Request) []PlanEntry {
	if req.Mode() == ModeComprehensive {
		return o.cfg.ComprehensivePlan
	}
	return []PlanEntry{{Category: req.Category, Scenarios: req.ScenarioCount, Steps: req.StepCount}}
}

// generateCategory asks for titles, then steps per title. A failed title call
// replaces the whole category with fallback scenarios; a failed step call only
// replaces that scenario's steps.
func (o *Orchestrator) generateCategory(ctx context.Context, criteria string, entry PlanEntry, progress ProgressFunc) ([]Scenario, CategoryOutcome) {
	ctx, span := tracer.Start(ctx, "generation.category")
	defer span.End()
	span.SetAttributes(
		attribute.String("category", string(entry.Category)),
		attribute.Int("scenarios", entry.Scenarios),
		attribute.Int("steps", entry.Steps),
	)

	outcome := CategoryOutcome{Category: entry.Category, Source: SourceAI}

	titles, err := o.titles(ctx, criteria, entry)
	if err != nil {
		span.RecordError(err)
		o.logFallback(ctx, entry.Category, "category", err)
		scenarios := FallbackScenarios(criteria, entry.Category, entry.Scenarios, entry.Steps)
		for i, sc := range scenarios {
			progress(Progress{Stage: StageScenarioReady, Category: entry.Category, Index: i, Total: len(scenarios), Title: sc.Title, Source: SourceFallback})
		}
		outcome.Source = SourceFallback
		outcome.Err = err
		return scenarios, outcome
	}

	if len(titles) < entry.Scenarios {
		outcome.Source = SourcePartial
		for _, sc := range FallbackScenarios(criteria, entry.Category, entry.Scenarios, entry.Steps)[len(titles):] {
			titles = append(titles, sc.Title)
		}
	}
	titles = titles[:entry.Scenarios]

	scenarios := make([]Scenario, 0, len(titles))
	for i, title := range titles {
		source := SourceAI
		steps, err := o.steps(ctx, title, criteria, entry)
		if err != nil {
			o.logFallback(ctx, entry.Category, "steps", err)
			steps = FallbackSteps(title, entry.Category, entry.Steps)
			source = SourceFallback
			outcome.Source = SourcePartial
			outcome.Err = err
		}
		scenarios = append(scenarios, Scenario{Title: title, Category: entry.Category, Steps: steps})
		progress(Progress{Stage: StageScenarioReady, Category: entry.Category, Index: i, Total: len(titles), Title: title, Source: source})
	}
	return scenarios, outcome
}

func (o *Orchestrator) titles(ctx context.Context, criteria string, entry PlanEntry) ([]string, error) {
	text, err := o.complete(ctx, "titles",
		llm.SystemAndUser(TitleSystemPrompt, BuildTitlePrompt(criteria, entry.Category, entry.Scenarios)),
		o.cfg.TitleParams)
	if err != nil {
		return nil, err
	}
	titles, err := o.parser.Titles(text)
	if err != nil {
		logParseError("titles", entry.Category, err)
		return nil, err
	}
	return titles, nil
}

func (o *Orchestrator) steps(ctx context.Context, title, criteria string, entry PlanEntry) ([]Step, error) {
	text, err := o.complete(ctx, "steps",
		llm.SystemAndUser(StepSystemPrompt, BuildStepPrompt(title, criteria, entry.Steps, entry.Category)),
		o.cfg.StepParams)
	if err != nil {
		return nil, err
	}
	steps, err := o.parser.Steps(text)
	if err != nil {
		logParseError("steps", entry.Category, err)
		return nil, err
	}
	return padSteps(steps, title, entry.Category, entry.Steps), nil
}

// singlePass requests every category in one completion and falls back for
// each category the reply does not cover.
func (o *Orchestrator) singlePass(ctx context.Context, criteria string, plan []PlanEntry, result *Result, progress ProgressFunc) {
	ctx, span := tracer.Start(ctx, "generation.single_pass")
	defer span.End()

	var parsed []Scenario
	text, err := o.complete(ctx, "comprehensive",
		llm.SystemAndUser(ComprehensiveSystemPrompt, BuildComprehensivePromptWithPlan(criteria, plan)),
		o.cfg.ComprehensiveParams)
	if err == nil {
		parsed, err = o.parser.Comprehensive(text)
		if err != nil {
			logParseError("comprehensive", All, err)
		}
	}
	if err != nil {
		span.RecordError(err)
	}

	for i, entry := range plan {
		progress(Progress{Stage: StageCategoryStarted, Category: entry.Category, Index: i, Total: len(plan)})

		var scenarios []Scenario
		outcome := CategoryOutcome{Category: entry.Category, Source: SourceAI, Err: err}
		if err == nil {
			for _, sc := range parsed {
				if sc.Category != entry.Category || len(scenarios) == entry.Scenarios {
					continue
				}
				sc.Steps = padSteps(sc.Steps, sc.Title, entry.Category, entry.Steps)
				scenarios = append(scenarios, sc)
			}
			if len(scenarios) == 0 {
				outcome.Err = &ParseError{Reason: "no " + string(entry.Category) + " test cases in response", Raw: text}
			}
		}
		if outcome.Err != nil {
			o.logFallback(ctx, entry.Category, "category", outcome.Err)
			scenarios = FallbackScenarios(criteria, entry.Category, entry.Scenarios, entry.Steps)
			outcome.Source = SourceFallback
		}

		for j, sc := range scenarios {
			progress(Progress{Stage: StageScenarioReady, Category: entry.Category, Index: j, Total: len(scenarios), Title: sc.Title, Source: outcome.Source})
		}
		result.record(scenarios, outcome)
		progress(Progress{Stage: StageCategoryComplete, Category: entry.Category, Index: i, Total: len(plan), Source: outcome.Source, Reason: reasonOf(outcome.Err)})
	}
}

// complete gates one call on the limiter and wraps call failures.
func (o *Orchestrator) complete(ctx context.Context, kind string, messages []llm.Message, params llm.Params) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &CompletionError{Kind: kind, Err: err}
	}
	if o.limiter != nil {
		if err := o.limiter.CheckAndConsume(); err != nil {
			return "", err
		}
	}

	text, err := o.completer.Complete(ctx, messages, params)
	o.metrics.RecordCompletion(ctx, kind, err == nil)
	if err != nil {
		return "", &CompletionError{Kind: kind, Err: err}
	}
	return text, nil
}

func (o *Orchestrator) logFallback(ctx context.Context, category Category, scope string, err error) {
	reason := reasonOf(err)
	o.metrics.RecordFallback(ctx, string(category), reason)
	log.Printf(`{"level":"warn","message":"Using fallback test cases","category":"%s","scope":"%s","reason":"%s","error":%q}`,
		category, scope, reason, err.Error())
}

func logParseError(kind string, category Category, err error) {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		log.Printf(`{"level":"warn","message":"Completion response unparseable","kind":"%s","category":"%s","reason":%q,"raw":%q}`,
			kind, category, parseErr.Reason, parseErr.Raw)
	}
}
