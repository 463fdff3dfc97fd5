// Package runner executes suite files: one fresh builder per request,
// followed by schema checks and variable extraction on the result.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wesleyorama2/chainreq/builder"
	"github.com/wesleyorama2/chainreq/config"
	"github.com/wesleyorama2/chainreq/http"
	"github.com/wesleyorama2/chainreq/pkg/jsonpath"
	"github.com/wesleyorama2/chainreq/pkg/jsonschema"
)

// Stage names the point at which a step failed.
type Stage string

const (
	StageTransport Stage = "transport"
	StageExpect    Stage = "expect"
	StageDecode    Stage = "decode"
	StageSchema    Stage = "schema"
	StageExtract   Stage = "extract"
)

// StepError wraps the failure of a single request.
type StepError struct {
	Stage Stage
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// StepResult is the outcome of one request in a suite.
type StepResult struct {
	Name      string
	Method    string
	URI       string
	Result    any
	Extracted map[string]string
	Duration  time.Duration
	Skipped   bool
	Err       error
}

// Passed reports whether the step ran and every check held.
func (s StepResult) Passed() bool {
	return !s.Skipped && s.Err == nil
}

// Report is the outcome of a suite run.
type Report struct {
	Suite    string
	Steps    []StepResult
	Duration time.Duration
}

// Passed counts the steps that passed.
func (r *Report) Passed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Passed() {
			n++
		}
	}
	return n
}

// Failed counts the steps that ran and failed.
func (r *Report) Failed() int {
	n := 0
	for _, s := range r.Steps {
		if !s.Skipped && s.Err != nil {
			n++
		}
	}
	return n
}

// OK reports whether no step failed.
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Runner executes suites.
type Runner struct {
	transport     builder.Transport
	clientOptions []http.ClientOption
	logger        *zap.Logger
	failFast      bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithTransport makes every builder use t instead of a client built from the suite.
func WithTransport(t builder.Transport) Option {
	return func(r *Runner) {
		r.transport = t
	}
}

// WithClientOptions adds options to the client built for each suite.
func WithClientOptions(opts ...http.ClientOption) Option {
	return func(r *Runner) {
		r.clientOptions = append(r.clientOptions, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithFailFast skips the remaining requests after the first failure.
func WithFailFast(failFast bool) Option {
	return func(r *Runner) {
		r.failFast = failFast
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every request of suite in order. The returned error is
// reserved for suites that cannot run at all; request failures are
// recorded in the report.
func (r *Runner) Run(ctx context.Context, suite *config.Suite) (*Report, error) {
	if errs := config.ValidateSuite(suite); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return nil, fmt.Errorf("invalid suite: %s", strings.Join(msgs, "; "))
	}

	transport, err := r.transportFor(suite)
	if err != nil {
		return nil, err
	}

	logger := r.logger.With(zap.String("suite", suite.Name))
	vars := config.MergeVariables(nil, suite.Variables)
	report := &Report{Suite: suite.Name}
	start := time.Now()
	failed := false

	for _, spec := range suite.Requests {
		if ctx.Err() != nil || (failed && r.failFast) {
			report.Steps = append(report.Steps, StepResult{Name: spec.Name, Method: strings.ToUpper(spec.Method), Skipped: true})
			continue
		}

		step := r.runStep(ctx, suite, spec, vars, transport, logger)
		for key, value := range step.Extracted {
			vars[key] = value
		}
		if step.Err != nil {
			failed = true
		}
		report.Steps = append(report.Steps, step)
	}

	report.Duration = time.Since(start)
	logger.Info("suite finished",
		zap.Int("passed", report.Passed()),
		zap.Int("failed", report.Failed()),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

func (r *Runner) transportFor(suite *config.Suite) (builder.Transport, error) {
	if r.transport != nil {
		return r.transport, nil
	}

	opts := []http.ClientOption{http.WithLogger(r.logger)}
	if suite.Timeout != "" {
		timeout, err := config.ParseDuration(suite.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid suite timeout: %w", err)
		}
		opts = append(opts, http.WithTimeout(timeout))
	}
	if suite.JSONBodies {
		opts = append(opts, http.WithJSONBodies())
	}
	opts = append(opts, r.clientOptions...)
	return http.NewClient(opts...), nil
}

func (r *Runner) runStep(
	ctx context.Context,
	suite *config.Suite,
	spec config.RequestSpec,
	vars map[string]string,
	transport builder.Transport,
	logger *zap.Logger,
) StepResult {
	b := builder.New(config.Expand(suite.BaseURI, vars),
		builder.WithTransport(transport),
		builder.WithLogger(logger),
		builder.WithFailureMode(builder.FailRecoverable),
	)

	uri := config.Expand(spec.URI, vars)
	switch strings.ToUpper(spec.Method) {
	case "POST":
		b.Post(uri)
	case "PUT":
		b.Put(uri)
	case "DELETE":
		b.Del(uri)
	default:
		b.Get(uri)
	}

	b.Body(builder.Form(config.ExpandValues(spec.Body, vars))).
		Headers(config.ExpandMap(spec.Headers, vars)).
		Expect(spec.Expect.Status)

	if spec.Expect.Time != "" {
		// already validated
		limit, _ := config.ParseDuration(spec.Expect.Time)
		b.Time(limit)
	}

	params := b.Params()
	step := StepResult{
		Name:   spec.Name,
		Method: params.Method,
		URI:    params.URI,
	}

	start := time.Now()
	b.End(ctx, func(result any, err error) {
		step.Result = result
		if err != nil {
			step.Err = &StepError{Stage: stageOf(err), Err: err}
		}
	})
	step.Duration = time.Since(start)

	if step.Err != nil {
		logger.Debug("step failed", zap.String("step", spec.Name), zap.Error(step.Err))
		return step
	}

	if err := checkSchema(suite, spec, step.Result); err != nil {
		step.Err = &StepError{Stage: StageSchema, Err: err}
		return step
	}

	if len(spec.Extract) > 0 {
		values, err := jsonpath.ExtractAll(document(step.Result), spec.Extract)
		step.Extracted = values
		if err != nil {
			step.Err = &StepError{Stage: StageExtract, Err: err}
		}
	}

	return step
}

func stageOf(err error) Stage {
	var expErr *builder.ExpectationError
	var decErr *builder.DecodeError
	switch {
	case errors.As(err, &expErr):
		return StageExpect
	case errors.As(err, &decErr):
		return StageDecode
	default:
		return StageTransport
	}
}

func checkSchema(suite *config.Suite, spec config.RequestSpec, result any) error {
	text, err := suite.SchemaText(spec)
	if err != nil || text == "" {
		return err
	}
	return jsonschema.Validate(document(result), text)
}

// document renders a result as JSON text for path and schema evaluation.
func document(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	data, err := json.Marshal(result)
	if err != nil {
		return ""
	}
	return string(data)
}
