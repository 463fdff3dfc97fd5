package builder

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/wesleyorama2/chainreq/http"
)

// Transport performs the network round trip for a Builder.
// A returned error means no response was produced.
type Transport interface {
	Send(ctx context.Context, params http.Params) (*http.Response, error)
}

// TransportFunc adapts a plain function to the Transport interface.
type TransportFunc func(ctx context.Context, params http.Params) (*http.Response, error)

// Send calls f(ctx, params).
func (f TransportFunc) Send(ctx context.Context, params http.Params) (*http.Response, error) {
	return f(ctx, params)
}

// Callback receives the outcome of End exactly once: either a shaped result
// with a nil error, or a nil result with the error.
type Callback func(result any, err error)

// FailureMode controls how expectation violations surface.
type FailureMode int

const (
	// FailFatal panics with the *ExpectationError before the callback runs.
	FailFatal FailureMode = iota

	// FailRecoverable passes the *ExpectationError to the callback.
	FailRecoverable
)

// Builder accumulates one request and its expectations.
// A Builder is not safe for concurrent use and is spent after End.
type Builder struct {
	params  http.Params
	expects Expectations

	transport Transport
	logger    *zap.Logger
	now       func() time.Time
	mode      FailureMode
}

// Option configures a Builder.
type Option func(*Builder)

// WithTransport sets the transport used by End.
func WithTransport(t Transport) Option {
	return func(b *Builder) {
		b.transport = t
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithClock replaces time.Now for deadline bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithFailureMode selects how expectation violations are reported.
func WithFailureMode(mode FailureMode) Option {
	return func(b *Builder) {
		b.mode = mode
	}
}

// New creates a Builder whose URI starts as baseURI and whose method is GET.
//
// Example:
//
//	builder.New("https://api.example.com").
//	    Post("/users").
//	    Body(builder.Form{"name": "alice"}).
//	    Expect(201).
//	    Time(500 * time.Millisecond).
//	    End(ctx, func(result any, err error) { ... })
func New(baseURI string, opts ...Option) *Builder {
	b := &Builder{
		params: http.Params{
			URI:    baseURI,
			Method: "GET",
		},
		logger: zap.NewNop(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.transport == nil {
		b.transport = http.NewClient(http.WithLogger(b.logger))
	}

	return b
}

// Get appends uri to the request URI when non-empty and sets the method to GET.
func (b *Builder) Get(uri string) *Builder {
	return b.verb("GET", uri)
}

// Post appends uri to the request URI when non-empty and sets the method to POST.
func (b *Builder) Post(uri string) *Builder {
	return b.verb("POST", uri)
}

// Put appends uri to the request URI when non-empty and sets the method to PUT.
func (b *Builder) Put(uri string) *Builder {
	return b.verb("PUT", uri)
}

// Del appends uri to the request URI when non-empty and sets the method to DELETE.
func (b *Builder) Del(uri string) *Builder {
	return b.verb("DELETE", uri)
}

func (b *Builder) verb(method, uri string) *Builder {
	if uri != "" {
		b.params.URI += uri
	}
	b.params.Method = method
	return b
}

// Body sets a URL-encoded form body and replaces the headers with
// Content-Type and Content-Length for it. A nil payload is ignored; an empty
// non-nil payload still sets an empty body.
func (b *Builder) Body(payload Form) *Builder {
	if payload == nil {
		return b
	}
	b.params.Body = payload.Encode()
	b.params.Headers = map[string]string{
		"Content-Type":   "application/x-www-form-urlencoded",
		"Content-Length": strconv.Itoa(len(b.params.Body)),
	}
	return b
}

// Headers replaces the whole header set, including any set by Body.
// A nil map is ignored.
func (b *Builder) Headers(headers map[string]string) *Builder {
	if headers == nil {
		return b
	}
	b.params.Headers = headers
	return b
}

// Expect records the status code the response must carry. Zero is ignored.
func (b *Builder) Expect(status int) *Builder {
	if status == 0 {
		return b
	}
	b.expects.Status = &status
	return b
}

// Time records a response deadline of now plus limit. The clock starts here,
// so time spent before End counts against the allowance. Zero is ignored.
func (b *Builder) Time(limit time.Duration) *Builder {
	if limit == 0 {
		return b
	}
	deadline := b.now().Add(limit)
	b.expects.Deadline = &deadline
	return b
}

// Params returns a copy of the accumulated request parameters.
func (b *Builder) Params() http.Params {
	return b.params.Clone()
}

// Expectations returns the recorded expectations.
func (b *Builder) Expectations() Expectations {
	return b.expects
}

// End sends the request and reports the outcome to cb. End returns once
// cb has run. Transport errors reach cb as (nil, err) and skip all checks.
// Expectation violations panic under FailFatal, which is the default.
func (b *Builder) End(ctx context.Context, cb Callback) {
	if cb == nil {
		cb = func(any, error) {}
	}

	logger := b.logger.With(
		zap.String("method", b.params.Method),
		zap.String("uri", b.params.URI),
	)
	logger.Debug("dispatching request")

	resp, err := b.transport.Send(ctx, b.params)
	if err != nil {
		logger.Warn("transport failed", zap.Error(err))
		cb(nil, err)
		return
	}

	if err := b.expects.check(resp.StatusCode, b.now()); err != nil {
		var expErr *ExpectationError
		if errors.As(err, &expErr) {
			logger.Error("expectation failed",
				zap.String("kind", string(expErr.Kind)),
				zap.String("detail", expErr.Detail()),
			)
		}
		if b.mode == FailFatal {
			panic(err)
		}
		cb(nil, err)
		return
	}

	result, err := shape(resp.Body)
	if err != nil {
		logger.Warn("response body not decodable", zap.Error(err))
		cb(nil, err)
		return
	}

	logger.Debug("request completed", zap.Int("status", resp.StatusCode))
	cb(result, nil)
}

// Do is End for callers that prefer a returned result.
func (b *Builder) Do(ctx context.Context) (any, error) {
	var (
		result any
		err    error
	)
	b.End(ctx, func(r any, e error) {
		result, err = r, e
	})
	return result, err
}
