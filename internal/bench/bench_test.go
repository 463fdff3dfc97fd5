package bench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/chainreq/builder"
	"github.com/wesleyorama2/chainreq/http"
)

func factory(transport builder.TransportFunc, status int) Factory {
	return func() *builder.Builder {
		return builder.New("http://bench.test",
			builder.WithTransport(transport),
			builder.WithFailureMode(builder.FailRecoverable),
		).Get("/").Expect(status)
	}
}

func TestRun_CountsAndPercentiles(t *testing.T) {
	calls := 0
	transport := builder.TransportFunc(func(ctx context.Context, p http.Params) (*http.Response, error) {
		calls++
		time.Sleep(time.Millisecond)
		switch {
		case calls%5 == 0:
			return nil, errors.New("reset by peer")
		case calls%4 == 0:
			return http.NewResponse(500, ""), nil
		}
		return http.NewResponse(200, "ok"), nil
	})

	summary, err := Run(context.Background(), Config{Count: 20}, factory(transport, 200))
	require.NoError(t, err)

	assert.Equal(t, 20, calls)
	assert.Equal(t, 20, summary.Count)
	assert.Equal(t, 4, summary.Transport)
	assert.Equal(t, 4, summary.Expectation)
	assert.Equal(t, 8, summary.Failures)

	assert.GreaterOrEqual(t, summary.Min, time.Millisecond)
	assert.LessOrEqual(t, summary.Min, summary.P50)
	assert.LessOrEqual(t, summary.P50, summary.P90)
	assert.LessOrEqual(t, summary.P90, summary.P99)
	assert.LessOrEqual(t, summary.P99, summary.Max)
	assert.Greater(t, summary.Throughput(), 0.0)
}

func TestRun_RateLimited(t *testing.T) {
	transport := builder.TransportFunc(func(ctx context.Context, p http.Params) (*http.Response, error) {
		return http.NewResponse(200, ""), nil
	})

	start := time.Now()
	summary, err := Run(context.Background(), Config{Count: 5, RPS: 50}, factory(transport, 200))
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Count)
	// burst of one, then 20ms apart
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	transport := builder.TransportFunc(func(ctx context.Context, p http.Params) (*http.Response, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return http.NewResponse(200, ""), nil
	})

	summary, err := Run(ctx, Config{Count: 10}, factory(transport, 200))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
}

func TestRun_InvalidConfig(t *testing.T) {
	_, err := Run(context.Background(), Config{Count: 0}, nil)
	assert.Error(t, err)

	_, err = Run(context.Background(), Config{Count: 1, RPS: -1}, nil)
	assert.Error(t, err)
}

func TestSummary_Throughput(t *testing.T) {
	assert.Equal(t, 0.0, Summary{Count: 3}.Throughput())
	assert.Equal(t, 10.0, Summary{Count: 5, Elapsed: 500 * time.Millisecond}.Throughput())
}
