package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/chainreq/builder"
	"github.com/wesleyorama2/chainreq/http"
	"github.com/wesleyorama2/chainreq/internal/bench"
	"github.com/wesleyorama2/chainreq/internal/output"
)

type benchOptions struct {
	requestOptions
	method string
	count  int
	rps    float64
}

func newBenchCmd(g *globalOptions) *cobra.Command {
	o := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench URL",
		Short: "Send the same request repeatedly and summarize latency",
		Long: `Send the same request COUNT times, one after another, optionally paced to a
request rate. Every iteration checks the status code and response time
expectations, and the summary reports failures and latency percentiles.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBench(cmd, args[0], o, g)
		},
	}

	addRequestFlags(cmd, &o.requestOptions)
	cmd.Flags().StringVarP(&o.method, "method", "X", "GET", "HTTP method (GET, POST, PUT, DELETE)")
	cmd.Flags().IntVarP(&o.count, "count", "n", 10, "Number of requests to send")
	cmd.Flags().Float64Var(&o.rps, "rps", 0, "Requests per second limit (0 for no limit)")

	return cmd
}

func executeBench(cmd *cobra.Command, rawURL string, o *benchOptions, g *globalOptions) error {
	method := strings.ToUpper(o.method)
	switch method {
	case "GET", "POST", "PUT", "DELETE":
	default:
		return fmt.Errorf("unsupported method %q", o.method)
	}

	form, headers, err := o.parse()
	if err != nil {
		return err
	}

	baseURL, path := parseURL(rawURL)
	// One client for the whole run so connections are reused.
	client := http.NewClient(o.clientOptions(g)...)

	factory := func() *builder.Builder {
		b := builder.New(baseURL,
			builder.WithTransport(client),
			builder.WithLogger(g.logger),
			builder.WithFailureMode(builder.FailRecoverable),
		)
		applyVerb(b, method, path)
		o.applyParsed(b, form, headers)
		return b
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	summary, err := bench.Run(ctx, bench.Config{
		Count:  o.count,
		RPS:    o.rps,
		Logger: g.logger,
	}, factory)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	formatter := output.NewFormatter(o.verbose, output.ColorDisabled(out, g.noColor))
	fmt.Fprint(out, formatter.FormatSummary(summary))

	if summary.Failures > 0 {
		return fmt.Errorf("%d of %d requests failed", summary.Failures, summary.Count)
	}
	return nil
}
