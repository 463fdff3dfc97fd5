package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/chainreq/config"
	"github.com/wesleyorama2/chainreq/http"
	"github.com/wesleyorama2/chainreq/internal/output"
	"github.com/wesleyorama2/chainreq/internal/runner"
)

type runOptions struct {
	file      string
	watch     bool
	format    string
	failFast  bool
	requestID bool
	verbose   bool
}

func newRunCmd(g *globalOptions) *cobra.Command {
	o := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every request in a suite file",
		Long: `Run the requests of a YAML or JSON suite file in order, checking the status code,
response time and schema expectations of each one. Values extracted from one
response are available to later requests as {{name}}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRun(cmd, o, g)
		},
	}

	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Path to the suite file")
	cmd.Flags().BoolVar(&o.watch, "watch", false, "Re-run the suite whenever the file changes")
	cmd.Flags().StringVar(&o.format, "format", string(output.FormatText), "Output format (text or json)")
	cmd.Flags().BoolVar(&o.failFast, "fail-fast", false, "Skip remaining requests after the first failure")
	cmd.Flags().BoolVar(&o.requestID, "request-id", false, "Send a generated X-Request-ID header")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.MarkFlagRequired("file")

	return cmd
}

func executeRun(cmd *cobra.Command, o *runOptions, g *globalOptions) error {
	format, err := output.ParseFormat(o.format)
	if err != nil {
		return err
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(g.logger),
		runner.WithFailFast(o.failFast),
	}
	if o.requestID {
		runnerOpts = append(runnerOpts, runner.WithClientOptions(http.WithRequestID("X-Request-ID")))
	}
	r := runner.New(runnerOpts...)

	out := cmd.OutOrStdout()
	formatter := output.NewFormatter(o.verbose, output.ColorDisabled(out, g.noColor))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !o.watch {
		return runOnce(ctx, r, o.file, format, formatter, out)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runOnce(ctx, r, o.file, format, formatter, out); err != nil {
		g.logger.Warn("suite run failed", zap.Error(err))
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", o.file)

	return runner.Watch(ctx, o.file, func() {
		g.logger.Info("suite file changed", zap.String("file", o.file))
		if err := runOnce(ctx, r, o.file, format, formatter, out); err != nil {
			g.logger.Warn("suite run failed", zap.Error(err))
		}
	})
}

// runOnce loads and runs the suite, printing the report in the chosen format.
// It returns an error when the suite cannot run or any request failed.
func runOnce(ctx context.Context, r *runner.Runner, path string, format output.OutputFormat, formatter *output.Formatter, out io.Writer) error {
	suite, err := config.LoadSuite(path)
	if err != nil {
		return err
	}

	report, err := r.Run(ctx, suite)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		text, err := output.FormatReportJSON(report, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
	default:
		fmt.Fprint(out, formatter.FormatReport(report))
	}

	if !report.OK() {
		return fmt.Errorf("%d of %d requests failed", report.Failed(), len(report.Steps))
	}
	return nil
}
