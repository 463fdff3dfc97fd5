package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/chainreq/builder"
	"github.com/wesleyorama2/chainreq/http"
	"github.com/wesleyorama2/chainreq/internal/output"
)

func newVerbCmd(method string, g *globalOptions) *cobra.Command {
	o := &requestOptions{}

	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " URL [SUFFIX...]",
		Short: fmt.Sprintf("Make a %s request to the specified URL", method),
		Long: fmt.Sprintf(`Make a %s request. Extra SUFFIX arguments are appended to the URL
in order, exactly as given.`, method),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeRequest(cmd, method, args, o, g)
		},
	}
	addRequestFlags(cmd, o)
	return cmd
}

func executeRequest(cmd *cobra.Command, method string, args []string, o *requestOptions, g *globalOptions) error {
	baseURL, path := parseURL(args[0])

	client := http.NewClient(o.clientOptions(g)...)
	var resp *http.Response
	capture := builder.TransportFunc(func(ctx context.Context, params http.Params) (*http.Response, error) {
		r, err := client.Send(ctx, params)
		resp = r
		return r, err
	})

	b := builder.New(baseURL,
		builder.WithTransport(capture),
		builder.WithLogger(g.logger),
		builder.WithFailureMode(builder.FailRecoverable),
	)
	for _, suffix := range append([]string{path}, args[1:]...) {
		applyVerb(b, method, suffix)
	}
	if err := o.apply(b); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	formatter := output.NewFormatter(o.verbose, output.ColorDisabled(out, g.noColor))
	fmt.Fprint(out, formatter.FormatParams(b.Params()))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var failed error
	b.End(ctx, func(result any, err error) {
		if resp != nil {
			fmt.Fprint(out, formatter.FormatResponse(resp))
		}
		fmt.Fprint(out, formatter.FormatResult(result, err))
		failed = err
	})
	if failed != nil {
		return fmt.Errorf("request failed: %w", failed)
	}
	return nil
}
