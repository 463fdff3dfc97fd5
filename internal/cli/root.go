package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/chainreq/internal/logging"
)

var version = "0.1.0"

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	logLevel  string
	logFormat string
	noColor   bool

	logger *zap.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:     "chainreq",
		Short:   "Fire an HTTP request and check what comes back",
		Version: version,
		Long: `chainreq builds a single HTTP request from flags or a suite file, sends it,
and checks the response status code and response time against what you expect.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(opts.logLevel, logging.Format(opts.logFormat))
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", string(logging.FormatConsole), "Log format (console or json)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newVerbCmd("GET", opts))
	root.AddCommand(newVerbCmd("POST", opts))
	root.AddCommand(newVerbCmd("PUT", opts))
	root.AddCommand(newVerbCmd("DELETE", opts))
	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newBenchCmd(opts))

	return root
}

// Execute runs the command tree against os.Args.
// This is called by main.main(). It only needs to happen once.
func Execute() error {
	return NewRootCmd().Execute()
}
