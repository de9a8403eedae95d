// Package cmd implements the stage CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/stage/pkg/errors"
	"github.com/go-drift/stage/pkg/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// NewRootCommand builds the stage command tree.
func NewRootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "stage",
		Short: "Validate stage.yaml and simulate pool and surface scripts",
		Long: `stage checks the pool and surface declarations in a project's
stage.yaml and replays scripted open/close/get/return steps against a
headless host, printing the resulting pool counters and surface stack.`,
		Version:       Version + " (built " + BuildTime + ")",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.SetLogger(zap.Must(zap.NewDevelopment()))
				errors.SetHandler(&errors.LogHandler{Verbose: true})
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and error stack traces")

	root.AddCommand(newValidateCommand())
	root.AddCommand(newSimulateCommand())
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
