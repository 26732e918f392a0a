// Package cli provides the command-line interface for colorpal.
package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/colorpal/internal/version"
)

// globalOptions holds the persistent flags shared by all commands.
type globalOptions struct {
	verbose  bool
	quiet    bool
	logLevel string
	logJSON  bool
}

// NewRootCmd builds the colorpal command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "colorpal",
		Short: "Extract the dominant colours of an image",
		Long: `colorpal extracts the dominant colours of an image with k-means clustering
and presents them as hex and RGB swatches.

Run it as a web page where images are uploaded from the browser, or use the
extract command to print a palette for a local file.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))

	return rootCmd
}

// logger builds the command's logger. Explicit flags win over the given
// defaults; --verbose and --quiet win over --log-level.
func (o *globalOptions) logger(cmd *cobra.Command, defaultLevel string, defaultJSON bool) hclog.Logger {
	level := defaultLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	switch {
	case o.verbose:
		level = "debug"
	case o.quiet:
		level = "error"
	}

	jsonFormat := defaultJSON
	if cmd.Flags().Changed("log-json") {
		jsonFormat = o.logJSON
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "colorpal",
		Level:      hclog.LevelFromString(level),
		Output:     cmd.ErrOrStderr(),
		JSONFormat: jsonFormat,
		Color:      hclog.AutoColor,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
