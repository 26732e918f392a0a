package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/colorpal/internal/colour"
	"github.com/jmylchreest/colorpal/internal/config"
	"github.com/jmylchreest/colorpal/internal/web"
)

// serveOptions holds the serve command flags. They override the
// environment only when set explicitly.
type serveOptions struct {
	addr           string
	colours        int
	algorithm      string
	seed           int64
	maxSamples     int
	maxUploadBytes int64
	allowedOrigins []string
}

func newServeCmd(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the palette web page",
		Long: `Run the Dominant Color Picker web page and its JSON API.

Configuration is read from a .env file, then COLORPAL_* environment
variables, then the flags below.

Endpoints:
  GET  /                      upload page
  POST /                      upload page with the extracted palette
  POST /api/v1/palette        palette as JSON
  POST /api/v1/swatches.png   palette as a labelled PNG strip
  GET  /healthz               health check
  GET  /version               build information`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, global, opts)
		},
	}

	opts.bind(cmd.Flags())

	return cmd
}

func (o *serveOptions) bind(flags *pflag.FlagSet) {
	defaults := config.Default()
	flags.StringVar(&o.addr, "addr", defaults.Addr, "listen address")
	flags.IntVarP(&o.colours, "colours", "c", defaults.Colours, "default number of colours per palette")
	flags.StringVarP(&o.algorithm, "algorithm", "a", string(defaults.Algorithm), fmt.Sprintf("extraction algorithm %v", colour.ValidAlgorithms()))
	flags.Int64Var(&o.seed, "seed", defaults.Seed, "random seed for the kmeans algorithm")
	flags.IntVar(&o.maxSamples, "max-samples", defaults.MaxSamples, "maximum pixels to cluster per image (0 = every pixel)")
	flags.Int64Var(&o.maxUploadBytes, "max-upload-bytes", defaults.MaxUploadBytes, "maximum upload size in bytes")
	flags.StringSliceVar(&o.allowedOrigins, "allowed-origins", defaults.AllowedOrigins, "origins allowed to call the API")
}

func runServe(cmd *cobra.Command, global *globalOptions, opts *serveOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyServeFlags(cmd.Flags(), opts, &cfg)

	logger := global.logger(cmd, cfg.LogLevel, cfg.LogJSON)

	app, err := web.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Serve(ctx)
}

// applyServeFlags copies explicitly set flags over the loaded configuration.
func applyServeFlags(flags *pflag.FlagSet, opts *serveOptions, cfg *config.Config) {
	if flags.Changed("addr") {
		cfg.Addr = opts.addr
	}
	if flags.Changed("colours") {
		cfg.Colours = opts.colours
	}
	if flags.Changed("algorithm") {
		cfg.Algorithm = colour.Algorithm(opts.algorithm)
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("max-samples") {
		cfg.MaxSamples = opts.maxSamples
	}
	if flags.Changed("max-upload-bytes") {
		cfg.MaxUploadBytes = opts.maxUploadBytes
	}
	if flags.Changed("allowed-origins") {
		cfg.AllowedOrigins = opts.allowedOrigins
	}
}
