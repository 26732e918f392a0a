package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/colorpal/internal/colour"
	"github.com/jmylchreest/colorpal/internal/image"
)

// extractOptions holds the extract command flags.
type extractOptions struct {
	colours    int
	algorithm  string
	seed       int64
	maxSamples int
	format     string
	output     string
	preview    string
	swatch     string
	swatchSize int
}

func newExtractCmd(global *globalOptions) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <image>",
		Short: "Extract the dominant colours of an image",
		Long: `Extract the dominant colours of an image with k-means clustering.

The palette is printed in clustering order, which is not a ranking by
dominance. With the default algorithm the same image and seed always give
the same palette.

Supported image formats: JPEG, PNG

Examples:
  # Extract 5 colours (default) from an image
  colorpal extract photo.jpg

  # Extract 8 colours as JSON
  colorpal extract --colours 8 --format json photo.png

  # Save a labelled swatch strip next to the printed palette
  colorpal extract --swatch palette.png photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, global, opts, args[0])
		},
	}

	defaults := colour.DefaultExtractorConfig()
	cmd.Flags().IntVarP(&opts.colours, "colours", "c", colour.DefaultColourCount, fmt.Sprintf("number of colours to extract (1-%d)", colour.MaxColourCount))
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", string(defaults.Algorithm), fmt.Sprintf("extraction algorithm %v", colour.ValidAlgorithms()))
	cmd.Flags().Int64Var(&opts.seed, "seed", defaults.Seed, "random seed for the kmeans algorithm")
	cmd.Flags().IntVar(&opts.maxSamples, "max-samples", defaults.MaxSamples, "maximum pixels to cluster (0 = every pixel)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "hex", "output format (hex, rgb, table, json)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.preview, "preview", "auto", "show colour previews (auto, always, never)")
	cmd.Flags().StringVar(&opts.swatch, "swatch", "", "also write a PNG swatch strip to this file")
	cmd.Flags().IntVar(&opts.swatchSize, "swatch-size", colour.DefaultPatchSize, "edge length of each swatch patch in pixels")

	return cmd
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, global *globalOptions, opts *extractOptions, imagePath string) error {
	logger := global.logger(cmd, "warn", false)

	config := colour.DefaultExtractorConfig()
	config.Algorithm = colour.Algorithm(opts.algorithm)
	config.ColorCount = opts.colours
	config.Seed = opts.seed
	config.MaxSamples = opts.maxSamples
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	showPreview, err := previewEnabled(cmd, opts)
	if err != nil {
		return err
	}

	logger.Debug("loading image", "path", imagePath)
	img, err := image.NewFileLoader().Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	extractor, err := colour.NewExtractor(config, logger)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	logger.Debug("extracting colours", "count", opts.colours, "algorithm", opts.algorithm)
	palette, err := extractor.Extract(img, opts.colours)
	if err != nil {
		return fmt.Errorf("failed to extract colors: %w", err)
	}

	output, err := formatPalette(palette, opts.format, showPreview)
	if err != nil {
		return err
	}

	if opts.swatch != "" {
		if err := writeSwatch(opts.swatch, palette, opts.swatchSize); err != nil {
			return err
		}
		logger.Debug("wrote swatch strip", "path", opts.swatch)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(output), 0o644); err != nil { // #nosec G306 - palette files are not secret
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Debug("wrote palette", "path", opts.output)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}

// previewEnabled resolves the --preview flag against the output destination.
func previewEnabled(cmd *cobra.Command, opts *extractOptions) (bool, error) {
	switch opts.preview {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return opts.output == "" && (opts.format == "hex" || opts.format == "rgb") && colour.SupportsANSIColours(cmd.OutOrStdout()), nil
	default:
		return false, fmt.Errorf("invalid preview mode: %s (valid: auto, always, never)", opts.preview)
	}
}

// formatPalette formats the palette according to the specified format.
func formatPalette(palette *colour.Palette, format string, showPreview bool) (string, error) {
	var sb strings.Builder
	switch format {
	case "hex":
		if !showPreview {
			sb.WriteString(strings.Join(palette.Hex(), "\n") + "\n")
			break
		}
		for _, e := range palette.Entries() {
			sb.WriteString(colour.FormatEntry(e, 8) + "\n")
		}
	case "rgb":
		for _, rgb := range palette.ToRGBSlice() {
			if showPreview {
				sb.WriteString(colour.ColourPreview(rgb, 8) + "  ")
			}
			sb.WriteString(rgb.String() + "\n")
		}
	case "table":
		sb.WriteString(paletteTable(palette).Render())
	case "json":
		jsonBytes, err := palette.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		sb.Write(jsonBytes)
		sb.WriteString("\n")
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: hex, rgb, table, json)", format)
	}
	return sb.String(), nil
}

func writeSwatch(path string, palette *colour.Palette, size int) error {
	f, err := os.Create(path) // #nosec G304 - user-specified output path
	if err != nil {
		return fmt.Errorf("failed to create swatch file: %w", err)
	}
	if err := image.EncodePNG(f, colour.RenderStrip(palette, size)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write swatch file: %w", err)
	}
	return f.Close()
}
