// Command docviz turns document-analysis JSON into an interactive overlay
// viewer or a native export.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/docviz"
	"github.com/tsawler/docviz/model"
	"github.com/tsawler/docviz/raster"
)

var (
	outPath     string
	pdfPath     string
	scale       float64
	noFurniture bool
	typeNames   []string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "docviz",
	Short: "Visualize document-analysis JSON as layout overlays",
	Long: `docviz parses document-analysis JSON into a normalized page model and
renders it for inspection. The overlay mode produces a standalone HTML
viewer with bounding boxes drawn over rasterized page images; the native
mode delegates to an external export backend.`,
	SilenceUsage: true,
}

var overlayCmd = &cobra.Command{
	Use:   "overlay <analysis.json>",
	Short: "Render an interactive HTML overlay viewer",
	Args:  cobra.ExactArgs(1),
	RunE:  runOverlay,
}

var nativeCmd = &cobra.Command{
	Use:   "native <analysis.json>",
	Short: "Render through the native export backend",
	Args:  cobra.ExactArgs(1),
	RunE:  runNative,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "output file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	overlayCmd.Flags().StringVar(&pdfPath, "pdf", "", "source PDF for page backgrounds (default: discover next to the JSON)")
	overlayCmd.Flags().Float64Var(&scale, "scale", 2.0, "render scale for page images")
	overlayCmd.Flags().BoolVar(&noFurniture, "no-furniture", false, "hide headers, footers, and page numbers")
	overlayCmd.Flags().StringSliceVar(&typeNames, "types", nil, "only show the listed element types (text,heading,table,picture,list,furniture)")

	rootCmd.AddCommand(overlayCmd)
	rootCmd.AddCommand(nativeCmd)
}

func newLogger() zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

// parseTypes resolves the --types flag against the known categories.
func parseTypes(names []string) ([]model.Category, error) {
	if len(names) == 0 {
		return nil, nil
	}
	known := make(map[string]model.Category)
	for _, c := range model.Categories() {
		known[string(c)] = c
	}
	var categories []model.Category
	for _, name := range names {
		c, ok := known[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown element type %q", name)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func defaultOut(jsonPath, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(jsonPath), filepath.Ext(jsonPath))
	return filepath.Join(filepath.Dir(jsonPath), base+suffix)
}

func reportWarnings(warnings []docviz.Warning) {
	if len(warnings) > 0 {
		fmt.Fprintln(os.Stderr, docviz.FormatWarnings(warnings))
	}
}

func runOverlay(cmd *cobra.Command, args []string) error {
	jsonPath := args[0]
	out := outPath
	if out == "" {
		out = defaultOut(jsonPath, "_viewer.html")
	}

	categories, err := parseTypes(typeNames)
	if err != nil {
		return err
	}

	log := newLogger()
	cfg := raster.DefaultConfig()
	cfg.Scale = scale

	v := docviz.Open(jsonPath).
		Scale(scale).
		WithLogger(log).
		WithRasterizer(raster.NewFitzRasterizer(cfg, log))
	if pdfPath != "" {
		v = v.WithPDF(pdfPath)
	}
	if noFurniture {
		v = v.ExcludeFurniture()
	}
	if len(categories) > 0 {
		v = v.Types(categories...)
	}

	warnings, err := v.RenderOverlay(cmd.Context(), out)
	reportWarnings(warnings)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", out)
	return nil
}

func runNative(cmd *cobra.Command, args []string) error {
	jsonPath := args[0]
	out := outPath
	if out == "" {
		out = defaultOut(jsonPath, ".html")
	}

	warnings, err := docviz.Open(jsonPath).
		WithLogger(newLogger()).
		RenderNative(cmd.Context(), out)
	reportWarnings(warnings)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", out)
	return nil
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
