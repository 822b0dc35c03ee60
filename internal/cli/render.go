package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deckfit/pkg/content"
	"github.com/matzehuels/deckfit/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file (single format) or base path (several)
	formats    string // comma separated output formats
	deckFormat string // deck format when reading stdin
	noCache    bool
}

// renderCommand creates the render command for fitting and rendering a deck.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render <deck.json|deck.toml|deck.yaml|->",
		Short: "Fit a deck and render it to JSON, JS, SVG or PNG",
		Long: `Fit a deck and render it.

The deck is laid out with the grid for its card count, the main title and
card titles are shrunk until they fit, and the slide is scaled down when it
is taller than the viewport. The result is written in each requested format:

  json  fit report, descriptor and final styles
  js    standalone script doing the same fitting in a browser
  svg   wireframe preview of the fitted slide
  png   raster preview (optionally a thumbnail)

With --verify the standalone script is also executed against the slide and
must reproduce the native result exactly.`,
		Example: `  deckfit render deck.json -f svg,js
  deckfit render deck.yaml --skin aurora -f png --thumbnail 480 -o preview.png
  cat deck.json | deckfit render - -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = pipeline.ParseFormats(flags.formats)
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", pipeline.FormatSVG, "output format(s): json, js, svg, png (comma-separated)")
	cmd.Flags().StringVar(&flags.deckFormat, "deck-format", "", "deck format when reading stdin: json (default), toml, yaml")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	cmd.Flags().StringVarP(&opts.Skin, "skin", "s", "", "skin name (default: paper)")
	c.registerSkinCompletion(cmd)
	cmd.Flags().StringVar(&opts.Measurer, "measurer", pipeline.MeasurerHeuristic, "text measurer: heuristic, face")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "execute the standalone script and compare with the native fit")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached frames and artifacts")
	cmd.Flags().BoolVar(&opts.Boxes, "boxes", false, "include laid-out boxes in JSON output")
	cmd.Flags().BoolVar(&opts.Outlines, "outlines", false, "draw layout outlines in SVG/PNG")
	cmd.Flags().BoolVar(&opts.EmbedFont, "embed-font", false, "embed the font in SVG output")
	cmd.Flags().IntVar(&opts.Thumbnail, "thumbnail", 0, "PNG width in pixels (0 = full size)")

	return cmd
}

// runRender loads the deck, runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderOpts) error {
	logger := loggerFromContext(ctx)

	deck, err := pipeline.ReadDeck(input, content.Format(flags.deckFormat), os.Stdin)
	if err != nil {
		return err
	}
	logger.Debug("loaded deck", "title", deck.MainTitle, "cards", deck.N())

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Deck = deck
	opts.Logger = logger

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fitting %d cards...", deck.N()))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Fitted %d cards into %s", deck.N(), strings.Join(sortedFormats(result.Artifacts), ", ")))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(flags.output, input, result.Artifacts)
	toStdout := flags.output == "-"
	for _, format := range sortedFormats(result.Artifacts) {
		if err := writeOutput(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}
	if toStdout {
		return nil
	}

	printSuccess("Rendered %s", deck.MainTitle)
	for _, format := range sortedFormats(result.Artifacts) {
		printFile(paths[format])
	}
	printStats(summary(result), result.CacheInfo.FrameHit && result.CacheInfo.RenderHit)
	if opts.Verify {
		printDetail("script verified in %s", result.Stats.VerifyTime.Round(time.Microsecond))
	}
	return nil
}

// summary describes a result for printStats.
func summary(r *pipeline.Result) []string {
	d := r.Descriptor
	parts := []string{
		fmt.Sprintf("%d cards", d.CardCount),
		fmt.Sprintf("%d×%d", d.Columns, d.Rows),
		r.Skin,
	}
	if r.Report.Skipped {
		return append(parts, StyleWarning.Render("not fitted"))
	}
	if t := r.Report.Title; t != nil {
		title := fmt.Sprintf("title %gpx", t.FontSize)
		if !t.Fits {
			title = StyleWarn.Render(title + " (overflows)")
		}
		parts = append(parts, title)
	}
	if v := r.Report.Viewport; v != nil && v.Applied {
		parts = append(parts, fmt.Sprintf("scale %.3f", v.Scale))
	}
	return parts
}

// outputPaths assigns a file to each artifact. A single artifact goes to
// output as given; several share output (minus a known extension) as base.
// "-" writes to stdout.
func outputPaths(output, input string, artifacts map[string][]byte) map[string]string {
	paths := make(map[string]string, len(artifacts))
	if output == "-" {
		for f := range artifacts {
			paths[f] = "-"
		}
		return paths
	}
	if len(artifacts) == 1 && output != "" {
		for f := range artifacts {
			paths[f] = output
		}
		return paths
	}
	base := basePath(output, input)
	for f := range artifacts {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input ("deck" for stdin).
// If output has a format extension (.svg, .js, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == pipeline.Stdin {
			return "deck"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func sortedFormats(artifacts map[string][]byte) []string {
	out := make([]string, 0, len(artifacts))
	for f := range artifacts {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
