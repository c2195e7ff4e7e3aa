package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gasket/pkg/errors"
	"github.com/matzehuels/gasket/pkg/geom"
	"github.com/matzehuels/gasket/pkg/pipeline"
)

// defaultOutput is the base path used when -o is not given.
const defaultOutput = "gasket"

// generateFlags holds the raw command-line flags of the generate command.
// Config values fill every flag the user did not set.
type generateFlags struct {
	points     string
	seed       uint64
	radius     float64
	depth      int
	policy     string
	formats    string
	output     string
	attempts   int
	maxCircles int
	detailed   bool
	noCache    bool
	refresh    bool
	save       bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an Apollonian gasket",
		Long: `Generate an Apollonian gasket.

The three base circles are derived from seed points: the centers of three
mutually tangent circles. Give them explicitly with --points, or let gasket
draw random points with --seed and --radius (retrying degenerate draws up
to --attempts times).

Output formats:
  json  the full circle and tangency document (default)
  dot   the tangency graph as Graphviz DOT

With a single format, -o names the output file ("-" for stdout). With
several, -o is a base path and each format gets its own extension.

Results are cached, so repeating a generation is instant.`,
		Example: `  gasket generate --points "0,0;6,0;2,5" --depth 5
  gasket generate --seed 7 --policy both --depth 3 -f json,dot -o out/g
  gasket generate --depth 2 -f dot -o - | dot -Tsvg > gasket.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.generateOptions(cmd, f)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), opts, f)
		},
	}

	cmd.Flags().StringVar(&f.points, "points", "", `three seed points "x,y;x,y;x,y"`)
	cmd.Flags().Uint64Var(&f.seed, "seed", pipeline.DefaultSeed, "RNG seed for random seed points")
	cmd.Flags().Float64Var(&f.radius, "radius", pipeline.DefaultRadius, "half-width of the square random points are drawn from")
	cmd.Flags().IntVarP(&f.depth, "depth", "d", 0, "recursion depth (default from config)")
	cmd.Flags().StringVarP(&f.policy, "policy", "p", "", "which Descartes solutions to keep: outer (default), both, reflect")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): json (default), dot (comma-separated)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", `output file (single format) or base path (multiple), "-" for stdout`)
	cmd.Flags().IntVar(&f.attempts, "attempts", 0, "random seed draws before giving up")
	cmd.Flags().IntVar(&f.maxCircles, "max-circles", 0, "abort when the gasket would exceed this many circles")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "add center coordinates to DOT labels")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "regenerate even when cached")
	cmd.Flags().BoolVar(&f.save, "save", false, "save the run to the run store")

	cmd.MarkFlagsMutuallyExclusive("points", "seed")
	cmd.MarkFlagsMutuallyExclusive("points", "radius")

	return cmd
}

// generateOptions merges flags over the loaded config.
func (c *CLI) generateOptions(cmd *cobra.Command, f generateFlags) (pipeline.Options, error) {
	d := c.Config.Generate
	changed := cmd.Flags().Changed

	opts := pipeline.Options{
		MaxDepth:   d.Depth,
		Policy:     d.Policy,
		Attempts:   d.Attempts,
		MaxCircles: d.MaxCircles,
		Formats:    d.Formats,
		Detailed:   f.detailed,
		Refresh:    f.refresh,
		Logger:     c.Logger,
	}
	if changed("depth") {
		opts.MaxDepth = f.depth
	}
	if changed("policy") {
		opts.Policy = f.policy
	}
	if changed("attempts") {
		opts.Attempts = f.attempts
	}
	if changed("max-circles") {
		opts.MaxCircles = f.maxCircles
	}
	if changed("format") {
		opts.Formats = pipeline.ParseFormats(f.formats)
	}
	if f.output == "-" && len(opts.Formats) > 1 {
		return opts, errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one format, got %d", len(opts.Formats))
	}

	if f.points != "" {
		pts, err := parsePoints(f.points)
		if err != nil {
			return opts, err
		}
		opts.Points = pts
		return opts, nil
	}

	if err := errors.ValidateRNGSeed(f.seed); err != nil {
		return opts, err
	}
	opts.Random = true
	opts.Seed = f.seed
	opts.Radius = d.Radius
	if changed("radius") || opts.Radius == 0 {
		opts.Radius = f.radius
	}
	return opts, nil
}

// parsePoints parses "x,y;x,y;x,y" into exactly three points.
func parsePoints(s string) ([]geom.Point, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 3 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "expected 3 points separated by ';', got %d", len(parts))
	}
	pts := make([]geom.Point, 0, 3)
	for _, part := range parts {
		xy := strings.Split(part, ",")
		if len(xy) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid point %q: want x,y", strings.TrimSpace(part))
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if errX != nil || errY != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid point %q: coordinates must be numbers", strings.TrimSpace(part))
		}
		pts = append(pts, geom.Point{X: x, Y: y})
	}
	return pts, nil
}

// runGenerate executes the pipeline, writes the artifacts and optionally
// saves the run.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, f generateFlags) error {
	logger := loggerFromContext(ctx)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	toStdout := f.output == "-"
	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, "Generating gasket...")
		spinner.Start()
	}

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, opts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Generation failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}
	prog.donef("Generated %d circles", res.Stats.Circles)

	if f.save {
		if err := c.saveRun(ctx, res); err != nil {
			return err
		}
		logger.Info("Saved run", "id", res.ID)
	}

	if toStdout {
		_, err := os.Stdout.Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, f.output)
	if err != nil {
		return err
	}

	printSuccess("Gasket generated")
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.Circles, res.Stats.Tangencies, res.CacheInfo.GenerateHit)
	if res.Stats.Retries > 0 {
		printDetail("%d degenerate seed(s) redrawn", res.Stats.Retries)
	}

	if slices.Contains(opts.Formats, pipeline.FormatJSON) {
		printNewline()
		printNextStep("Inspect", "gasket inspect "+artifactPath(f.output, pipeline.FormatJSON, len(opts.Formats)))
	}
	return nil
}

func (c *CLI) saveRun(ctx context.Context, res *pipeline.Result) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Save(ctx, res.Run()); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// writeArtifacts writes each format's bytes to its output path and returns
// the paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return nil, fmt.Errorf("missing %s artifact", format)
		}
		path := artifactPath(output, format, len(formats))
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactPath derives the file for format. A single format writes to
// output as given; several formats treat output as a base path. A known
// format extension on the base path is stripped first.
func artifactPath(output, format string, count int) string {
	if output == "" {
		output = defaultOutput
	} else if count == 1 {
		return output
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		output = strings.TrimSuffix(output, ext)
	}
	return output + "." + format
}
