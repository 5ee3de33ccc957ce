package main

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"screen-annotate/src/annotate"
	"screen-annotate/src/clipboard"
	"screen-annotate/src/config"
	"screen-annotate/src/geometry"
	"screen-annotate/src/screenshot"
	"screen-annotate/src/storage"
)

type snapOptions struct {
	full       bool
	region     string
	outDir     string
	scope      string
	lines      []string
	arrows     []string
	copyImage  bool
	jsonOutput bool
	verbose    bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"snap"}
	}

	opts := &snapOptions{}
	cmd := newRootCmd(opts, os.Stdout)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *snapOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "snap",
		Short:         "Grab the screen, optionally draw on it, and save a PNG",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts, screenshot.NewDisplayGrabber(screenshot.ParseScope(opts.scope)), out)
		},
	}

	cmd.Flags().BoolVar(&opts.full, "full", false, "Capture the whole screen")
	cmd.Flags().StringVar(&opts.region, "region", "", "Capture a region given as x,y,w,h")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "Folder for the PNG (overrides SAVE_DIR)")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "Display scope: primary or virtual")
	cmd.Flags().StringArrayVar(&opts.lines, "line", nil, "Draw a line x1,y1,x2,y2 (repeatable)")
	cmd.Flags().StringArrayVar(&opts.arrows, "arrow", nil, "Draw an arrow x1,y1,x2,y2 (repeatable)")
	cmd.Flags().BoolVar(&opts.copyImage, "clipboard", false, "Also copy the PNG to the clipboard")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.MarkFlagsMutuallyExclusive("full", "region")
	cmd.MarkFlagsOneRequired("full", "region")

	return cmd
}

type SnapResult struct {
	Path      string  `json:"path"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Strokes   int     `json:"strokes"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
}

func runWithOptions(opts snapOptions, grabber screenshot.Grabber, out io.Writer) error {
	// Configure logging BEFORE any other operations.
	if opts.verbose {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{SaveDirOverride: opts.outDir})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var region geometry.Rect
	if !opts.full {
		if region, err = parseRegion(opts.region); err != nil {
			return err
		}
	}
	lines, err := parseSegments("--line", opts.lines)
	if err != nil {
		return err
	}
	arrows, err := parseSegments("--arrow", opts.arrows)
	if err != nil {
		return err
	}

	start := time.Now()
	var img *image.RGBA
	if opts.full {
		img, err = grabber.Full()
	} else {
		img, err = grabber.Rect(region)
	}
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	c := annotate.NewCanvas(img, annotate.Pen{Color: cfg.PenColor, Width: cfg.PenWidth})
	for _, s := range lines {
		c.Segment(s.A, s.B)
	}
	for _, s := range arrows {
		c.Arrow(geometry.Arrow{Start: s.A, End: s.B})
	}

	path, err := storage.New(cfg.SaveDir).Save(c.Image())
	if err != nil {
		return err
	}

	if opts.copyImage {
		if err := copyToClipboard(c.Image()); err != nil {
			return err
		}
	}

	b := c.Image().Bounds()
	if !opts.jsonOutput {
		fmt.Fprintln(out, path)
		return nil
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(SnapResult{
		Path:      path,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Strokes:   len(lines) + len(arrows),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  time.Since(start).Seconds(),
	}); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

func copyToClipboard(img image.Image) error {
	data, err := screenshot.EncodePNG(img)
	if err != nil {
		return err
	}
	if err := clipboard.Init(); err != nil {
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	return clipboard.WriteImage(data)
}

// parseRegion parses "x,y,w,h".
func parseRegion(s string) (geometry.Rect, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return geometry.Rect{}, fmt.Errorf("invalid --region %q: %w", s, err)
	}
	r := geometry.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	if r.Empty() {
		return geometry.Rect{}, fmt.Errorf("invalid --region %q: width and height must be positive", s)
	}
	return r, nil
}

func parseSegments(flag string, values []string) ([]geometry.Segment, error) {
	segs := make([]geometry.Segment, 0, len(values))
	for _, s := range values {
		v, err := parseInts(s, 4)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", flag, s, err)
		}
		segs = append(segs, geometry.Segment{A: geometry.Pt(v[0], v[1]), B: geometry.Pt(v[2], v[3])})
	}
	return segs, nil
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated integers", n)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"full", "region", "out", "scope", "line", "arrow", "clipboard", "json", "verbose"} {
			switch {
			case arg == "-"+name:
				normalized[i] = "--" + name
			case strings.HasPrefix(arg, "-"+name+"="):
				normalized[i] = "-" + arg
			}
		}
	}

	return normalized
}
