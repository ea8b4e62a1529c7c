package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-reflective-raytracer/pkg/config"
	"github.com/df07/go-reflective-raytracer/pkg/core"
	"github.com/df07/go-reflective-raytracer/pkg/loaders"
	"github.com/df07/go-reflective-raytracer/pkg/logger"
	"github.com/df07/go-reflective-raytracer/pkg/renderer"
	"github.com/df07/go-reflective-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	scene      string
	configPath string
	width      int
	height     int
	bounces    int
	workers    int
	output     string
	logLevel   string
	help       bool
	set        map[string]bool // flags given explicitly
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	// Show help if requested
	if opts.help {
		printHelp(os.Stdout)
		return
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	filename, err := run(opts, cfg, log, time.Now())
	if err != nil {
		log.Errorf("%v", err)
		log.Close()
		os.Exit(1)
	}
	log.Infof("Render saved as %s", filename)
}

func newFlagSet(opts *options, errOut io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&opts.scene, "scene", "default", "Scene: built-in name, .yaml scene file or .obj mesh")
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (optional)")
	fs.IntVar(&opts.width, "width", 0, "Image width (overrides config)")
	fs.IntVar(&opts.height, "height", 0, "Image height (overrides config)")
	fs.IntVar(&opts.bounces, "bounces", 0, "Maximum bounces per pixel (overrides config and scene)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	fs.StringVar(&opts.output, "output", "", "Output file, .png or .jpg (default output/<scene>/render_<timestamp>.png)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	fs.BoolVar(&opts.help, "help", false, "Show help information")
	return fs
}

func parseOptions(args []string, errOut io.Writer) (options, error) {
	var opts options
	fs := newFlagSet(&opts, errOut)
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Reflective Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	newFlagSet(&options{}, w).PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Built-in scenes:")
	for _, name := range scene.BuiltinNames() {
		s, _ := scene.Builtin(name)
		fmt.Fprintf(w, "  %-10s %s\n", name, s.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output will be saved to output/<scene>/render_<timestamp>.png")
}

// loadConfig reads the config file, if any, and applies explicit flags on top
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(opts.configPath); err != nil {
			return nil, err
		}
	}

	if opts.set["width"] {
		cfg.Render.Width = opts.width
	}
	if opts.set["height"] {
		cfg.Render.Height = opts.height
	}
	if opts.set["bounces"] {
		cfg.Render.MaxBounces = opts.bounces
	}
	if opts.set["workers"] {
		cfg.Render.Workers = opts.workers
	}
	if opts.set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig) (*logger.Logger, error) {
	if cfg.File != "" {
		return logger.NewFileLogger(cfg.Level, cfg.File, true)
	}
	return logger.NewConsoleLogger(cfg.Level), nil
}

// createScene resolves a built-in scene name, a YAML scene file or an OBJ mesh
func createScene(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty scene name", scene.ErrUnknownScene)
	}
	return scene.Resolve(name)
}

// sceneConfig builds the render config for s. An explicit -bounces flag wins
// over the scene's own bounce limit.
func sceneConfig(s *scene.Scene, cfg *config.Config, bouncesFlag bool) renderer.Config {
	rc := s.Configure(cfg.RendererConfig())
	if bouncesFlag {
		rc.MaxBounces = uint8(cfg.Render.MaxBounces)
	}
	return rc
}

// outputPath returns the explicit output file or the default
// <dir>/<scene>/render_<timestamp>.<ext>
func outputPath(explicit, dir, sceneName, format string, now time.Time) string {
	if explicit != "" {
		return explicit
	}
	ext := "png"
	if strings.HasPrefix(strings.ToLower(format), "jp") {
		ext = "jpg"
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join(dir, sanitizeName(sceneName), fmt.Sprintf("render_%s.%s", timestamp, ext))
}

// sanitizeName makes a scene name safe to use as a directory name
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "scene"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// run renders the selected scene and writes the image, returning its path
func run(opts options, cfg *config.Config, log core.Logger, now time.Time) (string, error) {
	log.Printf("Starting Reflective Raytracer...")

	selectedScene, err := createScene(opts.scene)
	if err != nil {
		return "", err
	}
	log.Printf("Using scene %s: %s (%d objects)", selectedScene.Name, selectedScene.Description,
		selectedScene.GetPrimitiveCount())

	rc := sceneConfig(selectedScene, cfg, opts.set["bounces"])
	img, stats := renderer.Render(selectedScene.Objects, rc, log)
	log.Printf("Background pixels: %d of %d", stats.BackgroundPixels, stats.TotalPixels)

	filename := outputPath(opts.output, cfg.Output.Dir, selectedScene.Name, cfg.Output.Format, now)
	if err := loaders.SaveImage(filename, img); err != nil {
		return "", fmt.Errorf("failed to save render: %w", err)
	}
	return filename, nil
}
