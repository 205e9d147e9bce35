package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/marker-drift/internal/analysis"
	"github.com/ironsheep/marker-drift/internal/config"
	"github.com/ironsheep/marker-drift/internal/convert"
	"github.com/ironsheep/marker-drift/internal/detection"
	apperrors "github.com/ironsheep/marker-drift/internal/errors"
	"github.com/ironsheep/marker-drift/internal/imaging"
	"github.com/ironsheep/marker-drift/internal/logger"
	"github.com/ironsheep/marker-drift/internal/report"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	preserve    bool
	corners     bool
	noPlot      bool
	histogram   bool
	showVersion bool
	showHelp    bool
	args        []string
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "marker-drift: %v\n\n", err)
		printUsage(os.Stderr)
		os.Exit(apperrors.ExitCode(err))
	}

	switch {
	case opts.showVersion:
		fmt.Printf("marker-drift %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case opts.showHelp:
		printUsage(os.Stdout)
		return
	}

	logger.Debug(fmt.Sprintf("marker-drift %s (built %s, commit %s)", Version, BuildTime, GitCommit))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, opts, os.Stdout)
	stop()

	if err != nil {
		logger.WithError(err).Error("run failed")
		os.Exit(apperrors.ExitCode(err))
	}
}

// parseArgs accepts flags anywhere on the command line; everything else is
// a positional argument.
func parseArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	for _, arg := range args {
		switch arg {
		case "--preserve", "-p":
			opts.preserve = true
		case "--corners", "-c":
			opts.corners = true
		case "--no-plot":
			opts.noPlot = true
		case "--histogram", "-H":
			opts.histogram = true
		case "--version", "-v", "version":
			opts.showVersion = true
		case "--help", "-h", "help":
			opts.showHelp = true
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, apperrors.NewSetupError(fmt.Sprintf("unknown flag %s", arg), nil)
			}
			opts.args = append(opts.args, arg)
		}
	}
	return opts, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "marker-drift - measure AprilTag corner drift caused by JPEG compression")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: marker-drift [options] [subset-size] [source-dir]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --preserve, -p   Keep converted images and print their paths")
	fmt.Fprintln(w, "  --corners, -c    Print corner coordinates of every processed image")
	fmt.Fprintln(w, "  --no-plot        Skip the scatter plot")
	fmt.Fprintln(w, "  --histogram, -H  Print per-quality histograms of corner drift")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s    Source directory when not given on the command line\n", config.EnvSourceDir)
	fmt.Fprintf(w, "  %s    Output directory (default: results)\n", config.EnvOutputDir)
	fmt.Fprintf(w, "  %s        RAW file extension (default: .arw)\n", config.EnvRawExtension)
	fmt.Fprintf(w, "  %s         RAW decoder: dcraw or image (default: dcraw)\n", config.EnvDecoder)
	fmt.Fprintf(w, "  %s         Files processed concurrently per quality (default: 1)\n", config.EnvWorkers)
	fmt.Fprintf(w, "  %s       debug, info, warn or error (default: info)\n", logger.LevelEnv)
}

func run(ctx context.Context, opts cliOptions, stdout io.Writer) error {
	started := time.Now()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if err := cfg.ApplyArgs(opts.args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	files, err := cfg.DiscoverFiles()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"source": cfg.SourceDir,
		"files":  len(files),
		"subset": cfg.Subset,
	}).Info("discovered RAW files")
	if len(files) == 0 {
		logger.Warn(fmt.Sprintf("no %s files found in %s", cfg.RawExtension, cfg.SourceDir))
	}

	decoder, err := convert.NewDecoder(cfg.Decoder, cfg.Dcraw)
	if err != nil {
		return apperrors.NewSetupError("invalid decoder", err)
	}

	backend, err := detection.NewArucoBackend(cfg.Detector)
	if err != nil {
		return apperrors.NewSetupError("cannot create marker detector", err)
	}
	detector, err := detection.NewDetector(backend, cfg.Detector)
	if err != nil {
		backend.Close()
		return apperrors.NewSetupError("cannot create marker detector", err)
	}
	defer detector.Close()

	params := detector.Params()
	logger.WithFields(logrus.Fields{
		"family":       params.Family,
		"decimate":     params.Decimate,
		"blur_sigma":   params.BlurSigma,
		"refine_edges": params.RefineEdges,
		"sharpening":   params.Sharpening,
		"threads":      params.Threads,
	}).Debug("marker detector ready")

	workspace, err := convert.NewWorkspace("", opts.preserve)
	if err != nil {
		return apperrors.NewSetupError("cannot create temporary workspace", err)
	}
	logger.WithField("path", workspace.Dir()).Debug("workspace created")
	defer func() {
		if kept := workspace.Close(); kept != "" {
			fmt.Fprintf(stdout, "\nIntermediate images kept in %s\n", kept)
		}
	}()

	driverOpts := analysis.Options{
		Workers:  cfg.Workers,
		FileSize: imaging.FileSize,
	}
	references := make(map[string]detection.Set)
	if opts.corners || opts.preserve {
		driverOpts.OnDetections = func(images analysis.ImageDetections) {
			if opts.corners {
				printCorners(stdout, images)
			}
			if opts.preserve && images.Reference {
				references[images.Source] = images.Set
			}
		}
	}

	driver := analysis.NewDriver(convert.NewConverter(decoder, workspace), detector, driverOpts)
	result, err := driver.Run(ctx, files)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	if err := report.WriteTable(stdout, result.Results); err != nil {
		return apperrors.NewReportError("", "failed to print summary", err)
	}

	tablePath, err := report.SaveTable(cfg.OutputDir, started, result.Results)
	if err != nil {
		return err
	}
	logger.WithField("path", tablePath).Info("summary saved")

	if opts.histogram {
		if err := report.WriteHistograms(stdout, result.Results); err != nil {
			return apperrors.NewReportError("", "failed to print histograms", err)
		}
	}

	if !opts.noPlot {
		plotPath, err := report.SavePlot(cfg.OutputDir, started, result.Scatter)
		if err != nil {
			return err
		}
		if plotPath != "" {
			logger.WithField("path", plotPath).Info("scatter plot saved")
		}
	}

	if workspace.Preserve() {
		annotateReferences(workspace, references)
		printWorkspace(stdout, workspace)
	}

	logger.Info(fmt.Sprintf("analysed %d files at %d quality levels", len(files), len(result.Results)))
	return nil
}

// annotateReferences draws the detected markers over every kept reference
// image. Failures only cost the annotation, so they are logged.
func annotateReferences(workspace *convert.Workspace, references map[string]detection.Set) {
	sources := make([]string, 0, len(references))
	for source := range references {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		log := logger.WithField("file", source)

		img, err := imaging.Load(workspace.ReferencePath(source))
		if err != nil {
			log.WithError(err).Warn("could not load reference for annotation")
			continue
		}
		path := workspace.AnnotatedPath(source)
		if err := imaging.SaveAnnotated(img, references[source].Outlines(), path); err != nil {
			log.WithError(err).Warn("could not save annotated reference")
			continue
		}
		log.WithField("path", path).Debug("annotated reference saved")
	}
}

// printCorners dumps every detected marker of one image, sorted by ID.
func printCorners(w io.Writer, images analysis.ImageDetections) {
	label := "reference"
	if !images.Reference {
		label = fmt.Sprintf("quality %.2f", images.Quality)
	}
	fmt.Fprintf(w, "%s (%s): %d markers\n", filepath.Base(images.Source), label, len(images.Set))

	for _, d := range images.Set.SortedByID() {
		corners := make([]string, len(d.Corners))
		for i, c := range d.Corners {
			corners[i] = c.String()
		}
		fmt.Fprintf(w, "  id %3d: %s\n", d.ID, strings.Join(corners, " "))
	}
}

func printWorkspace(w io.Writer, workspace *convert.Workspace) {
	files, err := workspace.Files()
	if err != nil {
		logger.WithError(err).Warn("could not list intermediate images")
		return
	}
	fmt.Fprintf(w, "\nIntermediate images (%d):\n", len(files))
	for _, f := range files {
		fmt.Fprintf(w, "  %s\n", f)
	}
}
