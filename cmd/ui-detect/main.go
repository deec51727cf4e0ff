package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/ui-detect/internal/app"
	"github.com/ironsheep/ui-detect/internal/config"
	"github.com/ironsheep/ui-detect/internal/correlate"
	"github.com/ironsheep/ui-detect/internal/imaging"
	"github.com/ironsheep/ui-detect/internal/logger"
	"github.com/ironsheep/ui-detect/internal/ocr"
	"github.com/ironsheep/ui-detect/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type options struct {
	image     string
	templates bool
	cascades  bool
	out       string
	json      bool
	captions  bool
	lang      string
	color     string
	perClass  bool
	data      string
	logLevel  string
	env       string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "ui-detect %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(stdout, "  Correlators: %v\n", correlate.Backends())
			return 0
		case "serve":
			return serve(args[1:], stderr)
		}
	}

	fs := newFlagSet(stderr)
	var opts options
	bindCommon(fs, &opts)
	fs.StringVar(&opts.image, "image", "", "screenshot to search (required)")
	fs.BoolVar(&opts.templates, "tm", false, "run template matching")
	fs.BoolVar(&opts.cascades, "cc", false, "run the shape detector catalogue")
	fs.StringVar(&opts.out, "out", "", "write the screenshot with detections drawn to this file")
	fs.BoolVar(&opts.json, "json", false, "print the full report as JSON")
	fs.BoolVar(&opts.captions, "captions", false, "read the text inside every detected region")
	fs.StringVar(&opts.lang, "lang", ocr.DefaultLanguage, "OCR language for --captions")
	fs.StringVar(&opts.color, "color", "", "overlay color as #RRGGBB (default green)")
	fs.BoolVar(&opts.perClass, "per-class", false, "give every class its own overlay color")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.image == "" {
		fmt.Fprintln(stderr, "ui-detect: --image is required")
		fs.Usage()
		return 2
	}
	if !opts.templates && !opts.cascades {
		fmt.Fprintln(stderr, "ui-detect: choose at least one of --tm and --cc")
		return 2
	}

	settings, log, err := setup(opts, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "ui-detect: %v\n", err)
		return 1
	}

	runner := app.NewRunner(settings, log)
	runner.Captions = ocr.NewReader(opts.lang)
	runner.Style.PerClass = opts.perClass
	if opts.color != "" {
		c, err := imaging.ParseHexColor(opts.color)
		if err != nil {
			fmt.Fprintf(stderr, "ui-detect: %v\n", err)
			return 2
		}
		runner.Style.Color = c
	}

	report, err := runner.Run(app.Request{
		ImagePath:  opts.image,
		Templates:  opts.templates,
		Cascades:   opts.cascades,
		Captions:   opts.captions,
		OutputPath: opts.out,
	})
	if err != nil {
		log.WithError(err).Error("detection failed")
		fmt.Fprintf(stderr, "ui-detect: %v\n", err)
		return 1
	}

	if opts.json {
		err = report.WriteJSON(stdout)
	} else {
		err = report.WriteText(stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "ui-detect: %v\n", err)
		return 1
	}
	return 0
}

func serve(args []string, stderr io.Writer) int {
	fs := newFlagSet(stderr)
	var opts options
	bindCommon(fs, &opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	settings, log, err := setup(opts, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "ui-detect: %v\n", err)
		return 1
	}

	server.Version = Version
	log.WithFields(logrus.Fields{
		"version": Version,
		"commit":  GitCommit,
		"data":    settings.DataDir,
	}).Info("MCP server starting")

	if err := server.New(app.NewRunner(settings, log)).Run(); err != nil {
		log.WithError(err).Error("server stopped")
		return 1
	}
	return 0
}

func newFlagSet(stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("ui-detect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "ui-detect - find UI elements in screenshots")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  ui-detect --image=<path> [--tm] [--cc] [--out=overlay.png] [--json] [--captions]")
		fmt.Fprintln(stderr, "  ui-detect serve        run as an MCP server on stdin/stdout")
		fmt.Fprintln(stderr, "  ui-detect --version")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Environment variables (also read from .env):")
		for _, key := range []string{
			config.EnvDataDir, config.EnvTemplates, config.EnvCascades,
			config.EnvLimit, config.EnvThreshold, config.EnvOverlap,
			config.EnvContainment, config.EnvLogLevel, config.EnvLogFile,
		} {
			fmt.Fprintf(stderr, "  %s\n", key)
		}
	}
	return fs
}

func bindCommon(fs *flag.FlagSet, opts *options) {
	fs.StringVar(&opts.data, "data", "", "directory holding the catalogues (overrides "+config.EnvDataDir+")")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides "+config.EnvLogLevel+")")
	fs.StringVar(&opts.env, "env", ".env", "dotenv file to load before reading the environment")
}

// setup resolves settings from the environment and flags, then builds the logger.
func setup(opts options, stderr io.Writer) (config.Settings, *logrus.Logger, error) {
	settings, err := config.LoadSettings(opts.env)
	if err != nil {
		return config.Settings{}, nil, err
	}
	if opts.data != "" {
		settings.DataDir = opts.data
	}
	if opts.logLevel != "" {
		settings.LogLevel = opts.logLevel
	}
	if err := settings.Validate(); err != nil {
		return config.Settings{}, nil, err
	}

	log, err := logger.New(logger.Options{
		Level:  settings.LogLevel,
		File:   settings.LogFile,
		Output: stderr,
	})
	if err != nil {
		return config.Settings{}, nil, err
	}
	return settings, log, nil
}
