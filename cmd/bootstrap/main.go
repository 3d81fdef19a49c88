// Command bootstrap loads the storage engine once and initializes it with the
// application's storage directory.
//
//	bootstrap --library isar --search-path ./build --min-platform-version 21
//	bootstrap --config bootstrap.yaml --storage-dir /var/lib/app
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/engine-bootstrap/bootstrap"
	"github.com/wippyai/engine-bootstrap/config"
	"github.com/wippyai/engine-bootstrap/errors"
	"github.com/wippyai/engine-bootstrap/host"
	"github.com/wippyai/engine-bootstrap/loader"
)

var (
	okStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#90EE90"))

	skipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type options struct {
	configPath      string
	library         string
	backend         string
	symbol          string
	minVersion      string
	storageDir      string
	appID           string
	platformVersion string
	logLevel        string
	metricsFile     string
	searchPaths     []string
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	fs.StringVarP(&opts.configPath, "config", "c", "", "Path to YAML configuration")
	fs.StringVar(&opts.library, "library", "", "Logical engine library name")
	fs.StringVar(&opts.backend, "backend", "", "Loader backend: dynamic or wasm")
	fs.StringVar(&opts.symbol, "symbol", "", "Initialization entry point symbol")
	fs.StringSliceVar(&opts.searchPaths, "search-path", nil, "Directory to search for the library (repeatable)")
	fs.StringVar(&opts.minVersion, "min-platform-version", "", "Skip bootstrap at or below this platform version")
	fs.StringVar(&opts.storageDir, "storage-dir", "", "Storage directory handed to the engine")
	fs.StringVar(&opts.appID, "app-id", "", "Application id for the default storage directory")
	fs.StringVar(&opts.platformVersion, "platform-version", "", "Override the detected platform version")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.metricsFile, "metrics", "", "Write Prometheus metrics to this file on exit")
	return fs
}

func main() {
	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := run(fs, opts); err != nil {
		fmt.Fprintln(os.Stderr, render(errorStyle, "Error: "+err.Error()))
		os.Exit(1)
	}
}

func run(fs *pflag.FlagSet, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(fs, opts, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	loader.SetLogger(log.Named("loader"))
	bootstrap.SetLogger(log.Named("bootstrap"))

	reg := prometheus.NewRegistry()
	metrics, err := bootstrap.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	h := &cliHost{
		desktop: host.Desktop{AppID: cfg.AppID, Version: opts.platformVersion},
		dir:     cfg.StorageDir,
	}

	outcome, runErr := bootstrap.Run(context.Background(), h, cfg, bootstrap.WithMetrics(metrics))

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, reg); err != nil {
			log.Warn("write metrics", zap.String("file", opts.metricsFile), zap.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	switch outcome {
	case bootstrap.OutcomeGateSkipped:
		fmt.Println(render(skipStyle, "skipped") + " " +
			render(labelStyle, fmt.Sprintf("platform %q at or below %s", h.PlatformVersion(), cfg.MinPlatformVersion)))
	default:
		fmt.Println(render(okStyle, outcome.String()) + " " +
			render(labelStyle, fmt.Sprintf("%s -> %s", cfg.Library, h.resolved)))
	}
	return nil
}

// applyFlags overrides configuration with explicitly set flags.
func applyFlags(fs *pflag.FlagSet, opts options, cfg *config.Config) {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("library", &cfg.Library, opts.library)
	set("backend", &cfg.Backend, opts.backend)
	set("symbol", &cfg.Symbol, opts.symbol)
	set("min-platform-version", &cfg.MinPlatformVersion, opts.minVersion)
	set("storage-dir", &cfg.StorageDir, opts.storageDir)
	set("app-id", &cfg.AppID, opts.appID)
	set("log-level", &cfg.LogLevel, opts.logLevel)
	if fs.Changed("search-path") {
		cfg.SearchPaths = append(opts.searchPaths, cfg.SearchPaths...)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		zc.Encoding = "json"
		zc.EncoderConfig = zap.NewProductionEncoderConfig()
	}
	return zc.Build()
}

func render(style lipgloss.Style, s string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return s
	}
	return style.Render(s)
}

// cliHost uses an explicit storage directory, made absolute, when given and
// falls back to the desktop conventions otherwise.
type cliHost struct {
	desktop  host.Desktop
	dir      string
	resolved string
}

func (h *cliHost) PlatformVersion() string {
	return h.desktop.PlatformVersion()
}

func (h *cliHost) StorageDir() (string, error) {
	if h.dir != "" {
		dir, err := filepath.Abs(h.dir)
		if err != nil {
			return "", errors.Wrap(errors.PhaseHost, errors.KindHost, err, "resolve storage dir")
		}
		h.resolved = dir
		return dir, nil
	}
	dir, err := h.desktop.StorageDir()
	h.resolved = dir
	return dir, err
}
