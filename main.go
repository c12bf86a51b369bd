package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"terra/app"
	"terra/hal"
	"terra/internal/buildinfo"
	"terra/internal/config"
	"terra/internal/logging"
	"terra/internal/metrics"
)

func main() {
	var (
		configPath string
		headless   hal.HeadlessConfig
		useHead    bool
		logLevel   string
		listen     string
		noHQ       bool
	)
	flag.StringVar(&configPath, "config", "", "Path to a config file (default: ./terra.yaml if present).")
	flag.BoolVar(&useHead, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Frame rate in headless mode.")
	flag.Uint64Var(&headless.Frames, "frames", 0, "Stop after N frames in headless mode (0 = run until interrupted).")
	flag.StringVar(&headless.Snapshot, "snapshot", "", "Write the last headless frame to this PNG file.")
	flag.StringVar(&logLevel, "log-level", "", "Override the configured log level.")
	flag.StringVar(&listen, "metrics", "", "Serve Prometheus metrics on this address.")
	flag.BoolVar(&noHQ, "no-hq", false, "Skip the high quality texture tier.")
	flag.Parse()

	if err := config.Load(configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if logLevel != "" {
		config.Set("logLevel", logLevel)
	}
	if listen != "" {
		config.Set("metrics.listen", listen)
	}
	if noHQ {
		config.Set("assets.loadHq", false)
	}
	cfg, err := config.Current()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Info().Str("build", buildinfo.String()).Msg("starting terra")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mx := metrics.NewCollector("terra")
	if cfg.Metrics.Listen != "" {
		go func() {
			if err := mx.Serve(ctx, cfg.Metrics.Listen, logging.Component(log, "metrics")); err != nil {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
	}

	newApp := func(h hal.HAL) func(dt time.Duration) error {
		step, err := app.New(ctx, h, app.Options{Config: cfg, Log: log, Metrics: mx})
		if err != nil {
			return func(time.Duration) error { return err }
		}
		return step
	}
	halLog := logging.NewLineWriter(logging.Component(log, "hal"))

	if useHead {
		headless.Width = cfg.Window.Width
		headless.Height = cfg.Window.Height
		headless.Logger = halLog
		err = hal.RunHeadless(ctx, headless, newApp)
	} else {
		err = hal.RunWindow(hal.WindowConfig{
			Title:  cfg.Window.Title,
			Width:  cfg.Window.Width,
			Height: cfg.Window.Height,
			Logger: halLog,
		}, newApp)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		exit(log, err)
	}
}

func exit(log zerolog.Logger, err error) {
	log.Error().Err(err).Msg("terra stopped")
	os.Exit(1)
}
