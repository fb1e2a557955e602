package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"faithsite/internal/capture"
	"faithsite/internal/config"
	appLog "faithsite/internal/log"
	"faithsite/internal/site"
	"faithsite/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	dataDir    string
	outputDir  string
	listen     string
	at         string
	serve      bool
	snapshot   bool
	verbose    bool
}

func main() {
	appLog.Info("faithsite starting", "version", "0.1.0")

	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override config file values if provided.
	if flags.dataDir != "" {
		conf.DataDir = flags.dataDir
	}
	if flags.outputDir != "" {
		conf.OutputDir = flags.outputDir
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"site_title", conf.SiteTitle,
		"data_dir", conf.DataDir,
		"output_dir", conf.OutputDir,
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"curriculum_start", conf.CurriculumStart,
		"serve", flags.serve,
		"snapshot", flags.snapshot,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	builder, err := site.NewBuilder(conf)
	if err != nil {
		appLog.Error("failed to initialize site builder", err)
		os.Exit(1)
	}

	// The reference instant is sampled exactly once per build pass and
	// threaded through every resolver; -at overrides it for reproducible
	// builds.
	now := time.Now()
	if flags.at != "" {
		at, perr := time.Parse(time.RFC3339, flags.at)
		if perr != nil {
			appLog.Error("invalid -at instant", perr, "at", flags.at)
			os.Exit(1)
		}
		now = at
	}

	if _, err := builder.Build(now); err != nil {
		appLog.Error("site build failed", err)
		os.Exit(1)
	}

	if flags.serve || flags.snapshot {
		srv := web.NewServer(conf)
		go func() {
			if serr := srv.Serve(); serr != nil {
				appLog.Error("preview server stopped", serr)
				cancel()
			}
		}()
	}

	if flags.snapshot {
		// Give the listener a moment to come up before navigating to it.
		time.Sleep(300 * time.Millisecond)
		opts := capture.Options{
			URL:        "http://" + conf.Listen + "/",
			OutputPath: conf.OutputDir + "/social-card.png",
		}
		if cerr := capture.SnapshotPNG(ctx, opts); cerr != nil {
			appLog.Error("snapshot capture failed", cerr, "url", opts.URL)
		} else {
			appLog.Info("snapshot written", "path", opts.OutputPath)
		}
	}

	if !flags.serve {
		appLog.Info("faithsite exiting")
		return
	}

	// Serve mode: rebuild on the configured cron schedule, each pass with a
	// freshly sampled reference instant.
	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		if _, berr := builder.Build(time.Now()); berr != nil {
			appLog.Error("scheduled rebuild failed", berr)
		}
	}); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	<-ctx.Done()
	appLog.Info("faithsite exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./faithsite.yaml", "Path to config file")
	flag.StringVar(&cfg.dataDir, "data", "", "Data directory (overrides config if set)")
	flag.StringVar(&cfg.outputDir, "out", "", "Output directory (overrides config if set)")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.at, "at", "", "Reference instant as RFC 3339 (defaults to the current time)")
	flag.BoolVar(&cfg.serve, "serve", false, "Serve the built site and rebuild on the refresh schedule")
	flag.BoolVar(&cfg.snapshot, "snapshot", false, "Capture a social-card PNG of the homepage after building")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
