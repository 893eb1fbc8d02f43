package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grishkovelli/proxylive"
	"github.com/grishkovelli/proxylive/pkg/literal"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("proxylive", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		settings = fs.String("settings", "", "YAML settings file")
		envFile  = fs.String("env", ".env", "dotenv file")
		verbose  = fs.Bool("v", false, "debug logging")

		path     = fs.String("config", "", "document holding PROXY_LIST (default config.js)")
		endpoint = fs.String("endpoint", "", "IP-echo URL (default https://ipinfo.io/ip)")
		timeout  = fs.Int("timeout", 0, "probe timeout in seconds (default 8)")
		suffix   = fs.String("backup-suffix", "", "backup file suffix (default .backup)")
		verify   = fs.String("verify", "", "compare echoed IP with proxy host: off, warn, strict")
		listen   = fs.String("listen", "", "serve a live websocket feed on this address")
		dryRun   = fs.Bool("dry-run", false, "check without rewriting the document")
		progress = fs.Bool("progress", false, "show a progress bar instead of per-proxy lines")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := proxylive.LoadEnv(*envFile); err != nil {
		log.Warnf("Error loading env file: %v", err)
	}

	cfg := &proxylive.Config{}
	if *settings != "" {
		if err := proxylive.LoadFile(*settings, cfg); err != nil {
			log.Error(err)
			return 2
		}
	}
	if err := proxylive.FromEnv(cfg, os.LookupEnv); err != nil {
		log.Error(err)
		return 2
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "config":
			cfg.Path = *path
		case "endpoint":
			cfg.Endpoint = *endpoint
		case "timeout":
			cfg.Timeout = *timeout
		case "backup-suffix":
			cfg.BackupSuffix = *suffix
		case "verify":
			cfg.Verify = *verify
		case "listen":
			cfg.Listen = *listen
		case "dry-run":
			cfg.DryRun = *dryRun
		case "progress":
			cfg.Progress = *progress
		}
	})
	if err := cfg.Prepare(); err != nil {
		log.Error(err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := proxylive.NewPruner(cfg, stdout, log)

	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()

	var feedDone chan struct{}
	if cfg.Listen != "" {
		p.Feed = proxylive.NewFeed(log)
		feedDone = make(chan struct{})
		go func() {
			defer close(feedDone)
			if err := p.Feed.ListenAndServe(feedCtx, cfg.Listen); err != nil {
				log.WithError(err).Error("live feed stopped")
			}
		}()
	}

	_, err := p.Run(ctx)

	// let the feed deliver the final messages before the process exits
	stopFeed()
	if feedDone != nil {
		<-feedDone
	}

	return exitCode(err, log)
}

func exitCode(err error, log logrus.FieldLogger) int {
	switch {
	case err == nil,
		errors.Is(err, literal.ErrNotFound),
		errors.Is(err, proxylive.ErrEmpty),
		errors.Is(err, proxylive.ErrNoLive):
		return 0
	case errors.Is(err, context.Canceled):
		log.Warn("interrupted, document left untouched")
		return 130
	case errors.Is(err, proxylive.ErrConfig):
		log.Error(err)
		return 2
	default:
		return 1
	}
}
