package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/smallbiznis/printtrack/internal/mirror"
	"go.uber.org/zap"
)

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "printtrack server base URL")
		cachePath = flag.String("cache", defaultCachePath(), "path of the local mirror cache")
		token     = flag.String("token", os.Getenv("PRINTTRACK_TOKEN"), "bearer token for authenticated writes")
		interval  = flag.Duration("interval", mirror.DefaultInterval, "reconciliation interval")
		once      = flag.Bool("once", false, "run a single reconcile pass and exit")
	)
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	m, err := mirror.New(mirror.Options{
		Cache:    mirror.NewCache(*cachePath),
		API:      mirror.NewClient(*serverURL, *token),
		Log:      log,
		Interval: *interval,
	})
	if err != nil {
		log.Fatal("load mirror cache", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := m.Reconcile(ctx); err != nil {
		log.Warn("initial reconcile failed, staying offline", zap.Error(err))
	}
	if *once {
		return
	}

	log.Info("mirror running",
		zap.String("server", *serverURL),
		zap.String("cache", *cachePath),
		zap.Duration("interval", *interval),
	)
	m.Run(ctx)
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "printtrack-mirror.json"
	}
	return filepath.Join(home, ".printtrack", "mirror.json")
}
