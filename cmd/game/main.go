package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Garsondee/Bird-Sense/internal/facts"
	"github.com/Garsondee/Bird-Sense/internal/game"
	"github.com/Garsondee/Bird-Sense/internal/logging"
	"github.com/Garsondee/Bird-Sense/internal/observability"
)

func main() {
	var seed int64
	var offline bool
	var metricsAddr string

	flag.Int64Var(&seed, "seed", 0, "spawn RNG seed (0 = time based)")
	flag.BoolVar(&offline, "offline", false, "use built-in bird facts instead of the Gemini API")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flag.Parse()

	log := logging.NewFromEnv()
	if err := run(log, seed, offline, metricsAddr); err != nil {
		log.Error(context.Background(), "game exited", logging.Err(err))
		os.Exit(1)
	}
}

func run(log logging.Logger, seed int64, offline bool, metricsAddr string) error {
	ctx := context.Background()
	cfg := game.Config{Seed: seed, Logger: log, Facts: factSource(offline)}

	if metricsAddr != "" {
		collector, err := observability.NewSimCollector(prometheus.NewRegistry())
		if err != nil {
			return err
		}
		cfg.Observers = append(cfg.Observers, collector)
		srv := &http.Server{Addr: metricsAddr, Handler: collector.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn(ctx, "metrics server stopped", logging.Err(err))
			}
		}()
		defer srv.Close()
		log.Info(ctx, "serving metrics", logging.String("addr", metricsAddr))
	}

	g := game.New(cfg)
	defer g.Close()

	ebiten.SetWindowTitle("Bird Sense - Migration Guardian")
	ebiten.SetWindowSize(g.Size())
	return ebiten.RunGame(g)
}

// factSource prefers the Gemini API when a key is configured.
func factSource(offline bool) facts.Source {
	// Keep a nil *GeminiSource out of the interface.
	if gem := facts.NewGeminiFromEnv(); gem != nil && !offline {
		return gem
	}
	return &facts.StaticSource{}
}
