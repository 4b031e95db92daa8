// Command touchsoak drives a touchline surface with randomized multi-touch,
// key and controller input from one goroutine while draining it on another,
// and reports any ordering or id violation it observes.
//
// Usage:
//
//	touchsoak [-config touchline.yaml] [-samples 100000] [-pointers 5] [-seed 1]
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/phanxgames/touchline"
)

func main() {
	configPath := flag.String("config", "", "touchline YAML config")
	samples := flag.Int("samples", 100000, "platform notifications to generate")
	pointers := flag.Int("pointers", 5, "maximum concurrent touches")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "generator seed")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := touchline.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = touchline.LoadConfig(*configPath); err != nil {
			log.Fatal().Err(err).Msg("config")
		}
	}
	cfg.Logger = log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, err := soak(ctx, cfg, soakOptions{Samples: *samples, MaxPointers: *pointers, Seed: *seed}, log)
	if err != nil {
		log.Fatal().Err(err).Uint64("seed", *seed).Msg("soak aborted")
	}

	log.Info().
		Uint64("seed", *seed).
		Dur("elapsed", time.Since(start)).
		Int("samples", res.Produced.Samples).
		Int("delivered", res.Delivered).
		Int("batches", res.Batches).
		Int("keys", res.Keys).
		Int("promoted_taps", res.Produced.PromotedTaps).
		Int("suppressed_repeats", res.Produced.SuppressedRepeats).
		Msg("soak finished")

	for _, v := range res.Violations {
		log.Error().Str("violation", v).Msg("invariant broken")
	}
	if len(res.Violations) > 0 {
		os.Exit(1)
	}
}
