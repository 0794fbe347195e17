package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/wheeldash/internal/config"
	"github.com/kiliankoe/wheeldash/internal/game"
	"github.com/kiliankoe/wheeldash/internal/puzzle"
	"github.com/kiliankoe/wheeldash/internal/spectator"
	"github.com/kiliankoe/wheeldash/internal/terminal"
	"github.com/kiliankoe/wheeldash/internal/wheel"
)

const version = "v1.0.0-dev"

const usage = `wheeldash - Wheel of Fortune in your terminal

Usage: %s [options]

Options:
  -h, --help           Show this help message
  -v, --version        Show version information
  --puzzles FILE       Puzzle file, one "topic: phrase" per line (default: puzzles.txt)
  --spectator ADDR     Serve a read-only spectator page on ADDR, e.g. :8080
  --seed N             Random seed for a reproducible game (default: from the clock)

Environment Variables:
  WHEEL_PUZZLES        Puzzle file (default: puzzles.txt)
  PUZZLE_SEPARATOR     Separator between topic and phrase (default: ": ")
  WHEEL_SEED           Random seed
  LOG_LEVEL            Log level written to stderr (default: warn)
  SPECTATOR_ADDR       Spectator server address (default: disabled)
  EXPORT_ENABLED       Append round results to a file (default: false)
  EXPORT_FILE          Path to export round results (default: ./wheeldash-results.txt)

Variables are also read from a .env file in the working directory.
`

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.FromEnv()
	if err == nil {
		cfg, err = config.ParseFlags(os.Args[1:], cfg)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(2)
	}
	if cfg.ShowHelp {
		fmt.Printf(usage, os.Args[0])
		return
	}
	if cfg.ShowVersion {
		fmt.Printf("wheeldash %s\n", version)
		return
	}

	setupLogging(cfg.LogLevel)

	entries, err := puzzle.Load(cfg.PuzzlesPath, cfg.Separator)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PuzzlesPath).Msg("failed to load puzzles")
	}
	log.Info().Int("count", len(entries)).Str("path", cfg.PuzzlesPath).Msg("puzzles loaded")

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Debug().Int64("seed", seed).Msg("rng seeded")
	rng := rand.New(rand.NewSource(seed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := terminal.Options{In: os.Stdin, Out: os.Stdout}
	if cfg.ExportEnabled {
		opts.ExportFile = cfg.ExportFile
	}
	if cfg.SpectatorAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		viewers := spectator.New()
		if err := viewers.Start(cfg.SpectatorAddr); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.SpectatorAddr).Msg("failed to start spectator server")
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := viewers.Shutdown(sctx); err != nil {
				log.Error().Err(err).Msg("spectator shutdown")
			}
		}()
		opts.Publisher = viewers
	}

	ui := terminal.New(opts)
	gcfg, err := ui.Setup(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			fmt.Println()
			return
		}
		log.Fatal().Err(err).Msg("setup failed")
	}

	g, err := game.New(gcfg, puzzle.FromEntries(entries, cfg.Separator, rng), wheel.Default(rng), ui)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start game")
	}
	if err := ui.Run(ctx, g); err != nil {
		log.Error().Err(err).Str("game", g.ID).Msg("game aborted")
	}
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
