package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultPuzzles    = "puzzles.txt"
	DefaultSeparator  = ": "
	DefaultExportFile = "./wheeldash-results.txt"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	PuzzlesPath   string
	Separator     string
	Seed          int64
	LogLevel      string
	SpectatorAddr string
	ExportEnabled bool
	ExportFile    string

	ShowHelp    bool
	ShowVersion bool
}

// LoadDotEnv reads .env files into the process environment. A missing file is not
// an error.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, f := range filenames {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func FromEnv() (Config, error) {
	c := Config{}
	c.PuzzlesPath = getenv("WHEEL_PUZZLES", DefaultPuzzles)
	c.Separator = getenv("PUZZLE_SEPARATOR", DefaultSeparator)
	c.LogLevel = getenv("LOG_LEVEL", "warn")
	c.SpectatorAddr = os.Getenv("SPECTATOR_ADDR")
	c.ExportEnabled = getenv("EXPORT_ENABLED", "false") == "true"
	c.ExportFile = getenv("EXPORT_FILE", DefaultExportFile)
	if s := os.Getenv("WHEEL_SEED"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%w: WHEEL_SEED %q is not an integer", ErrInvalid, s)
		}
		c.Seed = seed
	}
	return c, nil
}

// ParseFlags applies command line flags on top of cfg. Flags win over the
// environment.
func ParseFlags(args []string, cfg Config) (Config, error) {
	fs := flag.NewFlagSet("wheeldash", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show help message")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "Show version information (shorthand)")
	fs.StringVar(&cfg.PuzzlesPath, "puzzles", cfg.PuzzlesPath, "Puzzle file")
	fs.StringVar(&cfg.SpectatorAddr, "spectator", cfg.SpectatorAddr, "Spectator server listen address")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 picks one from the clock)")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("%w: unexpected argument %q", ErrInvalid, fs.Arg(0))
	}
	if cfg.PuzzlesPath == "" {
		return Config{}, fmt.Errorf("%w: puzzle file path is empty", ErrInvalid)
	}
	if cfg.Separator == "" {
		return Config{}, fmt.Errorf("%w: puzzle separator is empty", ErrInvalid)
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
