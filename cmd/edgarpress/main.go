package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/edgarpress/edgarpress/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// The contact identity often lives in a local .env file.
	_ = godotenv.Load()

	var (
		configPath  string
		outputPath  string
		contact     string
		formType    string
		maxFilings  int
		minInterval time.Duration
		verbose     bool
	)

	flag.StringVar(&configPath, "config", "edgarpress.yaml", "Path to YAML config holding the company table")
	flag.StringVar(&outputPath, "output", "press_releases.csv", "Path to write the CSV dataset")
	flag.StringVar(&contact, "contact", os.Getenv("EDGAR_CONTACT"), "Contact identity for the User-Agent header, e.g. 'Jane Doe jane@example.com'")
	flag.StringVar(&formType, "form", "8-K", "Form type to scan")
	flag.IntVar(&maxFilings, "max.filings", 300, "Most recent filings to scan per company")
	flag.DurationVar(&minInterval, "minInterval", 250*time.Millisecond, "Minimum delay before each EDGAR request")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		OutputPath:           outputPath,
		Contact:              contact,
		FormType:             formType,
		MaxFilingsPerCompany: maxFilings,
		MinInterval:          minInterval,
		Verbose:              verbose,
	}

	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		switch {
		case err == nil:
			fc.Apply(&cfg)
		case errors.Is(err, os.ErrNotExist):
			log.Warn().Str("path", configPath).Msg("config file not found; using flags only")
		default:
			log.Error().Err(err).Str("path", configPath).Msg("load config")
			os.Exit(1)
		}
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		// Exit code policy: 2 when the run produced no usable dataset,
		// 1 for configuration and sink failures.
		if errors.Is(err, app.ErrNoPressReleases) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(context.Background())
}
