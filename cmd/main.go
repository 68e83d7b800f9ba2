package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sofar/internal/formatter"
	"github.com/desertthunder/sofar/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:    "sofar",
		Usage:   "Spotify Wrapped So Far: your listening stats and music personality",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
				Sources: cli.EnvVars("SOFAR_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   runner.configure,
		Commands: runner.register(),
	}

	err := app.Run(context.Background(), os.Args)
	runner.Close()

	code := exitCode(os.Stderr, err)
	if code < 0 {
		logger.Fatalf("application error: %v", err)
	}
	os.Exit(code)
}

// configure loads the config file, applies environment overrides and sets the log level.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	config, err := loadConfig(path, r.logger)
	if err != nil {
		return ctx, err
	}
	config.ApplyEnv(os.LookupEnv)

	level := config.Log.Level
	if cmd.Bool("verbose") {
		level = log.DebugLevel.String()
	}
	if err := shared.SetLogLevel(r.logger, level); err != nil {
		return ctx, err
	}

	if err := config.Validate(); err != nil {
		return ctx, err
	}

	r.config = config
	r.configPath = path
	return ctx, nil
}

// loadConfig reads path when it exists and falls back to the embedded defaults otherwise.
func loadConfig(path string, logger *log.Logger) (*shared.Config, error) {
	if _, err := os.Stat(path); err != nil {
		logger.Debug("config file not found, using defaults", "path", path)
		return shared.DefaultConfig(), nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInvalidConfig, err)
	}
	return config, nil
}

// exitCode prints friendly output for expected failures.
//
// Returns -1 for errors that should be logged as fatal.
func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrSessionInvalid):
		fmt.Fprintln(w, "You are not logged in. Run 'sofar auth login' to connect Spotify.")
		return 0
	case errors.Is(err, shared.ErrRequiredDataUnavailable):
		fmt.Fprintln(w, formatter.LoadFailedMessage)
		fmt.Fprintln(w, "Run 'sofar auth login' to log in again.")
		return 1
	default:
		return -1
	}
}
