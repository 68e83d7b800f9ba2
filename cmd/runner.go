package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/repositories"
	"github.com/desertthunder/sofar/internal/services"
	"github.com/desertthunder/sofar/internal/session"
	"github.com/desertthunder/sofar/internal/shared"
	"github.com/desertthunder/sofar/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	store       *session.Store
	gate        *session.Gate
	db          *sql.DB
	readers     tasks.ReaderFactory
	openBrowser func(string) error

	callbackAddr string
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	Store       *session.Store      // Opened from config on first use when nil
	Readers     tasks.ReaderFactory // Defaults to a [services.APIService] per session
	OpenBrowser func(string) error  // Defaults to [shared.OpenBrowser]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	r := &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		store:       opts.Store,
		readers:     opts.Readers,
		openBrowser: opts.OpenBrowser,
	}
	if r.readers == nil {
		r.readers = r.apiReader
	}
	if r.store != nil {
		r.gate = session.NewGate(r.store, r.logger)
	}
	return r
}

// SetLogger replaces the logger used by the runner and any gate it already created.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.store != nil {
		r.gate = session.NewGate(r.store, logger)
	}
}

// Close releases the session database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// api returns a backend client authenticated with sess.
func (r *Runner) api(sess models.Session) *services.APIService {
	return services.NewAPIService(sess, services.APIOptions{
		BaseURL:    r.config.API.BaseURL,
		HTTPClient: r.httpClient,
		RateLimit:  r.config.API.RateLimit,
		TimeRange:  r.config.API.TimeRange,
	})
}

func (r *Runner) apiReader(sess models.Session) tasks.Reader {
	return r.api(sess)
}

// sessionStore opens the configured credential storage on first use.
func (r *Runner) sessionStore() (*session.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	path, err := r.config.SessionPath()
	if err != nil {
		return nil, err
	}

	var storage session.Storage
	switch r.config.Session.Backend {
	case shared.SessionBackendSQLite:
		db, err := repositories.Open(path, r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open session database: %w", err)
		}
		r.db = db
		storage = repositories.NewSessionRepository(db)
	default:
		storage = session.NewFileStorage(path)
	}

	r.logger.Debug("opened session storage", "backend", r.config.Session.Backend, "path", path)
	r.store = session.NewStore(storage)
	r.gate = session.NewGate(r.store, r.logger)
	return r.store, nil
}

// sessionGate returns the gate guarding the configured store.
func (r *Runner) sessionGate() (*session.Gate, error) {
	if _, err := r.sessionStore(); err != nil {
		return nil, err
	}
	return r.gate, nil
}

// engine builds a dashboard engine wired to the runner's gate and store.
func (r *Runner) engine() (*tasks.DashboardEngine, error) {
	gate, err := r.sessionGate()
	if err != nil {
		return nil, err
	}

	return tasks.NewDashboardEngine(tasks.EngineOpts{
		Readers:         r.readers,
		Invalidator:     gate,
		Cache:           r.store,
		Logger:          shared.WithLogger(r.logger, "component", "engine"),
		TopArtistsLimit: r.config.API.TopArtistsLimit,
		TopTracksLimit:  r.config.API.TopTracksLimit,
	}), nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, dashboardCommand, insightsCommand, recentCommand, apiCommand, configCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

func (r *Runner) writeBytes(b []byte) error {
	if _, err := r.output.Write(b); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
