package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/sofar/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the default configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		path = defaultConfigPath
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Config written to %s\n", path)
}

// ConfigShow prints the effective configuration after file and environment overrides.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") {
		return r.writeJSON(r.config, true)
	}

	data, err := toml.Marshal(r.config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return r.writeBytes(data)
}

// SetupDatabase initializes the session database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path, err := r.databasePath()
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", path)
	if r.config.Session.Backend != shared.SessionBackendSQLite {
		r.writePlain("Set session.backend = \"sqlite\" in your config to store sessions here\n")
	}
	return r.writePlain("✓ Database ready at %s\n", path)
}

// RollbackDatabase reverts the most recently applied migration.
func (r *Runner) RollbackDatabase(ctx context.Context, cmd *cli.Command) error {
	path, err := r.databasePath()
	if err != nil {
		return err
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := shared.RollbackMigration(db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	r.logger.Info("rolled back migration", "path", path)
	return r.writePlain("✓ Rolled back the latest migration\n")
}

// databasePath resolves the sqlite path even when the file backend is active.
func (r *Runner) databasePath() (string, error) {
	cfg := *r.config
	cfg.Session.Backend = shared.SessionBackendSQLite
	if r.config.Session.Backend != shared.SessionBackendSQLite {
		cfg.Session.Path = ""
	}
	return cfg.SessionPath()
}
