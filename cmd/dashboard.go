package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/sofar/internal/formatter"
	"github.com/desertthunder/sofar/internal/insights"
	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/shared"
	"github.com/desertthunder/sofar/internal/tasks"
	"github.com/urfave/cli/v3"
)

// loadDashboard runs a guarded dashboard load, printing progress lines when showProgress is set.
func (r *Runner) loadDashboard(ctx context.Context, showProgress bool) (*models.DashboardViewModel, error) {
	gate, err := r.sessionGate()
	if err != nil {
		return nil, err
	}
	engine, err := r.engine()
	if err != nil {
		return nil, err
	}

	var vm *models.DashboardViewModel
	err = gate.Guard(func(sess models.Session) error {
		progress := make(chan tasks.ProgressUpdate, 16)
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for update := range progress {
				r.logger.Debug("dashboard progress", "phase", update.Phase, "step", update.Step, "total", update.Total)
				if showProgress && update.Message != "" {
					r.writePlain("%s\n", update.Message)
				}
			}
		}()

		var loadErr error
		vm, loadErr = engine.Load(ctx, sess, progress)
		close(progress)
		wg.Wait()
		return loadErr
	})
	if err != nil {
		return nil, err
	}

	if !vm.StatsAvailable() {
		r.logger.Warn("listening stats unavailable", "reason", vm.Stats().Reason())
	}
	if !vm.PersonalityAvailable() {
		r.logger.Warn("personality unavailable", "reason", vm.Personality().Reason())
	}
	return vm, nil
}

// Dashboard loads the dashboard and prints it as text, JSON or a Markdown export.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	markdown := cmd.Bool("markdown")

	if useJSON && markdown {
		return fmt.Errorf("%w: cannot specify both --json and --markdown", shared.ErrInvalidArgument)
	}

	vm, err := r.loadDashboard(ctx, !useJSON && !cmd.Bool("quiet"))
	if err != nil {
		return err
	}

	switch {
	case useJSON:
		return r.writeJSON(vm, pretty)
	case markdown:
		result, err := formatter.WriteMarkdownExport(vm, cmd.String("output"), r.httpClient)
		if err != nil {
			return fmt.Errorf("failed to export dashboard: %w", err)
		}
		for _, warning := range result.Warnings {
			r.logger.Warn(warning)
		}
		r.writePlainln("✓ Dashboard exported to %s", result.Directory)
		for _, f := range result.Files {
			r.writePlain("  %s\n", f)
		}
		return nil
	default:
		r.writePlain("\n")
		return r.writeBytes(formatter.DashboardToText(vm))
	}
}

// Insights loads the dashboard and prints only the derived insights.
func (r *Runner) Insights(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	vm, err := r.loadDashboard(ctx, false)
	if err != nil {
		return err
	}

	summary := insights.Summarize(vm)
	if useJSON {
		return r.writeJSON(summary, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Your Listening Insights")
	return r.writeBytes(formatter.InsightsToText(summary))
}

// Recent lists recently played tracks.
func (r *Runner) Recent(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = r.config.API.RecentLimit
	}

	gate, err := r.sessionGate()
	if err != nil {
		return err
	}

	var tracks []models.RecentTrack
	err = gate.Guard(func(sess models.Session) error {
		r.logger.Info("listing recently played tracks", "limit", limit)

		var reqErr error
		tracks, reqErr = r.api(sess).Recent(ctx, limit)
		if errors.Is(reqErr, shared.ErrUnauthorized) {
			gate.Revoke(reqErr)
			return fmt.Errorf("%w: %w", shared.ErrSessionInvalid, reqErr)
		}
		return reqErr
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}
	return r.writeBytes(formatter.RecentToText(tracks, nil))
}
