package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct authenticated GET request to the backend
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	useJSON := cmd.Bool("json")

	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	gate, err := r.sessionGate()
	if err != nil {
		return err
	}

	return gate.Guard(func(sess models.Session) error {
		r.logger.Info("GET request", "path", path)

		resp, err := r.api(sess).Get(ctx, path)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
		}

		if resp.IsJSON {
			return r.writeJSON(resp.JSONData, !useJSON)
		}

		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
		return nil
	})
}
