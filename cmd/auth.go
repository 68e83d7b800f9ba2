package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/server"
	"github.com/desertthunder/sofar/internal/services"
	"github.com/desertthunder/sofar/internal/session"
	"github.com/desertthunder/sofar/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	loginTimeout    = 2 * time.Minute
	shutdownTimeout = 5 * time.Second
)

// AuthLogin runs the browser login flow.
//
// Starts the local callback server, opens the backend login page and stores the token the backend redirects back with.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = loginTimeout
	}

	sess, err := r.login(ctx, timeout, !cmd.Bool("no-browser"))
	if err != nil {
		return err
	}

	r.writePlainln("✓ Logged in")
	r.writePlain("Session valid until %s\n\n", sess.ExpiresAt.Local().Format(time.RFC1123))
	r.writePlain("You can now use: sofar dashboard\n")
	return nil
}

func (r *Runner) login(ctx context.Context, timeout time.Duration, openBrowser bool) (models.Session, error) {
	store, err := r.sessionStore()
	if err != nil {
		return models.Session{}, err
	}

	handler := server.NewCallbackHandler()
	router := server.NewRouter(shared.WithLogger(r.logger, "component", "callback"))
	router.Handler(handler)

	srv := server.New(r.config.ServerAddr(), router)
	if err := srv.Start(); err != nil {
		return models.Session{}, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("failed to stop callback server", "error", err)
		}
	}()
	r.callbackAddr = srv.Addr()

	loginURL := services.LoginURL(r.config.API.BaseURL)
	r.logger.Info("waiting for login callback", "addr", r.callbackAddr, "timeout", timeout)

	if !openBrowser {
		r.writePlain("Open this URL to log in:\n%s\n", loginURL)
	} else if err := r.openBrowser(loginURL); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
		r.writePlain("Open this URL to log in:\n%s\n", loginURL)
	} else {
		r.writePlain("Opened %s in your browser\n", loginURL)
	}

	token, err := srv.Await(ctx, handler, timeout)
	if err != nil {
		if errors.Is(err, shared.ErrTimeout) {
			return models.Session{}, fmt.Errorf("%w: no login callback within %s", shared.ErrAuthFailed, timeout)
		}
		return models.Session{}, err
	}

	sess, err := store.Save(token, session.DefaultTTL)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to save session: %w", err)
	}
	r.logger.Info("session saved", "expires_at", sess.ExpiresAt)
	return sess, nil
}

// AuthToken stores a token pasted by the user or taken from a cURL command.
func (r *Runner) AuthToken(ctx context.Context, cmd *cli.Command) error {
	token := strings.TrimSpace(cmd.StringArg("token"))
	curlFile := cmd.String("from-curl")

	if token != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both a token and --from-curl", shared.ErrInvalidArgument)
	}

	if curlFile != "" {
		req, err := shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		if token, err = req.BearerToken(); err != nil {
			return err
		}
		r.logger.Info("parsed token from cURL file", "file", curlFile)
	}

	if token == "" {
		return fmt.Errorf("%w: token or --from-curl is required", shared.ErrMissingArgument)
	}

	store, err := r.sessionStore()
	if err != nil {
		return err
	}

	sess, err := store.Save(token, session.DefaultTTL)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	r.writePlain("✓ Token saved\n")
	r.writePlain("Session valid until %s\n", sess.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

// AuthLogout clears the stored session. Logging out twice is not an error.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	store, err := r.sessionStore()
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	r.logger.Debug("session cleared")
	return r.writePlain("✓ Logged out\n")
}

type authStatus struct {
	Authenticated bool                `json:"authenticated"`
	State         string              `json:"state"`
	ExpiresAt     *time.Time          `json:"expires_at,omitempty"`
	Remaining     string              `json:"remaining,omitempty"`
	Profile       *models.UserProfile `json:"profile,omitempty"`
}

// AuthStatus evaluates the session gate and reports the result.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	gate, err := r.sessionGate()
	if err != nil {
		return err
	}

	sess, state := gate.Evaluate()
	status := authStatus{
		Authenticated: state == session.StateAuthenticated,
		State:         state.String(),
	}
	if status.Authenticated {
		expires := sess.ExpiresAt
		status.ExpiresAt = &expires
		status.Remaining = sess.Remaining(r.store.Now()).Round(time.Minute).String()
		if profile, ok := r.store.CachedProfile(); ok {
			status.Profile = &profile
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	if !status.Authenticated {
		r.writePlain("Authentication: ✗ Not logged in\n")
		return r.writePlain("Run 'sofar auth login' to connect Spotify\n")
	}

	r.writePlain("Authentication: ✓ Logged in\n")
	if status.Profile != nil {
		r.writePlain("Account: %s\n", status.Profile.Name())
	}
	return r.writePlain("Expires in: %s\n", status.Remaining)
}
