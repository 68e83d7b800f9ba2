package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/shared"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTopArtistsLimit = 6
	DefaultTopTracksLimit  = 10

	requiredReads = 3
	optionalReads = 2
)

// Optional resource kinds, as reported by [shared.UnavailableError].
const (
	KindStats       = "stats"
	KindPersonality = "personality"
)

// Reader defines the backend reads a dashboard load issues.
//
// Implemented by [services.APIService]; tests substitute a fake.
type Reader interface {
	Profile(ctx context.Context) (*models.UserProfile, error)
	TopArtists(ctx context.Context, limit int) ([]models.ArtistSummary, error)
	TopTracks(ctx context.Context, limit int) ([]models.TrackSummary, error)
	Stats(ctx context.Context) (*models.ListeningStats, error)
	Personality(ctx context.Context) ([]models.PersonalityProfile, error)
}

// ReaderFactory builds a [Reader] authenticated with the given session.
type ReaderFactory func(models.Session) Reader

// Invalidator is notified when the backend rejects the session credential.
type Invalidator interface {
	Revoke(reason error)
}

// ProfileCache stores the last loaded profile for offline display.
type ProfileCache interface {
	CacheProfile(models.UserProfile) error
}

// EngineOpts configures a [DashboardEngine]. Only Readers is required.
type EngineOpts struct {
	Readers         ReaderFactory
	Invalidator     Invalidator
	Cache           ProfileCache
	Logger          *log.Logger
	TopArtistsLimit int
	TopTracksLimit  int
	Now             func() time.Time
}

// DashboardEngine aggregates the five dashboard reads into a [models.DashboardViewModel].
type DashboardEngine struct {
	readers     ReaderFactory
	invalidator Invalidator
	cache       ProfileCache
	logger      *log.Logger
	artists     int
	tracks      int
	now         func() time.Time
}

// NewDashboardEngine creates a DashboardEngine, filling unset options with defaults.
func NewDashboardEngine(opts EngineOpts) *DashboardEngine {
	e := &DashboardEngine{
		readers:     opts.Readers,
		invalidator: opts.Invalidator,
		cache:       opts.Cache,
		logger:      opts.Logger,
		artists:     opts.TopArtistsLimit,
		tracks:      opts.TopTracksLimit,
		now:         opts.Now,
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	if e.artists <= 0 {
		e.artists = DefaultTopArtistsLimit
	}
	if e.tracks <= 0 {
		e.tracks = DefaultTopTracksLimit
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// required holds the results of the three required reads.
type required struct {
	profile models.UserProfile
	artists []models.ArtistSummary
	tracks  []models.TrackSummary
}

// Load performs a full dashboard load for sess.
//
// No view-model is returned unless all required reads succeed. Optional reads never fail the load.
func (e *DashboardEngine) Load(ctx context.Context, sess models.Session, progress chan<- ProgressUpdate) (*models.DashboardViewModel, error) {
	if e.readers == nil {
		return nil, fmt.Errorf("%w: no reader configured", shared.ErrInvalidConfig)
	}
	if sess.Empty() {
		return nil, shared.ErrSessionInvalid
	}

	loadID := shared.GenerateID()
	logger := shared.WithLogger(e.logger, "load", loadID)
	reader := e.readers(sess)

	e.sendProgress(progress, startRequiredUpdate(requiredReads))
	req, err := e.loadRequired(ctx, reader, progress)
	if err != nil {
		if errors.Is(err, shared.ErrUnauthorized) && e.invalidator != nil {
			logger.Warn("backend rejected session", "error", err)
			e.invalidator.Revoke(err)
		}
		logger.Error("required data unavailable", "error", err)
		return nil, fmt.Errorf("%w: %w", shared.ErrRequiredDataUnavailable, err)
	}

	e.sendProgress(progress, startOptionalUpdate(optionalReads))
	stats, personality := e.loadOptional(ctx, reader, logger, progress)

	vm := models.NewDashboard(models.DashboardParts{
		LoadID:      loadID,
		LoadedAt:    e.now(),
		Profile:     req.profile,
		TopArtists:  req.artists,
		TopTracks:   req.tracks,
		Stats:       stats,
		Personality: personality,
	})

	if e.cache != nil {
		if err := e.cache.CacheProfile(req.profile); err != nil {
			logger.Warn("failed to cache profile", "error", err)
		}
	}

	logger.Debug("dashboard loaded",
		"artists", len(req.artists),
		"tracks", len(req.tracks),
		"stats", vm.StatsAvailable(),
		"personality", vm.PersonalityAvailable(),
	)
	e.sendProgress(progress, mergedUpdate(vm))
	return vm, nil
}

// loadRequired issues the required reads concurrently and waits for all of them.
//
// Siblings are not cancelled on failure; every error is reported.
func (e *DashboardEngine) loadRequired(ctx context.Context, r Reader, progress chan<- ProgressUpdate) (required, error) {
	var (
		g    errgroup.Group
		res  required
		errs [requiredReads]error
		done atomic.Int32
	)

	finish := func(name string) {
		e.sendProgress(progress, requiredDoneUpdate(int(done.Add(1)), requiredReads, name))
	}

	g.Go(func() error {
		p, err := r.Profile(ctx)
		if err == nil && p == nil {
			err = fmt.Errorf("%w: empty profile", shared.ErrMalformedPayload)
		}
		if err != nil {
			errs[0] = fmt.Errorf("profile: %w", err)
			return errs[0]
		}
		res.profile = *p
		finish("Profile")
		return nil
	})
	g.Go(func() error {
		artists, err := r.TopArtists(ctx, e.artists)
		if err != nil {
			errs[1] = fmt.Errorf("top artists: %w", err)
			return errs[1]
		}
		res.artists = artists
		finish("Top artists")
		return nil
	})
	g.Go(func() error {
		tracks, err := r.TopTracks(ctx, e.tracks)
		if err != nil {
			errs[2] = fmt.Errorf("top tracks: %w", err)
			return errs[2]
		}
		res.tracks = tracks
		finish("Top tracks")
		return nil
	})

	if err := g.Wait(); err != nil {
		return required{}, errors.Join(errs[:]...)
	}
	return res, nil
}

// loadOptional issues the optional reads concurrently. Failures are contained per read.
func (e *DashboardEngine) loadOptional(ctx context.Context, r Reader, logger *log.Logger, progress chan<- ProgressUpdate) (models.Optional[models.ListeningStats], models.Optional[[]models.PersonalityProfile]) {
	var (
		wg          sync.WaitGroup
		done        atomic.Int32
		stats       models.Optional[models.ListeningStats]
		personality models.Optional[[]models.PersonalityProfile]
	)

	finish := func(kind string, err error) {
		e.sendProgress(progress, optionalDoneUpdate(int(done.Add(1)), optionalReads, kind, err))
	}

	wg.Add(optionalReads)
	go func() {
		defer wg.Done()
		stats = fetchOptional(ctx, logger, KindStats, func(ctx context.Context) (models.ListeningStats, error) {
			s, err := r.Stats(ctx)
			if err != nil {
				return models.ListeningStats{}, err
			}
			if s == nil {
				return models.ListeningStats{}, fmt.Errorf("%w: empty stats", shared.ErrMalformedPayload)
			}
			return *s, nil
		})
		finish(KindStats, stats.Reason())
	}()
	go func() {
		defer wg.Done()
		personality = fetchOptional(ctx, logger, KindPersonality, r.Personality)
		finish(KindPersonality, personality.Reason())
	}()
	wg.Wait()

	return stats, personality
}

// fetchOptional runs fn, converting an error or panic into an absent value.
func fetchOptional[T any](ctx context.Context, logger *log.Logger, kind string, fn func(context.Context) (T, error)) (out models.Optional[T]) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			logger.Warn("optional data unavailable", "kind", kind, "error", err)
			out = models.Absent[T](shared.OptionalDataUnavailable(kind, err))
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		logger.Warn("optional data unavailable", "kind", kind, "error", err)
		return models.Absent[T](shared.OptionalDataUnavailable(kind, err))
	}
	return models.Present(v)
}

// sendProgress sends a progress update through the channel without blocking.
func (e *DashboardEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full, skip this update
	}
}
