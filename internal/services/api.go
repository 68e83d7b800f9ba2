package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of an error response is quoted in the returned error.
const maxErrorBody = 256

// APIService is an authenticated client for the stats backend.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeRange  string
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs an authenticated GET request to path and returns the raw response without checking its status.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	resp, err := a.do(ctx, a.baseURL+path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Profile fetches the authenticated user's profile.
func (a *APIService) Profile(ctx context.Context) (*models.UserProfile, error) {
	var user spotify.PrivateUser
	if err := a.getJSON(ctx, "/api/me", nil, &user); err != nil {
		return nil, err
	}
	profile := profileFromSpotify(user)
	return &profile, nil
}

// TopArtists fetches up to limit top artists for the configured time range.
func (a *APIService) TopArtists(ctx context.Context, limit int) ([]models.ArtistSummary, error) {
	var artists []spotify.FullArtist
	if err := a.getJSON(ctx, "/api/top-artists", a.rangeQuery(limit), &artists); err != nil {
		return nil, err
	}
	return artistsFromSpotify(artists), nil
}

// TopTracks fetches up to limit top tracks for the configured time range.
func (a *APIService) TopTracks(ctx context.Context, limit int) ([]models.TrackSummary, error) {
	var tracks []spotify.FullTrack
	if err := a.getJSON(ctx, "/api/top-tracks", a.rangeQuery(limit), &tracks); err != nil {
		return nil, err
	}
	return tracksFromSpotify(tracks), nil
}

// Stats fetches aggregate listening stats.
func (a *APIService) Stats(ctx context.Context) (*models.ListeningStats, error) {
	var stats models.ListeningStats
	if err := a.getJSON(ctx, "/api/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Personality fetches the personality breakdown.
func (a *APIService) Personality(ctx context.Context) ([]models.PersonalityProfile, error) {
	var envelope models.PersonalityBreakdown
	if err := a.getJSON(ctx, "/api/personality", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Breakdown, nil
}

type recentItem struct {
	PlayedAt string            `json:"played_at"`
	Track    spotify.FullTrack `json:"track"`
}

// Recent fetches up to limit recently played tracks, newest first.
func (a *APIService) Recent(ctx context.Context, limit int) ([]models.RecentTrack, error) {
	var items []recentItem
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := a.getJSON(ctx, "/api/recent", query, &items); err != nil {
		return nil, err
	}
	return recentFromSpotify(items), nil
}

func (a *APIService) rangeQuery(limit int) url.Values {
	return url.Values{
		"time_range": {a.timeRange},
		"limit":      {strconv.Itoa(limit)},
	}
}

// do waits for the limiter and sends a GET request.
func (a *APIService) do(ctx context.Context, fullURL string) (*http.Response, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	return resp, nil
}

// getJSON fetches path and decodes a 2xx JSON body into dst.
func (a *APIService) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	resp, err := a.do(ctx, a.endpoint(path, query))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(path, resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s: empty body", shared.ErrMalformedPayload, path)
		}
		return fmt.Errorf("%w: %s: %v", shared.ErrMalformedPayload, path, err)
	}
	return nil
}

// checkStatus maps non-2xx responses onto sentinel errors.
func checkStatus(path string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s: status %d", shared.ErrUnauthorized, path, resp.StatusCode)
	default:
		return fmt.Errorf("%w: %s: status %d: %s", shared.ErrAPIRequest, path, resp.StatusCode, body)
	}
}
