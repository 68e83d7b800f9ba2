// package services defines the HTTP client for the listening-stats backend
package services

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/sofar/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://localhost:8000"

	// rateBurst lets the required dashboard reads leave together.
	rateBurst = 5
)

// APIOptions configures an [APIService].
type APIOptions struct {
	BaseURL    string       // Backend root, defaults to [DefaultBaseURL]
	HTTPClient *http.Client // Base client whose transport is wrapped, defaults to [http.DefaultClient]
	RateLimit  float64      // Requests per second, non-positive means unlimited
	TimeRange  string       // short_term, medium_term or long_term
}

// NewAPIService creates a client that authenticates every request with sess.
func NewAPIService(sess models.Session, opts APIOptions) *APIService {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.TimeRange == "" {
		opts.TimeRange = "medium_term"
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	client := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(sess.OAuth2Token()),
			Base:   opts.HTTPClient.Transport,
		},
		Timeout:       opts.HTTPClient.Timeout,
		CheckRedirect: opts.HTTPClient.CheckRedirect,
		Jar:           opts.HTTPClient.Jar,
	}

	return &APIService{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: client,
		limiter:    rate.NewLimiter(limit, rateBurst),
		timeRange:  opts.TimeRange,
	}
}

// LoginURL returns the backend endpoint that starts the browser login flow.
func LoginURL(baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/auth/login"
}

func (a *APIService) endpoint(path string, query url.Values) string {
	u := a.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
