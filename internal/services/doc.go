// Package services implements the client for the listening-stats backend.
//
// The backend fronts the Spotify Web API and owns the OAuth exchange with Spotify. This client only
// ever holds the opaque bearer token the backend issued, attached to every request by an
// [oauth2.Transport] over a static token source.
//
// # Endpoints
//
//   - GET /api/me : profile ([APIService.Profile])
//   - GET /api/top-artists : ranked artists ([APIService.TopArtists])
//   - GET /api/top-tracks : ranked tracks ([APIService.TopTracks])
//   - GET /api/stats : aggregate listening stats ([APIService.Stats])
//   - GET /api/personality : personality breakdown ([APIService.Personality])
//   - GET /api/recent : recently played ([APIService.Recent])
//
// Spotify-shaped payloads decode into github.com/zmb3/spotify/v2 types and are then mapped to
// models; backend-specific payloads decode directly into models.
//
// # Error Handling
//
// Failures wrap sentinel errors from the shared package:
//   - [shared.ErrUnauthorized] : 401 or 403, the token was rejected
//   - [shared.ErrAPIRequest] : transport failure or any other non-2xx status
//   - [shared.ErrMalformedPayload] : the body did not decode
//
// All requests share a [rate.Limiter] so concurrent dashboard reads stay within the configured rate.
package services
