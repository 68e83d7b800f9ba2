// Package models defines the domain types for the listening dashboard.
//
// The package contains three groups of types:
//
// 1. Session state
//   - [Session] : bearer token with its absolute expiry instant
//
// 2. Remote snapshots, decoded from the stats backend and immutable once built
//   - [UserProfile] : identity fields for the authenticated listener
//   - [ArtistSummary] : ranked top artist with genre tags
//   - [TrackSummary] : ranked top track with album and artists
//   - [RecentTrack] : a single play from the recently played feed
//   - [ListeningStats] : listening time, genre counts, hour-of-day trends and audio feature averages
//   - [PersonalityProfile] : scored listening personality category
//
// 3. Aggregates
//   - [Optional] : a value that may be unavailable, with the reason it is missing
//   - [DashboardViewModel] : the merged result of one dashboard load
//
// Optional parts of a dashboard are first-class [Optional] values instead of nil pointers so callers
// can distinguish "not loaded" from "loaded but empty".
package models
