// Package tasks orchestrates a dashboard load with real-time progress reporting.
//
// # Load
//
// [DashboardEngine.Load] runs in two phases:
//
//  1. Required reads: profile, top artists, top tracks
//     - Issued concurrently and joined before anything else happens
//     - Any failure aborts the load with [shared.ErrRequiredDataUnavailable] wrapping every individual error
//     - An unauthorized failure also revokes the session through the configured [Invalidator]
//
//  2. Optional reads: listening stats, personality breakdown
//     - Issued only after the required reads succeeded, concurrently with each other
//     - Each failure is logged and recorded as an absent [models.Optional] carrying a
//     [shared.UnavailableError]; the other read and the load itself are unaffected
//
// The results are frozen into a [models.DashboardViewModel]. Nothing is retried within a load; a
// reload re-issues all five reads.
//
// # Progress Reporting
//
// Loads send [ProgressUpdate] values on an optional channel. Sends use select with default, so a
// slow or absent consumer never blocks a load.
package tasks
