// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The TUI moves through four views:
//  1. [LoadingView] : Spinner and progress while the session is checked and the dashboard loads
//  2. [UnauthenticatedView] : No valid session; prompts for login
//  3. [LoadFailedView] : A required read failed; offers re-authentication or a retry
//  4. [DashboardView] : Overview, top artists and top tracks, switched with tab
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every load re-evaluates the session gate first, so an expired session lands on the login prompt instead of a request.
// Progress updates flow through a channel from the DashboardEngine, providing non-blocking status reporting during loads.
//
// Login itself happens outside the TUI: pressing l quits with [Model.LoginRequested] set so the caller can
// run the browser flow and start a fresh program.
package ui
