// Package repositories implements SQLite persistence.
//
// Key Implementations:
//   - [SessionRepository] : key/value session state in the session_state table, usable as a session.Storage
//
// Schema changes live in shared's embedded migrations; [Open] applies them before handing out a repository.
package repositories
