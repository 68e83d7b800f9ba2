// Package session owns the bearer credential: where it is stored, whether it is still valid, and
// whether guarded views may render.
//
// # Credential Store
//
// [Store] persists a token and its absolute expiry under the keys [KeyToken] and [KeyTokenExpiry],
// plus the last fetched profile under [KeyCachedProfile]. Validity is "token present and now is not
// after the expiry". [Store.Clear] removes all three keys and is idempotent.
//
// Storage is pluggable through [Storage]:
//   - [FileStorage] : JSON file written atomically with 0600 permissions (default)
//   - [MemoryStorage] : process memory, for tests and one-off runs
//   - repositories.SessionRepository : SQLite table
//
// # Session Gate
//
// [Gate] is the state machine in front of protected views:
//
//	Unknown ──Evaluate──▶ Authenticated ──Revoke──▶ Unauthenticated
//	   └───────Evaluate (invalid, store cleared)──────▶ Unauthenticated
//
// Unknown is the zero state before the first evaluation so callers can show a placeholder instead
// of flashing the wrong view. [Gate.Revoke] may be called at any time, e.g. when a later request is
// rejected as unauthorized, and takes effect immediately.
package session
