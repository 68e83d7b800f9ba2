package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/shared"
)

// DefaultTTL is how long a saved token is trusted.
const DefaultTTL = 24 * time.Hour

// Store is the credential store. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	storage Storage
	now     func() time.Time
}

// Option configures a [Store].
type Option func(*Store)

// WithClock replaces [time.Now] as the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a [Store] over storage.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists token with an expiry of now + ttl and returns the stored session.
func (s *Store) Save(token string, ttl time.Duration) (models.Session, error) {
	if token == "" {
		return models.Session{}, fmt.Errorf("%w: empty token", shared.ErrInvalidArgument)
	}
	if ttl <= 0 {
		return models.Session{}, fmt.Errorf("%w: ttl must be positive", shared.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := models.Session{Token: token, ExpiresAt: s.now().Add(ttl).Truncate(time.Millisecond)}
	err := s.storage.Set(map[string]string{
		KeyToken:       sess.Token,
		KeyTokenExpiry: strconv.FormatInt(sess.ExpiresAt.UnixMilli(), 10),
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

// Read returns the stored session without checking expiry.
//
// A missing or malformed field yields [shared.ErrSessionInvalid].
func (s *Store) Read() (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) read() (models.Session, error) {
	token, ok, err := s.storage.Get(KeyToken)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok || token == "" {
		return models.Session{}, fmt.Errorf("%w: no token", shared.ErrSessionInvalid)
	}

	raw, ok, err := s.storage.Get(KeyTokenExpiry)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return models.Session{}, fmt.Errorf("%w: no expiry", shared.ErrSessionInvalid)
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: malformed expiry %q", shared.ErrSessionInvalid, raw)
	}

	return models.Session{Token: token, ExpiresAt: time.UnixMilli(ms)}, nil
}

// IsValid reports whether a session is stored and now is not after its expiry.
func (s *Store) IsValid() bool {
	_, ok := s.Valid()
	return ok
}

// Valid returns the stored session if it is valid.
func (s *Store) Valid() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.read()
	if err != nil || sess.Empty() || sess.Expired(s.now()) {
		return models.Session{}, false
	}
	return sess, true
}

// Clear removes the token, its expiry, and the cached profile. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(AllKeys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CacheProfile stores profile under [KeyCachedProfile]. It is removed with the session.
func (s *Store) CacheProfile(profile models.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(map[string]string{KeyCachedProfile: string(data)}); err != nil {
		return fmt.Errorf("failed to cache profile: %w", err)
	}
	return nil
}

// CachedProfile returns the last cached profile, if any and decodable.
func (s *Store) CachedProfile() (models.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.storage.Get(KeyCachedProfile)
	if err != nil || !ok {
		return models.UserProfile{}, false
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return models.UserProfile{}, false
	}
	return profile, true
}

// Now returns the store's current time.
func (s *Store) Now() time.Time { return s.now() }
