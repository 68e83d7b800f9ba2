package session

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/shared"
	tu "github.com/desertthunder/sofar/internal/testing"
)

var epoch = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestStore() (*Store, *MemoryStorage, *tu.Clock) {
	storage := NewMemoryStorage()
	clock := tu.NewClock(epoch)
	return NewStore(storage, WithClock(clock.Now)), storage, clock
}

func TestStore(t *testing.T) {
	t.Run("Save", func(t *testing.T) {
		t.Run("persists token and absolute expiry", func(t *testing.T) {
			store, storage, _ := newTestStore()

			sess, err := store.Save("abc", DefaultTTL)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !sess.ExpiresAt.Equal(epoch.Add(24 * time.Hour)) {
				t.Errorf("expected expiry now+24h, got %v", sess.ExpiresAt)
			}

			token, _, _ := storage.Get(KeyToken)
			if token != "abc" {
				t.Errorf("expected stored token abc, got %q", token)
			}
			expiry, _, _ := storage.Get(KeyTokenExpiry)
			if want := "1742029200000"; expiry != want {
				t.Errorf("expected expiry %s in epoch ms, got %s", want, expiry)
			}
		})

		t.Run("rejects empty token and non-positive ttl", func(t *testing.T) {
			store, _, _ := newTestStore()

			if _, err := store.Save("", DefaultTTL); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument for empty token, got %v", err)
			}
			if _, err := store.Save("abc", 0); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument for zero ttl, got %v", err)
			}
		})
	})

	t.Run("Read", func(t *testing.T) {
		tests := []struct {
			name   string
			values map[string]string
		}{
			{"empty storage", map[string]string{}},
			{"token without expiry", map[string]string{KeyToken: "abc"}},
			{"expiry without token", map[string]string{KeyTokenExpiry: "1742029200000"}},
			{"empty token", map[string]string{KeyToken: "", KeyTokenExpiry: "1742029200000"}},
			{"malformed expiry", map[string]string{KeyToken: "abc", KeyTokenExpiry: "tomorrow"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store, storage, _ := newTestStore()
				storage.Set(tt.values)

				if _, err := store.Read(); !errors.Is(err, shared.ErrSessionInvalid) {
					t.Errorf("expected ErrSessionInvalid, got %v", err)
				}
				if store.IsValid() {
					t.Error("expected store to be invalid")
				}
			})
		}

		t.Run("does not check expiry", func(t *testing.T) {
			store, _, clock := newTestStore()
			store.Save("abc", time.Hour)
			clock.Advance(2 * time.Hour)

			sess, err := store.Read()
			if err != nil {
				t.Fatalf("expected expired session to still be readable, got %v", err)
			}
			if sess.Token != "abc" {
				t.Errorf("expected token abc, got %s", sess.Token)
			}
		})
	})

	t.Run("IsValid", func(t *testing.T) {
		tests := []struct {
			name    string
			advance time.Duration
			want    bool
		}{
			{"fresh", 0, true},
			{"one millisecond before expiry", DefaultTTL - time.Millisecond, true},
			{"exactly at expiry", DefaultTTL, true},
			{"after expiry", DefaultTTL + time.Millisecond, false},
			{"long expired", 30 * DefaultTTL, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store, _, clock := newTestStore()
				store.Save("abc", DefaultTTL)
				clock.Advance(tt.advance)

				if got := store.IsValid(); got != tt.want {
					t.Errorf("expected IsValid() = %v, got %v", tt.want, got)
				}
			})
		}
	})

	t.Run("Clear", func(t *testing.T) {
		t.Run("removes all keys", func(t *testing.T) {
			store, storage, _ := newTestStore()
			store.Save("abc", DefaultTTL)
			store.CacheProfile(models.UserProfile{ID: "u1"})

			if err := store.Clear(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if storage.Len() != 0 {
				t.Errorf("expected empty storage, got %d keys", storage.Len())
			}
			if _, ok := store.CachedProfile(); ok {
				t.Error("expected cached profile to be cleared with the session")
			}
		})

		t.Run("is idempotent", func(t *testing.T) {
			store, storage, _ := newTestStore()
			store.Save("abc", DefaultTTL)

			for i := 0; i < 2; i++ {
				if err := store.Clear(); err != nil {
					t.Fatalf("clear %d: expected no error, got %v", i+1, err)
				}
				if storage.Len() != 0 {
					t.Errorf("clear %d: expected empty storage", i+1)
				}
			}
		})
	})

	t.Run("CachedProfile", func(t *testing.T) {
		store, storage, _ := newTestStore()

		if _, ok := store.CachedProfile(); ok {
			t.Error("expected no cached profile initially")
		}

		profile := models.UserProfile{ID: "u1", DisplayName: "Listener", Followers: 3}
		if err := store.CacheProfile(profile); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got, ok := store.CachedProfile()
		if !ok || got.DisplayName != "Listener" || got.Followers != 3 {
			t.Errorf("expected cached profile round trip, got %+v (%v)", got, ok)
		}

		storage.Set(map[string]string{KeyCachedProfile: "{not json"})
		if _, ok := store.CachedProfile(); ok {
			t.Error("expected undecodable profile to be ignored")
		}
	})
}
