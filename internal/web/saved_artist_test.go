package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemorySavedArtistStore(t *testing.T) {
	store := NewMemorySavedArtistStore()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	device := uuid.New()

	if _, err := store.Get(ctx, device); !errors.Is(err, ErrNoSavedArtist) {
		t.Fatalf("Get() on empty = %v, want ErrNoSavedArtist", err)
	}

	saved, err := store.Save(ctx, device, SavedArtist{ArtistQuery: "q", ArtistID: "A1", ArtistDisplayName: "A"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !saved.SavedAt.Equal(now) {
		t.Errorf("SavedAt = %v, want %v", saved.SavedAt, now)
	}

	// Saving again replaces the artist.
	if _, err := store.Save(ctx, device, SavedArtist{ArtistQuery: "r", ArtistID: "B2", ArtistDisplayName: "B"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Get(ctx, device)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ArtistID != "B2" {
		t.Errorf("Get() = %+v, want B2", got)
	}

	// Returned values are copies.
	got.ArtistID = "mutated"
	again, _ := store.Get(ctx, device)
	if again.ArtistID != "B2" {
		t.Errorf("store was mutated through returned value: %+v", again)
	}

	if err := store.Delete(ctx, device); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, device); !errors.Is(err, ErrNoSavedArtist) {
		t.Errorf("Get() after Delete() = %v, want ErrNoSavedArtist", err)
	}
}

func TestDeviceFromRequest(t *testing.T) {
	valid := uuid.New()

	tests := []struct {
		name   string
		cookie *http.Cookie
		wantID uuid.UUID
		wantOK bool
	}{
		{"no cookie", nil, uuid.Nil, false},
		{"garbage", &http.Cookie{Name: deviceCookieName, Value: "not-a-uuid"}, uuid.Nil, false},
		{"nil uuid", &http.Cookie{Name: deviceCookieName, Value: uuid.Nil.String()}, uuid.Nil, false},
		{"valid", &http.Cookie{Name: deviceCookieName, Value: valid.String()}, valid, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			id, ok := deviceFromRequest(req)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("deviceFromRequest() = (%v, %v), want (%v, %v)", id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestEnsureDevice(t *testing.T) {
	t.Run("issues cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		id := ensureDevice(rec, httptest.NewRequest(http.MethodPut, "/", nil))

		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Value != id.String() {
			t.Errorf("cookies = %v, want one with %s", cookies, id)
		}
	})

	t.Run("reuses cookie", func(t *testing.T) {
		existing := uuid.New()
		req := httptest.NewRequest(http.MethodPut, "/", nil)
		req.AddCookie(&http.Cookie{Name: deviceCookieName, Value: existing.String()})
		rec := httptest.NewRecorder()

		if id := ensureDevice(rec, req); id != existing {
			t.Errorf("ensureDevice() = %v, want %v", id, existing)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Error("ensureDevice() reissued an existing cookie")
		}
	})
}
