package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hsufamily/scorepad/internal/database"
	"github.com/hsufamily/scorepad/internal/migrations"
	"github.com/hsufamily/scorepad/internal/scores"
)

var testRoster = []string{"A", "Y", "D", "C"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter wires the full route tree over an in-memory database with
// the PIN gate disabled.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	store := scores.New(db, testRoster)

	r := chi.NewRouter()
	addRoutes(r, discardLogger(), Options{
		Addr:               ":0",
		Store:              store,
		DB:                 db,
		Gate:               NewFamilyGate("", "test-secret"),
		DefaultTotalRounds: 10,
		AvatarsDir:         t.TempDir(),
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func createGame(t *testing.T, r http.Handler, totalRounds int) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/games", CreateGameRequest{TotalRounds: totalRounds})
	if w.Code != http.StatusCreated {
		t.Fatalf("create game: status = %d: %s", w.Code, w.Body.String())
	}
	return decode[CreateGameResponse](t, w).ID
}

func hashPIN(t *testing.T, pin string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing pin: %v", err)
	}
	return string(hash)
}
