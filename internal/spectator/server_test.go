package spectator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kiliankoe/wheeldash/internal/game"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleSnapshot() game.Snapshot {
	return game.Snapshot{
		ID:      "abc",
		Phase:   game.PhaseAwaitingAction,
		Round:   1,
		Rounds:  2,
		Topic:   "Cidade",
		Visible: "B-- --- B-----",
		Current: "Ana",
		Players: []game.Player{{Name: "Ana", RoundMoney: 1500}, {Name: "Bruno"}},
	}
}

func TestHealth(t *testing.T) {
	r := gin.New()
	New().Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body)
	}
}

func TestStateBeforeAndAfterPublish(t *testing.T) {
	srv := New()
	r := gin.New()
	srv.Routes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any game, got %d", rec.Code)
	}

	srv.Publish(sampleSnapshot())
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got game.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ID != "abc" || got.Visible != "B-- --- B-----" || got.Current != "Ana" {
		t.Fatalf("unexpected state %+v", got)
	}
	if len(got.Players) != 2 || got.Players[0].RoundMoney != 1500 {
		t.Fatalf("unexpected players %+v", got.Players)
	}
}

func TestPublishReplacesSnapshot(t *testing.T) {
	srv := New()
	s := sampleSnapshot()
	srv.Publish(s)
	s.Phase = game.PhaseGameOver
	srv.Publish(s)
	got, ok := srv.Snapshot()
	if !ok || got.Phase != game.PhaseGameOver {
		t.Fatalf("expected the latest snapshot, got %+v", got)
	}
}

func TestEngineServesPage(t *testing.T) {
	srv := New()
	r := srv.Engine()
	defer srv.Shutdown(context.Background())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "wheeldash") {
		t.Fatalf("expected spectator page, got %d", rec.Code)
	}

	// publishing with socket.io mounted must not block without viewers
	srv.Publish(sampleSnapshot())
	if srv.Viewers() != 0 {
		t.Fatalf("expected no viewers, got %d", srv.Viewers())
	}
}

func TestStartAndShutdown(t *testing.T) {
	srv := New()
	if err := srv.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	srv.Publish(sampleSnapshot())

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + srv.Addr() + "/api/state")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if _, err := client.Get("http://" + srv.Addr() + "/health"); err == nil {
		t.Fatal("expected the server to be closed")
	}
}
