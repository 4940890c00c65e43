package debugapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/da2ce7/bittorrent-infrastructure-project/dispatch"
)

type fakeWatched struct{ stats dispatch.Stats }

func (f fakeWatched) Stats() dispatch.Stats { return f.stats }

func TestListDispatchersEmpty(t *testing.T) {
	s := NewServer()
	srv := httptest.NewServer(s.Router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/debug/dispatchers")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no dispatchers, got %v", names)
	}
}

func TestStatsReflectsWatched(t *testing.T) {
	s := NewServer()
	s.Watch("main", fakeWatched{stats: dispatch.Stats{PoolFree: 3, OutboundQueued: 1, TimeoutsPending: 2}})

	srv := httptest.NewServer(s.Router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/debug/stats")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var got map[string]dispatch.Stats
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	stat, ok := got["main"]
	if !ok {
		t.Fatalf("expected entry for %q, got %v", "main", got)
	}
	if stat.PoolFree != 3 || stat.OutboundQueued != 1 || stat.TimeoutsPending != 2 {
		t.Fatalf("stats mismatch: %+v", stat)
	}
}

func TestUnwatchRemovesDispatcher(t *testing.T) {
	s := NewServer()
	s.Watch("main", fakeWatched{})
	s.Unwatch("main")

	snap := s.snapshot()
	if _, ok := snap["main"]; ok {
		t.Fatalf("expected %q to be removed", "main")
	}
}
