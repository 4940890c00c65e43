// Package debugapi exposes read-only HTTP+WebSocket introspection of one or
// more dispatch.Dispatcher instances: pool/queue/timeout-wheel occupancy. It
// is never on the hot path of any dispatcher it watches.
//
// Modelled on the teacher's webapi.WebapiInstance: a mux.Router built once
// in Start, a gorilla/websocket upgrader allowing all origins, and JSON
// responses written through a small EncodeJSON helper (webapi/API.go).
package debugapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/da2ce7/bittorrent-infrastructure-project/dispatch"
)

// Watched is the subset of *dispatch.Dispatcher the debug API depends on.
type Watched interface {
	Stats() dispatch.Stats
}

// upgrader allows all origins, matching the teacher's WSUpgrader: this is a
// local introspection endpoint, not a public one.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server serves read-only introspection of named dispatchers.
type Server struct {
	Router *mux.Router

	mu         sync.RWMutex
	dispatcher map[string]Watched
}

// NewServer builds a Server with its routes registered; callers mount
// additional routes on Router before calling Start.
func NewServer() *Server {
	s := &Server{
		Router:     mux.NewRouter(),
		dispatcher: make(map[string]Watched),
	}
	s.Router.HandleFunc("/debug/dispatchers", s.listDispatchers).Methods("GET")
	s.Router.HandleFunc("/debug/stats", s.stats).Methods("GET")
	s.Router.HandleFunc("/debug/stats/ws", s.statsStream).Methods("GET")
	return s
}

// Watch registers a dispatcher under name so its Stats are reachable over
// the debug API. Re-registering a name replaces the previous entry.
func (s *Server) Watch(name string, d Watched) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatcher[name] = d
}

// Unwatch removes a previously registered dispatcher.
func (s *Server) Unwatch(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dispatcher, name)
}

// Start listens on addr and serves the debug API; it blocks and only
// returns on error, matching the teacher's startWebAPI.
func (s *Server) Start(addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}

func (s *Server) snapshot() map[string]dispatch.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]dispatch.Stats, len(s.dispatcher))
	for name, d := range s.dispatcher {
		out[name] = d.Stats()
	}
	return out
}

func (s *Server) listDispatchers(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	names := make([]string, 0, len(s.dispatcher))
	for name := range s.dispatcher {
		names = append(names, name)
	}
	s.mu.RUnlock()

	encodeJSON(w, names)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	encodeJSON(w, s.snapshot())
}

// statsStream upgrades to a websocket and pushes a stats snapshot every
// 500ms until the client disconnects, mirroring the teacher's
// apiSearchResultStream poll-and-send loop (webapi/Search.go).
func (s *Server) statsStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteJSON(s.snapshot()); err != nil {
			return
		}
	}
}

func encodeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}
