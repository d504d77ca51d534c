// Package server runs one match in real time and exposes it over HTTP.
//
// A ticker advances the engine by a fixed amount of match time. Every new
// event and a fresh state snapshot are pushed to websocket clients on /ws;
// the same read surface is available as JSON under /api, together with the
// control endpoints (start, pause, resume, speed, substitutions, power-ups).
//
// The engine is single-threaded. Every access goes through Server.mu.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/report"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/store"
)

// Message types sent on the websocket.
const (
	MessageSnapshot = "snapshot"
	MessageEvent    = "event"
	MessageState    = "state"
)

// Side is one team on the scoreboard.
type Side struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// State is the match read surface.
type State struct {
	MatchID    int           `json:"match_id"`
	Home       Side          `json:"home"`
	Away       Side          `json:"away"`
	Period     engine.Period `json:"period"`
	Elapsed    float64       `json:"elapsed"`
	Clock      string        `json:"clock"`
	Minute     int           `json:"minute"`
	Started    bool          `json:"started"`
	Running    bool          `json:"running"`
	Speed      float64       `json:"speed"`
	Ball       engine.Ball   `json:"ball"`
	Possession float64       `json:"possession"`
	Scoreboard string        `json:"scoreboard"`
	Winner     int           `json:"winner,omitempty"`
	Events     int           `json:"events"`
}

// EventView is an event with its position in the log and its text line.
type EventView struct {
	Seq    int              `json:"seq"`
	Kind   engine.EventKind `json:"kind"`
	Minute int              `json:"minute"`
	Event  engine.Event     `json:"event"`
	Text   string           `json:"text"`
}

// Message is one websocket frame.
type Message struct {
	Type   string      `json:"type"`
	State  *State      `json:"state,omitempty"`
	Event  *EventView  `json:"event,omitempty"`
	Events []EventView `json:"events,omitempty"`
}

// Server drives one engine and serves it.
type Server struct {
	mu     sync.Mutex
	engine *engine.Engine
	dir    *report.Directory
	sent   int
	period engine.Period

	hub      *Hub
	store    *store.Store
	logger   *slog.Logger
	tick     time.Duration
	origins  []string
	upgrader websocket.Upgrader
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithStore persists the match at half-time and applies the result at full
// time. Both teams must already be stored (see store.RegisterTeams).
func WithStore(st *store.Store) Option {
	return func(s *Server) {
		s.store = st
	}
}

// WithTick sets the wall-clock interval between updates. Each update
// advances the match by the same number of seconds, times the engine speed.
// Default: one second.
func WithTick(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.tick = d
		}
	}
}

// WithAllowedOrigins sets the CORS and websocket origins. Default: "*".
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// New wraps an engine. The server owns the engine from here on; callers
// must not use it concurrently.
func New(e *engine.Engine, opts ...Option) *Server {
	s := &Server{
		engine:  e,
		period:  e.Period(),
		tick:    time.Second,
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	home, away := e.Home(), e.Away()
	s.dir = report.NewDirectory(home, away)
	s.sent = len(e.Events())
	s.hub = NewHub(s.logger)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns the HTTP routes wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.logRequests)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/match", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/match/start", s.handleStart).Methods(http.MethodPost)
	api.HandleFunc("/match/pause", s.handlePause).Methods(http.MethodPost)
	api.HandleFunc("/match/resume", s.handleResume).Methods(http.MethodPost)
	api.HandleFunc("/match/speed", s.handleSpeed).Methods(http.MethodPost)
	api.HandleFunc("/match/substitutions", s.handleSubstitute).Methods(http.MethodPost)
	api.HandleFunc("/match/power-ups", s.handlePowerUp).Methods(http.MethodPost)
	api.HandleFunc("/match/power-ups/draw", s.handleDraw).Methods(http.MethodPost)
	api.HandleFunc("/power-ups", s.handlePowerUps).Methods(http.MethodGet)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	api.HandleFunc("/teams/{id:[0-9]+}", s.handleTeam).Methods(http.MethodGet)

	router.HandleFunc("/ws", s.handleWebSocket)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(router)
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Step advances the match by delta seconds and publishes what changed.
// The returned error comes from persistence only; the tick itself always
// happens. A failed save is tried again on the next step unless the store
// refused this run for good.
func (s *Server) Step(ctx context.Context, delta float64) error {
	s.mu.Lock()
	s.engine.Update(delta)
	msgs := s.pendingLocked()
	var err error
	if p := s.engine.Period(); p != s.period {
		err = s.persistLocked(ctx, p)
		if err == nil || errors.Is(err, store.ErrRunConflict) || errors.Is(err, store.ErrResultApplied) {
			s.period = p
		}
	}
	s.mu.Unlock()

	s.publish(msgs)
	return err
}

// Run starts the hub and ticks the engine until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	go s.hub.Run(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Step(ctx, s.tick.Seconds()); err != nil {
				s.logger.Error("persist match", "error", err)
			}
		}
	}
}

// ListenAndServe runs the match and serves HTTP on addr until ctx is
// cancelled, then shuts down within timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.Run(runCtx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving match", "addr", addr, "match", s.engine.ID())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), timeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// pendingLocked builds the messages for events not yet published, followed
// by a state message.
func (s *Server) pendingLocked() []Message {
	events := s.engine.Events()
	msgs := make([]Message, 0, len(events)-s.sent+1)
	for i := s.sent; i < len(events); i++ {
		view := s.viewLocked(i+1, events[i])
		msgs = append(msgs, Message{Type: MessageEvent, Event: &view})
	}
	s.sent = len(events)
	state := s.stateLocked()
	return append(msgs, Message{Type: MessageState, State: &state})
}

func (s *Server) publish(msgs []Message) {
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			s.logger.Error("marshal message", "type", m.Type, "error", err)
			continue
		}
		s.hub.Broadcast(data)
	}
}

func (s *Server) persistLocked(ctx context.Context, p engine.Period) error {
	if s.store == nil {
		return nil
	}
	switch p {
	case engine.HalfTime:
		rec, err := s.store.SaveMatch(ctx, s.engine)
		if err != nil {
			return err
		}
		s.logger.Info("saved half-time", "match", rec.ID, "score", s.engine.ScoreLine())
	case engine.Finished:
		rec, err := s.store.ApplyResult(ctx, s.engine)
		if err != nil {
			return err
		}
		s.logger.Info("applied result", "match", rec.ID, "run", rec.RunToken)
	}
	return nil
}

func (s *Server) stateLocked() State {
	e := s.engine
	home, away := e.Home(), e.Away()
	hs, as := e.Score()
	winner, _ := e.Winner()
	return State{
		MatchID:    e.ID(),
		Home:       Side{ID: home.ID, Name: home.Name, Score: hs},
		Away:       Side{ID: away.ID, Name: away.Name, Score: as},
		Period:     e.Period(),
		Elapsed:    e.Elapsed(),
		Clock:      e.Clock(),
		Minute:     e.Minute(),
		Started:    e.Started(),
		Running:    e.Running(),
		Speed:      e.Speed(),
		Ball:       e.Ball(),
		Possession: e.Possession(),
		Scoreboard: report.Scoreboard(e),
		Winner:     winner,
		Events:     len(e.Events()),
	}
}

func (s *Server) viewLocked(seq int, ev engine.Event) EventView {
	return EventView{
		Seq:    seq,
		Kind:   ev.Kind(),
		Minute: ev.When(),
		Event:  ev,
		Text:   s.dir.EventLine(ev),
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
