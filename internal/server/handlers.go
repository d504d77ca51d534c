package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/engine"
	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
)

// Error codes returned in API error bodies, next to the substitution codes
// from the roster package.
const (
	CodeBadRequest     = "BAD_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeAlreadyStarted = "ALREADY_STARTED"
	CodeClockStopped   = "CLOCK_STOPPED"
	CodeUnknownPowerUp = "UNKNOWN_POWER_UP"
	CodeNotOnField     = "NOT_ON_FIELD"
	CodeMatchFinished  = "MATCH_FINISHED"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PlayerRef names a player by id or by name. Names match regardless of
// case and accents, so "loic" finds "Loïc". In JSON it is a number or a
// string.
type PlayerRef string

// UnmarshalJSON accepts a JSON number or string.
func (r *PlayerRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*r = PlayerRef(name)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("player must be an id or a name, got %s", data)
	}
	*r = PlayerRef(n.String())
	return nil
}

// SubstitutionRequest is the body of POST /api/match/substitutions.
type SubstitutionRequest struct {
	TeamID int       `json:"team_id"`
	Out    PlayerRef `json:"out"`
	In     PlayerRef `json:"in"`
}

// PowerUpRequest is the body of POST /api/match/power-ups.
type PowerUpRequest struct {
	Player  PlayerRef `json:"player"`
	PowerUp string    `json:"power_up"`
}

// DrawRequest is the body of POST /api/match/power-ups/draw.
type DrawRequest struct {
	Player PlayerRef `json:"player"`
}

// PowerUpView describes one kind of power-up.
type PowerUpView struct {
	Kind     engine.PowerUpKind `json:"kind"`
	Name     string             `json:"name"`
	Rarity   string             `json:"rarity"`
	Duration float64            `json:"duration"`
}

func newPowerUpView(k engine.PowerUpKind) PowerUpView {
	return PowerUpView{Kind: k, Name: k.Name(), Rarity: k.Rarity().String(), Duration: k.Duration()}
}

// DrawResponse is returned by a successful draw.
type DrawResponse struct {
	PowerUp PowerUpView `json:"power_up"`
	Event   EventView   `json:"event"`
}

// TeamView is a squad with its current bench. Bench lists available
// players who are not on the pitch.
type TeamView struct {
	roster.Team
	Bench []int `json:"bench"`
}

// SpeedRequest is the body of POST /api/match/speed.
type SpeedRequest struct {
	Speed float64 `json:"speed"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]APIError{"error": {Code: code, Message: msg}})
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.Clients(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.stateLocked()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, state)
}

// handleEvents returns the whole log in order, or with ?last=n the n most
// recent events newest first.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	last := -1
	if v := r.URL.Query().Get("last"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("last must be a non-negative integer, got %q", v))
			return
		}
		last = n
	}

	s.mu.Lock()
	events := s.engine.Events()
	views := make([]EventView, 0, len(events))
	if last < 0 {
		for i, ev := range events {
			views = append(views, s.viewLocked(i+1, ev))
		}
	} else {
		for i, ev := range s.engine.LastEvents(last) {
			views = append(views, s.viewLocked(len(events)-i, ev))
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string][]EventView{"events": views})
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	home, away := s.engine.Home(), s.engine.Away()
	s.mu.Unlock()

	var team *roster.Team
	switch id {
	case home.ID:
		team = &home
	case away.ID:
		team = &away
	default:
		writeError(w, http.StatusNotFound, CodeNotFound, fmt.Sprintf("team %d is not playing", id))
		return
	}
	view := TeamView{Team: *team, Bench: []int{}}
	for _, p := range team.Bench() {
		view.Bench = append(view.Bench, p.ID)
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePowerUps(w http.ResponseWriter, r *http.Request) {
	views := make([]PowerUpView, len(engine.PowerUpKinds))
	for i, k := range engine.PowerUpKinds {
		views[i] = newPowerUpView(k)
	}
	writeJSON(w, http.StatusOK, map[string][]PowerUpView{"power_ups": views})
}

// control runs fn under the lock and publishes whatever it changed.
func (s *Server) control(fn func(e *engine.Engine) error) (State, error) {
	s.mu.Lock()
	err := fn(s.engine)
	msgs := s.pendingLocked()
	state := s.stateLocked()
	s.mu.Unlock()

	s.publish(msgs)
	return state, err
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	state, err := s.control(func(e *engine.Engine) error { return e.Start() })
	if errors.Is(err, engine.ErrAlreadyStarted) {
		writeError(w, http.StatusConflict, CodeAlreadyStarted, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	state, _ := s.control(func(e *engine.Engine) error {
		e.Pause()
		return nil
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	state, _ := s.control(func(e *engine.Engine) error {
		e.Resume()
		return nil
	})
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req SpeedRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if req.Speed <= 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "speed must be positive")
		return
	}
	state, _ := s.control(func(e *engine.Engine) error {
		e.SetSpeed(req.Speed)
		return nil
	})
	writeJSON(w, http.StatusOK, state)
}

// handleSubstitute only accepts changes while the clock runs.
func (s *Server) handleSubstitute(w http.ResponseWriter, r *http.Request) {
	var req SubstitutionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	var view EventView
	_, err := s.control(func(e *engine.Engine) error {
		if e.Period() != engine.Finished && !e.Running() {
			return errClockStopped
		}
		outID, err := e.ResolvePlayer(req.TeamID, string(req.Out))
		if err != nil {
			return err
		}
		inID, err := e.ResolvePlayer(req.TeamID, string(req.In))
		if err != nil {
			return err
		}
		if err := e.Substitute(req.TeamID, outID, inID); err != nil {
			return err
		}
		events := e.Events()
		view = s.viewLocked(len(events), events[len(events)-1])
		return nil
	})
	if err != nil {
		s.writeControlError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handlePowerUp(w http.ResponseWriter, r *http.Request) {
	var req PowerUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	kind := engine.PowerUpKind(req.PowerUp)
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, CodeUnknownPowerUp, fmt.Sprintf("%v: %q", engine.ErrUnknownPowerUp, req.PowerUp))
		return
	}

	var view EventView
	_, err := s.control(func(e *engine.Engine) error {
		playerID, err := e.ResolvePlayer(0, string(req.Player))
		if err != nil {
			return err
		}
		if err := e.UsePowerUp(playerID, kind); err != nil {
			return err
		}
		events := e.Events()
		view = s.viewLocked(len(events), events[len(events)-1])
		return nil
	})
	if err != nil {
		s.writeControlError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// handleDraw activates a random power-up for an on-field player.
func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	var req DrawRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	var resp DrawResponse
	_, err := s.control(func(e *engine.Engine) error {
		playerID, err := e.ResolvePlayer(0, string(req.Player))
		if err != nil {
			return err
		}
		kind, err := e.DrawPowerUp(playerID)
		if err != nil {
			return err
		}
		events := e.Events()
		resp = DrawResponse{
			PowerUp: newPowerUpView(kind),
			Event:   s.viewLocked(len(events), events[len(events)-1]),
		}
		return nil
	})
	if err != nil {
		s.writeControlError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

var errClockStopped = errors.New("substitutions are only accepted while the clock is running")

// writeControlError maps engine and roster errors onto HTTP statuses.
func (s *Server) writeControlError(w http.ResponseWriter, err error) {
	if code, ok := roster.SubstitutionCode(err); ok {
		status := http.StatusUnprocessableEntity
		switch code {
		case roster.ErrCodeTeamNotFound, roster.ErrCodePlayerNotFound:
			status = http.StatusNotFound
		case roster.ErrCodeMatchFinished:
			status = http.StatusConflict
		}
		writeError(w, status, string(code), err.Error())
		return
	}

	switch {
	case errors.Is(err, errClockStopped):
		writeError(w, http.StatusConflict, CodeClockStopped, err.Error())
	case errors.Is(err, engine.ErrUnknownPowerUp):
		writeError(w, http.StatusBadRequest, CodeUnknownPowerUp, err.Error())
	case errors.Is(err, engine.ErrUnknownPlayer):
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, engine.ErrNotOnField):
		writeError(w, http.StatusUnprocessableEntity, CodeNotOnField, err.Error())
	case errors.Is(err, engine.ErrMatchFinished):
		writeError(w, http.StatusConflict, CodeMatchFinished, err.Error())
	default:
		s.logger.Error("control request", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

// handleWebSocket upgrades the connection and sends a snapshot of the state
// and the full event log before any live message.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade", "error", err)
		return
	}
	c := newClient(s.hub, conn)

	s.mu.Lock()
	state := s.stateLocked()
	events := s.engine.Events()
	views := make([]EventView, len(events))
	for i, ev := range events {
		views[i] = s.viewLocked(i+1, ev)
	}
	var ok bool
	data, err := json.Marshal(Message{Type: MessageSnapshot, State: &state, Events: views})
	if err == nil {
		c.send <- data
		// registered under the lock so the live feed starts where the
		// snapshot ends; a repeated event keeps its seq
		ok = s.hub.add(c)
	}
	s.mu.Unlock()

	if !ok {
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
