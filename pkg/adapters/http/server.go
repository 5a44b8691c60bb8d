package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/tokworld"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/registry"
	"github.com/aretw0/tokworld/pkg/world"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Engine describes the chart behind the characters.
type Engine interface {
	Inspect() ([]domain.NodeInfo, error)
	Graph(active []string) (string, error)
}

// Server exposes a world over HTTP.
type Server struct {
	World    *world.Manager
	Engine   Engine
	Registry *registry.Registry
	Streams  *StreamManager

	// TickDelta is the real time a manual tick advances the clock by when
	// the request does not say.
	TickDelta time.Duration

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRegistry lists the behaviors under /behaviors.
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Server) { s.Registry = reg }
}

// WithMetrics mounts a metrics handler under /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithTickDelta sets the default real time of a manual tick.
func WithTickDelta(d time.Duration) Option {
	return func(s *Server) { s.TickDelta = d }
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a server and registers it as a frame sink of w so that
// /events subscribers receive every tick.
func NewServer(w *world.Manager, engine Engine, opts ...Option) *Server {
	s := &Server{
		World:     w,
		Engine:    engine,
		Streams:   NewStreamManager(),
		TickDelta: 100 * time.Millisecond,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	w.AddSink(s.Streams)
	return s
}

// NewHandler creates the HTTP handler for a world.
func NewHandler(w *world.Manager, engine Engine, opts ...Option) http.Handler {
	return NewServer(w, engine, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/clock", s.GetClock)
	r.Get("/graph", s.GetGraph)
	r.Get("/behaviors", s.GetBehaviors)
	r.Get("/events", s.SubscribeEvents)
	r.Post("/tick", s.PostTick)

	r.Route("/maps", func(r chi.Router) {
		r.Get("/", s.ListMaps)
		r.Get("/{map}", s.DrawMap)
	})

	r.Route("/characters", func(r chi.Router) {
		r.Get("/", s.ListCharacters)
		r.Post("/", s.CreateCharacter)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetCharacter)
			r.Delete("/", s.DeleteCharacter)
			r.Get("/graph", s.GetCharacterGraph)
			r.Put("/flags/{flag}", s.SetFlag)
			r.Delete("/flags/{flag}", s.ClearFlag)
			r.Post("/travel/{map}", s.Travel)
		})
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCharacterNotFound), errors.Is(err, domain.ErrMapNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

var errBadRequest = errors.New("bad request")

func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return v, nil
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tokworld-http",
		"version": strings.TrimSpace(tokworld.Version),
	})
}

// ClockInfo is the body of GET /clock.
type ClockInfo struct {
	Time      string  `json:"time"`
	TimeScale float64 `json:"time_scale"`
	Running   bool    `json:"running"`
	Elapsed   string  `json:"elapsed"`
	Ticks     uint64  `json:"ticks"`
}

// GetClock handles GET /clock.
func (s *Server) GetClock(w http.ResponseWriter, r *http.Request) {
	c := s.World.Clock()
	s.writeJSON(w, http.StatusOK, ClockInfo{
		Time:      c.String(),
		TimeScale: c.TimeScale(),
		Running:   c.Running(),
		Elapsed:   c.Elapsed().String(),
		Ticks:     s.World.Ticks(),
	})
}

// GetGraph handles GET /graph. With ?format=mermaid the chart is rendered,
// otherwise its nodes are returned as JSON.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "mermaid" {
		out, err := s.Engine.Graph(nil)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, out)
		return
	}
	nodes, err := s.Engine.Inspect()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nodes)
}

// BehaviorInfo describes one registered behavior.
type BehaviorInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Params      map[string]string `json:"params,omitempty"`
}

// GetBehaviors handles GET /behaviors.
func (s *Server) GetBehaviors(w http.ResponseWriter, r *http.Request) {
	out := []BehaviorInfo{}
	if s.Registry != nil {
		for _, b := range s.Registry.List() {
			info := BehaviorInfo{Name: b.Name, Description: b.Description}
			if len(b.Params) > 0 {
				info.Params = make(map[string]string, len(b.Params))
				for name, t := range b.Params {
					info.Params[name] = t.Name()
				}
			}
			out = append(out, info)
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// TickRequest is the optional body of POST /tick.
type TickRequest struct {
	// DeltaMS is the real time to advance, in milliseconds.
	DeltaMS int64 `json:"delta_ms"`
	// Count repeats the tick. Defaults to 1.
	Count int `json:"count"`
}

// PostTick handles POST /tick and returns the resulting frame. Character
// errors are reported alongside the frame; they do not fail the request.
func (s *Server) PostTick(w http.ResponseWriter, r *http.Request) {
	var body TickRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, fmt.Errorf("%w: invalid body: %v", errBadRequest, err))
			return
		}
	}
	delta := s.TickDelta
	if body.DeltaMS > 0 {
		delta = time.Duration(body.DeltaMS) * time.Millisecond
	}
	count := max(body.Count, 1)

	var errs []string
	for range count {
		if err := s.World.Tick(r.Context(), delta); err != nil {
			errs = append(errs, err.Error())
		}
	}
	s.writeJSON(w, http.StatusOK, struct {
		world.Frame
		Errors []string `json:"errors,omitempty"`
	}{s.World.Frame(), errs})
}

// ListMaps handles GET /maps.
func (s *Server) ListMaps(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.World.Atlas().List())
}

// DrawMap handles GET /maps/{map} and returns the ASCII drawing.
func (s *Server) DrawMap(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "map")
	if err != nil {
		s.writeError(w, err)
		return
	}
	var sb strings.Builder
	if err := s.World.Atlas().Draw(id, &sb); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, sb.String())
}

// ListCharacters handles GET /characters.
func (s *Server) ListCharacters(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.World.Frame())
}

// CreateRequest is the body of POST /characters.
type CreateRequest struct {
	Name     string         `json:"name"`
	Position world.Position `json:"position"`
}

// CreateCharacter handles POST /characters.
func (s *Server) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var body CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid body: %v", errBadRequest, err))
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		s.writeError(w, fmt.Errorf("%w: name is required", errBadRequest))
		return
	}
	c, err := s.World.Create(r.Context(), body.Name, body.Position)
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.World.Status(c.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, st)
}

// GetCharacter handles GET /characters/{id}.
func (s *Server) GetCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.World.Status(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

// DeleteCharacter handles DELETE /characters/{id}.
func (s *Server) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.World.Delete(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCharacterGraph handles GET /characters/{id}/graph: the chart in
// Mermaid with the character's active states highlighted.
func (s *Server) GetCharacterGraph(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.World.Status(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.Engine.Graph(st.Machine.Active)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, out)
}

// FlagRequest is the optional body of PUT /characters/{id}/flags/{flag}.
type FlagRequest struct {
	Value *bool `json:"value"`
}

// SetFlag handles PUT /characters/{id}/flags/{flag}. The flag is set to true
// unless the body says otherwise; the machine sees it on the next tick.
func (s *Server) SetFlag(w http.ResponseWriter, r *http.Request) {
	value := true
	if r.ContentLength != 0 {
		var body FlagRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, fmt.Errorf("%w: invalid body: %v", errBadRequest, err))
			return
		}
		if body.Value != nil {
			value = *body.Value
		}
	}
	s.setFlag(w, r, value)
}

// ClearFlag handles DELETE /characters/{id}/flags/{flag}.
func (s *Server) ClearFlag(w http.ResponseWriter, r *http.Request) {
	s.setFlag(w, r, false)
}

func (s *Server) setFlag(w http.ResponseWriter, r *http.Request, value bool) {
	id, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	flag := chi.URLParam(r, "flag")
	if err := s.World.SetFlag(id, flag, value); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Debug("flag set", "id", id, "flag", flag, "value", value)
	st, err := s.World.Status(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

// Travel handles POST /characters/{id}/travel/{map}.
func (s *Server) Travel(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}
	mapID, err := intParam(r, "map")
	if err != nil {
		s.writeError(w, err)
		return
	}
	hours, err := s.World.TravelTo(id, mapID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.World.Status(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"hours":     hours,
		"time":      s.World.Clock().String(),
		"character": st,
	})
}
