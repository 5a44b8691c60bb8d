package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/tokworld/pkg/world"
)

// StreamManager fans frames out to SSE connections. It is a world.FrameSink.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan world.Frame]struct{}
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan world.Frame]struct{}),
		logger:      slog.Default(),
	}
}

// Subscribe registers a buffered channel; the returned func unregisters and
// closes it.
func (sm *StreamManager) Subscribe() (<-chan world.Frame, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan world.Frame, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Publish broadcasts a frame. Slow subscribers drop frames instead of
// blocking the tick.
func (sm *StreamManager) Publish(_ context.Context, f world.Frame) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- f:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping frame", "tick", f.Tick)
		}
	}
	return nil
}

// SubscribeEvents handles GET /events. Every tick is sent as a "frame"
// event; ?characters=1,2 keeps only those characters.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var watch []int
	if q := r.URL.Query().Get("characters"); q != "" {
		for _, part := range strings.Split(q, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid character id %q", part), http.StatusBadRequest)
				return
			}
			watch = append(watch, id)
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case f, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 {
				f.Characters = slices.DeleteFunc(slices.Clone(f.Characters), func(st world.Status) bool {
					return !slices.Contains(watch, st.ID)
				})
			}
			data, err := json.Marshal(f)
			if err != nil {
				s.logger.Error("SSE: frame encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: frame\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
