package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aretw0/swerve/pkg/bus"
)

// SubscribeEvents handles the GET /events request (SSE).
// Each change event is sent with its kind as the SSE event name. When the
// client falls behind, an "overflow" event tells it to refetch /snapshot.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	var opts []bus.SubscribeOption
	if q := r.URL.Query().Get("queue"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			http.Error(w, "queue must be a positive integer", http.StatusBadRequest)
			return
		}
		opts = append(opts, bus.WithQueueSize(n))
	}

	sub := s.Model.Subscribe(opts...)
	defer s.Model.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: client subscribed", "subscription", sub.ID())

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "subscription", sub.ID())
			return
		case _, ok := <-sub.Overflow():
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: overflow\ndata: {\"dropped\":%d}\n\n", sub.Dropped())
			flusher.Flush()
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("SSE: event encode failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\nid: %d\ndata: %s\n\n", ev.Kind, ev.Seq, data)
			flusher.Flush()
		}
	}
}
