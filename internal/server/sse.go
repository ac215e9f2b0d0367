package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// sseCountsEvent is the SSE event name carrying a status count snapshot.
const sseCountsEvent = "counts"

// handleSSE streams store events via Server-Sent Events.
//
// Each store event is written as "event: <kind>" with the event JSON as
// data, followed by a "counts" event with the current totals. A counts
// event is also sent on connect.
//
// The handler uses write deadlines to prevent goroutine leaks when clients are
// slow or disconnected. Without deadlines, a blocked Fprintf call would prevent
// the handler from detecting context cancellation or channel closure.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	// check if flushing is supported
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	logger := s.requestLogger(r)

	// ResponseController provides deadline-aware write and flush operations.
	rc := http.NewResponseController(w)

	// track if write deadlines are supported (may not be for some ResponseWriter impls)
	deadlinesSupported := true

	// writeEvent writes one SSE event with a deadline to prevent blocking forever.
	writeEvent := func(name string, payload any) error {
		data, err := json.Marshal(payload)
		if err != nil {
			logger.Error("failed to encode sse event", "event", name, "error", err)
			return nil
		}

		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				// deadline not supported by underlying connection, continue without
				logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
			return err
		}

		// ResponseController.Flush respects the write deadline
		return rc.Flush()
	}

	// set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// subscribe before the initial snapshot so no event is missed
	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	if err := writeEvent(sseCountsEvent, s.store.StatusCounts()); err != nil {
		return
	}

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(string(event.Kind), event); err != nil {
				return
			}
			if err := writeEvent(sseCountsEvent, s.store.StatusCounts()); err != nil {
				return
			}

		case <-r.Context().Done():
			// request context is derived from server context via BaseContext,
			// so this fires on both client disconnect AND server shutdown
			return
		}
	}
}
