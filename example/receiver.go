package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/jpalmerr/outreach"
)

// StartWebhookReceiver runs a webhook endpoint that logs every payload the
// tracker delivers. Call this in a goroutine before starting the tracker.
func StartWebhookReceiver(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /hook", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			slog.Warn("webhook payload rejected", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		slog.Info("webhook received", "type", payload.Type, "message", payload.Message)
		w.WriteHeader(http.StatusNoContent)
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("webhook receiver error", "error", err)
	}
}

// SimulateOutreach moves a random school to a random status every 20-60
// seconds until ctx is cancelled, standing in for a person making calls.
func SimulateOutreach(ctx context.Context, tr *outreach.Tracker) {
	statuses := outreach.Statuses()

	for {
		wait := time.Duration(20+rand.Intn(41)) * time.Second
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		schools := tr.Schools()
		if len(schools) == 0 {
			continue
		}
		school := schools[rand.Intn(len(schools))]
		// skip not-contacted: a simulated call always records some outcome
		status := statuses[1+rand.Intn(len(statuses)-1)]
		tr.UpdateStatus(school.ID, status)
	}
}
