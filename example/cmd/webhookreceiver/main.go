// Standalone webhook receiver for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/webhookreceiver
//
// Then in another terminal:
//
//	go run ./cmd/outreach serve -c example/config.yaml
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
)

func main() {
	fmt.Println("Webhook receiver starting on :9999")
	fmt.Println("POST /hook logs every outreach event and digest")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /hook", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			slog.Warn("payload rejected", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		slog.Info("webhook received",
			"type", payload["type"],
			"message", payload["message"],
			"authorization", r.Header.Get("Authorization") != "",
		)
		w.WriteHeader(http.StatusNoContent)
	})

	if err := http.ListenAndServe(":9999", mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
