package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/outreach"
)

func main() {
	// start the webhook receiver (see receiver.go)
	go StartWebhookReceiver(":9999")
	time.Sleep(100 * time.Millisecond)

	tr, err := outreach.New(
		outreach.WithTitle("Outreach Demo"),
		outreach.WithPort(8080),
		outreach.WithSchools(
			outreach.Draft{Name: "Lincoln High", ContactPerson: "Jane Doe", Phone: "555-0100"},
			outreach.Draft{Name: "Washington Elementary", Email: "office@washington.edu"},
			outreach.Draft{Name: "Roosevelt Middle", ContactPerson: "Sam Ortiz"},
			outreach.Draft{Name: "Jefferson Academy", Address: "12 Elm St"},
		),
		outreach.WithEventCallback(func(e outreach.Event) {
			slog.Info("outreach event", "message", e.Message())
		}),
		outreach.WithWebhook("http://localhost:9999/hook", 5*time.Second, "X-Demo", "true"),
		outreach.WithDigestSchedule("@every 1m"),
	)
	if err != nil {
		slog.Error("failed to create tracker", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   School Outreach Demo                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   • 4 seeded schools                                  ║")
	fmt.Println("  ║   • simulated calls every 20-60s                      ║")
	fmt.Println("  ║   • webhook receiver on :9999, digest every minute    ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go SimulateOutreach(ctx, tr)

	if err := tr.Start(ctx); err != nil {
		slog.Error("tracker error", "error", err)
		os.Exit(1)
	}
}
