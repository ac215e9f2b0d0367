// Package outreach provides an embeddable tracker for school outreach:
// who has been called, who responded, and who needs a follow-up.
//
// The tracker keeps an ordered, in-memory list of schools. Each school
// carries contact details and one of five statuses (not contacted, called,
// responded, no response, follow up). Schools can be added, moved between
// statuses, searched by name or contact person, and counted by status.
// Every applied change produces an [Event].
//
// # Quick Start
//
//	tr, _ := outreach.New(
//	    outreach.WithSchools(outreach.Draft{Name: "Lincoln High", ContactPerson: "Jane Doe"}),
//	)
//
//	school, _ := tr.Add(outreach.Draft{Name: "Washington Elementary"})
//	tr.UpdateStatus(school.ID, outreach.StatusCalled)
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	tr.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// Tracker uses the functional options pattern for configuration:
//
//	tr, err := outreach.New(
//	    outreach.WithPort(9090),
//	    outreach.WithTitle("Springfield District Outreach"),
//	    outreach.WithEventCallback(func(e outreach.Event) { log.Println(e.Message()) }),
//	    outreach.WithWebhook("https://hooks.example.com/outreach", 5*time.Second,
//	        "Authorization", "Bearer token"),
//	    outreach.WithTelegram(botToken, chatID),
//	    outreach.WithDigestSchedule("0 9 * * 1-5"),
//	)
//
// # Architecture
//
// Tracker consists of several internal packages (under internal/):
//
//   - internal/store: In-memory school list with ordered event delivery and pub/sub
//   - internal/server: HTTP server with REST API, Server-Sent Events and WebSocket
//   - internal/notify: Asynchronous webhook and Telegram notification sinks
//   - internal/digest: Cron-scheduled outreach summary
//   - dashboard: Embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice. The library is designed for single-binary deployment
// using Go's embed directive for static assets.
package outreach
