package outreach

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpalmerr/outreach/dashboard"
	"github.com/jpalmerr/outreach/internal/digest"
	"github.com/jpalmerr/outreach/internal/notify"
	"github.com/jpalmerr/outreach/internal/server"
	"github.com/jpalmerr/outreach/internal/store"
)

const defaultPort = 8080

// Tracker is the main orchestrator for the school list, its notification
// sinks and the dashboard.
//
// Tracker owns the in-memory school store. The query and mutation methods
// ([Tracker.Add], [Tracker.UpdateStatus], [Tracker.Search] and friends) work
// whether or not the tracker has been started. [Tracker.Start] additionally
// runs the dashboard server, notification delivery and the optional digest.
//
// The typical lifecycle is:
//
//	tr, err := outreach.New(outreach.WithPort(8080))
//	if err != nil {
//	    slog.Error("failed to create tracker", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	tr.Start(ctx) // blocks until context cancelled
//
// All methods are safe for concurrent use. Start should be called once.
type Tracker struct {
	title  string
	port   int
	logger *slog.Logger

	store      *store.MemoryStore
	dispatcher *notify.Dispatcher
	webhooks   []*notify.WebhookSender
	digest     *digest.Scheduler
}

// New creates a new [Tracker] instance with the given options.
//
// Defaults:
//   - Port: 8080
//   - Title: empty, rendered as "School Outreach Tracker"
//   - Logger: [slog.Default]
//
// Returns an error if any option is invalid, the Telegram sink cannot be
// created, or the digest schedule does not parse.
func New(opts ...Option) (*Tracker, error) {
	cfg := &trackerConfig{
		port: defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	tr := &Tracker{
		title:  cfg.title,
		port:   cfg.port,
		logger: logger,
		store:  store.NewMemoryStore(),
	}

	// seeds are initial state, not user actions: load them before any
	// notifier is attached
	for i, d := range cfg.schools {
		if _, ok := tr.store.Add(d); !ok {
			return nil, fmt.Errorf("school %d: could not be added", i)
		}
	}

	var senders []notify.Sender
	for _, wh := range cfg.webhooks {
		sender := notify.NewWebhookSender(wh.url, wh.timeout, wh.headers)
		tr.webhooks = append(tr.webhooks, sender)
		senders = append(senders, sender)
	}
	if cfg.telegram != nil {
		sender, err := notify.NewTelegramSender(cfg.telegram.token, cfg.telegram.chatID)
		if err != nil {
			return nil, err
		}
		senders = append(senders, sender)
	}

	if len(cfg.eventCallbacks) > 0 {
		callbacks := cfg.eventCallbacks
		tr.store.AddNotifier(store.NotifierFunc(func(e store.Event) {
			for _, cb := range callbacks {
				invokeCallbackSafe(cb, e, logger)
			}
		}))
	}

	var reporters []digest.Reporter
	if len(senders) > 0 {
		tr.dispatcher = notify.NewDispatcher(logger, notify.DefaultSendTimeout, senders...)
		tr.store.AddNotifier(tr.dispatcher)
		reporters = append(reporters, tr.dispatcher)
	}

	if cfg.digestSchedule != "" {
		scheduler, err := digest.NewScheduler(cfg.digestSchedule, tr.store, logger, reporters...)
		if err != nil {
			return nil, err
		}
		tr.digest = scheduler
	}

	return tr, nil
}

// Start serves the dashboard and runs notification delivery and the digest.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - The HTTP server starts on the configured port
//   - Events are delivered to webhook and Telegram sinks, if configured
//   - The digest runs on its schedule, if configured
//   - The dashboard is available at http://localhost:<port>
//
// The caller controls the lifecycle via context cancellation. For signal handling,
// use [signal.NotifyContext].
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails to start.
func (t *Tracker) Start(ctx context.Context) error {
	t.logger.Info("outreach tracker starting", "school_count", t.store.Len())
	t.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", t.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	if t.dispatcher != nil {
		t.dispatcher.Start(ctx)
	}
	if t.digest != nil {
		if err := t.digest.Start(ctx); err != nil {
			t.cleanup()
			return err
		}
	}

	httpServer := server.NewServer(t.store, t.port, dashboard.Assets, t.title, t.logger)
	if err := httpServer.Start(ctx); err != nil {
		t.cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	<-ctx.Done()
	t.cleanup()
	t.logger.Info("outreach tracker stopped")
	return nil
}

// cleanup stops background workers and releases pooled connections.
func (t *Tracker) cleanup() {
	if t.digest != nil {
		t.digest.Stop()
	}
	if t.dispatcher != nil {
		t.dispatcher.Stop()
	}
	for _, wh := range t.webhooks {
		wh.Close()
	}
}

// Add creates a school from d with status [StatusNotContacted].
//
// The name is trimmed. Returns false, and changes nothing, if the name is
// empty or whitespace-only.
func (t *Tracker) Add(d Draft) (School, bool) {
	return t.store.Add(d)
}

// UpdateStatus sets the status of the school with the given id and stamps
// its LastContacted time.
//
// Returns false, and changes nothing, if the id is unknown or status is not
// one of the five known values.
func (t *Tracker) UpdateStatus(id string, status Status) (School, bool) {
	return t.store.UpdateStatus(id, status)
}

// Search returns schools whose name or contact person contains term,
// ignoring case, in insertion order. An empty term returns every school.
func (t *Tracker) Search(term string) []School {
	return t.store.Search(term)
}

// StatusCounts returns per-status totals for the current list.
func (t *Tracker) StatusCounts() Counts {
	return t.store.StatusCounts()
}

// Schools returns every school in insertion order.
//
// The returned slice is a copy; modifying it does not affect the Tracker.
func (t *Tracker) Schools() []School {
	return t.store.GetAll()
}

// School returns the school with the given id.
func (t *Tracker) School(id string) (School, bool) {
	return t.store.Get(id)
}

// Port returns the configured HTTP port for the dashboard server.
func (t *Tracker) Port() int {
	return t.port
}

// Title returns the configured dashboard title, which may be empty.
func (t *Tracker) Title() string {
	return t.title
}

// invokeCallbackSafe calls an event callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(Event), event Event, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event callback panicked",
				"panic", r,
				"kind", event.Kind,
				"school_id", event.SchoolID,
			)
		}
	}()
	cb(event)
}
