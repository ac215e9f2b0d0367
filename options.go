package outreach

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// webhookConfig is a webhook sink registered with [WithWebhook].
type webhookConfig struct {
	url     string
	timeout time.Duration
	headers map[string]string
}

// telegramConfig is the Telegram sink registered with [WithTelegram].
type telegramConfig struct {
	token  string
	chatID int64
}

// trackerConfig holds mutable state during Tracker construction.
type trackerConfig struct {
	title          string
	port           int
	logger         *slog.Logger
	schools        []Draft
	eventCallbacks []func(Event)
	webhooks       []webhookConfig
	telegram       *telegramConfig
	digestSchedule string
}

// Option is a function that configures a [Tracker] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*trackerConfig) error

// WithPort sets the HTTP port for the dashboard server.
//
// The dashboard UI and API will be available at http://localhost:<port>.
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *trackerConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, the dashboard shows "School Outreach Tracker".
func WithTitle(title string) Option {
	return func(cfg *trackerConfig) error {
		cfg.title = title
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Tracker instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *trackerConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithSchools seeds the tracker with schools, added in the given order.
//
// Seeded schools are present before [Tracker.Start] and do not trigger
// event callbacks or notification sinks. May be given multiple times.
//
// Example:
//
//	tr, err := outreach.New(
//	    outreach.WithSchools(
//	        outreach.Draft{Name: "Lincoln High", ContactPerson: "Jane Doe"},
//	        outreach.Draft{Name: "Washington Elementary"},
//	    ),
//	)
//
// Returns an error if any draft has an empty or whitespace-only name.
func WithSchools(drafts ...Draft) Option {
	return func(cfg *trackerConfig) error {
		for i, d := range drafts {
			if strings.TrimSpace(d.Name) == "" {
				return fmt.Errorf("school %d: name cannot be empty", len(cfg.schools)+i)
			}
		}
		cfg.schools = append(cfg.schools, drafts...)
		return nil
	}
}

// WithEventCallback registers a function to be called after every applied
// add or status update.
//
// Multiple callbacks may be registered; they execute in registration order,
// once per event, in the order the changes were committed.
//
// IMPORTANT: Callbacks must be non-blocking and must not add or update
// schools. They may read the tracker. Long-running work should be dispatched
// to a separate goroutine.
//
// Panics within callbacks are recovered and logged.
//
// Example:
//
//	tr, err := outreach.New(
//	    outreach.WithEventCallback(func(e outreach.Event) {
//	        log.Println(e.Message())
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithEventCallback(cb func(Event)) Option {
	return func(cfg *trackerConfig) error {
		if cb == nil {
			return nil // no-op for nil callback (safe to call)
		}
		cfg.eventCallbacks = append(cfg.eventCallbacks, cb)
		return nil
	}
}

// WithWebhook posts every event and digest as JSON to rawURL.
//
// timeout bounds each request; zero uses the 10 second default. headers are
// key-value pairs set on every request, e.g. "Authorization", "Bearer x".
// May be given multiple times for multiple webhooks.
//
// Returns an error if the URL is not an absolute http or https URL, the
// timeout is negative, or headers has an odd number of arguments.
func WithWebhook(rawURL string, timeout time.Duration, headers ...string) Option {
	return func(cfg *trackerConfig) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("invalid webhook URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("webhook URL must use http or https scheme, got %q", u.Scheme)
		}
		if u.Host == "" {
			return errors.New("webhook URL must have a host")
		}
		if timeout < 0 {
			return errors.New("webhook timeout cannot be negative")
		}
		if len(headers)%2 != 0 {
			return errors.New("WithWebhook requires an even number of header arguments (key-value pairs)")
		}

		hdrs := make(map[string]string, len(headers)/2)
		for i := 0; i < len(headers); i += 2 {
			hdrs[headers[i]] = headers[i+1]
		}

		cfg.webhooks = append(cfg.webhooks, webhookConfig{
			url:     rawURL,
			timeout: timeout,
			headers: hdrs,
		})
		return nil
	}
}

// WithTelegram sends every event and digest to a Telegram chat through the
// bot identified by token. A later call replaces an earlier one.
//
// Returns an error if token is empty or chatID is zero.
func WithTelegram(token string, chatID int64) Option {
	return func(cfg *trackerConfig) error {
		if token == "" {
			return errors.New("telegram token cannot be empty")
		}
		if chatID == 0 {
			return errors.New("telegram chat id cannot be zero")
		}
		cfg.telegram = &telegramConfig{token: token, chatID: chatID}
		return nil
	}
}

// WithDigestSchedule enables a periodic outreach digest on a standard
// five-field cron spec, e.g. "0 9 * * 1-5" for 9am on weekdays.
//
// Each digest is logged and sent to every configured webhook and Telegram
// sink. The spec is parsed by [New].
//
// Returns an error if spec is empty.
func WithDigestSchedule(spec string) Option {
	return func(cfg *trackerConfig) error {
		if strings.TrimSpace(spec) == "" {
			return errors.New("digest schedule cannot be empty")
		}
		cfg.digestSchedule = spec
		return nil
	}
}
