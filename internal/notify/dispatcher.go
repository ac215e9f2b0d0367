package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jpalmerr/outreach/internal/digest"
	"github.com/jpalmerr/outreach/internal/store"
)

const (
	// queueSize is the number of pending messages held before new ones
	// are dropped.
	queueSize = 100

	// DefaultSendTimeout bounds a single Send call.
	DefaultSendTimeout = 10 * time.Second
)

// Dispatcher fans messages out to [Sender]s on a background worker.
//
// Notify and Report never block: when the queue is full the message is
// dropped and a warning logged. Messages queued before Start are delivered
// once the worker runs. Messages still queued at Stop are discarded.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Dispatcher struct {
	senders []Sender
	timeout time.Duration
	logger  *slog.Logger
	queue   chan Message

	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
	stopped bool
}

// Compile-time interface checks.
var (
	_ store.Notifier  = (*Dispatcher)(nil)
	_ digest.Reporter = (*Dispatcher)(nil)
)

// NewDispatcher creates a [Dispatcher] for senders.
//
// A timeout of zero or less uses [DefaultSendTimeout].
func NewDispatcher(logger *slog.Logger, timeout time.Duration, senders ...Sender) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Dispatcher{
		senders: senders,
		timeout: timeout,
		logger:  logger,
		queue:   make(chan Message, queueSize),
	}
}

// Notify queues a store event. Implements store.Notifier.
func (d *Dispatcher) Notify(e store.Event) {
	d.enqueue(EventMessage(e))
}

// Report queues a digest summary. Implements digest.Reporter.
func (d *Dispatcher) Report(s digest.Summary) {
	d.enqueue(DigestMessage(s))
}

func (d *Dispatcher) enqueue(msg Message) {
	if len(d.senders) == 0 {
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("notification queue full, dropping message", "subject", msg.Subject)
	}
}

// Start launches the delivery worker.
//
// Start is non-blocking. The worker exits when ctx is cancelled or
// [Dispatcher.Stop] is called. Subsequent calls are no-ops, as is Start
// after Stop.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.stopped {
		return
	}
	d.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go d.run(ctx)
}

// Stop halts the worker and waits for an in-flight send to finish.
// Safe to call multiple times and before Start.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		if d.cancel != nil {
			d.cancel()
		}
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.queue:
			d.deliver(ctx, msg)
		}
	}
}

// timeoutFor returns the sender's own timeout when it declares one.
func (d *Dispatcher) timeoutFor(s Sender) time.Duration {
	if ts, ok := s.(interface{ Timeout() time.Duration }); ok && ts.Timeout() > 0 {
		return ts.Timeout()
	}
	return d.timeout
}

// deliver sends msg to every sender. Failures are logged and do not stop
// delivery to the remaining senders.
func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	for _, s := range d.senders {
		sendCtx, cancel := context.WithTimeout(ctx, d.timeoutFor(s))
		start := time.Now()
		err := s.Send(sendCtx, msg)
		cancel()

		if err != nil {
			d.logger.Warn("notification failed",
				"sink", s.Name(),
				"subject", msg.Subject,
				"error", err,
			)
			continue
		}
		d.logger.Debug("notification sent",
			"sink", s.Name(),
			"subject", msg.Subject,
			"latency", time.Since(start),
		)
	}
}
