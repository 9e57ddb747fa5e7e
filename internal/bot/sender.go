package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/controlusuario/userbot/internal/logger"
)

var (
	// errQueueClosed is returned when enqueue is attempted after Close.
	errQueueClosed = errors.New("sender: queue closed")
	// errQueueFull indicates the queue is saturated; callers fall back to a
	// synchronous send.
	errQueueFull = errors.New("sender: queue full")
)

type sendJob struct {
	action string
	run    func() error
}

// sender executes outbound Telegram calls asynchronously with retries, so
// handlers never block on transport latency.
type sender struct {
	jobs chan sendJob
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup

	maxRetries int
	backoff    time.Duration
	log        *slog.Logger
}

func newSender(queueSize, workers int) *sender {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 4
	}
	s := &sender{
		jobs:       make(chan sendJob, queueSize),
		stop:       make(chan struct{}),
		maxRetries: 2,
		backoff:    2 * time.Second,
		log:        logger.Component("tg.sender"),
	}
	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker()
	}
	return s
}

// enqueue schedules the run closure for asynchronous execution. The closure
// must be idempotent since it may be retried.
func (s *sender) enqueue(action string, run func() error) error {
	select {
	case <-s.stop:
		return errQueueClosed
	default:
	}
	select {
	case s.jobs <- sendJob{action: action, run: run}:
		return nil
	default:
		return errQueueFull
	}
}

// close stops workers after draining queued jobs.
func (s *sender) close() {
	s.once.Do(func() {
		close(s.stop)
		close(s.jobs)
		s.wg.Wait()
	})
}

func (s *sender) worker() {
	defer s.wg.Done()
	for j := range s.jobs {
		s.handle(j)
	}
}

func (s *sender) handle(j sendJob) {
	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= s.maxRetries+1; attempt++ {
		err := j.run()
		if err == nil {
			if attempt > 1 {
				s.log.LogAttrs(context.Background(), slog.LevelInfo, "send retried ok",
					slog.String("action", j.action),
					slog.Int("attempt", attempt),
					slog.Duration("duration", logger.Took(start)),
				)
			}
			return
		}
		lastErr = err
		if !shouldRetry(err) {
			break
		}
		time.Sleep(retryDelay(err, s.backoff*time.Duration(attempt)))
	}
	s.log.LogAttrs(context.Background(), slog.LevelError, "send failed",
		slog.String("action", j.action),
		slog.String("err", lastErr.Error()),
		slog.Duration("duration", logger.Took(start)),
	)
}

// shouldRetry reports whether the Telegram error is transient. Flood limits
// and server-side failures are worth another attempt; client errors are not.
func shouldRetry(err error) bool {
	var floodErr tele.FloodError
	if errors.As(err, &floodErr) {
		return true
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500
	}
	// Network-level failures surface as plain errors from the HTTP client.
	return true
}

func retryDelay(err error, fallback time.Duration) time.Duration {
	var floodErr tele.FloodError
	if errors.As(err, &floodErr) && floodErr.RetryAfter > 0 {
		return time.Duration(floodErr.RetryAfter) * time.Second
	}
	return fallback
}

// send dispatches a text message asynchronously, falling back to a
// synchronous send when the queue is unavailable.
func (b *Bot) send(c tele.Context, what interface{}, opts ...interface{}) error {
	run := func() error { return c.Send(what, opts...) }
	if b.sender == nil {
		return run()
	}
	if err := b.sender.enqueue("send", run); err != nil {
		return run()
	}
	return nil
}
