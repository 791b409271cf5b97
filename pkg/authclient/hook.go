package authclient

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	httptransport "dealerportal/contexts/identity-access/access-gate/transport/http"
)

// State is the hook's observable lifecycle position.
type State string

const (
	StateInit    State = "init"
	StateLoading State = "loading"
	StateGranted State = "granted"
	StateDenied  State = "denied"
	StateError   State = "error"
)

// Snapshot is the read-only view of the hook's current state.
type Snapshot struct {
	State    State
	Attempt  int
	Profile  *httptransport.UserProfileDTO
	Message  string
	Terminal bool
}

// StatusFunc issues one status reconciliation request.
type StatusFunc func(ctx context.Context) (StatusResult, error)

// Sleeper waits for d unless ctx is cancelled first. Injectable for tests.
type Sleeper func(ctx context.Context, d time.Duration) error

// HookOptions tunes the retry state machine.
type HookOptions struct {
	// MaxAttempts bounds retries on retryable failures. Default 3.
	MaxAttempts int
	// BaseDelay scales the linear inter-attempt delay (attempt × base).
	// Default 500ms.
	BaseDelay time.Duration
	// PrecheckDelay runs once before the first request. It papers over the
	// provider propagation window where the edge sees a session the status
	// read path cannot yet resolve. A mitigation, not a guarantee.
	PrecheckDelay time.Duration
	// LoginPath is returned by Logout for the consumer to navigate to.
	LoginPath string
	Sleeper   Sleeper
	Logger    *slog.Logger
}

// Hook drives serialized, bounded status checks for one identity and exposes
// a reactive snapshot. At most one request is in flight at a time; every
// state mutation is gated on the run's cancellation token, so a torn-down
// run never observes stale writes.
type Hook struct {
	mu       sync.Mutex
	check    StatusFunc
	opts     HookOptions
	snapshot Snapshot
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewHook(check StatusFunc, opts HookOptions) *Hook {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.LoginPath == "" {
		opts.LoginPath = "/dealer-login"
	}
	if opts.Sleeper == nil {
		opts.Sleeper = sleepContext
	}
	return &Hook{
		check:    check,
		opts:     opts,
		snapshot: Snapshot{State: StateInit},
	}
}

// Start begins a fresh run, cancelling any previous one. Call it when the
// owning identity becomes available; call it again when the identity changes.
func (h *Hook) Start(ctx context.Context) {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	h.cancel = cancel
	h.done = done
	h.snapshot = Snapshot{State: StateInit}
	h.mu.Unlock()

	go h.run(runCtx, done)
}

// Stop cancels any pending scheduled retry. The snapshot keeps its last
// written value; no further mutation happens after Stop returns and the run
// drains.
func (h *Hook) Stop() {
	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.mu.Unlock()
}

// Wait blocks until the current run finishes, if one was started.
func (h *Hook) Wait() {
	h.mu.Lock()
	done := h.done
	h.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Snapshot returns the current state.
func (h *Hook) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshot
}

// Logout clears local state and returns the login route to navigate to.
// Revoking the provider session is the provider client's job, not ours.
func (h *Hook) Logout() string {
	h.Stop()
	h.mu.Lock()
	h.snapshot = Snapshot{State: StateInit}
	h.mu.Unlock()
	return h.opts.LoginPath
}

func (h *Hook) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	logger := h.logger()

	if err := h.opts.Sleeper(ctx, h.opts.PrecheckDelay); err != nil {
		return
	}

	for attempt := 1; ; attempt++ {
		if !h.transition(ctx, Snapshot{State: StateLoading, Attempt: attempt}) {
			return
		}

		result, err := h.check(ctx)
		if err == nil {
			if result.Granted {
				h.transition(ctx, Snapshot{
					State:    StateGranted,
					Attempt:  attempt,
					Profile:  result.Profile,
					Terminal: true,
				})
			} else {
				h.transition(ctx, Snapshot{
					State:    StateDenied,
					Attempt:  attempt,
					Profile:  result.Profile,
					Message:  "access denied",
					Terminal: true,
				})
			}
			return
		}

		if ctx.Err() != nil {
			return
		}

		var apiErr *APIError
		retryable := errors.As(err, &apiErr) && apiErr.Retryable()
		if !retryable || attempt >= h.opts.MaxAttempts {
			logger.Debug("status hook settled on error",
				"event", "authclient_hook_terminal_error",
				"module", "pkg/authclient",
				"layer", "client",
				"attempt", attempt,
				"retryable", retryable,
				"error", err.Error(),
			)
			h.transition(ctx, Snapshot{
				State:    StateError,
				Attempt:  attempt,
				Message:  err.Error(),
				Terminal: true,
			})
			return
		}

		delay := time.Duration(attempt) * h.opts.BaseDelay
		logger.Debug("status hook retry scheduled",
			"event", "authclient_hook_retry_scheduled",
			"module", "pkg/authclient",
			"layer", "client",
			"attempt", attempt,
			"delay", delay.String(),
		)
		if err := h.opts.Sleeper(ctx, delay); err != nil {
			return
		}
	}
}

// transition writes a snapshot only while the run's cancellation token is
// still live. It returns false once the run is torn down.
func (h *Hook) transition(ctx context.Context, snapshot Snapshot) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	h.snapshot = snapshot
	return true
}

func (h *Hook) logger() *slog.Logger {
	if h.opts.Logger != nil {
		return h.opts.Logger
	}
	return slog.Default()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
