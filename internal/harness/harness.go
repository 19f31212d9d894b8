package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/stockroom/internal/kv"
	"github.com/roach88/stockroom/internal/notify"
	"github.com/roach88/stockroom/internal/schema"
	"github.com/roach88/stockroom/internal/store"
	"github.com/roach88/stockroom/internal/testutil"
)

// Harness executes one scenario.
type Harness struct {
	db        *kv.Store
	store     *store.Store
	mode      store.IndexMode
	clock     *testutil.DeterministicClock
	ids       *testutil.SequenceGenerator
	toast     *notify.Toast
	validator *schema.Validator
	logger    *slog.Logger
	seq       int64

	mu    sync.Mutex
	shown int
}

// Option configures a run.
type Option func(*Harness)

// WithLogger routes harness and store logs to l. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// Run executes a scenario in a fresh in-memory database.
//
// The returned error reports infrastructure failures (database, schema,
// failing setup). Failed expectations are recorded on the Result instead.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	db, err := kv.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer db.Close()

	validator, err := schema.New()
	if err != nil {
		return nil, err
	}

	mode := store.IndexDerived
	if scenario.IndexMode != "" {
		mode = store.IndexMode(scenario.IndexMode)
	}

	h := &Harness{
		db:        db,
		mode:      mode,
		clock:     testutil.NewDeterministicClock(testutil.Epoch, time.Millisecond),
		ids:       testutil.NewSequenceGenerator("id"),
		validator: validator,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	// Messages never expire during a run; only show transitions are counted.
	h.toast = notify.NewToast(notify.WithDelay(time.Hour), notify.WithOnChange(h.observe))
	defer h.toast.Stop()

	ctx := context.Background()
	if err := h.open(ctx); err != nil {
		return nil, err
	}

	result := NewResult()
	if err := h.executeSetup(ctx, scenario.Setup, result); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}
	h.executeFlow(ctx, scenario.Flow, result)

	h.mu.Lock()
	result.Notifications = h.shown
	h.mu.Unlock()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, h.store) {
		result.AddError(msg)
	}
	return result, nil
}

// open (re)creates the store over the harness database.
func (h *Harness) open(ctx context.Context) error {
	s, err := store.New(ctx, h.db,
		store.WithIndexMode(h.mode),
		store.WithClock(h.clock),
		store.WithIDGenerator(h.ids),
		store.WithNotifier(h.toast),
		store.WithLogger(h.logger),
	)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	h.store = s
	return nil
}

func (h *Harness) observe(_ string, visible bool) {
	if !visible {
		return
	}
	h.mu.Lock()
	h.shown++
	h.mu.Unlock()
}

// executeSetup runs all setup steps; any failure aborts the run.
func (h *Harness) executeSetup(ctx context.Context, setup []ActionStep, result *Result) error {
	for i, step := range setup {
		outcome, res := h.invoke(ctx, step.Action, step.Args, result)
		if outcome != CaseSuccess {
			return fmt.Errorf("setup step %d (%s): %v", i, step.Action, res["error"])
		}
	}
	return nil
}

// executeFlow runs the flow steps and checks their expect clauses.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) {
	for i, step := range flow {
		outcome, res := h.invoke(ctx, step.Invoke, step.Args, result)

		if step.Expect == nil {
			continue
		}
		if outcome != step.Expect.Case {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected case %s, got %s (%v)",
				i, step.Invoke, step.Expect.Case, outcome, res))
			continue
		}
		if !matchArgs(res, step.Expect.Result) {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected result %v, got %v",
				i, step.Invoke, step.Expect.Result, res))
		}
	}
}

// invoke runs one action and traces it.
func (h *Harness) invoke(ctx context.Context, action string, args map[string]any, result *Result) (string, map[string]any) {
	h.seq++
	result.AddInvocationTrace(action, args, h.seq)

	fn, ok := actions[action]
	var (
		res map[string]any
		err error
	)
	if !ok {
		err = fmt.Errorf("unknown action %q", action)
	} else {
		res, err = fn(ctx, h, args)
	}

	outcome := CaseSuccess
	if err != nil {
		outcome = CaseError
		res = map[string]any{"error": err.Error()}
	}

	h.seq++
	result.AddCompletionTrace(action, outcome, res, h.seq)

	h.logger.Debug("step completed", "action", action, "outcome", outcome)
	return outcome, res
}
