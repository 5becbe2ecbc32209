package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/desk/internal/ledger"
	"github.com/roach88/desk/internal/model"
	"github.com/roach88/desk/internal/store"
	"github.com/roach88/desk/internal/testutil"
)

// Harness executes scenarios against a real ledger.
// It runs steps with a manual clock and sequential references.
type Harness struct {
	store  *store.Store
	ledger *ledger.Ledger
	clock  *testutil.ManualClock
	loc    *time.Location
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
// 1. Create fresh in-memory database
// 2. Execute steps, checking each expect clause
// 3. Evaluate assertions against the final ledger
//
// A returned error means the harness itself failed. Expectation and
// assertion failures are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	h, err := newHarness(scenario)
	if err != nil {
		return nil, err
	}
	defer h.store.Close()

	ctx := context.Background()
	result := NewResult()

	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	all, err := h.ledger.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	result.Ledger = append(result.Ledger, all...)

	actx := &AssertionContext{
		Ledger:   h.ledger,
		Location: h.loc,
		Ctx:      ctx,
	}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

func newHarness(scenario *Scenario) (*Harness, error) {
	start, err := time.Parse(time.RFC3339, scenario.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start: %w", err)
	}
	loc := time.UTC
	if scenario.Timezone != "" {
		if loc, err = time.LoadLocation(scenario.Timezone); err != nil {
			return nil, fmt.Errorf("invalid timezone: %w", err)
		}
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}

	clock := testutil.NewManualClock(start)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	l := ledger.New(st,
		ledger.WithClock(clock),
		ledger.WithReferences(testutil.NewSequentialReferences(scenario.ReferencePrefix)),
		ledger.WithLogger(logger),
		ledger.WithLocation(loc),
	)

	return &Harness{
		store:  st,
		ledger: l,
		clock:  clock,
		loc:    loc,
		logger: logger,
	}, nil
}

// executeSteps runs every step, recording a trace event for each.
//
// Step errors that the expect clause anticipates are not failures. Any
// other step error is recorded on the result and execution continues.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		if err := h.tick(step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}

		ev := TraceEvent{Op: step.Op, At: h.clock.Now().UTC()}
		id, changed, err := h.apply(ctx, step)
		if err != nil {
			ev.Outcome = OutcomeError
			ev.Error = classify(err)
		} else {
			ev.Outcome = OutcomeOK
			ev.TransactionID = id
			ev.Changed = changed
		}
		result.addTrace(ev)

		for _, msg := range checkExpect(i, step, ev, err) {
			result.AddError(msg)
		}

		h.logger.Info("step completed",
			"step", i,
			"op", step.Op,
			"outcome", ev.Outcome,
		)
	}
	return nil
}

func (h *Harness) tick(step Step) error {
	if step.At != "" {
		at, err := time.Parse(time.RFC3339, step.At)
		if err != nil {
			return fmt.Errorf("invalid at: %w", err)
		}
		h.clock.Set(at)
	}
	if step.Advance != "" {
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return fmt.Errorf("invalid advance: %w", err)
		}
		h.clock.Advance(d)
	}
	return nil
}

// apply runs one operation. It returns the transaction id for check-ins and
// the changed flag for everything else.
func (h *Harness) apply(ctx context.Context, step Step) (int64, *bool, error) {
	var (
		changed bool
		err     error
	)
	switch step.Op {
	case OpCheckIn:
		tx, err := h.ledger.CheckIn(ctx, ledger.CheckInRequest{
			PersonID:  model.PersonID(step.Person),
			AssetTag:  step.Asset,
			Issue:     step.Issue,
			IssueType: model.IssueType(step.IssueType),
			Name:      step.Name,
			Address:   step.Address,
		})
		if err != nil {
			return 0, nil, err
		}
		return tx.ID, nil, nil
	case OpCheckOut:
		changed, err = h.ledger.CheckOut(ctx, step.Transaction)
	case OpUpsertPerson:
		changed, err = h.ledger.UpsertPerson(ctx, model.Person{
			ID:      model.PersonID(step.Person),
			Name:    step.Name,
			Address: step.Address,
		})
	case OpEnsurePerson:
		changed, err = h.ledger.EnsurePerson(ctx, model.PersonID(step.Person))
	case OpEnsureAsset:
		changed, err = h.ledger.EnsureAsset(ctx, step.Asset)
	default:
		return 0, nil, fmt.Errorf("unknown op %q", step.Op)
	}
	if err != nil {
		return 0, nil, err
	}
	return 0, &changed, nil
}

// classify maps an error onto an expected error class.
func classify(err error) string {
	switch {
	case model.IsValidation(err):
		return ErrorValidation
	case ledger.IsIntegrity(err):
		return ErrorIntegrity
	default:
		return err.Error()
	}
}

func checkExpect(index int, step Step, ev TraceEvent, err error) []string {
	exp := step.Expect

	if exp == nil || exp.Error == "" {
		if err != nil {
			return []string{fmt.Sprintf("steps[%d] %s: unexpected error: %v", index, step.Op, err)}
		}
	} else {
		if err == nil {
			return []string{fmt.Sprintf("steps[%d] %s: expected %s error, got success", index, step.Op, exp.Error)}
		}
		if ev.Error != exp.Error {
			return []string{fmt.Sprintf("steps[%d] %s: expected %s error, got %v", index, step.Op, exp.Error, err)}
		}
		return nil
	}
	if exp == nil {
		return nil
	}

	var msgs []string
	if exp.Transaction != 0 && ev.TransactionID != exp.Transaction {
		msgs = append(msgs, fmt.Sprintf("steps[%d] %s: expected transaction %d, got %d",
			index, step.Op, exp.Transaction, ev.TransactionID))
	}
	if exp.Changed != nil {
		if ev.Changed == nil {
			msgs = append(msgs, fmt.Sprintf("steps[%d] %s: changed is not reported by this op", index, step.Op))
		} else if *ev.Changed != *exp.Changed {
			msgs = append(msgs, fmt.Sprintf("steps[%d] %s: expected changed=%t, got %t",
				index, step.Op, *exp.Changed, *ev.Changed))
		}
	}
	return msgs
}
