package harness

import (
	"time"

	"github.com/roach88/desk/internal/model"
)

// Step outcomes recorded in the trace.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// TraceEvent records what one step did.
type TraceEvent struct {
	Seq           int       `json:"seq"`
	Op            string    `json:"op"`
	At            time.Time `json:"at"`
	Outcome       string    `json:"outcome"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Changed       *bool     `json:"changed,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Ledger is every transaction after the last step, in id order.
	Ledger []model.Transaction `json:"ledger"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Ledger: []model.Transaction{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addTrace(ev TraceEvent) {
	ev.Seq = len(r.Trace) + 1
	r.Trace = append(r.Trace, ev)
}
