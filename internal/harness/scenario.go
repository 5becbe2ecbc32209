package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted desk session: a sequence of operations run at
// fixed instants, followed by assertions on the resulting ledger.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Timezone is the IANA zone calendar days are computed in. Empty means UTC.
	Timezone string `yaml:"timezone,omitempty"`

	// Start is the initial clock reading (RFC 3339).
	Start string `yaml:"start"`

	// ReferencePrefix seeds the deterministic reference generator.
	// Empty means "ref".
	ReferencePrefix string `yaml:"reference_prefix,omitempty"`

	// Steps are run in order against a fresh ledger.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final ledger state and reports.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one desk operation.
type Step struct {
	// At moves the clock to an absolute instant (RFC 3339) before the step.
	At string `yaml:"at,omitempty"`

	// Advance moves the clock forward by a Go duration before the step.
	// It is applied after At.
	Advance string `yaml:"advance,omitempty"`

	// Op is one of check_in, check_out, upsert_person, ensure_person,
	// ensure_asset.
	Op string `yaml:"op"`

	Person      int64  `yaml:"person,omitempty"`
	Asset       string `yaml:"asset,omitempty"`
	Issue       string `yaml:"issue,omitempty"`
	IssueType   string `yaml:"issue_type,omitempty"`
	Name        string `yaml:"name,omitempty"`
	Address     string `yaml:"address,omitempty"`
	Transaction int64  `yaml:"transaction,omitempty"`

	// Expect validates the step outcome. Nil means the step must not error.
	Expect *StepExpect `yaml:"expect,omitempty"`
}

// StepExpect is the expected outcome of a step.
type StepExpect struct {
	// Transaction is the id a check_in must return.
	Transaction int64 `yaml:"transaction,omitempty"`

	// Changed is the boolean a check_out, upsert or ensure must return.
	Changed *bool `yaml:"changed,omitempty"`

	// Error is the expected error class: validation or integrity.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the ledger after all steps have run.
type Assertion struct {
	// Type is one of transaction, active, completed, report.
	Type string `yaml:"type"`

	// Transaction and Status are used by the transaction assertion.
	Transaction int64  `yaml:"transaction,omitempty"`
	Status      string `yaml:"status,omitempty"`

	// Count is used by active and completed.
	Count *int `yaml:"count,omitempty"`

	// Search filters active transactions before counting.
	Search string `yaml:"search,omitempty"`

	// Report is used by the report assertion.
	Report *ReportCheck `yaml:"report,omitempty"`
}

// ReportCheck runs a report and compares its output.
type ReportCheck struct {
	Period   string `yaml:"period,omitempty"`
	Kind     string `yaml:"kind,omitempty"`
	Start    string `yaml:"start"`
	End      string `yaml:"end,omitempty"`
	FillGaps bool   `yaml:"fill_gaps,omitempty"`

	// Rows must match the aggregate rows exactly, in order.
	Rows []RowExpect `yaml:"rows"`

	Summary *SummaryExpect `yaml:"summary,omitempty"`
}

// RowExpect is one expected aggregate row.
type RowExpect struct {
	Period   string `yaml:"period"`
	CheckIn  int    `yaml:"check_in"`
	CheckOut int    `yaml:"check_out"`
	Total    int    `yaml:"total"`
}

// SummaryExpect is a subset match against the report summary.
type SummaryExpect struct {
	CheckIns  *int `yaml:"check_ins,omitempty"`
	CheckOuts *int `yaml:"check_outs,omitempty"`

	// MeanHours is the rendered mean turnaround, e.g. "2.50" or "no data".
	MeanHours string `yaml:"mean_hours,omitempty"`
}

// Step operations.
const (
	OpCheckIn      = "check_in"
	OpCheckOut     = "check_out"
	OpUpsertPerson = "upsert_person"
	OpEnsurePerson = "ensure_person"
	OpEnsureAsset  = "ensure_asset"
)

// Assertion types.
const (
	AssertTransaction = "transaction"
	AssertActive      = "active"
	AssertCompleted   = "completed"
	AssertReport      = "report"
)

// Expected error classes.
const (
	ErrorValidation = "validation"
	ErrorIntegrity  = "integrity"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := time.Parse(time.RFC3339, s.Start); err != nil {
		return fmt.Errorf("start must be an RFC 3339 timestamp: %q", s.Start)
	}

	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q", s.Timezone)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, st *Step) error {
	if st.At != "" {
		if _, err := time.Parse(time.RFC3339, st.At); err != nil {
			return fmt.Errorf("steps[%d]: at must be an RFC 3339 timestamp: %q", index, st.At)
		}
	}
	if st.Advance != "" {
		d, err := time.ParseDuration(st.Advance)
		if err != nil {
			return fmt.Errorf("steps[%d]: invalid advance %q", index, st.Advance)
		}
		if d < 0 {
			return fmt.Errorf("steps[%d]: advance must be non-negative", index)
		}
	}

	switch st.Op {
	case OpCheckIn, OpUpsertPerson, OpEnsurePerson, OpEnsureAsset, OpCheckOut:
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, st.Op)
	}

	if st.Expect != nil {
		switch st.Expect.Error {
		case "", ErrorValidation, ErrorIntegrity:
		default:
			return fmt.Errorf("steps[%d].expect: unknown error class %q", index, st.Expect.Error)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTransaction:
		if a.Transaction <= 0 {
			return fmt.Errorf("assertions[%d]: transaction is required for transaction", index)
		}
		if a.Status == "" {
			return fmt.Errorf("assertions[%d]: status is required for transaction", index)
		}
	case AssertActive, AssertCompleted:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
		if a.Search != "" && a.Type != AssertActive {
			return fmt.Errorf("assertions[%d]: search is only valid for active", index)
		}
	case AssertReport:
		if a.Report == nil {
			return fmt.Errorf("assertions[%d]: report is required for report", index)
		}
		if a.Report.Start == "" {
			return fmt.Errorf("assertions[%d].report: start is required", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
