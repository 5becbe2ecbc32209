package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/roach88/desk/internal/model"
	"github.com/roach88/desk/internal/store"
)

// Ledger is the check-in/check-out service over a Store.
type Ledger struct {
	store   *store.Store
	clock   Clock
	refs    ReferenceGenerator
	metrics *Metrics
	logger  *slog.Logger
	loc     *time.Location
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source for check-in and check-out stamps.
func WithClock(c Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithReferences sets the transaction reference generator.
func WithReferences(g ReferenceGenerator) Option {
	return func(l *Ledger) { l.refs = g }
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithLocation sets the zone used to render check-in times for search.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

// New creates a Ledger over s. Defaults: system clock, UUIDv7 references,
// unregistered metrics, slog.Default(), UTC.
func New(s *store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  s,
		clock:  SystemClock{},
		refs:   UUIDv7Generator{},
		logger: slog.Default(),
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.metrics == nil {
		l.metrics = NewMetrics(nil)
	}
	return l
}

// CheckInRequest is the validated input of a check-in.
type CheckInRequest struct {
	PersonID model.PersonID
	AssetTag string

	// Issue is the combined "<Type>: <details>" text. When IssueType is set
	// it is taken as the details verbatim.
	Issue     string
	IssueType model.IssueType

	// Name and Address are optional person details captured at the desk.
	Name    string
	Address string
}

// CheckIn records that an asset was handed in by a person and returns the
// new open transaction.
//
// Parents are ensured in the same SQL transaction as the insert, so a
// check-in never fails because the person or asset was unknown. When an
// address is supplied the person record is upserted as well.
func (l *Ledger) CheckIn(ctx context.Context, req CheckInRequest) (model.Transaction, error) {
	defer l.metrics.timer("check_in").ObserveDuration()

	if err := model.CheckPersonID(req.PersonID); err != nil {
		return model.Transaction{}, err
	}
	tag, err := model.ParseAssetTag(req.AssetTag)
	if err != nil {
		return model.Transaction{}, err
	}
	issueType, details, inferred, err := resolveIssue(req)
	if err != nil {
		return model.Transaction{}, err
	}

	person := model.Person{
		ID:      req.PersonID,
		Name:    model.NormalizeText(req.Name),
		Address: model.NormalizeText(req.Address),
	}
	nt := store.NewTransaction{
		Reference:     l.refs.Generate(),
		PersonID:      req.PersonID,
		AssetTag:      tag,
		IssueType:     issueType,
		Issue:         details,
		IssueInferred: inferred,
		CheckInAt:     l.clock.Now(),
	}

	var (
		id      int64
		upsert  bool
		created struct{ person, asset bool }
	)
	err = l.store.InTx(ctx, func(tx *store.Tx) error {
		var err error
		if created.person, err = tx.EnsurePerson(ctx, person); err != nil {
			return err
		}
		if created.asset, err = tx.EnsureAsset(ctx, model.Asset{Tag: tag}); err != nil {
			return err
		}
		if upsert, err = tx.UpsertPerson(ctx, person); err != nil {
			return err
		}
		id, err = tx.InsertTransaction(ctx, nt)
		return err
	})
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return model.Transaction{}, l.integrity(&IntegrityError{
				Code:    ErrCodeMissingParent,
				Message: fmt.Sprintf("person %d or asset %q missing at insert", req.PersonID, tag),
				Err:     err,
			})
		}
		return model.Transaction{}, fmt.Errorf("check in: %w", err)
	}

	l.metrics.CheckIns.Inc()
	if person.Address != "" {
		l.metrics.PersonUpserts.WithLabelValues(strconv.FormatBool(upsert)).Inc()
	}
	l.logger.Info("checked in",
		"transaction", id,
		"reference", nt.Reference,
		"person", int64(req.PersonID),
		"asset", tag,
		"issue_type", string(issueType),
		"new_person", created.person,
		"new_asset", created.asset,
	)

	tx, err := l.store.GetTransaction(ctx, id)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("check in: read back %d: %w", id, err)
	}
	return tx, nil
}

// CheckOut closes an open transaction at the current time.
//
// Returns false, with a nil error, when id is unknown or already closed.
// Retrying a check-out is harmless.
func (l *Ledger) CheckOut(ctx context.Context, id int64) (bool, error) {
	defer l.metrics.timer("check_out").ObserveDuration()

	if id <= 0 {
		return false, &model.ValidationError{
			Field:  "transaction_id",
			Value:  strconv.FormatInt(id, 10),
			Reason: "must be a positive integer",
		}
	}

	closed, err := l.store.CloseTransaction(ctx, id, l.clock.Now())
	if err != nil {
		return false, fmt.Errorf("check out: %w", err)
	}

	if !closed {
		l.metrics.CheckOuts.WithLabelValues(OutcomeNoop).Inc()
		l.logger.Debug("check out: nothing to close", "transaction", id)
		return false, nil
	}

	l.metrics.CheckOuts.WithLabelValues(OutcomeClosed).Inc()
	l.logger.Info("checked out", "transaction", id)
	return true, nil
}

// Get returns the transaction with the given id, or nil if there is none.
func (l *Ledger) Get(ctx context.Context, id int64) (*model.Transaction, error) {
	tx, err := l.store.GetTransaction(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	if err := l.verify(tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// EnsurePerson creates the person with empty details if absent.
func (l *Ledger) EnsurePerson(ctx context.Context, id model.PersonID) (bool, error) {
	if err := model.CheckPersonID(id); err != nil {
		return false, err
	}
	return l.store.EnsurePerson(ctx, model.Person{ID: id})
}

// UpsertPerson records a person's name and address. An empty address is a
// no-op and returns false so existing contact details are never cleared.
func (l *Ledger) UpsertPerson(ctx context.Context, p model.Person) (bool, error) {
	if err := model.CheckPersonID(p.ID); err != nil {
		return false, err
	}
	p.Name = model.NormalizeText(p.Name)
	p.Address = model.NormalizeText(p.Address)

	applied, err := l.store.UpsertPerson(ctx, p)
	if err != nil {
		return false, err
	}
	l.metrics.PersonUpserts.WithLabelValues(strconv.FormatBool(applied)).Inc()
	if applied {
		l.logger.Info("person updated", "person", int64(p.ID))
	}
	return applied, nil
}

// EnsureAsset creates the asset with empty model and description if absent.
func (l *Ledger) EnsureAsset(ctx context.Context, rawTag string) (bool, error) {
	tag, err := model.ParseAssetTag(rawTag)
	if err != nil {
		return false, err
	}
	return l.store.EnsureAsset(ctx, model.Asset{Tag: tag})
}

// Active returns open transactions, most recent check-in first.
func (l *Ledger) Active(ctx context.Context) ([]model.Transaction, error) {
	return l.verified(l.store.ActiveTransactions(ctx))
}

// Completed returns closed transactions, most recent check-out first.
func (l *Ledger) Completed(ctx context.Context) ([]model.Transaction, error) {
	return l.verified(l.store.CompletedTransactions(ctx))
}

// All returns the full ledger in id order.
func (l *Ledger) All(ctx context.Context) ([]model.Transaction, error) {
	return l.verified(l.store.AllTransactions(ctx))
}

// SearchActive returns open transactions whose id, asset tag, person id,
// person name, issue text, or check-in time contains query under Unicode
// case folding. Order matches Active. An empty query returns every open
// transaction.
func (l *Ledger) SearchActive(ctx context.Context, query string) ([]model.Transaction, error) {
	active, err := l.Active(ctx)
	if err != nil {
		return nil, err
	}
	query = model.NormalizeText(query)
	if query == "" {
		return active, nil
	}

	matched := []model.Transaction{}
	for _, tx := range active {
		if l.matches(tx, query) {
			matched = append(matched, tx)
		}
	}
	return matched, nil
}

func (l *Ledger) matches(tx model.Transaction, query string) bool {
	fields := []string{
		strconv.FormatInt(tx.ID, 10),
		tx.AssetTag,
		tx.PersonID.String(),
		tx.PersonName,
		tx.Description(),
		tx.CheckInAt.In(l.loc).Format(time.DateTime),
	}
	for _, f := range fields {
		if model.ContainsFold(f, query) {
			return true
		}
	}
	return false
}

// Receipt returns the transaction with its person and asset, or nil if the
// transaction does not exist.
func (l *Ledger) Receipt(ctx context.Context, id int64) (*model.Receipt, error) {
	r, err := l.store.Receipt(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("receipt: %w", err)
	}
	if err := l.verify(r.Transaction); err != nil {
		return nil, err
	}
	return &r, nil
}

// Counts returns the number of open and closed transactions.
func (l *Ledger) Counts(ctx context.Context) (model.Counts, error) {
	return l.store.Counts(ctx)
}

func (l *Ledger) verified(txs []model.Transaction, err error) ([]model.Transaction, error) {
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		if err := l.verify(tx); err != nil {
			return nil, err
		}
	}
	return txs, nil
}

func (l *Ledger) verify(tx model.Transaction) error {
	if tx.Consistent() {
		return nil
	}
	return l.integrity(&IntegrityError{
		Code:          ErrCodeStateCorrupt,
		Message:       fmt.Sprintf("status %q disagrees with timestamps", tx.Status),
		TransactionID: tx.ID,
	})
}

func (l *Ledger) integrity(e *IntegrityError) error {
	l.metrics.IntegrityFailures.WithLabelValues(string(e.Code)).Inc()
	l.logger.Error("ledger integrity violation",
		"code", string(e.Code),
		"transaction", e.TransactionID,
		"error", e.Message,
	)
	return e
}

// resolveIssue returns the issue type and details for a check-in, and
// whether the type was defaulted because the text named none.
func resolveIssue(req CheckInRequest) (model.IssueType, string, bool, error) {
	if req.IssueType == "" {
		t, details, typed := model.ParseIssue(req.Issue)
		return t, details, !typed, nil
	}
	t, ok := model.ParseIssueType(string(req.IssueType))
	if !ok {
		return "", "", false, &model.ValidationError{
			Field:  "issue_type",
			Value:  string(req.IssueType),
			Reason: "unknown issue type",
		}
	}
	return t, model.NormalizeText(req.Issue), false, nil
}
