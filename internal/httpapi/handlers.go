package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roach88/desk/internal/ledger"
	"github.com/roach88/desk/internal/model"
	"github.com/roach88/desk/internal/report"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReportDefaults fills in report parameters the caller omits.
type ReportDefaults struct {
	Days     int
	Period   report.Period
	FillGaps bool
	Location *time.Location
	Now      func() time.Time
}

// Handler serves the desk JSON API.
type Handler struct {
	ledger   *ledger.Ledger
	store    Pinger
	defaults ReportDefaults
}

// NewHandler creates a Handler. Zero-valued defaults fall back to seven
// daily buckets in UTC against the system clock.
func NewHandler(l *ledger.Ledger, store Pinger, defaults ReportDefaults) *Handler {
	if defaults.Days < 1 {
		defaults.Days = 7
	}
	if defaults.Period == "" {
		defaults.Period = report.Daily
	}
	if defaults.Location == nil {
		defaults.Location = time.UTC
	}
	if defaults.Now == nil {
		defaults.Now = time.Now
	}
	return &Handler{ledger: l, store: store, defaults: defaults}
}

// Health answers 200 when the store responds.
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		RespondError(c, http.StatusServiceUnavailable, CodeUnhealthy, err)
		return
	}
	RespondOK(c, gin.H{"status": "ok"})
}

type checkInRequest struct {
	PersonID  int64  `json:"person_id"`
	AssetTag  string `json:"asset_tag"`
	Issue     string `json:"issue"`
	IssueType string `json:"issue_type"`
	Name      string `json:"name"`
	Address   string `json:"address"`
}

type checkInResponse struct {
	TransactionID int64             `json:"transaction_id"`
	Reference     string            `json:"reference"`
	Transaction   model.Transaction `json:"transaction"`
}

// CheckIn opens a transaction.
func (h *Handler) CheckIn(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}

	tx, err := h.ledger.CheckIn(c.Request.Context(), ledger.CheckInRequest{
		PersonID:  model.PersonID(req.PersonID),
		AssetTag:  req.AssetTag,
		Issue:     req.Issue,
		IssueType: model.IssueType(req.IssueType),
		Name:      req.Name,
		Address:   req.Address,
	})
	if err != nil {
		respondFailure(c, err)
		return
	}

	c.JSON(http.StatusCreated, checkInResponse{
		TransactionID: tx.ID,
		Reference:     tx.Reference,
		Transaction:   tx,
	})
}

// CheckOut closes a transaction. closed=false is a normal outcome.
func (h *Handler) CheckOut(c *gin.Context) {
	id, err := model.ParseTransactionID(c.Param("id"))
	if err != nil {
		respondFailure(c, err)
		return
	}

	closed, err := h.ledger.CheckOut(c.Request.Context(), id)
	if err != nil {
		respondFailure(c, err)
		return
	}
	RespondOK(c, gin.H{"transaction_id": id, "closed": closed})
}

// GetTransaction returns the receipt bundle for one transaction.
func (h *Handler) GetTransaction(c *gin.Context) {
	id, err := model.ParseTransactionID(c.Param("id"))
	if err != nil {
		respondFailure(c, err)
		return
	}

	r, err := h.ledger.Receipt(c.Request.Context(), id)
	if err != nil {
		respondFailure(c, err)
		return
	}
	if r == nil {
		respondFailure(c, fmt.Errorf("transaction %d: %w", id, errNotFound))
		return
	}
	RespondOK(c, r)
}

type listResponse struct {
	Status       string              `json:"status"`
	Query        string              `json:"query,omitempty"`
	Count        int                 `json:"count"`
	Transactions []model.Transaction `json:"transactions"`
}

// ListTransactions lists active (optionally searched) or completed transactions.
func (h *Handler) ListTransactions(c *gin.Context) {
	ctx := c.Request.Context()
	status := strings.ToLower(c.DefaultQuery("status", "active"))
	query := c.Query("q")

	var (
		txs []model.Transaction
		err error
	)
	switch status {
	case "active":
		txs, err = h.ledger.SearchActive(ctx, query)
	case "completed":
		if query != "" {
			respondFailure(c, &model.ValidationError{Field: "q", Value: query, Reason: "search applies to active transactions only"})
			return
		}
		txs, err = h.ledger.Completed(ctx)
	default:
		respondFailure(c, &model.ValidationError{Field: "status", Value: status, Reason: "must be active or completed"})
		return
	}
	if err != nil {
		respondFailure(c, err)
		return
	}

	RespondOK(c, listResponse{Status: status, Query: query, Count: len(txs), Transactions: txs})
}

// Counts returns active and completed totals.
func (h *Handler) Counts(c *gin.Context) {
	counts, err := h.ledger.Counts(c.Request.Context())
	if err != nil {
		respondFailure(c, err)
		return
	}
	RespondOK(c, counts)
}

type personRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// UpsertPerson records a person's name and address.
func (h *Handler) UpsertPerson(c *gin.Context) {
	id, err := model.ParsePersonID(c.Param("id"))
	if err != nil {
		respondFailure(c, err)
		return
	}

	var req personRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}

	applied, err := h.ledger.UpsertPerson(c.Request.Context(), model.Person{ID: id, Name: req.Name, Address: req.Address})
	if err != nil {
		respondFailure(c, err)
		return
	}
	RespondOK(c, gin.H{"person_id": id, "applied": applied})
}

// reportResponse hides the raw rows unless they were asked for.
type reportResponse struct {
	report.Report
	Events []report.EventRow `json:"events,omitempty"`
}

// Report runs the reporting engine. Unparseable dates are repaired, not rejected.
func (h *Handler) Report(c *gin.Context) {
	period := h.defaults.Period
	if raw := c.Query("period"); raw != "" {
		p, err := report.ParsePeriod(raw)
		if err != nil {
			respondFailure(c, err)
			return
		}
		period = p
	}

	kind, err := report.ParseKind(c.Query("kind"))
	if err != nil {
		respondFailure(c, err)
		return
	}

	fillGaps := h.defaults.FillGaps
	if raw := c.Query("fill_gaps"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			fillGaps = v
		}
	}

	fallback := report.DefaultRange(h.defaults.Now(), h.defaults.Days, h.defaults.Location)
	opts := report.Options{
		Period:   period,
		Kind:     kind,
		Range:    report.ResolveRange(c.Query("start"), c.Query("end"), fallback),
		Location: h.defaults.Location,
		FillGaps: fillGaps,
	}

	r, err := report.Run(c.Request.Context(), h.ledger, opts)
	if err != nil {
		respondFailure(c, err)
		return
	}

	resp := reportResponse{Report: r}
	if raw, _ := strconv.ParseBool(c.Query("raw")); raw {
		resp.Events = r.Events
	}
	RespondOK(c, resp)
}
