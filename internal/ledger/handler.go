package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stockpoint/stockpoint/internal/platform/httpx"
)

// Handler exposes the computed ledger statements over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches the statement endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/customers/{id}/ledger", h.customerStatement)
	r.Get("/suppliers/{id}/ledger", h.supplierStatement)
}

func (h *Handler) customerStatement(w http.ResponseWriter, r *http.Request) {
	h.statement(w, r, KindCustomer)
}

func (h *Handler) supplierStatement(w http.ResponseWriter, r *http.Request) {
	h.statement(w, r, KindSupplier)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request, kind AccountKind) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "account id must be a positive integer")
		return
	}

	stmt, err := h.service.Statement(r.Context(), kind, id)
	if errors.Is(err, ErrAccountNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err != nil {
		h.logger.Error("compute statement failed",
			slog.String("kind", string(kind)),
			slog.Int64("account", id),
			slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toStatementResponse(stmt))
}

// --- Presentation DTOs ---
//
// The internal representation stays on the debit/credit enum; the "Dr"/"Cr"
// strings the frontend renders are produced only here.

type statementResponse struct {
	Account accountView `json:"account"`
	Entries []lineView  `json:"entries"`
	Totals  totalsView  `json:"totals"`
}

type accountView struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Opening     string `json:"opening_balance"`
	OpeningSide string `json:"opening_balance_type"`
}

type lineView struct {
	ID          int64      `json:"id,omitempty"`
	Type        string     `json:"type"`
	Date        *time.Time `json:"date,omitempty"`
	Reference   string     `json:"reference,omitempty"`
	Method      string     `json:"method,omitempty"`
	Debit       string     `json:"debit"`
	Credit      string     `json:"credit"`
	Balance     string     `json:"balance"`
	BalanceType string     `json:"balance_type"`
}

type totalsView struct {
	TotalDebits       string `json:"total_debits"`
	TotalCredits      string `json:"total_credits"`
	CalculatedBalance string `json:"calculated_balance"`
	BalanceType       string `json:"balance_type"`
}

func drCr(side BalanceSide) string {
	if side == SideCredit {
		return "Cr"
	}
	return "Dr"
}

func signToDrCr(negative bool) string {
	if negative {
		return "Cr"
	}
	return "Dr"
}

func toStatementResponse(stmt Statement) statementResponse {
	resp := statementResponse{
		Account: accountView{
			ID:          stmt.Account.ID,
			Kind:        string(stmt.Account.Kind),
			Name:        stmt.Account.Name,
			Opening:     stmt.Account.Opening.StringFixed(2),
			OpeningSide: drCr(stmt.Account.OpeningSide),
		},
		Totals: totalsView{
			TotalDebits:       stmt.Totals.TotalDebits.StringFixed(2),
			TotalCredits:      stmt.Totals.TotalCredits.StringFixed(2),
			CalculatedBalance: stmt.Totals.CalculatedBalance.Abs().StringFixed(2),
			BalanceType:       signToDrCr(stmt.Totals.CalculatedBalance.IsNegative()),
		},
	}

	resp.Entries = make([]lineView, 0, len(stmt.Lines))
	for _, line := range stmt.Lines {
		v := lineView{
			ID:          line.ID,
			Type:        string(line.Kind),
			Reference:   line.Reference,
			Method:      line.Method,
			Debit:       "0.00",
			Credit:      "0.00",
			Balance:     line.RunningBalance.Abs().StringFixed(2),
			BalanceType: signToDrCr(line.RunningBalance.IsNegative()),
		}
		if line.Kind != EntryOpening {
			date := line.Date
			v.Date = &date
			switch line.Kind.Side() {
			case SideDebit:
				v.Debit = line.Amount.StringFixed(2)
			case SideCredit:
				v.Credit = line.Amount.StringFixed(2)
			}
		}
		resp.Entries = append(resp.Entries, v)
	}
	return resp
}
