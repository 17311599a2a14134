package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/correcaminos/cuotas/internal/billing"
	"github.com/correcaminos/cuotas/internal/report"
	"github.com/correcaminos/cuotas/internal/store"
)

// ReportHandler serves the admin reconciliation grid and dashboard
// counters.
type ReportHandler struct {
	households *store.HouseholdStore
	payments   *store.PaymentStore
	config     *store.ConfigStore
	logger     *slog.Logger
	now        func() time.Time
}

func NewReportHandler(hs *store.HouseholdStore, ps *store.PaymentStore, cs *store.ConfigStore, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{households: hs, payments: ps, config: cs, logger: logger, now: time.Now}
}

// Reconciliation builds the per-household month grid. The months query
// parameter narrows the grid; it defaults to the full year.
func (h *ReportHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	months := billing.MonthNames[:]
	if requested := r.URL.Query()["month"]; len(requested) > 0 {
		months = make([]string, 0, len(requested))
		for _, m := range requested {
			canonical, ok := billing.CanonicalMonth(m)
			if !ok {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown month"})
				return
			}
			months = append(months, canonical)
		}
	}

	households, err := h.households.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list households"})
		return
	}

	cfg, err := h.config.Get()
	if err != nil {
		h.logger.Error("get config", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load configuration"})
		return
	}

	payments, err := h.payments.List("", "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list payments"})
		return
	}

	reports := report.Build(households, *cfg, months, payments, h.now())
	if reports == nil {
		reports = []report.HouseholdReport{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"months":     months,
		"households": reports,
	})
}

// Stats returns the dashboard counters: pending submissions and the
// approved total.
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.List("", "")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list payments"})
		return
	}
	writeJSON(w, http.StatusOK, report.Summarize(payments))
}
