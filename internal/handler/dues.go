package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/correcaminos/cuotas/internal/auth"
	"github.com/correcaminos/cuotas/internal/billing"
	"github.com/correcaminos/cuotas/internal/store"
)

// DuesHandler quotes what a household owes for a month.
type DuesHandler struct {
	households *store.HouseholdStore
	config     *store.ConfigStore
	logger     *slog.Logger
	now        func() time.Time
}

func NewDuesHandler(hs *store.HouseholdStore, cs *store.ConfigStore, logger *slog.Logger) *DuesHandler {
	return &DuesHandler{households: hs, config: cs, logger: logger, now: time.Now}
}

// Quote returns the fee breakdown for the authenticated household and
// the month in the path, late surcharge included when past the cutoff.
func (h *DuesHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())

	month, ok := billing.CanonicalMonth(r.PathValue("month"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown month"})
		return
	}

	household, err := h.households.GetByID(ac.HouseholdID)
	if err != nil || household == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load household"})
		return
	}

	cfg, err := h.config.Get()
	if err != nil {
		h.logger.Error("get config", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load configuration"})
		return
	}

	breakdown := billing.Quote(billing.RosterSource{
		FreeText: household.Roster,
		Records:  household.Members,
	}, *cfg, month, h.now())

	writeJSON(w, http.StatusOK, breakdown)
}
