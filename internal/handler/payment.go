package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/correcaminos/cuotas/internal/auth"
	"github.com/correcaminos/cuotas/internal/email"
	"github.com/correcaminos/cuotas/internal/model"
	"github.com/correcaminos/cuotas/internal/receipt"
	"github.com/correcaminos/cuotas/internal/store"
	"github.com/correcaminos/cuotas/internal/websocket"
)

// PaymentHandler covers the payment lifecycle: households report
// transfers, admins settle them.
type PaymentHandler struct {
	payments   *store.PaymentStore
	households *store.HouseholdStore
	receipts   *receipt.Service
	mail       *email.Client
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewPaymentHandler(ps *store.PaymentStore, hs *store.HouseholdStore, rs *receipt.Service, mail *email.Client, hub *websocket.Hub, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{payments: ps, households: hs, receipts: rs, mail: mail, hub: hub, logger: logger}
}

// Submit records a pending payment for the authenticated household.
func (h *PaymentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())

	var req struct {
		Month   string `json:"month"`
		Amount  int64  `json:"amount"`
		Receipt string `json:"receipt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	receiptRef, err := h.receipts.Store(r.Context(), ac.HouseholdID, req.Month, req.Receipt)
	if err != nil {
		h.logger.Warn("store receipt", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid receipt image"})
		return
	}

	payment, err := h.payments.Record(ac.HouseholdID, req.Month, req.Amount, receiptRef)
	if err != nil {
		writeStoreError(w, err, "failed to record payment")
		return
	}

	h.logger.Info("payment submitted", "household", ac.Handle, "month", payment.Month, "amount", payment.Amount)

	msg := websocket.NewMessage("payment", "created", payment.ID, map[string]any{"month": payment.Month})
	msg.HouseholdID = ac.HouseholdID
	h.hub.Broadcast(msg)

	writeJSON(w, http.StatusCreated, payment)
}

// Mine lists the authenticated household's payments, newest first.
func (h *PaymentHandler) Mine(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())

	payments, err := h.payments.ListByHousehold(ac.HouseholdID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list payments"})
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

// AdminList lists all payments, optionally filtered by status and month.
func (h *PaymentHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	month := r.URL.Query().Get("month")

	if status != "" && status != model.PaymentPending && status != model.PaymentApproved && status != model.PaymentRejected {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
		return
	}

	payments, err := h.payments.List(status, month)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list payments"})
		return
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

// Approve settles a pending payment, optionally correcting its amount
// to what actually arrived.
func (h *PaymentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Amount *int64 `json:"amount"`
	}
	if r.Body != nil {
		// Body is optional; an empty body approves as submitted.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
			return
		}
	}
	if req.Amount != nil && *req.Amount < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must not be negative"})
		return
	}

	payment, err := h.payments.SetStatus(id, model.PaymentApproved, store.StatusChange{Amount: req.Amount})
	if err != nil {
		writeStoreError(w, err, "failed to approve payment")
		return
	}

	h.logger.Info("payment approved", "id", id, "amount", payment.Amount)
	h.broadcastSettled(payment, "approved")
	writeJSON(w, http.StatusOK, payment)
}

// Reject settles a pending payment as rejected with a reason.
func (h *PaymentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "a reject reason is required"})
		return
	}

	payment, err := h.payments.SetStatus(id, model.PaymentRejected, store.StatusChange{RejectReason: req.Reason})
	if err != nil {
		writeStoreError(w, err, "failed to reject payment")
		return
	}

	h.logger.Info("payment rejected", "id", id, "reason", req.Reason)
	h.broadcastSettled(payment, "rejected")
	writeJSON(w, http.StatusOK, payment)
}

// Receipt streams the receipt image attached to a payment. Households
// can only read their own receipts; admins can read any.
func (h *PaymentHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	payment, err := h.payments.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get payment"})
		return
	}
	if payment == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "payment not found"})
		return
	}
	if !ac.IsAdmin() && payment.HouseholdID != ac.HouseholdID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return
	}

	body, contentType, err := h.receipts.Fetch(r.Context(), payment.ReceiptRef)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "receipt not available"})
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, body)
}

func (h *PaymentHandler) broadcastSettled(payment *model.Payment, action string) {
	msg := websocket.NewMessage("payment", action, payment.ID, map[string]any{
		"month":  payment.Month,
		"status": payment.Status,
	})
	msg.HouseholdID = payment.HouseholdID
	h.hub.Broadcast(msg)

	if h.mail == nil || !h.mail.Configured() {
		return
	}
	household, err := h.households.GetByID(payment.HouseholdID)
	if err != nil || household == nil || household.Email == "" {
		return
	}
	// Fire and forget; settlement already committed.
	go func(p model.Payment, name, to string) {
		if err := h.mail.SendPaymentSettled(to, name, p.Month, p.Status, p.Amount, p.RejectReason); err != nil {
			h.logger.Warn("send settlement notice", "payment", p.ID, "error", err)
		}
	}(*payment, household.Name, household.Email)
}
