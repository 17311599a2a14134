package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/correcaminos/cuotas/internal/auth"
	"github.com/correcaminos/cuotas/internal/model"
	"github.com/correcaminos/cuotas/internal/store"
	"github.com/correcaminos/cuotas/internal/websocket"
	"golang.org/x/crypto/bcrypt"
)

// HouseholdHandler exposes the admin's household management API.
type HouseholdHandler struct {
	households *store.HouseholdStore
	sessions   *store.SessionStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewHouseholdHandler(hs *store.HouseholdStore, ss *store.SessionStore, hub *websocket.Hub, logger *slog.Logger) *HouseholdHandler {
	return &HouseholdHandler{households: hs, sessions: ss, hub: hub, logger: logger}
}

func (h *HouseholdHandler) List(w http.ResponseWriter, r *http.Request) {
	households, err := h.households.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list households"})
		return
	}
	if households == nil {
		households = []model.Household{}
	}
	writeJSON(w, http.StatusOK, households)
}

func (h *HouseholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	household, err := h.households.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get household"})
		return
	}
	if household == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "household not found"})
		return
	}
	writeJSON(w, http.StatusOK, household)
}

func (h *HouseholdHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Roster   string `json:"roster"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if len(req.Password) < 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be at least 6 characters"})
		return
	}
	if req.Role == "" {
		req.Role = model.RoleMember
	}
	if req.Role != model.RoleAdmin && req.Role != model.RoleMember {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "role must be admin or member"})
		return
	}

	handle := store.Slugify(req.Name)
	if existing, err := h.households.GetByHandle(handle); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check handle"})
		return
	} else if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a household with that name already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to hash password"})
		return
	}

	household, err := h.households.Create(handle, req.Name, string(hash), req.Role, req.Roster)
	if err != nil {
		h.logger.Error("create household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create household"})
		return
	}

	h.hub.Broadcast(adminMessage("household", "created", household.ID))
	writeJSON(w, http.StatusCreated, household)
}

func (h *HouseholdHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.households.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get household"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "household not found"})
		return
	}

	var req struct {
		Name   *string `json:"name"`
		Email  *string `json:"email"`
		Role   *string `json:"role"`
		Roster *string `json:"roster"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	name, email, role, roster := existing.Name, existing.Email, existing.Role, existing.Roster
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
			return
		}
	}
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if req.Role != nil {
		role = *req.Role
		if role != model.RoleAdmin && role != model.RoleMember {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "role must be admin or member"})
			return
		}
	}
	if req.Roster != nil {
		roster = *req.Roster
	}

	household, err := h.households.Update(id, name, email, role, roster)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update household"})
		return
	}

	msg := websocket.NewMessage("household", "updated", id, nil)
	msg.HouseholdID = id
	h.hub.Broadcast(msg)
	writeJSON(w, http.StatusOK, household)
}

// ReplaceMembers swaps the household's structured roster wholesale.
func (h *HouseholdHandler) ReplaceMembers(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.households.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get household"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "household not found"})
		return
	}

	var req struct {
		Members []struct {
			Name     string `json:"name"`
			Category string `json:"category"`
		} `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	records := make([]model.MemberRecord, 0, len(req.Members))
	for _, m := range req.Members {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "member name is required"})
			return
		}
		records = append(records, model.MemberRecord{Name: name, Category: strings.TrimSpace(m.Category)})
	}

	if err := h.households.ReplaceMembers(id, records); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to replace members"})
		return
	}

	household, err := h.households.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to reload household"})
		return
	}

	msg := websocket.NewMessage("household", "updated", id, nil)
	msg.HouseholdID = id
	h.hub.Broadcast(msg)
	writeJSON(w, http.StatusOK, household)
}

func (h *HouseholdHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	ac := auth.FromContext(r.Context())
	if ac != nil && ac.HouseholdID == id {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cannot delete your own household"})
		return
	}

	existing, err := h.households.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get household"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "household not found"})
		return
	}

	// Orphan sessions first so the deleted household cannot keep acting.
	if err := h.sessions.DeleteByHousehold(id); err != nil {
		h.logger.Error("delete household sessions", "error", err)
	}
	if err := h.households.Delete(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete household"})
		return
	}

	h.hub.Broadcast(adminMessage("household", "deleted", id))
	w.WriteHeader(http.StatusNoContent)
}

// SetPassword lets the admin reset another household's password.
func (h *HouseholdHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.Password) < 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be at least 6 characters"})
		return
	}

	existing, err := h.households.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get household"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "household not found"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to hash password"})
		return
	}
	if err := h.households.SetPassword(id, string(hash)); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set password"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password set"})
}

func adminMessage(entity, action string, id int64) websocket.Message {
	msg := websocket.NewMessage(entity, action, id, nil)
	msg.AdminOnly = true
	return msg
}
