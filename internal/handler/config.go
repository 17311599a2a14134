package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/correcaminos/cuotas/internal/model"
	"github.com/correcaminos/cuotas/internal/store"
	"github.com/correcaminos/cuotas/internal/websocket"
)

// ConfigHandler exposes the club-wide billing configuration. Reads are
// open to every household; writes are admin-only.
type ConfigHandler struct {
	config *store.ConfigStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewConfigHandler(cs *store.ConfigStore, hub *websocket.Hub, logger *slog.Logger) *ConfigHandler {
	return &ConfigHandler{config: cs, hub: hub, logger: logger}
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.config.Get()
	if err != nil {
		h.logger.Error("get config", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load configuration"})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// Put replaces the billing configuration wholesale, activities included.
func (h *ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SocialFee     int64 `json:"social_fee"`
		LateFeeAmount int64 `json:"late_fee_amount"`
		LateFeeDay    int   `json:"late_fee_day"`
		Activities    []struct {
			Name             string `json:"name"`
			Price            int64  `json:"price"`
			AppliesSocialFee bool   `json:"applies_social_fee"`
		} `json:"activities"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	cfg := model.BillingConfig{
		SocialFee:     req.SocialFee,
		LateFeeAmount: req.LateFeeAmount,
		LateFeeDay:    req.LateFeeDay,
	}
	for _, a := range req.Activities {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "activity name is required"})
			return
		}
		cfg.Activities = append(cfg.Activities, model.Activity{
			Name:             name,
			Price:            a.Price,
			AppliesSocialFee: a.AppliesSocialFee,
		})
	}

	if err := h.config.Put(cfg); err != nil {
		writeStoreError(w, err, "failed to save configuration")
		return
	}

	saved, err := h.config.Get()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to reload configuration"})
		return
	}

	h.hub.Broadcast(websocket.NewMessage("config", "updated", 0, nil))
	writeJSON(w, http.StatusOK, saved)
}
