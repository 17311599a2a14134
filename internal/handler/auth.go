package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/correcaminos/cuotas/internal/auth"
	"github.com/correcaminos/cuotas/internal/middleware"
	"github.com/correcaminos/cuotas/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const sessionMaxAge = 30 * 24 * 60 * 60 // 30 days, matches session expiry

type AuthHandler struct {
	households *store.HouseholdStore
	sessions   *store.SessionStore
	logger     *slog.Logger
}

func NewAuthHandler(hs *store.HouseholdStore, ss *store.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{households: hs, sessions: ss, logger: logger}
}

// Login checks the household's credentials and issues a session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Handle   string `json:"handle"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Handle = strings.TrimSpace(req.Handle)
	if req.Handle == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "handle and password are required"})
		return
	}

	hash, err := h.households.GetPasswordHash(req.Handle)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	// Same response for unknown handle and wrong password.
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect handle or password"})
		return
	}

	household, err := h.households.GetByHandle(req.Handle)
	if err != nil || household == nil {
		h.logger.Error("login household", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	sess, err := h.sessions.Create(household.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	h.logger.Info("login", "household", household.Handle)
	writeJSON(w, http.StatusOK, household)
}

// Logout deletes the session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if sess, err := h.sessions.GetByToken(cookie.Value); err == nil && sess != nil {
			h.sessions.Delete(sess.ID)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated household.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())
	if ac == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	household, err := h.households.GetByID(ac.HouseholdID)
	if err != nil || household == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load household"})
		return
	}
	writeJSON(w, http.StatusOK, household)
}

// ChangePassword lets a household set a new password for itself.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ac := auth.FromContext(r.Context())

	var req struct {
		Current string `json:"current_password"`
		New     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.New) < 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "new password must be at least 6 characters"})
		return
	}

	hash, err := h.households.GetPasswordHash(ac.Handle)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Current)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect password"})
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.New), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to hash password"})
		return
	}
	if err := h.households.SetPassword(ac.HouseholdID, string(newHash)); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set password"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}
