package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/service"
	"github.com/MKhiriev/go-invoicer/internal/utils"
	"github.com/MKhiriev/go-invoicer/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.register", err)
		return
	}

	result, err := h.services.AuthService.Register(r.Context(), req, clientMeta(r))
	if err != nil {
		writeError(w, r, "*Handler.register", err)
		return
	}

	h.setSession(w, result.SessionToken, result.ExpiresAt)
	utils.WriteJSON(w, models.AuthResponse{
		Success: true,
		Message: "registration successful",
		User:    &result.User,
	}, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	result, err := h.services.AuthService.Login(r.Context(), req, clientMeta(r))
	if err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	logger.FromRequest(r).Debug().Int64("user_id", result.User.ID).Msg("user logged in")

	h.setSession(w, result.SessionToken, result.ExpiresAt)
	utils.WriteJSON(w, models.AuthResponse{
		Success: true,
		Message: "login successful",
		User:    &result.User,
	}, http.StatusOK)
}

// logout revokes the current session. Logging out twice is not an error.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token, _ := utils.GetSessionTokenFromContext(r.Context())

	if _, err := h.services.AuthService.Logout(r.Context(), token); err != nil {
		writeError(w, r, "*Handler.logout", err)
		return
	}

	h.clearSession(w)
	utils.WriteJSON(w, models.Response{Success: true, Message: "logged out"}, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	token, _ := utils.GetSessionTokenFromContext(r.Context())

	user, ok := h.services.AuthService.CurrentUser(r.Context(), token)
	if !ok {
		writeError(w, r, "*Handler.me", ErrInvalidSession)
		return
	}

	utils.WriteJSON(w, models.AuthResponse{Success: true, User: &user}, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		writeError(w, r, "*Handler.changePassword", service.ErrUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.changePassword", err)
		return
	}

	if err := h.services.AuthService.ChangePassword(r.Context(), userID, req); err != nil {
		writeError(w, r, "*Handler.changePassword", err)
		return
	}

	utils.WriteJSON(w, models.Response{Success: true, Message: "password changed"}, http.StatusOK)
}

func (h *Handler) setUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, "*Handler.setUserActive", err)
		return
	}

	var req models.SetActiveRequest
	if err = decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.setUserActive", err)
		return
	}

	user, err := h.services.AuthService.SetUserActive(r.Context(), id, req.IsActive)
	if err != nil {
		writeError(w, r, "*Handler.setUserActive", err)
		return
	}

	utils.WriteJSON(w, models.AuthResponse{Success: true, User: &user}, http.StatusOK)
}

// setSession hands the token to the client both as a bearer header and as
// an HttpOnly cookie.
func (h *Handler) setSession(w http.ResponseWriter, token string, expiresAt time.Time) {
	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
