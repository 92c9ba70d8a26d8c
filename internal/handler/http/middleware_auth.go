package http

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/service"
	"github.com/MKhiriev/go-invoicer/internal/utils"
	"github.com/MKhiriev/go-invoicer/models"
)

// auth is an HTTP middleware that enforces session authentication.
//
// The session token is read from the "Authorization: Bearer <token>" header
// or, when the header is absent, from the session cookie. A token that
// resolves to a live session of an active user puts the user's id, role and
// token into the request context (see [utils.WithAuth]); every other request
// is rejected with 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := sessionTokenFromRequest(r)
		if err != nil {
			writeError(w, r, "*Handler.auth", err)
			return
		}

		ctx := r.Context()
		user, ok := h.services.AuthService.Authenticate(ctx, token)
		if !ok {
			writeError(w, r, "*Handler.auth", ErrInvalidSession)
			return
		}

		log := logger.FromRequest(r)
		log.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Int64("user_id", user.ID)
		})
		ctx = log.WithContext(utils.WithAuth(ctx, user, token))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole lets through only users of role. It must run after auth.
func requireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got, ok := utils.GetRoleFromContext(r.Context()); !ok || got != role {
				writeError(w, r, "requireRole", service.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionTokenFromRequest extracts the session token. The Authorization
// header wins over the cookie.
func sessionTokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); strings.TrimSpace(header) != "" {
		token, err := utils.ParseBearerToken(header)
		if err != nil {
			return "", ErrInvalidAuthorizationHeader
		}
		return token, nil
	}

	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", ErrEmptyAuthorizationHeader
}
