package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/optiflow/site-backend/internal/auth"
	"github.com/optiflow/site-backend/internal/pkg/httputil"
	"github.com/optiflow/site-backend/internal/pkg/logger"
)

type contextKey string

const sessionContextKey contextKey = "admin_session"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string       `json:"token"`
	Session auth.Session `json:"session"`
}

// HandleLogin authenticates an admin and mints a session. The same
// generic 401 covers unknown usernames and wrong passwords.
//
//	POST /auth/login
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	token, session, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			httputil.Unauthorized(w, "invalid credentials")
			return
		}
		httputil.InternalError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.authCfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.auth.SessionTTL(),
		HttpOnly: true,
		Secure:   h.authCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.OK(w, loginResponse{Token: token, Session: *session})
}

// HandleLogout revokes the current session server-side and clears the
// cookie. Revocation is unconditional; an expired or unknown token still
// gets a 204.
//
//	POST /auth/logout
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token := h.sessionToken(r); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			logger.Warn("session revocation failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.authCfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.authCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.NoContent(w)
}

// HandleMe returns the authenticated admin's session.
//
//	GET /api/admin/me
func (h *Handlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session == nil {
		httputil.Unauthorized(w, "unauthorized")
		return
	}
	httputil.OK(w, session)
}

// RequireAdmin rejects requests without a live admin session. The token
// comes from the session cookie or an Authorization bearer header.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.sessionToken(r)
		if token == "" {
			httputil.Unauthorized(w, "unauthorized")
			return
		}

		session, err := h.auth.Authenticate(r.Context(), token)
		if err != nil {
			httputil.InternalError(w, err)
			return
		}
		if session == nil {
			httputil.Unauthorized(w, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handlers) sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(h.authCfg.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func sessionFromContext(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}
