package handler

import (
	"context"
	"net/http"

	"gallery-be/internal/auth"
	"gallery-be/internal/filterquery"
	"gallery-be/internal/gallery"
	"gallery-be/internal/logger"
	"gallery-be/internal/session"

	"go.uber.org/zap"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionFrom returns the session resolved by WithSession.
func SessionFrom(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*session.Session)
	return s, ok
}

// WithSession resolves the caller's session from its token. A request
// without a token, or whose session has expired, gets a new session whose
// criteria are decoded from the request query string. A token that fails
// verification is rejected and the cookie cleared.
func (h *Handler) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context()).With(zap.String("layer", "handler"))

		var s *session.Session
		if token := auth.ExtractSessionToken(r); token != "" {
			id, err := h.tokens.Parse(token)
			if err != nil {
				log.Info("rejected session token", zap.Error(err))
				auth.SetSessionCookie(w, "", unixEpoch, h.secureCookie)
				WriteJSONError(w, "invalid session token", http.StatusUnauthorized)
				return
			}
			if existing, ok := h.sessions.Get(id); ok {
				s = existing
			}
		}

		if s == nil {
			criteria := filterquery.Decode(r.URL.Query(), gallery.DefaultCriteria())
			s = h.sessions.Create(criteria)

			token, expires, err := h.tokens.Issue(s.ID())
			if err != nil {
				log.Error("failed to issue session token", zap.Error(err))
				h.sessions.Remove(s.ID())
				WriteJSONError(w, "internal server error", http.StatusInternalServerError)
				return
			}
			auth.SetSessionCookie(w, token, expires, h.secureCookie)
			w.Header().Set(SessionTokenHeader, token)
		}

		ctx := logger.WithSessionID(r.Context(), s.ID())
		ctx = context.WithValue(ctx, sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
