package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fadeatelier/fade-backend/pkg/logger"
)

const sessionHeader = "X-Cart-Session"

// Session resolves the shopper's cart session from the X-Cart-Session header.
// A fresh session id is minted for first-time visitors and always echoed back
// so the storefront can persist it client-side.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
			if _, err := uuid.Parse(sessionID); err != nil {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
