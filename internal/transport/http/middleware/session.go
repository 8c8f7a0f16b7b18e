package middleware

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"corpdash/internal/domain/auth"
	"corpdash/internal/requestctx"
)

const SessionCookie = "corpdash_session"

// Session resolves the session cookie into a principal on the request
// context. Missing or invalid cookies leave the request anonymous.
func Session(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			principal, err := auth.ParseToken(secret, cookie.Value)
			if err != nil {
				zap.L().Debug("discarding session cookie", zap.Error(err), zap.String("requestId", GetRequestID(r.Context())))
				ClearSession(w, false)
				next.ServeHTTP(w, r)
				return
			}
			ctx := requestctx.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetPrincipal(ctx context.Context) (auth.Principal, bool) {
	return requestctx.GetPrincipal(ctx)
}

func SetSession(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSession(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
