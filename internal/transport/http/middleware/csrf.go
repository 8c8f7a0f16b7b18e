package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

const CSRFField = "csrf_token"

// CSRF protects every unsafe request with a double-submit token. When secure
// is false requests are marked as plaintext so local HTTP development passes
// the referer checks gorilla/csrf applies to TLS traffic.
func CSRF(key []byte, secure bool, onFailure http.Handler) func(http.Handler) http.Handler {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(CSRFField),
		csrf.ErrorHandler(onFailure),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}
