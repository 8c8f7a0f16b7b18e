package authhandler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpdash/internal/domain/auth"
	"corpdash/internal/requestctx"
	"corpdash/internal/transport/http/middleware"
	"corpdash/internal/transport/http/view"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	renderer, err := view.New()
	require.NoError(t, err)
	r := chi.NewRouter()
	NewHandler(nil, nil, renderer, false).RegisterRoutes(r)
	return r
}

func withPrincipal(req *http.Request) *http.Request {
	p := auth.Principal{ID: 5, Role: auth.RoleManager, DepartmentID: 1, Name: "Mona"}
	return req.WithContext(requestctx.WithPrincipal(req.Context(), p))
}

func TestRootRedirects(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestLoginFormForSignedInAccount(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/login", nil)))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/login?denied=1", nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")
}

func TestLoginRequiresBothFields(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{name: "no email", form: url.Values{"password": {"secret"}}},
		{name: "blank email", form: url.Values{"email": {"   "}, "password": {"secret"}}},
		{name: "no password", form: url.Values{"email": {"ceo@example.com"}}},
	}
	router := newRouter(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tc.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Email and password are required.")
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, withPrincipal(httptest.NewRequest(http.MethodPost, "/logout", nil)))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
