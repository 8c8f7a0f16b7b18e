package exporthandler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpdash/internal/domain/auth"
	"corpdash/internal/requestctx"
	"corpdash/internal/transport/http/view"
)

// newRouter serves the export route without a store; only requests that are
// rejected before the query can be exercised.
func newRouter(t *testing.T, principal auth.Principal) http.Handler {
	t.Helper()
	renderer, err := view.New()
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestctx.WithPrincipal(req.Context(), principal)))
		})
	})
	NewHandler(nil, nil, renderer).RegisterRoutes(r)
	return r
}

func TestExportRejectsRequestsBeforeQuerying(t *testing.T) {
	ceo := auth.Principal{ID: 1, Role: auth.RoleCEO, Name: "Chief"}
	manager := auth.Principal{ID: 2, Role: auth.RoleManager, DepartmentID: 3, Name: "Mona"}
	employee := auth.Principal{ID: 3, Role: auth.RoleEmployee, DepartmentID: 3, Name: "Eli"}

	tests := []struct {
		name      string
		principal auth.Principal
		query     string
		status    int
		location  string
		body      string
	}{
		{name: "unknown type", principal: ceo, query: "type=payroll", status: http.StatusBadRequest, body: "Unknown export type."},
		{name: "missing type", principal: ceo, query: "", status: http.StatusBadRequest, body: "Unknown export type."},
		{name: "manager asks for employees", principal: manager, query: "type=employees", status: http.StatusForbidden, body: "only available to the CEO"},
		{name: "manager asks for manager rewards", principal: manager, query: "type=manager_rewards", status: http.StatusForbidden, body: "only available to the CEO"},
		{name: "employee is denied", principal: employee, query: "type=employee_kpi", status: http.StatusSeeOther, location: "/login?denied=1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(t, tc.principal).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export?"+tc.query, nil))

			assert.Equal(t, tc.status, rec.Code)
			if tc.location != "" {
				assert.Equal(t, tc.location, rec.Header().Get("Location"))
			}
			if tc.body != "" {
				assert.Contains(t, rec.Body.String(), tc.body)
			}
		})
	}
}
