package view

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/kpi"
	"corpdash/internal/domain/org"
	"corpdash/internal/requestctx"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func signedIn(r *http.Request, p auth.Principal) *http.Request {
	return r.WithContext(requestctx.WithPrincipal(r.Context(), p))
}

func TestNewParsesEveryPage(t *testing.T) {
	r := newRenderer(t)
	for _, name := range []string{
		"login", "error", "dashboard", "departments", "department_detail", "department_form",
		"managers", "employees", "person_form", "projects", "project_detail", "project_form",
		"tasks", "task_form", "kpi", "kpi_form", "rewards", "audit",
	} {
		assert.Contains(t, r.pages, name)
	}
	assert.NotContains(t, r.pages, "layout")
}

func TestRenderLoginAnonymous(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login?denied=1", nil)

	r.Render(rec, req, http.StatusOK, "login", Page{
		Title: "Sign in",
		Data: struct {
			Email  string
			Denied bool
		}{Email: "a@b.c", Denied: true},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "Access denied")
	assert.Contains(t, body, `value="a@b.c"`)
	assert.NotContains(t, body, "Sign out")
}

func TestRenderNavFollowsRole(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()
	req := signedIn(httptest.NewRequest(http.MethodGet, "/dashboard", nil), auth.Principal{ID: 4, Role: auth.RoleEmployee, Name: "Eli"})

	r.Error(rec, req, http.StatusNotFound, "Page not found.")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Page not found.")
	assert.Contains(t, body, `href="/tasks"`)
	assert.NotContains(t, body, `href="/managers"`)
	assert.NotContains(t, body, `href="/departments"`)
	assert.Contains(t, body, "Sign out")
}

func TestRenderNoticeFromQuery(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()
	req := signedIn(httptest.NewRequest(http.MethodGet, "/departments?notice=deleted", nil), auth.Principal{ID: 1, Role: auth.RoleCEO})

	r.Render(rec, req, http.StatusOK, "departments", Page{
		Title: "Departments",
		Data:  struct{ Departments []org.Department }{[]org.Department{{ID: 7, Name: "R&D", ManagerCount: 1}}},
	})

	body := rec.Body.String()
	assert.Contains(t, body, "Deleted.")
	assert.Contains(t, body, "R&amp;D")
	assert.Contains(t, body, `/departments/7/edit`)
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()
	r.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "missing", Page{})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFailMapsErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		text   string
	}{
		{name: "not found", err: org.ErrNotFound, status: http.StatusNotFound, text: "does not exist"},
		{name: "in use", err: &org.InUseError{Managers: 1, Employees: 2}, status: http.StatusConflict, text: "reassign them first"},
		{name: "unexpected", err: errors.New("connection reset"), status: http.StatusInternalServerError, text: "Something went wrong"},
	}
	r := newRenderer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.Fail(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.text)
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestRenderKPISummary(t *testing.T) {
	target, actual := 100.0, 95.0
	period := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	summary := kpi.BuildSummary(9, []kpi.Entry{
		{ID: 1, EmployeeID: 9, Period: period, IndicatorName: "Sales", Weight: 1, TargetValue: &target, ActualValue: &actual},
		{ID: 2, EmployeeID: 9, Period: period, IndicatorName: "Unset", Weight: 1},
	})
	empty := kpi.BuildSummary(9, nil)

	tests := []struct {
		name     string
		summary  *kpi.Summary
		contains []string
	}{
		{name: "with rows", summary: &summary, contains: []string{"95.0%", "badge success", "badge secondary", "/kpi/report.pdf?employee_id=9"}},
		{name: "empty period", summary: &empty, contains: []string{"KPI not set for this period"}},
	}
	r := newRenderer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := signedIn(httptest.NewRequest(http.MethodGet, "/kpi", nil), auth.Principal{ID: 9, Role: auth.RoleEmployee})
			r.Render(rec, req, http.StatusOK, "kpi", Page{Title: "KPI", Data: map[string]any{
				"Period":     period,
				"Periods":    []time.Time{period},
				"Employees":  []org.Employee(nil),
				"EmployeeID": int64(9),
				"Summary":    tc.summary,
				"Scores":     []kpi.EmployeeScore(nil),
				"CanEdit":    false,
			}})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			for _, want := range tc.contains {
				assert.Contains(t, rec.Body.String(), want)
			}
		})
	}
}

func TestFuncs(t *testing.T) {
	v := 2.5
	assert.Equal(t, "1250.50", money(decimal.RequireFromString("1250.5")))
	assert.Equal(t, kpi.Dash, dash(""))
	assert.Equal(t, "x", dash("x"))
	assert.Equal(t, "", optFloat(nil))
	assert.Equal(t, "2.5", optFloat(&v))
	assert.Equal(t, "In progress", statusLabel("in_progress"))
	assert.Equal(t, "Planned", statusLabel("planned"))
	assert.Equal(t, kpi.Dash, statusLabel(""))
	assert.True(t, hasID([]int64{1, 3}, 3))
	assert.Equal(t, int64(0), optID(nil))
}
