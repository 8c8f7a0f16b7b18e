package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCEOManagesOrgAndReadsKPI(t *testing.T) {
	app, ts := startApp(t)
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	ceo := newBrowser(t, ts)
	ceo.login(ceoEmail, ceoPassword)

	deptName := fmt.Sprintf("Journey %d", suffix)
	status, _, location := ceo.submit("/departments/new", "/departments", url.Values{"name": {deptName}})
	require.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/departments?notice=created", location)

	var deptID int64
	require.NoError(t, app.DB.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", deptName).Scan(&deptID))

	managerEmail := fmt.Sprintf("mgr-%d@test.local", suffix)
	status, body, _ := ceo.submit("/managers/new", "/managers", url.Values{
		"first_name":    {"Mona"},
		"last_name":     {"Manager"},
		"email":         {managerEmail},
		"password":      {"Manager123!"},
		"department_id": {fmt.Sprint(deptID)},
		"position":      {"Lead"},
		"hire_date":     {"2023-01-02"},
		"base_salary":   {"5200.00"},
	})
	require.Equal(t, http.StatusSeeOther, status, body)

	var managerID int64
	require.NoError(t, app.DB.QueryRow(ctx, "SELECT id FROM managers WHERE email = $1", managerEmail).Scan(&managerID))

	employeeEmail := fmt.Sprintf("emp-%d@test.local", suffix)
	status, body, _ = ceo.submit("/employees/new", "/employees", url.Values{
		"first_name":    {"Eli"},
		"last_name":     {"Employee"},
		"email":         {employeeEmail},
		"password":      {"Employee123!"},
		"department_id": {fmt.Sprint(deptID)},
		"manager_id":    {fmt.Sprint(managerID)},
		"hire_date":     {"2023-03-01"},
		"base_salary":   {"3100"},
	})
	require.Equal(t, http.StatusSeeOther, status, body)

	var employeeID int64
	require.NoError(t, app.DB.QueryRow(ctx, "SELECT id FROM employees WHERE email = $1", employeeEmail).Scan(&employeeID))

	for _, entry := range []url.Values{
		{"indicator_name": {"Sales"}, "weight": {"0.5"}, "target_value": {"100"}, "actual_value": {"90"}},
		{"indicator_name": {"Tickets"}, "weight": {"0.5"}, "target_value": {"50"}, "actual_value": {"55"}},
		{"indicator_name": {"Unscored"}, "weight": {"1"}, "target_value": {"0"}, "actual_value": {"10"}},
	} {
		entry.Set("employee_id", fmt.Sprint(employeeID))
		entry.Set("period", "2024-03")
		status, body, _ := ceo.submit("/kpi/entries/new", "/kpi/entries", entry)
		require.Equal(t, http.StatusSeeOther, status, body)
	}

	status, body, _ = ceo.get(fmt.Sprintf("/kpi?employee_id=%d&period=2024-03", employeeID))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "90.0%")
	assert.Contains(t, body, "110.0%")
	assert.Contains(t, body, "100.0%", "weighted total over the scored entries")
	assert.Contains(t, body, "—", "zero target renders a dash")

	status, body, _ = ceo.get(fmt.Sprintf("/kpi?employee_id=%d&period=2024-04", employeeID))
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "KPI not set for this period")

	status, body, _ = ceo.submit("/departments", fmt.Sprintf("/departments/%d/delete", deptID), url.Values{})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, body, "reassign them first")
	var remaining int
	require.NoError(t, app.DB.QueryRow(ctx, "SELECT COUNT(1) FROM departments WHERE id = $1", deptID).Scan(&remaining))
	assert.Equal(t, 1, remaining)

	status, body, _ = ceo.post(fmt.Sprintf("/employees/%d/delete", employeeID), url.Values{})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body, "Nothing was changed")
	require.NoError(t, app.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1", employeeID).Scan(&remaining))
	assert.Equal(t, 1, remaining)

	status, body, _ = ceo.submit("/rewards/employees", "/rewards/employees", url.Values{
		"employee_id":  {fmt.Sprint(employeeID)},
		"period":       {"2024-03"},
		"period_type":  {"monthly"},
		"total_amount": {"1250"},
	})
	require.Equal(t, http.StatusSeeOther, status, body)

	env := ceo.getJSON(fmt.Sprintf("/api/v1/rewards/employees?id=%d&period=2024-03&type=monthly", employeeID), http.StatusOK)
	var rewards struct {
		Display string            `json:"display"`
		History []json.RawMessage `json:"history"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rewards))
	assert.Equal(t, "1250.00", rewards.Display)
	assert.Len(t, rewards.History, 1)

	env = ceo.getJSON(fmt.Sprintf("/api/v1/rewards/employees?id=%d&period=2024-04&type=monthly", employeeID), http.StatusOK)
	require.NoError(t, json.Unmarshal(env.Data, &rewards))
	assert.Equal(t, "—", rewards.Display)

	status, _, header := ceo.get("/export?type=employees")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(header.Get("Content-Type"), "application/vnd.openxmlformats"))
	assert.Contains(t, header.Get("Content-Disposition"), "employees_")

	status, _, _ = ceo.get("/export?type=bogus")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _, header = ceo.get(fmt.Sprintf("/kpi/report.pdf?employee_id=%d&period=2024-03", employeeID))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/pdf", header.Get("Content-Type"))

	status, _, location = ceo.submit("/employees", fmt.Sprintf("/employees/%d/delete", employeeID), url.Values{})
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/employees?notice=deleted", location)
}

func TestRoleScoping(t *testing.T) {
	app, ts := startApp(t)
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	ceo := newBrowser(t, ts)
	ceo.login(ceoEmail, ceoPassword)

	var deptID, otherDeptID int64
	for i, id := range []*int64{&deptID, &otherDeptID} {
		name := fmt.Sprintf("Scope %d-%d", suffix, i)
		status, body, _ := ceo.submit("/departments/new", "/departments", url.Values{"name": {name}})
		require.Equal(t, http.StatusSeeOther, status, body)
		require.NoError(t, app.DB.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", name).Scan(id))
	}

	managerEmail := fmt.Sprintf("scope-mgr-%d@test.local", suffix)
	status, body, _ := ceo.submit("/managers/new", "/managers", url.Values{
		"first_name": {"Sam"}, "last_name": {"Scope"}, "email": {managerEmail}, "password": {"Manager123!"},
		"department_id": {fmt.Sprint(deptID)}, "hire_date": {"2023-01-02"},
	})
	require.Equal(t, http.StatusSeeOther, status, body)

	people := map[string]int64{}
	for name, dept := range map[string]int64{"own": deptID, "other": otherDeptID} {
		email := fmt.Sprintf("scope-%s-%d@test.local", name, suffix)
		status, body, _ := ceo.submit("/employees/new", "/employees", url.Values{
			"first_name": {"Pat"}, "last_name": {name}, "email": {email}, "password": {"Employee123!"},
			"department_id": {fmt.Sprint(dept)}, "hire_date": {"2023-01-02"},
		})
		require.Equal(t, http.StatusSeeOther, status, body)
		var id int64
		require.NoError(t, app.DB.QueryRow(ctx, "SELECT id FROM employees WHERE email = $1", email).Scan(&id))
		people[name] = id
	}

	manager := newBrowser(t, ts)
	manager.login(managerEmail, "Manager123!")

	status, _, location := manager.get("/managers")
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/login?denied=1", location)

	status, _, _ = manager.get(fmt.Sprintf("/kpi?employee_id=%d", people["own"]))
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = manager.get(fmt.Sprintf("/kpi?employee_id=%d", people["other"]))
	assert.Equal(t, http.StatusForbidden, status)
	status, _, _ = manager.get(fmt.Sprintf("/departments/%d", otherDeptID))
	assert.Equal(t, http.StatusForbidden, status)
	status, _, _ = manager.get("/export?type=employees")
	assert.Equal(t, http.StatusForbidden, status)

	employee := newBrowser(t, ts)
	employee.login(fmt.Sprintf("scope-own-%d@test.local", suffix), "Employee123!")

	status, _, location = employee.get("/departments")
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/login?denied=1", location)

	env := employee.getJSON(fmt.Sprintf("/api/v1/kpi?employee_id=%d", people["other"]), http.StatusOK)
	var view struct {
		Summary struct {
			EmployeeID int64 `json:"employeeId"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, people["own"], view.Summary.EmployeeID, "employees only ever see their own KPI")

	env = employee.getJSON("/api/v1/rewards/managers", http.StatusForbidden)
	require.NotNil(t, env.Error)
	assert.Equal(t, "forbidden", env.Error.Code)

	anonymous := newBrowser(t, ts)
	status, _, location = anonymous.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/login", location)
	anonymous.getJSON("/api/v1/kpi", http.StatusUnauthorized)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	_, ts := startApp(t)
	b := newBrowser(t, ts)

	status, body, _ := b.submit("/login", "/login", url.Values{"email": {ceoEmail}, "password": {"wrong-password"}})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "invalid email or password")

	status, _, location := b.get("/dashboard")
	assert.Equal(t, http.StatusSeeOther, status)
	assert.Equal(t, "/login", location)
}
