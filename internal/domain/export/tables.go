package export

import (
	"time"

	"corpdash/internal/domain/kpi"
	"corpdash/internal/domain/org"
	"corpdash/internal/domain/period"
	"corpdash/internal/domain/reward"
)

type Kind string

const (
	KindEmployees       Kind = "employees"
	KindManagers        Kind = "managers"
	KindDepartments     Kind = "departments"
	KindEmployeeKPI     Kind = "employee_kpi"
	KindEmployeeRewards Kind = "employee_rewards"
	KindManagerRewards  Kind = "manager_rewards"
)

var Kinds = []Kind{KindEmployees, KindManagers, KindDepartments, KindEmployeeKPI, KindEmployeeRewards, KindManagerRewards}

func ParseKind(raw string) (Kind, bool) {
	for _, k := range Kinds {
		if Kind(raw) == k {
			return k, true
		}
	}
	return "", false
}

// Filename is the attachment name for an export taken at now.
func (k Kind) Filename(now time.Time) string {
	return string(k) + "_" + now.Format("20060102") + ".xlsx"
}

func dateCell(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func EmployeesTable(employees []org.Employee) Table {
	t := Table{
		Sheet:  "Employees",
		Header: []string{"ID", "First name", "Last name", "Email", "Phone", "Department", "Manager", "Position", "Hire date", "Base salary"},
	}
	for _, e := range employees {
		salary, _ := e.BaseSalary.Float64()
		t.Rows = append(t.Rows, []any{e.ID, e.FirstName, e.LastName, e.Email, e.PhoneNumber, e.Department,
			e.ManagerName, e.Position, dateCell(e.HireDate), salary})
	}
	return t
}

func ManagersTable(managers []org.Manager) Table {
	t := Table{
		Sheet:  "Managers",
		Header: []string{"ID", "First name", "Last name", "Email", "Phone", "Department", "Position", "Hire date", "Base salary"},
	}
	for _, m := range managers {
		salary, _ := m.BaseSalary.Float64()
		t.Rows = append(t.Rows, []any{m.ID, m.FirstName, m.LastName, m.Email, m.PhoneNumber, m.Department,
			m.Position, dateCell(m.HireDate), salary})
	}
	return t
}

func DepartmentsTable(departments []org.Department) Table {
	t := Table{
		Sheet:  "Departments",
		Header: []string{"ID", "Name", "Managers", "Employees"},
	}
	for _, d := range departments {
		t.Rows = append(t.Rows, []any{d.ID, d.Name, d.ManagerCount, d.EmployeeCount})
	}
	return t
}

func KPITable(rows []kpi.ExportRow) Table {
	t := Table{
		Sheet:  "Employee KPI",
		Header: []string{"Employee", "Department", "Period", "Indicator", "Weight", "Target", "Actual", "Unit", "Achievement"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.EmployeeName, r.Department, period.Format(r.Row.Period), r.Row.IndicatorName,
			r.Row.Weight, floatCell(r.Row.TargetValue), floatCell(r.Row.ActualValue), r.Row.Unit, r.Row.Display})
	}
	return t
}

func RewardsTable(subject reward.Subject, rewards []reward.Reward) Table {
	t := Table{
		Sheet:  "Employee rewards",
		Header: []string{"Employee", "Department", "Period", "Period type", "Total amount"},
	}
	if subject == reward.SubjectManager {
		t.Sheet = "Manager rewards"
		t.Header[0] = "Manager"
	}
	for _, r := range rewards {
		amount, _ := r.TotalAmount.Float64()
		t.Rows = append(t.Rows, []any{r.SubjectName, r.Department, r.PeriodType.Label(r.Period), string(r.PeriodType), amount})
	}
	return t
}
