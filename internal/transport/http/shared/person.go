package shared

import (
	"net/http"
	"time"

	"corpdash/internal/domain/org"
)

// PersonForm is the template model behind the manager and employee forms.
type PersonForm struct {
	Action      string
	CancelURL   string
	IsNew       bool
	ShowManager bool
	LockDept    bool
	Input       org.PersonInput
	Departments []org.Department
	Managers    []org.Manager
}

// ParsePersonForm decodes the shared manager/employee form fields.
func ParsePersonForm(r *http.Request, v *Validator) org.PersonInput {
	in := org.PersonInput{
		FirstName:    r.PostFormValue("first_name"),
		LastName:     r.PostFormValue("last_name"),
		Email:        r.PostFormValue("email"),
		Password:     r.PostFormValue("password"),
		PhoneNumber:  r.PostFormValue("phone_number"),
		DepartmentID: v.Int64("department_id", r.PostFormValue("department_id")),
		ManagerID:    v.OptionalInt64("manager_id", r.PostFormValue("manager_id")),
		Position:     r.PostFormValue("position"),
		BaseSalary:   v.Decimal("base_salary", r.PostFormValue("base_salary")),
	}
	if hire, ok := v.Date("hire_date", r.PostFormValue("hire_date")); ok {
		in.HireDate = hire
	}
	return in
}

func ManagerInput(m org.Manager) org.PersonInput {
	return org.PersonInput{
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PhoneNumber:  m.PhoneNumber,
		DepartmentID: m.DepartmentID,
		Position:     m.Position,
		HireDate:     m.HireDate,
		BaseSalary:   m.BaseSalary,
	}
}

func EmployeeInput(e org.Employee) org.PersonInput {
	return org.PersonInput{
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		PhoneNumber:  e.PhoneNumber,
		DepartmentID: e.DepartmentID,
		ManagerID:    e.ManagerID,
		Position:     e.Position,
		HireDate:     e.HireDate,
		BaseSalary:   e.BaseSalary,
	}
}

// NewPersonInput pre-fills a blank form.
func NewPersonInput(departmentID int64, now time.Time) org.PersonInput {
	return org.PersonInput{DepartmentID: departmentID, HireDate: now}
}
