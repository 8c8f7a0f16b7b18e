package org

import (
	"time"

	"github.com/shopspring/decimal"
)

type Department struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ManagerCount  int       `json:"managerCount"`
	EmployeeCount int       `json:"employeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Manager struct {
	ID           int64           `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Email        string          `json:"email"`
	PhoneNumber  string          `json:"phoneNumber"`
	DepartmentID int64           `json:"departmentId"`
	Department   string          `json:"department"`
	Position     string          `json:"position"`
	HireDate     time.Time       `json:"hireDate"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`
}

func (m Manager) FullName() string {
	return m.FirstName + " " + m.LastName
}

type Employee struct {
	ID           int64           `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Email        string          `json:"email"`
	PhoneNumber  string          `json:"phoneNumber"`
	DepartmentID int64           `json:"departmentId"`
	Department   string          `json:"department"`
	ManagerID    *int64          `json:"managerId,omitempty"`
	ManagerName  string          `json:"managerName"`
	Position     string          `json:"position"`
	HireDate     time.Time       `json:"hireDate"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Filter narrows manager and employee lists. Zero values match everything.
type Filter struct {
	Search       string
	DepartmentID int64
	ManagerID    int64
}

// PersonInput is the form payload shared by managers and employees.
// ManagerID is ignored for managers.
type PersonInput struct {
	FirstName    string    `validate:"required,max=100"`
	LastName     string    `validate:"required,max=100"`
	Email        string    `validate:"required,email,max=255"`
	Password     string    `validate:"omitempty,min=8,max=72"`
	PhoneNumber  string    `validate:"max=50"`
	DepartmentID int64     `validate:"required,gt=0"`
	ManagerID    *int64    `validate:"omitempty"`
	Position     string    `validate:"max=100"`
	HireDate     time.Time `validate:"required"`
	BaseSalary   decimal.Decimal
}
