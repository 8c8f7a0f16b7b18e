package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldName(t *testing.T) {
	assert.Equal(t, "first_name", fieldName("FirstName"))
	assert.Equal(t, "department_id", fieldName("DepartmentID"))
	assert.Equal(t, "department_ids", fieldName("DepartmentIDs[0]"))
	assert.Equal(t, "email", fieldName("Email"))
}

func TestMergeValidatorErrors(t *testing.T) {
	type input struct {
		FirstName    string `validate:"required"`
		Email        string `validate:"required,email"`
		DepartmentID int64  `validate:"required,gt=0"`
	}
	err := validator.New().Struct(input{Email: "nope"})
	require.Error(t, err)

	v := NewValidator()
	require.NoError(t, v.Merge(err))
	fields := v.Fields()
	assert.Equal(t, "is required", fields["first_name"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Contains(t, fields, "department_id")
}

func TestMergePassesThroughOtherErrors(t *testing.T) {
	v := NewValidator()
	err := v.Merge(assert.AnError)
	assert.Equal(t, assert.AnError, err)
	assert.False(t, v.HasIssues())
}

func TestFormParsers(t *testing.T) {
	v := NewValidator()
	assert.Equal(t, int64(12), v.Int64("id", "12"))
	assert.Nil(t, v.OptionalInt64("manager_id", ""))
	assert.Nil(t, v.OptionalFloat("target", " "))
	assert.Equal(t, "1250.5", v.Decimal("base_salary", "1250.50").String())
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), v.Period("period", "2024-05"))
	assert.False(t, v.HasIssues())

	v.Float("weight", "heavy")
	v.Period("period", "May")
	v.OptionalDate("due_date", "31/12/2024")
	fields := v.Fields()
	assert.Len(t, fields, 3)
}

func TestQueryHelpers(t *testing.T) {
	now := time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC)
	r := httptest.NewRequest(http.MethodGet, "/kpi?employee_id=5&period=2024-02", nil)
	assert.Equal(t, int64(5), QueryInt64(r, "employee_id"))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), QueryPeriod(r, now))

	r = httptest.NewRequest(http.MethodGet, "/kpi?employee_id=x&period=bad", nil)
	assert.Zero(t, QueryInt64(r, "employee_id"))
	assert.Equal(t, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), QueryPeriod(r, now))
}

func TestInt64List(t *testing.T) {
	assert.Equal(t, []int64{1, 3}, Int64List([]string{"1", "", "x", "3", "-2"}))
}
