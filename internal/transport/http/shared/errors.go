package shared

import (
	"errors"
	"net/http"

	"corpdash/internal/domain/kpi"
	"corpdash/internal/domain/org"
	"corpdash/internal/domain/period"
	"corpdash/internal/domain/project"
	"corpdash/internal/domain/reward"
)

const genericMessage = "Something went wrong. Please try again."

// UserMessage maps a domain or database error to a status code and text that
// is safe to show on a page. Unknown errors become a generic 500.
func UserMessage(err error) (int, string) {
	var inUse *org.InUseError
	switch {
	case errors.As(err, &inUse):
		return http.StatusConflict, inUse.Error()
	case errors.Is(err, org.ErrNotFound), errors.Is(err, project.ErrNotFound),
		errors.Is(err, kpi.ErrNotFound), errors.Is(err, reward.ErrNotFound):
		return http.StatusNotFound, "The record does not exist or was already removed."
	case errors.Is(err, org.ErrEmailTaken), errors.Is(err, org.ErrNameTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, project.ErrNotAssignee), errors.Is(err, ErrOutOfScope):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, org.ErrUnknownReference), errors.Is(err, project.ErrUnknownReference),
		errors.Is(err, org.ErrPasswordRequired), errors.Is(err, org.ErrInvalidName), errors.Is(err, org.ErrInvalidBaseSalary),
		errors.Is(err, project.ErrInvalidDates), errors.Is(err, project.ErrInvalidStatus),
		errors.Is(err, reward.ErrInvalidInput), errors.Is(err, period.ErrInvalidPeriod):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, genericMessage
}
