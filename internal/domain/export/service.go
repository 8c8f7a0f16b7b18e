package export

import (
	"context"
	"fmt"
	"time"

	"corpdash/internal/domain/kpi"
	"corpdash/internal/domain/org"
	"corpdash/internal/domain/reward"
)

// Scope narrows an export the same way the matching page is narrowed.
type Scope struct {
	Period       time.Time
	DepartmentID int64
	PeriodType   reward.PeriodType
}

type Service struct {
	org     *org.Service
	kpi     *kpi.Service
	rewards *reward.Service
}

func NewService(orgService *org.Service, kpiService *kpi.Service, rewards *reward.Service) *Service {
	return &Service{org: orgService, kpi: kpiService, rewards: rewards}
}

func (s *Service) Table(ctx context.Context, kind Kind, scope Scope) (Table, error) {
	switch kind {
	case KindEmployees:
		list, err := s.org.ListEmployees(ctx, org.Filter{DepartmentID: scope.DepartmentID})
		if err != nil {
			return Table{}, err
		}
		return EmployeesTable(list), nil
	case KindManagers:
		list, err := s.org.ListManagers(ctx, org.Filter{DepartmentID: scope.DepartmentID})
		if err != nil {
			return Table{}, err
		}
		return ManagersTable(list), nil
	case KindDepartments:
		list, err := s.org.ListDepartments(ctx)
		if err != nil {
			return Table{}, err
		}
		return DepartmentsTable(list), nil
	case KindEmployeeKPI:
		rows, err := s.kpi.Rows(ctx, scope.Period, scope.DepartmentID)
		if err != nil {
			return Table{}, err
		}
		return KPITable(rows), nil
	case KindEmployeeRewards, KindManagerRewards:
		subject := reward.SubjectEmployee
		if kind == KindManagerRewards {
			subject = reward.SubjectManager
		}
		list, err := s.rewards.History(ctx, subject, reward.Filter{DepartmentID: scope.DepartmentID, PeriodType: scope.PeriodType})
		if err != nil {
			return Table{}, err
		}
		return RewardsTable(subject, list), nil
	}
	return Table{}, fmt.Errorf("unknown export type %q", kind)
}
