package dashboard

import (
	"context"
	"fmt"
	"time"

	"corpdash/internal/domain/auth"
	"corpdash/internal/domain/kpi"
	"corpdash/internal/domain/reward"
)

type Service struct {
	store   *Store
	kpi     *kpi.Service
	rewards *reward.Service
}

func NewService(store *Store, kpiService *kpi.Service, rewards *reward.Service) *Service {
	return &Service{store: store, kpi: kpiService, rewards: rewards}
}

// Overview assembles the dashboard for the principal's role and period.
func (s *Service) Overview(ctx context.Context, p auth.Principal, period time.Time) (Overview, error) {
	out := Overview{Role: p.Role, Period: period}
	switch p.Role {
	case auth.RoleCEO:
		return s.company(ctx, out)
	case auth.RoleManager:
		return s.department(ctx, p, out)
	case auth.RoleEmployee:
		return s.personal(ctx, p, out)
	}
	return Overview{}, fmt.Errorf("dashboard: unknown role %q", p.Role)
}

func (s *Service) company(ctx context.Context, out Overview) (Overview, error) {
	counts, err := s.store.CompanyCounts(ctx)
	if err != nil {
		return Overview{}, err
	}
	out.Counts = counts
	return s.withScores(ctx, out, 0)
}

func (s *Service) department(ctx context.Context, p auth.Principal, out Overview) (Overview, error) {
	counts, err := s.store.DepartmentCounts(ctx, p.DepartmentID)
	if err != nil {
		return Overview{}, err
	}
	out.Counts = counts
	if out, err = s.withScores(ctx, out, p.DepartmentID); err != nil {
		return Overview{}, err
	}
	out.OwnReward, err = s.rewards.Lookup(ctx, reward.SubjectManager, p.ID, out.Period, reward.PeriodMonthly)
	if err != nil {
		return Overview{}, err
	}
	return out, nil
}

func (s *Service) personal(ctx context.Context, p auth.Principal, out Overview) (Overview, error) {
	open, err := s.store.EmployeeOpenTasks(ctx, p.ID)
	if err != nil {
		return Overview{}, err
	}
	out.Counts.OpenTasks = open

	summary, err := s.kpi.Summary(ctx, p.ID, out.Period)
	if err != nil {
		return Overview{}, err
	}
	out.OwnKPI = &summary
	out.OwnReward, err = s.rewards.Lookup(ctx, reward.SubjectEmployee, p.ID, out.Period, reward.PeriodMonthly)
	if err != nil {
		return Overview{}, err
	}
	return out, nil
}

func (s *Service) withScores(ctx context.Context, out Overview, departmentID int64) (Overview, error) {
	scores, err := s.kpi.Scores(ctx, out.Period, departmentID)
	if err != nil {
		return Overview{}, err
	}
	avg, ok := Average(scores)
	out.Scores = scores
	out.AverageScore = kpi.FormatPercent(avg, ok)
	out.AverageBadge = kpi.Badge(avg, ok)
	out.TopScores = Top(scores, topScoreCount)
	return out, nil
}
