package kpi

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Service struct {
	store    *Store
	validate *validator.Validate
}

func NewService(store *Store) *Service {
	return &Service{store: store, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Summary reduces an employee's entries for a period. No entries is a valid,
// empty summary rather than an error.
func (s *Service) Summary(ctx context.Context, employeeID int64, period time.Time) (Summary, error) {
	entries, err := s.store.ListEntries(ctx, employeeID, period)
	if err != nil {
		return Summary{}, err
	}
	summary := BuildSummary(employeeID, entries)
	summary.Period = period
	return summary, nil
}

func (s *Service) Scores(ctx context.Context, period time.Time, departmentID int64) ([]EmployeeScore, error) {
	grouped, err := s.store.ListByPeriod(ctx, period, departmentID)
	if err != nil {
		return nil, err
	}
	out := make([]EmployeeScore, 0, len(grouped))
	for _, g := range grouped {
		score, ok := Score(g.entries)
		out = append(out, EmployeeScore{
			EmployeeID:   g.employeeID,
			EmployeeName: g.name,
			Department:   g.department,
			Indicators:   len(g.entries),
			Score:        score,
			HasScore:     ok,
			ScoreDisplay: FormatPercent(score, ok),
			ScoreBadge:   Badge(score, ok),
		})
	}
	return out, nil
}

// Rows flattens every entry of the period for export, one Row per indicator.
func (s *Service) Rows(ctx context.Context, period time.Time, departmentID int64) ([]ExportRow, error) {
	grouped, err := s.store.ListByPeriod(ctx, period, departmentID)
	if err != nil {
		return nil, err
	}
	var out []ExportRow
	for _, g := range grouped {
		for _, row := range BuildSummary(g.employeeID, g.entries).Rows {
			out = append(out, ExportRow{EmployeeName: g.name, Department: g.department, Row: row})
		}
	}
	return out, nil
}

type EntryInput struct {
	EmployeeID    int64     `validate:"required,gt=0"`
	Period        time.Time `validate:"required"`
	IndicatorName string    `validate:"required,max=200"`
	Weight        float64   `validate:"gte=0,lte=100"`
	TargetValue   *float64  `validate:"omitempty,gte=0"`
	ActualValue   *float64  `validate:"omitempty,gte=0"`
	Unit          string    `validate:"max=32"`
}

func (s *Service) Get(ctx context.Context, id int64) (Entry, error) {
	return s.store.GetEntry(ctx, id)
}

func (s *Service) Save(ctx context.Context, in EntryInput) (int64, error) {
	in.IndicatorName = strings.TrimSpace(in.IndicatorName)
	if err := s.validate.Struct(in); err != nil {
		return 0, err
	}
	return s.store.SaveEntry(ctx, Entry{
		EmployeeID:    in.EmployeeID,
		Period:        in.Period,
		IndicatorName: in.IndicatorName,
		Weight:        in.Weight,
		TargetValue:   in.TargetValue,
		ActualValue:   in.ActualValue,
		Unit:          strings.TrimSpace(in.Unit),
	})
}

func (s *Service) Update(ctx context.Context, id int64, in EntryInput) error {
	in.IndicatorName = strings.TrimSpace(in.IndicatorName)
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	return s.store.UpdateEntry(ctx, Entry{
		ID:            id,
		IndicatorName: in.IndicatorName,
		Weight:        in.Weight,
		TargetValue:   in.TargetValue,
		ActualValue:   in.ActualValue,
		Unit:          strings.TrimSpace(in.Unit),
	})
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteEntry(ctx, id)
}
