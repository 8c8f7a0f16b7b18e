package reward

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid reward")

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Lookup returns nil, nil when no reward exists for the key; display code
// renders that as a dash.
func (s *Service) Lookup(ctx context.Context, subject Subject, subjectID int64, at time.Time, periodType PeriodType) (*Reward, error) {
	r, err := s.store.Lookup(ctx, subject, subjectID, periodType.Normalize(at), periodType)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Service) History(ctx context.Context, subject Subject, filter Filter) ([]Reward, error) {
	return s.store.List(ctx, subject, filter)
}

func (s *Service) Record(ctx context.Context, subject Subject, subjectID int64, at time.Time, periodType PeriodType, amount decimal.Decimal) (int64, error) {
	if subjectID <= 0 {
		return 0, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	if _, ok := ParsePeriodType(string(periodType)); !ok {
		return 0, fmt.Errorf("%w: unknown period type", ErrInvalidInput)
	}
	return s.store.Save(ctx, subject, subjectID, periodType.Normalize(at), periodType, amount)
}

func (s *Service) Delete(ctx context.Context, subject Subject, id int64) error {
	return s.store.Delete(ctx, subject, id)
}
