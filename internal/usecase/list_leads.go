package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/garage-leads/internal/entity"
)

const DefaultAdminLeadLimit = 100

type ListLeadsUseCase struct {
	Repo  entity.LeadRepositoryInterface
	Limit int
	Now   func() time.Time
}

func NewListLeadsUseCase(repo entity.LeadRepositoryInterface, limit int) *ListLeadsUseCase {
	if limit <= 0 {
		limit = DefaultAdminLeadLimit
	}
	return &ListLeadsUseCase{Repo: repo, Limit: limit, Now: time.Now}
}

func (uc *ListLeadsUseCase) Execute(ctx context.Context) (*ListLeadsOutput, error) {
	leads, err := uc.Repo.ListRecent(ctx, uc.Limit)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to fetch leads", Err: err}
	}
	if leads == nil {
		leads = []entity.Lead{}
	}

	dayStart, weekStart := StatsWindows(uc.Now())
	stats, err := uc.Repo.Stats(ctx, dayStart, weekStart)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to compute lead stats", Err: err}
	}

	return &ListLeadsOutput{Success: true, Leads: leads, Stats: stats}, nil
}

// StatsWindows returns local midnight of now's day and local midnight of the
// Sunday that starts now's calendar week.
func StatsWindows(now time.Time) (dayStart, weekStart time.Time) {
	y, m, d := now.Date()
	dayStart = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	weekStart = dayStart.AddDate(0, 0, -int(now.Weekday()))
	return dayStart, weekStart
}
