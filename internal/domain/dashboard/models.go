package dashboard

import (
	"time"

	"corpdash/internal/domain/kpi"
	"corpdash/internal/domain/reward"
)

type Counts struct {
	Departments    int `json:"departments"`
	Managers       int `json:"managers"`
	Employees      int `json:"employees"`
	ActiveProjects int `json:"activeProjects"`
	OpenTasks      int `json:"openTasks"`
}

// Overview is what the dashboard page renders. Fields that do not apply to
// the viewer's role stay zero.
type Overview struct {
	Role         string              `json:"role"`
	Period       time.Time           `json:"period"`
	Counts       Counts              `json:"counts"`
	Scores       []kpi.EmployeeScore `json:"scores,omitempty"`
	AverageScore string              `json:"averageScore"`
	AverageBadge string              `json:"averageBadge"`
	TopScores    []kpi.EmployeeScore `json:"topScores,omitempty"`
	OwnKPI       *kpi.Summary        `json:"ownKpi,omitempty"`
	OwnReward    *reward.Reward      `json:"ownReward,omitempty"`
}
