package domain

import "context"

// Dashboard aggregates live totals across job, feedback and project
// records. Figures are computed from the rows at call time, never cached.
type Dashboard struct {
	TotalJobs      int64   `json:"totalJobs"`
	TotalFeedback  int64   `json:"totalFeedback"`
	TotalProjects  int64   `json:"totalProjects"`
	TotalSavings   float64 `json:"totalSavings"`
	TotalPrintHrs  float64 `json:"totalPrintHours"`
	AverageRating  float64 `json:"averageRating"`
	ActiveProjects int64   `json:"activeProjects"`
}

type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}
