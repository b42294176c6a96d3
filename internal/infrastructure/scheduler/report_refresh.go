package scheduler

import "context"

// ReportRefresher drops and recomputes cached reports
type ReportRefresher interface {
	Refresh(ctx context.Context) error
}

// ReportRefreshJob rebuilds the report cache so date-bucketed reports
// follow the business day
type ReportRefreshJob struct {
	reports ReportRefresher
}

// NewReportRefreshJob creates a new ReportRefreshJob
func NewReportRefreshJob(reports ReportRefresher) *ReportRefreshJob {
	return &ReportRefreshJob{reports: reports}
}

// Name returns the job name used in logs
func (j *ReportRefreshJob) Name() string {
	return "report_refresh"
}

// Run refreshes the reports
func (j *ReportRefreshJob) Run(ctx context.Context) error {
	return j.reports.Refresh(ctx)
}
