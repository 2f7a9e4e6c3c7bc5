package services

import (
	"context"

	"github.com/justsurfingit/placement-portal/internal/dtos"
	"github.com/justsurfingit/placement-portal/internal/models"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	jobs        *JobService
	apps        ApplicationStore
	concurrency int
}

func NewDashboardService(jobs *JobService, apps ApplicationStore, concurrency int) *DashboardService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &DashboardService{jobs: jobs, apps: apps, concurrency: concurrency}
}

// AdminDashboard loads the admin's jobs and counts their applications.
func (s *DashboardService) AdminDashboard(ctx context.Context, adminID string) (*dtos.AdminDashboard, error) {
	jobs, err := s.jobs.GetJobsByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return s.Aggregate(ctx, jobs)
}

// Aggregate fetches every job's applications, one store round trip per job,
// and sums them into the funnel. Totals do not depend on completion order.
func (s *DashboardService) Aggregate(ctx context.Context, jobs []models.Job) (*dtos.AdminDashboard, error) {
	perJob := make([][]models.Application, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range jobs {
		g.Go(func() error {
			apps, err := s.apps.ListByJob(gctx, jobs[i].ID)
			if err != nil {
				return err
			}
			perJob[i] = apps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dtos.AdminDashboard{Jobs: make([]dtos.JobWithCount, len(jobs))}
	out.Funnel.JobsPosted = len(jobs)
	for i, job := range jobs {
		out.Jobs[i] = dtos.JobWithCount{Job: job, AppCount: len(perJob[i])}
		out.Funnel.TotalApplications += len(perJob[i])
		for _, app := range perJob[i] {
			if app.Status == models.StatusSelected {
				out.Funnel.TotalSelected++
			}
		}
	}
	return out, nil
}

// Funnel is the three totals alone.
func (s *DashboardService) Funnel(ctx context.Context, adminID string) (dtos.Funnel, error) {
	d, err := s.AdminDashboard(ctx, adminID)
	if err != nil {
		return dtos.Funnel{}, err
	}
	return d.Funnel, nil
}

func (s *DashboardService) StudentDashboard(ctx context.Context, userID string) (*dtos.StudentDashboard, error) {
	apps, err := s.apps.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortApplicationsNewestFirst(apps)
	return &dtos.StudentDashboard{Applications: apps, Summary: Summarize(apps)}, nil
}

// Summarize counts applications per status and derives the tracker step.
func Summarize(apps []models.Application) dtos.StudentSummary {
	sum := dtos.StudentSummary{Total: len(apps), Step: 1}
	for _, app := range apps {
		switch app.Status {
		case models.StatusApplied:
			sum.Applied++
		case models.StatusSelected:
			sum.Selected++
		case models.StatusRejected:
			sum.Rejected++
		}
	}
	switch {
	case sum.Selected > 0:
		sum.Step = 3
	case sum.Total > 0:
		sum.Step = 2
	}
	return sum
}
