// Package enroll resolves a roster of applicants against a Directory and
// places them on process queues.
package enroll

import (
	"context"
	"log/slog"

	"ccb-bridge/internal/concurrency"
	"ccb-bridge/internal/domain"
	"ccb-bridge/internal/logging"
	"ccb-bridge/internal/providers"
)

type Runner struct {
	Dir     providers.Directory
	Logger  *slog.Logger
	Workers int
	// ResolveOnly resolves people but skips queue enrollment.
	ResolveOnly bool
}

func (r *Runner) logger() *slog.Logger {
	return logging.Resolve(r.Logger).With("component", "enroll", "directory", r.Dir.Name())
}

// Run processes every applicant and returns one Outcome per applicant in input
// order. Applicants not reached before ctx is done are reported as lookup_failed.
func (r *Runner) Run(ctx context.Context, applicants []domain.Applicant) []domain.Outcome {
	log := r.logger()
	log.Info("enrollment run started", "applicants", len(applicants), "workers", r.Workers, "resolve_only", r.ResolveOnly)

	outcomes, errs := concurrency.ProcessParallel(ctx, applicants,
		concurrency.ParallelOptions{MaxWorkers: r.Workers},
		func(ctx context.Context, _ int, a domain.Applicant) (domain.Outcome, error) {
			return r.one(ctx, a), nil
		})

	for i := range outcomes {
		if outcomes[i].Status == "" {
			outcomes[i] = domain.Outcome{Applicant: applicants[i], Status: domain.StatusLookupFailed}
		}
	}
	for _, err := range errs {
		log.Warn("enrollment run interrupted", "error", err)
	}

	s := Summarize(outcomes)
	log.Log(ctx, logging.LevelNotice, "enrollment run finished",
		"enrolled", s.Enrolled,
		"resolved", s.Resolved,
		"lookup_failed", s.LookupFailed,
		"enroll_failed", s.EnrollFailed,
	)
	return outcomes
}

func (r *Runner) one(ctx context.Context, a domain.Applicant) domain.Outcome {
	out := domain.Outcome{Applicant: a}

	p, ok := r.Dir.FindOrCreatePerson(ctx, a.Name, a.Phone, a.Email, a.CampusID)
	if !ok {
		out.Status = domain.StatusLookupFailed
		return out
	}
	out.IndividualID = p.ID

	if a.QueueID == "" || r.ResolveOnly {
		out.Status = domain.StatusResolved
		return out
	}

	if _, ok := r.Dir.EnrollInQueue(ctx, domain.QueueEnrollment{
		IndividualID: p.ID,
		QueueID:      a.QueueID,
		Note:         a.Note,
		ManagerID:    a.ManagerID,
	}); !ok {
		out.Status = domain.StatusEnrollFailed
		return out
	}
	out.Status = domain.StatusEnrolled
	return out
}

// Summary counts outcomes by status.
type Summary struct {
	Enrolled     int
	Resolved     int
	LookupFailed int
	EnrollFailed int
}

func (s Summary) Failed() int { return s.LookupFailed + s.EnrollFailed }

func Summarize(outcomes []domain.Outcome) Summary {
	var s Summary
	for _, o := range outcomes {
		switch o.Status {
		case domain.StatusEnrolled:
			s.Enrolled++
		case domain.StatusResolved:
			s.Resolved++
		case domain.StatusLookupFailed:
			s.LookupFailed++
		case domain.StatusEnrollFailed:
			s.EnrollFailed++
		}
	}
	return s
}
