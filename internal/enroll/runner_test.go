package enroll

import (
	"context"
	"testing"

	"ccb-bridge/internal/domain"
	"ccb-bridge/internal/providers/memdir"
)

func TestRunStatuses(t *testing.T) {
	dir := memdir.New()
	jane := dir.Seed(domain.Person{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"})

	applicants := []domain.Applicant{
		{Name: "Jane Doe", Email: "jane@x.com", QueueID: "7", ManagerID: 5},
		{Name: "John Roe", QueueID: ""},
		{Name: "   ", QueueID: "7"},
		{Name: "Cher", QueueID: ""},
	}

	r := &Runner{Dir: dir, Workers: 2}
	got := r.Run(context.Background(), applicants)

	if len(got) != len(applicants) {
		t.Fatalf("Expected %d outcomes, got %d", len(applicants), len(got))
	}

	testCases := []struct {
		index  int
		status string
	}{
		{0, domain.StatusEnrolled},
		{1, domain.StatusResolved},
		{2, domain.StatusLookupFailed},
		{3, domain.StatusResolved},
	}
	for _, tc := range testCases {
		if got[tc.index].Status != tc.status {
			t.Errorf("outcome %d: expected %q, got %q", tc.index, tc.status, got[tc.index].Status)
		}
		if got[tc.index].Applicant != applicants[tc.index] {
			t.Errorf("outcome %d: expected applicant to be preserved", tc.index)
		}
	}

	if got[0].IndividualID != jane.ID {
		t.Errorf("Expected seeded id %q, got %q", jane.ID, got[0].IndividualID)
	}
	if got[2].IndividualID != "" {
		t.Errorf("Expected no id for failed lookup, got %q", got[2].IndividualID)
	}
	if e := dir.Enrollments("7"); len(e) != 1 || e[0].ManagerID != 5 {
		t.Errorf("Expected one enrollment with manager 5, got %+v", e)
	}
}

func TestRunEnrollFailure(t *testing.T) {
	r := &Runner{Dir: &refusingDirectory{Directory: memdir.New()}}

	got := r.Run(context.Background(), []domain.Applicant{{Name: "Jane Doe", QueueID: "7"}})
	if got[0].Status != domain.StatusEnrollFailed {
		t.Errorf("Expected enroll_failed, got %q", got[0].Status)
	}
	if got[0].IndividualID == "" {
		t.Error("Expected individual id to be kept after enroll failure")
	}
}

type refusingDirectory struct {
	*memdir.Directory
}

func (d *refusingDirectory) EnrollInQueue(context.Context, domain.QueueEnrollment) (domain.EnrollmentResult, bool) {
	return domain.EnrollmentResult{}, false
}

func TestRunResolveOnlySkipsEnrollment(t *testing.T) {
	dir := memdir.New()
	r := &Runner{Dir: dir, ResolveOnly: true}

	got := r.Run(context.Background(), []domain.Applicant{{Name: "Jane Doe", QueueID: "7"}})
	if got[0].Status != domain.StatusResolved {
		t.Errorf("Expected resolved, got %q", got[0].Status)
	}
	if dir.Calls("enroll") != 0 {
		t.Errorf("Expected no enroll calls, got %d", dir.Calls("enroll"))
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Dir: memdir.New(), Workers: 1}
	got := r.Run(ctx, []domain.Applicant{{Name: "Jane Doe"}, {Name: "John Roe"}})
	for i, o := range got {
		if o.Status != domain.StatusLookupFailed {
			t.Errorf("outcome %d: expected lookup_failed, got %q", i, o.Status)
		}
		if o.Name == "" {
			t.Errorf("outcome %d: expected applicant to be filled in", i)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]domain.Outcome{
		{Status: domain.StatusEnrolled},
		{Status: domain.StatusEnrolled},
		{Status: domain.StatusResolved},
		{Status: domain.StatusLookupFailed},
		{Status: domain.StatusEnrollFailed},
	})
	want := Summary{Enrolled: 2, Resolved: 1, LookupFailed: 1, EnrollFailed: 1}
	if s != want {
		t.Errorf("Expected %+v, got %+v", want, s)
	}
	if s.Failed() != 2 {
		t.Errorf("Expected 2 failed, got %d", s.Failed())
	}
}
