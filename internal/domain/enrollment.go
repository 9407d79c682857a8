package domain

// QueueEnrollment asks the directory to put an individual on a process queue.
// ManagerID 0 means no manager; otherwise the individual is auto-assigned.
type QueueEnrollment struct {
	IndividualID string
	QueueID      string
	Note         string
	ManagerID    int
}

// EnrollmentResult echoes the enrollment and any individuals the directory
// listed in its response.
type EnrollmentResult struct {
	QueueEnrollment
	Individuals []Person
}

// Applicant is one roster row: who to resolve and, optionally, where to enqueue them.
type Applicant struct {
	Name      string
	Phone     string
	Email     string
	CampusID  string
	QueueID   string
	Note      string
	ManagerID int
}

// Outcome statuses.
const (
	StatusEnrolled     = "enrolled"
	StatusResolved     = "resolved"
	StatusLookupFailed = "lookup_failed"
	StatusEnrollFailed = "enroll_failed"
)

// Outcome is the per-applicant result of a batch run.
type Outcome struct {
	Applicant
	IndividualID string
	Status       string
}
