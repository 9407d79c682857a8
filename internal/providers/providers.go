package providers

import (
	"context"

	"ccb-bridge/internal/domain"
)

// Directory is a person directory that can resolve, create and enqueue
// individuals. Implementations never return errors: a false ok means the
// operation failed and the cause was logged.
type Directory interface {
	Name() string
	FindOrCreatePerson(ctx context.Context, name, phone, email, campusID string) (domain.Person, bool)
	CreatePerson(ctx context.Context, name, phone, email, campusID string) (domain.Person, bool)
	PersonByID(ctx context.Context, id string) (domain.Person, bool)
	EnrollInQueue(ctx context.Context, e domain.QueueEnrollment) (domain.EnrollmentResult, bool)
}
