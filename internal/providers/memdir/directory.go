// Package memdir is an in-memory providers.Directory. It follows the same
// name-splitting and queue rules as the CCB client, and backs dry runs and
// tests that need a directory without a network.
package memdir

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"ccb-bridge/internal/domain"
	"ccb-bridge/internal/logging"
)

type Directory struct {
	// DefaultCampusID is used by CreatePerson when no campus is given.
	DefaultCampusID string
	Logger          *slog.Logger

	mu          sync.Mutex
	nextID      int
	people      map[string]domain.Person
	order       []string
	enrollments []domain.QueueEnrollment
	calls       map[string]int
}

func New() *Directory {
	return &Directory{
		DefaultCampusID: "1",
		nextID:          1,
		people:          map[string]domain.Person{},
		calls:           map[string]int{},
	}
}

func (d *Directory) Name() string { return "memory" }

func (d *Directory) logger() *slog.Logger {
	return logging.Resolve(d.Logger).With("component", "memdir")
}

// Seed stores p, assigning an id when it has none, and returns the stored record.
func (d *Directory) Seed(p domain.Person) domain.Person {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insertLocked(p)
}

func (d *Directory) insertLocked(p domain.Person) domain.Person {
	if p.ID == "" {
		p.ID = strconv.Itoa(d.nextID)
		d.nextID++
	}
	if _, exists := d.people[p.ID]; !exists {
		d.order = append(d.order, p.ID)
	}
	d.people[p.ID] = p
	return p
}

// Calls reports how many times each operation ran.
func (d *Directory) Calls(op string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[op]
}

// Enrollments returns every successful enrollment for queueID, in order.
func (d *Directory) Enrollments(queueID string) []domain.QueueEnrollment {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []domain.QueueEnrollment
	for _, e := range d.enrollments {
		if e.QueueID == queueID {
			out = append(out, e)
		}
	}
	return out
}

func (d *Directory) FindOrCreatePerson(ctx context.Context, name, phone, email, campusID string) (domain.Person, bool) {
	first, last, _ := domain.SplitName(name, "")

	d.mu.Lock()
	d.calls["search"]++
	var found *domain.Person
	for _, id := range d.order {
		p := d.people[id]
		if matches(p, first, last, phone, email) {
			found = &p
			break
		}
	}
	if found != nil {
		p := *found
		if campusID != "" {
			d.calls["update"]++
			p.CampusID = campusID
			p.CampusName = ""
			d.people[p.ID] = p
		}
		d.mu.Unlock()
		return p, true
	}
	d.mu.Unlock()

	p, ok := d.CreatePerson(ctx, name, phone, email, campusID)
	if !ok {
		d.logger().Log(ctx, logging.LevelNotice, "[getIndividual]",
			"message", "Could not create user",
			"email", email,
		)
		return domain.Person{}, false
	}
	return p, true
}

func (d *Directory) CreatePerson(ctx context.Context, name, phone, email, campusID string) (domain.Person, bool) {
	first, last, ok := domain.SplitName(name, domain.MissingLastName)
	if !ok {
		d.logger().Error("[createIndividual]", "message", "API fail", "name", name, "email", email)
		return domain.Person{}, false
	}
	if campusID == "" {
		campusID = d.DefaultCampusID
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["create"]++
	return d.insertLocked(domain.Person{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     phone,
		CampusID:  campusID,
	}), true
}

func (d *Directory) PersonByID(_ context.Context, id string) (domain.Person, bool) {
	if id == "" {
		return domain.Person{}, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.people[id]
	return p, ok
}

func (d *Directory) EnrollInQueue(ctx context.Context, e domain.QueueEnrollment) (domain.EnrollmentResult, bool) {
	d.mu.Lock()
	d.calls["enroll"]++
	p, known := d.people[e.IndividualID]
	if known && e.QueueID != "" {
		d.enrollments = append(d.enrollments, e)
	}
	d.mu.Unlock()

	if !known || e.QueueID == "" {
		d.logger().Log(ctx, logging.LevelWarning, "[addIndividualToProcessQueue]",
			"message", "Error adding to Process Queue",
			"individual_id", e.IndividualID,
			"queue_id", e.QueueID,
			"manager_id", e.ManagerID,
		)
		return domain.EnrollmentResult{}, false
	}
	return domain.EnrollmentResult{QueueEnrollment: e, Individuals: []domain.Person{p}}, true
}

// matches mirrors a directory search: names must agree (an empty last name
// matches any), and a given phone or email must agree as well.
func matches(p domain.Person, first, last, phone, email string) bool {
	if !strings.EqualFold(p.FirstName, first) {
		return false
	}
	if last != "" && !strings.EqualFold(p.LastName, last) {
		return false
	}
	if email != "" && !strings.EqualFold(p.Email, email) {
		return false
	}
	if phone != "" && digits(p.Phone) != digits(phone) {
		return false
	}
	return true
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
