package ccb

import (
	"context"
	"net/http"
	"net/url"

	"ccb-bridge/internal/domain"
	"ccb-bridge/internal/logging"
)

// FindOrCreatePerson searches by phone, email and name and returns the first
// match. With campusID set, the match's campus is updated; a failed update is
// logged and the match is still returned with its old campus. No match (or a
// failed search) falls through to CreatePerson.
func (c *Client) FindOrCreatePerson(ctx context.Context, name, phone, email, campusID string) (domain.Person, bool) {
	first, last, ok := domain.SplitName(name, "")
	if !ok {
		c.logger().Log(ctx, logging.LevelNotice, "[getIndividual]",
			"message", "Name didn't split correctly",
			"email", email,
		)
	}

	resp, ok := c.callAPI(ctx, ServiceIndividualSearch, url.Values{
		"phone":      {phone},
		"email":      {email},
		"last_name":  {last},
		"first_name": {first},
	}, nil, http.MethodGet)

	if ok {
		if ind, found := resp.Body.Individuals.First(); found {
			person := ind.toPerson()
			if campusID != "" {
				person = c.updateCampus(ctx, person, campusID)
			}
			return person, true
		}
	}

	person, ok := c.CreatePerson(ctx, name, phone, email, campusID)
	if !ok {
		c.logger().Log(ctx, logging.LevelNotice, "[getIndividual]",
			"message", "Could not create user",
			"email", email,
		)
		return domain.Person{}, false
	}
	return person, true
}

// updateCampus moves person to campusID and returns the refreshed record, or
// person unchanged when the update fails.
func (c *Client) updateCampus(ctx context.Context, person domain.Person, campusID string) domain.Person {
	resp, ok := c.callAPI(ctx, ServiceUpdateIndividual,
		url.Values{"individual_id": {person.ID}},
		url.Values{"campus_id": {campusID}},
		http.MethodPost,
	)
	if !ok || resp.Body.Errors != nil {
		c.logger().Log(ctx, logging.LevelNotice, "[getIndividual]",
			"message", "Could not update user's campus",
			"ccb_error", errorDetail(resp),
			"individual", person.ID,
			"campus_id", campusID,
		)
		return person
	}

	person.CampusID = campusID
	person.CampusName = ""
	if ind, found := resp.Body.Individuals.First(); found && ind.Campus.ID == campusID {
		person.CampusName = ind.toPerson().CampusName
	}
	return person
}

// CreatePerson creates an individual. A single-token name gets the
// (MISSING) last name; an empty campusID falls back to DefaultCampusID.
func (c *Client) CreatePerson(ctx context.Context, name, phone, email, campusID string) (domain.Person, bool) {
	first, last, ok := domain.SplitName(name, domain.MissingLastName)
	if !ok {
		c.logger().Log(ctx, logging.LevelNotice, "[createIndividual]",
			"message", "Name didn't split correctly",
			"email", email,
			"name", name,
		)
	}
	if campusID == "" {
		campusID = c.DefaultCampusID
	}
	if campusID == "" {
		campusID = defaultCampusID
	}

	resp, ok := c.callAPI(ctx, ServiceCreateIndividual, nil, url.Values{
		"email":         {email},
		"first_name":    {first},
		"last_name":     {last},
		"mobile_phone":  {phone},
		"contact_phone": {phone},
		"campus_id":     {campusID},
	}, http.MethodPost)

	if ok {
		if ind, found := resp.Body.Individuals.First(); found {
			return ind.toPerson(), true
		}
	}

	c.logger().Error("[createIndividual]",
		"message", "API fail",
		"ccb_error", errorDetail(resp),
		"name", name,
		"email", email,
	)
	return domain.Person{}, false
}

// PersonByID fetches a profile by CCB id. An empty id fails without a call.
func (c *Client) PersonByID(ctx context.Context, id string) (domain.Person, bool) {
	if id == "" {
		return domain.Person{}, false
	}

	resp, ok := c.callAPI(ctx, ServiceIndividualProfileFromID, url.Values{
		"individual_id": {id},
	}, nil, http.MethodGet)
	if !ok {
		return domain.Person{}, false
	}

	ind, found := resp.Body.Individuals.First()
	if !found {
		c.logger().Log(ctx, logging.LevelNotice, "[getIndividualById]",
			"message", "Individual not found",
			"ccb_error", errorDetail(resp),
			"individual_id", id,
		)
		return domain.Person{}, false
	}
	return ind.toPerson(), true
}
