package ccb

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"ccb-bridge/internal/domain"
	"ccb-bridge/internal/logging"
)

// EnrollInQueue adds an individual to a process queue. manager_id is only
// sent for a non-zero ManagerID. An error collection in the response fails
// the enrollment even when the HTTP call succeeded.
func (c *Client) EnrollInQueue(ctx context.Context, e domain.QueueEnrollment) (domain.EnrollmentResult, bool) {
	resp, ok := c.callAPI(ctx, ServiceAddIndividualToQueue, enrollmentParams(e), nil, http.MethodGet)
	if !ok || resp.Body.Errors != nil {
		c.logger().Log(ctx, logging.LevelWarning, "[addIndividualToProcessQueue]",
			"message", "Error adding to Process Queue",
			"ccb_error", errorDetail(resp),
			"individual_id", e.IndividualID,
			"queue_id", e.QueueID,
			"note", e.Note,
			"manager_id", e.ManagerID,
		)
		return domain.EnrollmentResult{}, false
	}

	return domain.EnrollmentResult{
		QueueEnrollment: e,
		Individuals:     toPeople(resp.Body.Individuals),
	}, true
}

func enrollmentParams(e domain.QueueEnrollment) url.Values {
	params := url.Values{
		"individual_id": {e.IndividualID},
		"queue_id":      {e.QueueID},
		"note":          {e.Note},
	}
	if e.ManagerID != 0 {
		params.Set("manager_id", strconv.Itoa(e.ManagerID))
	}
	return params
}
