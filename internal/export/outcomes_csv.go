package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"ccb-bridge/internal/domain"
)

// Keep header order EXACT; downstream imports read columns by position.
var outcomesHeader = []string{
	"NAME",
	"EMAIL",
	"PHONE",
	"CAMPUS_ID",
	"QUEUE_ID",
	"MANAGER_ID",
	"INDIVIDUAL_ID",
	"STATUS",
}

// WriteOutcomesCSV writes one row per batch outcome, in input order.
func WriteOutcomesCSV(w io.Writer, outcomes []domain.Outcome) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(outcomesHeader); err != nil {
		return err
	}
	for _, o := range outcomes {
		if err := cw.Write(toOutcomeRow(o)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toOutcomeRow(o domain.Outcome) []string {
	manager := ""
	if o.ManagerID != 0 {
		manager = strconv.Itoa(o.ManagerID)
	}
	return []string{
		clean(o.Name),
		clean(o.Email),
		clean(o.Phone),
		clean(o.CampusID),
		clean(o.QueueID),
		manager,
		o.IndividualID,
		o.Status,
	}
}

// clean flattens embedded newlines so each outcome stays on one line.
func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
