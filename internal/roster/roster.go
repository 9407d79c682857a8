// Package roster reads the applicant CSV fed to batch enrollment.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ccb-bridge/internal/domain"
)

// Recognised header names (case-insensitive). name is the only required one.
const (
	colName      = "name"
	colPhone     = "phone"
	colEmail     = "email"
	colCampusID  = "campus_id"
	colQueueID   = "queue_id"
	colNote      = "note"
	colManagerID = "manager_id"
)

var aliases = map[string]string{
	"full_name":     colName,
	"mobile_phone":  colPhone,
	"email_address": colEmail,
	"campus":        colCampusID,
	"queue":         colQueueID,
	"manager":       colManagerID,
}

// Read parses a roster. Blank rows are skipped; defaults fill QueueID and Note
// for rows that leave them empty.
func Read(r io.Reader, defaults domain.Applicant) ([]domain.Applicant, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("roster: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("roster: read header: %w", err)
	}
	cols := indexHeader(header)
	if _, ok := cols[colName]; !ok {
		return nil, errors.New("roster: missing required column \"name\"")
	}

	var out []domain.Applicant
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("roster: line %d: %w", line, err)
		}
		if blank(rec) {
			continue
		}

		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		a := domain.Applicant{
			Name:     get(colName),
			Phone:    get(colPhone),
			Email:    get(colEmail),
			CampusID: get(colCampusID),
			QueueID:  firstNonEmpty(get(colQueueID), defaults.QueueID),
			Note:     firstNonEmpty(get(colNote), defaults.Note),
		}
		if v := get(colManagerID); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("roster: line %d: invalid manager_id %q", line, v)
			}
			a.ManagerID = n
		} else {
			a.ManagerID = defaults.ManagerID
		}
		out = append(out, a)
	}
	return out, nil
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")
		if canon, ok := aliases[key]; ok {
			key = canon
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}
