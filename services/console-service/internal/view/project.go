package view

import (
	"strings"

	"github.com/md-rashed-zaman/apptdesk/services/console-service/internal/model"
)

// Project filters records by a free-text query over customer name, email
// and phone number. Matching is a case-insensitive substring test; the
// empty query matches everything. The function is pure and preserves the
// input order, so callers may memoize by (records, query) if they care.
func Project(records []model.Appointment, query string) []model.Appointment {
	q := strings.ToLower(query)
	if q == "" {
		return records
	}
	out := make([]model.Appointment, 0, len(records))
	for _, rec := range records {
		if matches(rec, q) {
			out = append(out, rec)
		}
	}
	return out
}

// matches tests the lowered query against the record's searchable fields.
// The "N/A" placeholder shown for nameless bookings is display-only and
// never participates here; such records match on phone or email alone.
func matches(rec model.Appointment, loweredQuery string) bool {
	if name := strings.ToLower(rec.CustomerName()); name != "" && strings.Contains(name, loweredQuery) {
		return true
	}
	if email := strings.ToLower(rec.BookedBy.Email); email != "" && strings.Contains(email, loweredQuery) {
		return true
	}
	return strings.Contains(strings.ToLower(rec.BookedBy.Phone), loweredQuery)
}
