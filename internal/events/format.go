package events

import (
	"time"

	appLog "faithsite/internal/log"
	"faithsite/internal/model"
)

// Placeholder strings shown when an occurrence cannot be displayed.
const (
	PlaceholderNoDate  = "Date TBD"
	PlaceholderInvalid = "Invalid Date"
)

// FormatOccurrence turns a resolved occurrence plus its recurrence metadata
// into the label shown on event cards:
//
//	weekly  -> "Every Tuesday at 6:00 PM"
//	daily   -> "Daily at 5:00 AM"
//	one-off -> "Jul 20, 2024, 7:00 PM"
//
// An empty instant yields PlaceholderNoDate, an unparseable one
// PlaceholderInvalid. This never fails the caller.
func FormatOccurrence(iso string, rule *model.RecurrenceRule) string {
	if iso == "" {
		return PlaceholderNoDate
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		appLog.Warn("cannot format occurrence", "instant", iso)
		return PlaceholderInvalid
	}

	if rule != nil {
		switch rule.Type {
		case model.RecurrenceWeekly:
			return "Every " + t.Weekday().String() + " at " + t.Format("3:04 PM")
		case model.RecurrenceDaily:
			return "Daily at " + t.Format("3:04 PM")
		}
	}
	return t.Format("Jan 2, 2006, 3:04 PM")
}
