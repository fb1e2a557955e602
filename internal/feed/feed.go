// Package feed exports the upcoming events as a subscribable iCalendar.
package feed

import (
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "faithsite/internal/log"
	"faithsite/internal/model"
	"faithsite/internal/recur"
)

// DefaultDurationMinutes is assumed when a definition carries no duration.
const DefaultDurationMinutes = 60

// Build serializes resolved events into an ICS payload. Recurring events get
// a DTSTART at their next occurrence plus an RRULE; one-offs become plain
// VEVENTs. Entries whose occurrence cannot be parsed back are skipped with a
// diagnostic. uidDomain tags every VEVENT UID ("<id>@<uidDomain>").
func Build(resolved []model.ResolvedEvent, uidDomain string) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//faithsite//site generator//EN")

	for _, ev := range resolved {
		start, err := time.Parse(time.RFC3339, ev.CalculatedNextOccurrence)
		if err != nil {
			appLog.Warn("feed: skipping event with invalid occurrence",
				"id", ev.ID, "instant", ev.CalculatedNextOccurrence)
			continue
		}

		duration := DefaultDurationMinutes
		if ev.Recurrence != nil && ev.Recurrence.DurationMinutes > 0 {
			duration = ev.Recurrence.DurationMinutes
		}

		ve := cal.AddEvent(ev.ID + "@" + uidDomain)
		ve.SetDtStampTime(start)
		ve.SetStartAt(start)
		ve.SetEndAt(start.Add(time.Duration(duration) * time.Minute))
		ve.SetSummary(ev.Title)
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		if ev.Link != "" {
			ve.SetURL(ev.Link)
		}

		if ev.Recurrence != nil {
			if rule, ok := recur.RRuleString(*ev.Recurrence); ok {
				ve.AddRrule(rule)
			}
		}
	}

	return cal.Serialize()
}

// FileName is the feed's name inside the output directory.
const FileName = "events.ics"
