// Package events selects and formats upcoming events for page generation.
package events

import (
	"fmt"
	"sort"
	"time"

	appLog "faithsite/internal/log"
	"faithsite/internal/model"
	"faithsite/internal/recur"
)

// Upcoming resolves every definition against now and returns the ones whose
// next occurrence is at or after now, sorted ascending by occurrence. Ties
// keep original input order. limit > 0 truncates the result; limit <= 0
// returns all.
//
// Resolution failures are isolated per definition: a bad recurrence rule or
// an unparseable one-off timestamp drops that entry with a diagnostic and
// never aborts the batch.
func Upcoming(defs []model.EventDefinition, now time.Time, limit int) []model.ResolvedEvent {
	type resolved struct {
		event model.ResolvedEvent
		at    time.Time
	}
	upcoming := make([]resolved, 0, len(defs))

	for i, def := range defs {
		occurrence, ok := resolve(def, now)
		if !ok {
			continue
		}
		if occurrence.Before(now) {
			continue
		}

		id := def.ID
		if id == "" {
			// Synthesize a stable key so rendering always has one.
			id = fmt.Sprintf("event-%d", i)
		}
		title := def.Title
		if title == "" {
			title = "Untitled Event"
		}

		upcoming = append(upcoming, resolved{
			event: model.ResolvedEvent{
				ID:                       id,
				Title:                    title,
				Description:              def.Description,
				Recurrence:               def.Recurrence,
				Link:                     def.Link,
				CalculatedNextOccurrence: occurrence.Format(time.RFC3339),
			},
			at: occurrence,
		})
	}

	// Stable: equal occurrences keep definition order.
	sort.SliceStable(upcoming, func(a, b int) bool {
		return upcoming[a].at.Before(upcoming[b].at)
	})

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}

	out := make([]model.ResolvedEvent, len(upcoming))
	for i, r := range upcoming {
		out[i] = r.event
	}
	return out
}

// resolve maps one definition to its next occurrence. A definition with
// neither a recurrence nor a start timestamp has no occurrence.
func resolve(def model.EventDefinition, now time.Time) (time.Time, bool) {
	if def.Recurrence != nil {
		return recur.Next(*def.Recurrence, now)
	}
	if def.StartDateTime != "" {
		t, err := ParseInstant(def.StartDateTime, now.Location())
		if err != nil {
			appLog.Warn("event has invalid startDateTime; skipping",
				"id", def.ID, "start_date_time", def.StartDateTime)
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// ParseInstant parses an event timestamp. RFC 3339 is preferred; a bare
// "2006-01-02T15:04:05" (no zone, as authored for one-off events) is read in
// loc.
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, loc)
}
