package events

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"faithsite/internal/model"
)

func intp(n int) *int { return &n }

// 2024-03-04 is a Monday.
var monday = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func weeklyRule(dow int, clock string) *model.RecurrenceRule {
	return &model.RecurrenceRule{Type: "weekly", DayOfWeek: intp(dow), Time: clock}
}

func TestUpcomingSortsAscending(t *testing.T) {
	defs := []model.EventDefinition{
		{ID: "fri", Title: "Friday Service", Recurrence: weeklyRule(5, "18:00")},
		{ID: "tue", Title: "Tuesday Service", Recurrence: weeklyRule(2, "18:00")},
		{ID: "daily", Title: "Morning Prayer", Recurrence: &model.RecurrenceRule{Type: "daily", Time: "05:00"}},
	}

	got := Upcoming(defs, monday, 0)

	ids := make([]string, len(got))
	var prev time.Time
	for i, ev := range got {
		ids[i] = ev.ID
		at, err := time.Parse(time.RFC3339, ev.CalculatedNextOccurrence)
		if err != nil {
			t.Fatalf("bad occurrence %q: %v", ev.CalculatedNextOccurrence, err)
		}
		if at.Before(prev) {
			t.Errorf("output not ascending at %s", ev.ID)
		}
		if at.Before(monday) {
			t.Errorf("%s occurrence %v is before now", ev.ID, at)
		}
		prev = at
	}

	// Monday 10:00: next morning prayer is Tuesday 05:00, then Tuesday
	// 18:00 service, then Friday.
	want := []string{"daily", "tue", "fri"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestUpcomingLimit(t *testing.T) {
	defs := []model.EventDefinition{
		{ID: "a", Title: "A", Recurrence: weeklyRule(2, "18:00")},
		{ID: "b", Title: "B", Recurrence: weeklyRule(3, "18:00")},
		{ID: "c", Title: "C", Recurrence: weeklyRule(4, "18:00")},
	}

	if got := Upcoming(defs, monday, 2); len(got) != 2 {
		t.Errorf("limit=2: got %d events", len(got))
	}
	if got := Upcoming(defs, monday, 0); len(got) != 3 {
		t.Errorf("limit=0 returns all: got %d events", len(got))
	}
	if got := Upcoming(defs, monday, 10); len(got) != 3 {
		t.Errorf("limit beyond length: got %d events", len(got))
	}
}

func TestUpcomingTieBreakKeepsInputOrder(t *testing.T) {
	defs := []model.EventDefinition{
		{ID: "first", Title: "First", Recurrence: weeklyRule(2, "18:00")},
		{ID: "second", Title: "Second", Recurrence: weeklyRule(2, "18:00")},
	}

	got := Upcoming(defs, monday, 0)
	if len(got) != 2 || got[0].ID != "first" || got[1].ID != "second" {
		t.Errorf("tie-break broke input order: %+v", got)
	}
}

func TestUpcomingSkipsBadEntriesInIsolation(t *testing.T) {
	defs := []model.EventDefinition{
		{ID: "ok", Title: "OK", Recurrence: weeklyRule(2, "18:00")},
		{ID: "bad-rule", Title: "Bad Rule", Recurrence: &model.RecurrenceRule{Type: "fortnightly", Time: "10:00"}},
		{ID: "bad-date", Title: "Bad Date", StartDateTime: "not-a-date"},
		{ID: "no-schedule", Title: "No Schedule"},
	}

	got := Upcoming(defs, monday, 0)
	if len(got) != 1 || got[0].ID != "ok" {
		t.Errorf("expected only the valid entry, got %+v", got)
	}
}

func TestUpcomingOneOffEvents(t *testing.T) {
	defs := []model.EventDefinition{
		{ID: "past", Title: "Past", StartDateTime: "2024-01-01T10:00:00Z"},
		{ID: "future", Title: "Future", StartDateTime: "2024-07-20T19:00:00Z"},
		{ID: "bare", Title: "Bare Local", StartDateTime: "2024-07-21T19:00:00"},
	}

	got := Upcoming(defs, monday, 0)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2 (past one-off excluded)", len(got))
	}
	if got[0].ID != "future" || got[1].ID != "bare" {
		t.Errorf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestUpcomingNowIsInclusive(t *testing.T) {
	defs := []model.EventDefinition{
		{ID: "exact", Title: "Exact", StartDateTime: monday.Format(time.RFC3339)},
	}
	got := Upcoming(defs, monday, 0)
	if len(got) != 1 {
		t.Errorf("an occurrence exactly at now must be kept, got %d", len(got))
	}
}

func TestUpcomingSynthesizesMissingID(t *testing.T) {
	defs := []model.EventDefinition{
		{Title: "Anonymous", Recurrence: weeklyRule(2, "18:00")},
	}
	got := Upcoming(defs, monday, 0)
	if len(got) != 1 || got[0].ID == "" {
		t.Fatalf("missing id must be synthesized, got %+v", got)
	}
	if got[0].ID != "event-0" {
		t.Errorf("synthesized id = %q, want stable event-0", got[0].ID)
	}
}

func TestUpcomingEmptyAndNilInput(t *testing.T) {
	if got := Upcoming(nil, monday, 0); len(got) != 0 {
		t.Errorf("nil input: got %d events", len(got))
	}
	if got := Upcoming([]model.EventDefinition{}, monday, 5); len(got) != 0 {
		t.Errorf("empty input: got %d events", len(got))
	}
}

func TestFormatOccurrence(t *testing.T) {
	tests := []struct {
		name string
		iso  string
		rule *model.RecurrenceRule
		want string
	}{
		{"weekly", "2024-03-05T18:00:00Z", weeklyRule(2, "18:00"), "Every Tuesday at 6:00 PM"},
		{"daily", "2024-03-05T05:00:00Z", &model.RecurrenceRule{Type: "daily", Time: "05:00"}, "Daily at 5:00 AM"},
		{"one-off", "2024-07-20T19:00:00Z", nil, "Jul 20, 2024, 7:00 PM"},
		{"unknown rule type falls back to long form", "2024-07-20T19:00:00Z", &model.RecurrenceRule{Type: "monthly"}, "Jul 20, 2024, 7:00 PM"},
		{"empty instant", "", nil, PlaceholderNoDate},
		{"invalid instant", "garbage", nil, PlaceholderInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatOccurrence(tt.iso, tt.rule); got != tt.want {
				t.Errorf("FormatOccurrence() = %q, want %q", got, tt.want)
			}
		})
	}
}
