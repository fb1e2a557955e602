// Package recur resolves recurrence rules into concrete occurrence instants.
//
// Every function here is pure: the reference instant is an explicit argument,
// never an ambient clock read, and malformed input maps to a "no occurrence"
// result instead of an error.
package recur

import (
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "faithsite/internal/log"
	"faithsite/internal/model"
)

// Next computes the next occurrence of rule at or after now.
//
// Weekly rules resolve to the next matching weekday at the rule's time of
// day; if that slot is today but already passed, the occurrence moves to the
// same weekday next week. Daily rules resolve to today's slot, or tomorrow's
// when today's has passed. The occurrence is built in now's location.
//
// Unknown rule types, a weekly rule without a weekday, and unparseable times
// all yield ok=false.
func Next(rule model.RecurrenceRule, now time.Time) (time.Time, bool) {
	hour, minute, ok := ParseClock(rule.Time)
	if !ok {
		appLog.Warn("recurrence rule has invalid time", "type", rule.Type, "time", rule.Time)
		return time.Time{}, false
	}

	switch rule.Type {
	case model.RecurrenceWeekly:
		if rule.DayOfWeek == nil || *rule.DayOfWeek < 0 || *rule.DayOfWeek > 6 {
			appLog.Warn("weekly rule missing or invalid dayOfWeek", "time", rule.Time)
			return time.Time{}, false
		}
		daysUntil := (*rule.DayOfWeek - int(now.Weekday()) + 7) % 7
		candidate := time.Date(now.Year(), now.Month(), now.Day()+daysUntil,
			hour, minute, 0, 0, now.Location())
		if daysUntil == 0 && candidate.Before(now) {
			// Today's slot already passed; next week, same weekday.
			candidate = candidate.AddDate(0, 0, 7)
		}
		return candidate, true

	case model.RecurrenceDaily:
		candidate := time.Date(now.Year(), now.Month(), now.Day(),
			hour, minute, 0, 0, now.Location())
		if candidate.Before(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate, true

	default:
		appLog.Warn("unsupported recurrence type", "type", rule.Type)
		return time.Time{}, false
	}
}

// NextWeekday returns midnight (in now's location) of the next day whose
// weekday equals dow (0=Sunday..6=Saturday). If today matches, today's
// midnight is returned even when it is already in the past.
func NextWeekday(dow int, now time.Time) time.Time {
	daysUntil := (dow - int(now.Weekday()) + 7) % 7
	return time.Date(now.Year(), now.Month(), now.Day()+daysUntil, 0, 0, 0, 0, now.Location())
}

// WeeksBetween returns the number of whole weeks elapsed between start and
// now, measured on UTC calendar days: floor(dayDifference / 7). During the
// first seven days after start the result is 0. Callers guard against
// now < start themselves.
func WeeksBetween(start, now time.Time) int {
	days := int(dayUTC(now).Sub(dayUTC(start)) / (24 * time.Hour))
	return days / 7
}

// DayUTC truncates t to UTC midnight of its calendar day.
func DayUTC(t time.Time) time.Time {
	return dayUTC(t)
}

func dayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseClock parses a 24-hour "HH:MM" string.
func ParseClock(s string) (hour, minute int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// RRuleString renders rule as an iCalendar RRULE value (e.g.
// "FREQ=WEEKLY;BYDAY=TU") for feed export. Rules the resolver would reject
// yield ok=false.
func RRuleString(rule model.RecurrenceRule) (string, bool) {
	if _, _, ok := ParseClock(rule.Time); !ok {
		return "", false
	}

	var opt rrule.ROption
	switch rule.Type {
	case model.RecurrenceWeekly:
		if rule.DayOfWeek == nil || *rule.DayOfWeek < 0 || *rule.DayOfWeek > 6 {
			return "", false
		}
		opt = rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: []rrule.Weekday{rruleWeekdays[*rule.DayOfWeek]},
		}
	case model.RecurrenceDaily:
		opt = rrule.ROption{Freq: rrule.DAILY}
	default:
		return "", false
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		appLog.Error("failed to build rrule", err, "type", rule.Type)
		return "", false
	}
	return r.String(), true
}
