// Package lessons selects the current lesson content per category: dated
// revision lists resolved by effective date, and the rotating curriculum
// archive resolved by elapsed weeks.
package lessons

import (
	"sort"
	"strings"
	"time"

	appLog "faithsite/internal/log"
	"faithsite/internal/model"
	"faithsite/internal/recur"
)

const (
	// ArchiveIDPrefix marks archive entries that are actual lessons;
	// anything else in the archive file (theme thoughts, notes) is ignored.
	ArchiveIDPrefix = "lesson_"

	// SyntheticDatePrefix marks content that came from the archive rather
	// than a dated revision list. Such entries carry "archive-<id>" in
	// EffectiveDate and never show an effective-date suffix.
	SyntheticDatePrefix = "archive-"
)

// CurrentContent picks the revision with the greatest effective date that is
// on or before the UTC calendar day of now. Entries with unparseable dates
// are skipped with a diagnostic. When several revisions share the maximal
// qualifying date, the first one in original list order wins.
func CurrentContent(entries []model.LessonContentEntry, now time.Time) (model.LessonContentEntry, bool) {
	if len(entries) == 0 {
		return model.LessonContentEntry{}, false
	}

	sorted := make([]model.LessonContentEntry, len(entries))
	copy(sorted, entries)

	// Descending by effective date; unparseable dates compare equal so the
	// stable sort leaves them in place.
	sort.SliceStable(sorted, func(a, b int) bool {
		da, errA := ParseEffectiveDate(sorted[a].EffectiveDate)
		db, errB := ParseEffectiveDate(sorted[b].EffectiveDate)
		if errA != nil || errB != nil {
			return false
		}
		return db.Before(da)
	})

	startOfToday := recur.DayUTC(now)

	for _, entry := range sorted {
		effective, err := ParseEffectiveDate(entry.EffectiveDate)
		if err != nil {
			appLog.Warn("skipping content entry with invalid effectiveDate",
				"effective_date", entry.EffectiveDate, "topic", entry.Topic)
			continue
		}
		if !effective.After(startOfToday) {
			return entry, true
		}
	}

	// All qualifying dates are in the future.
	return model.LessonContentEntry{}, false
}

// ParseEffectiveDate reads a "YYYY-MM-DD" effective date as UTC midnight of
// that day.
func ParseEffectiveDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// ArchivedForDate picks "this week's" archived lesson: whole weeks elapsed
// since start, wrapped around the eligible archive length. Before start the
// curriculum has not begun and nothing is returned. During the first partial
// week the first eligible lesson is current.
func ArchivedForDate(archive []model.ArchivedLesson, start, now time.Time) (model.ArchivedLesson, bool) {
	eligible := make([]model.ArchivedLesson, 0, len(archive))
	for _, l := range archive {
		if strings.HasPrefix(l.ID, ArchiveIDPrefix) {
			eligible = append(eligible, l)
		}
	}
	if len(eligible) == 0 {
		return model.ArchivedLesson{}, false
	}

	if now.Before(start) {
		return model.ArchivedLesson{}, false
	}

	weeks := recur.WeeksBetween(start, now)
	return eligible[weeks%len(eligible)], true
}

// TransformArchived reshapes an archived lesson into the flat content form
// the rendering layer expects:
//
//   - the first "text" section whose title contains "text" becomes both body
//     and background
//   - the first "text" section whose title contains "conclud" becomes the
//     conclusion
//   - all "question" sections' content, in order, become the questions
//   - bible references are joined as "Book Chapter:Verses; ..."
//
// The synthetic effective date lets downstream code tell archive-sourced
// content apart from dated content without inspecting both shapes.
func TransformArchived(lesson model.ArchivedLesson) model.LessonContentEntry {
	var body, conclusion string
	questions := make([]string, 0)

	for _, s := range lesson.LessonSections {
		switch s.SectionType {
		case "text":
			title := strings.ToLower(s.SectionTitle)
			if body == "" && strings.Contains(title, "text") {
				body = s.SectionContent
			}
			if conclusion == "" && strings.Contains(title, "conclud") {
				conclusion = s.SectionContent
			}
		case "question":
			questions = append(questions, s.SectionContent)
		}
	}

	refs := make([]string, 0, len(lesson.BibleReference))
	for _, r := range lesson.BibleReference {
		refs = append(refs, r.Book+" "+r.Chapter+":"+r.Verses)
	}

	return model.LessonContentEntry{
		EffectiveDate:   SyntheticDatePrefix + lesson.ID,
		Topic:           lesson.LessonTitle,
		Body:            body,
		SourceReference: strings.Join(refs, "; "),
		KeyVerse:        lesson.KeyVerse,
		Background:      body,
		Questions:       questions,
		Conclusion:      conclusion,
		SourceLink:      lesson.ResourceMaterial,
	}
}

// FormatHeader renders the lesson card header: the topic, plus an
// " (Effective Mon D)" suffix when the effective date is present, parseable,
// and not archive-synthetic.
func FormatHeader(lesson model.StructuredLesson) string {
	topic := lesson.Topic
	if topic == "" {
		topic = "Topic TBD"
	}

	if lesson.EffectiveDate == "" || strings.HasPrefix(lesson.EffectiveDate, SyntheticDatePrefix) {
		return topic
	}
	effective, err := ParseEffectiveDate(lesson.EffectiveDate)
	if err != nil {
		appLog.Warn("cannot parse effective date for header", "effective_date", lesson.EffectiveDate)
		return topic
	}
	return topic + " (Effective " + effective.Format("Jan 2") + ")"
}
