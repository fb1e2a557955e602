package lessons

import (
	"sort"
	"sync"
	"time"

	"faithsite/internal/model"
	"faithsite/internal/recur"
)

// Source yields the content that is current for a category at a given
// reference instant. Two variants exist: dated revision lists and the
// week-rotated archive. Categories pick their variant in configuration, so
// adding another variant never touches the call sites.
type Source interface {
	Current(now time.Time) (model.LessonContentEntry, bool)
}

// DatedSource resolves content by maximal effective date.
type DatedSource struct {
	Entries []model.LessonContentEntry
}

func (s DatedSource) Current(now time.Time) (model.LessonContentEntry, bool) {
	return CurrentContent(s.Entries, now)
}

// ArchiveSource resolves content by archive rotation from a fixed start.
type ArchiveSource struct {
	Archive []model.ArchivedLesson
	Start   time.Time
}

func (s ArchiveSource) Current(now time.Time) (model.LessonContentEntry, bool) {
	lesson, ok := ArchivedForDate(s.Archive, s.Start, now)
	if !ok {
		return model.LessonContentEntry{}, false
	}
	return TransformArchived(lesson), true
}

// Category pairs a category definition with its content source.
type Category struct {
	Meta   model.LessonCategory
	Source Source
}

// Placeholder content substituted when a category has nothing current.
const (
	PlaceholderTopic = "Lesson details coming soon."
	PlaceholderBody  = "<p>Lesson details coming soon. Please check back later.</p>"
)

// Structured resolves every category against now and returns one lesson per
// category, placeholders substituted where no content qualifies, so the
// result length always equals the category count.
//
// Categories resolve concurrently; each resolution is a pure function of its
// own inputs, results are only combined after all have finished, and the
// final order is the configured display order, so output is independent of
// completion order.
func Structured(categories []Category, now time.Time) []model.StructuredLesson {
	out := make([]model.StructuredLesson, len(categories))

	var wg sync.WaitGroup
	for i, cat := range categories {
		wg.Add(1)
		go func(i int, cat Category) {
			defer wg.Done()
			out[i] = structureOne(cat, now)
		}(i, cat)
	}
	wg.Wait()

	sort.SliceStable(out, func(a, b int) bool {
		return displayRank(categories, out[a].CategoryKey) < displayRank(categories, out[b].CategoryKey)
	})
	return out
}

func displayRank(categories []Category, key string) int {
	for _, c := range categories {
		if c.Meta.Key == key {
			return c.Meta.Order
		}
	}
	return len(categories)
}

func structureOne(cat Category, now time.Time) model.StructuredLesson {
	nextDate := recur.NextWeekday(cat.Meta.DayOfWeek, now)

	lesson := model.StructuredLesson{
		CategoryKey:        cat.Meta.Key,
		Title:              cat.Meta.Title,
		DayOfWeek:          cat.Meta.DayOfWeek,
		Topic:              PlaceholderTopic,
		Body:               PlaceholderBody,
		Questions:          []string{},
		NextOccurrenceDate: nextDate.Format(time.RFC3339),
	}

	content, ok := cat.Source.Current(now)
	if !ok {
		lesson.ID = cat.Meta.Key + "-placeholder"
		return lesson
	}

	lesson.ID = cat.Meta.Key + "-" + content.EffectiveDate
	lesson.HasContent = true
	if content.Topic != "" {
		lesson.Topic = content.Topic
	}
	lesson.Body = content.Body
	lesson.SourceReference = content.SourceReference
	lesson.KeyVerse = content.KeyVerse
	lesson.Background = content.Background
	if content.Questions != nil {
		lesson.Questions = content.Questions
	}
	lesson.Conclusion = content.Conclusion
	lesson.SourceLink = content.SourceLink
	lesson.EffectiveDate = content.EffectiveDate
	return lesson
}
