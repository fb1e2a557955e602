package model

// Recurrence rule types supported by the resolver. Anything else resolves to
// "no occurrence" rather than an error.
const (
	RecurrenceWeekly = "weekly"
	RecurrenceDaily  = "daily"
)

// RecurrenceRule describes when a recurring event happens.
//
// Time is a 24-hour "HH:MM" string. DayOfWeek uses 0=Sunday..6=Saturday and
// is only meaningful for weekly rules; for weekly rules it must be present.
type RecurrenceRule struct {
	Type            string `json:"type" yaml:"type"`
	DayOfWeek       *int   `json:"dayOfWeek,omitempty" yaml:"day_of_week,omitempty"`
	Time            string `json:"time" yaml:"time"`
	DurationMinutes int    `json:"durationMinutes,omitempty" yaml:"duration_minutes,omitempty"`
}

// EventDefinition is a single event as authored in the events data file.
// Exactly one of Recurrence or StartDateTime should be set; a definition with
// neither never produces an occurrence.
type EventDefinition struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Recurrence  *RecurrenceRule `json:"recurrence,omitempty"`
	// StartDateTime is an RFC 3339 timestamp for one-off events.
	StartDateTime string `json:"startDateTime,omitempty"`
	Link          string `json:"link,omitempty"`
}

// ResolvedEvent is an EventDefinition plus its computed next occurrence.
// Resolved events are rebuilt on every generation pass and never persisted.
type ResolvedEvent struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Recurrence  *RecurrenceRule `json:"recurrence,omitempty"`
	Link        string          `json:"link,omitempty"`

	// CalculatedNextOccurrence is the RFC 3339 instant of the next time the
	// event happens, always >= the build's reference instant.
	CalculatedNextOccurrence string `json:"calculatedNextOccurrence"`
}

// KeyVerse is a quoted verse with its citation.
type KeyVerse struct {
	Text      string `json:"text"`
	Reference string `json:"reference"`
}

// LessonContentEntry is one dated revision of a lesson category's content.
// Body, Background and Conclusion hold HTML fragments.
type LessonContentEntry struct {
	// EffectiveDate is "YYYY-MM-DD"; the revision becomes current at UTC
	// midnight of that day. Archive-sourced entries carry a synthetic
	// "archive-<id>" value here instead.
	EffectiveDate   string    `json:"effectiveDate"`
	Topic           string    `json:"topic"`
	Body            string    `json:"body,omitempty"`
	SourceReference string    `json:"sourceReference,omitempty"`
	KeyVerse        *KeyVerse `json:"keyVerse,omitempty"`
	Background      string    `json:"background,omitempty"`
	Questions       []string  `json:"questions,omitempty"`
	Conclusion      string    `json:"conclusion,omitempty"`
	SourceLink      string    `json:"sourceLink,omitempty"`
}

// LessonSection is one block of an archived lesson.
type LessonSection struct {
	SectionType    string `json:"sectionType"` // "text" or "question"
	SectionTitle   string `json:"sectionTitle"`
	SectionContent string `json:"sectionContent"`
}

// BibleReference is a single scripture citation of an archived lesson.
type BibleReference struct {
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
	Verses  string `json:"verses"`
}

// ArchivedLesson is one entry of the rotating curriculum archive.
type ArchivedLesson struct {
	ID               string           `json:"id"`
	LessonTitle      string           `json:"lessonTitle"`
	LessonSections   []LessonSection  `json:"lessonSections"`
	BibleReference   []BibleReference `json:"bibleReference"`
	KeyVerse         *KeyVerse        `json:"keyVerse,omitempty"`
	ResourceMaterial string           `json:"resourceMaterial,omitempty"`
}

// Content source variants for a lesson category.
const (
	SourceDated   = "dated"   // dated revision list, latest effective entry wins
	SourceArchive = "archive" // fixed archive rotated by elapsed weeks
)

// LessonCategory describes one lesson class and where its content comes from.
// DayOfWeek (0=Sunday..6) is display metadata only; it drives the "next
// date" shown for the class, never content selection.
type LessonCategory struct {
	Key       string `yaml:"key"`
	Title     string `yaml:"title"`
	DayOfWeek int    `yaml:"day_of_week"`
	Source    string `yaml:"source"`
	// Order is the display position on the weekly lessons page.
	Order int `yaml:"order"`
}

// StructuredLesson is the per-category build output: category metadata plus
// the selected content (or placeholders when none qualifies).
type StructuredLesson struct {
	ID          string `json:"id"`
	CategoryKey string `json:"categoryKey"`
	Title       string `json:"title"`
	DayOfWeek   int    `json:"dayOfWeek"`

	Topic           string    `json:"topic"`
	Body            string    `json:"body,omitempty"`
	SourceReference string    `json:"sourceReference,omitempty"`
	KeyVerse        *KeyVerse `json:"keyVerse,omitempty"`
	Background      string    `json:"background,omitempty"`
	Questions       []string  `json:"questions"`
	Conclusion      string    `json:"conclusion,omitempty"`
	SourceLink      string    `json:"sourceLink,omitempty"`
	EffectiveDate   string    `json:"effectiveDate,omitempty"`

	// NextOccurrenceDate is the RFC 3339 midnight of the category's next
	// class day.
	NextOccurrenceDate string `json:"nextOccurrenceDate"`

	// HasContent is false when placeholders were substituted.
	HasContent bool `json:"hasContent"`
}
