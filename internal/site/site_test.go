package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"faithsite/internal/config"
)

// Reference instant for a deterministic build: Monday 2024-09-09 10:00 UTC,
// twelve days after the default curriculum start.
var buildInstant = time.Date(2024, 9, 9, 10, 0, 0, 0, time.UTC)

func buildTestSite(t *testing.T) (string, Result) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join("..", "content", "testdata")
	cfg.OutputDir = t.TempDir()
	cfg.Timezone = "UTC"

	b, err := NewBuilder(cfg)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	res, err := b.Build(buildInstant)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return cfg.OutputDir, res
}

func readPage(t *testing.T, outDir, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, rel))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func TestBuildWritesAllPages(t *testing.T) {
	outDir, res := buildTestSite(t)

	pages := []string{
		"index.html",
		"events/index.html",
		"library/this-weeks-lessons/index.html",
		"library/lessons/discovery/index.html",
		"library/lessons/beginners/index.html",
		"library/lessons/primary/index.html",
		"library/lessons/answer/index.html",
		"library/lessons/search/index.html",
		"events.ics",
	}
	for _, p := range pages {
		if _, err := os.Stat(filepath.Join(outDir, p)); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}
	if res.Pages != 8 {
		t.Errorf("page count = %d, want 8", res.Pages)
	}
}

func TestBuildEventsPage(t *testing.T) {
	outDir, _ := buildTestSite(t)

	page := readPage(t, outDir, "events/index.html")
	if !strings.Contains(page, "Tuesday Evening Service") {
		t.Error("events page missing the Tuesday service")
	}
	if !strings.Contains(page, "Every Tuesday at 6:00 PM") {
		t.Error("events page missing the formatted weekly occurrence")
	}
	if !strings.Contains(page, "Daily at 5:00 AM") {
		t.Error("events page missing the formatted daily occurrence")
	}
}

func TestBuildLessonsPage(t *testing.T) {
	outDir, _ := buildTestSite(t)

	page := readPage(t, outDir, "library/this-weeks-lessons/index.html")
	// One card per configured category, content or not.
	for _, title := range []string{
		"Discovery Lesson (Wed)",
		"Beginners (Sun, Ages 2-5)",
		"Search Class (Sun, High School+)",
	} {
		if !strings.Contains(page, title) {
			t.Errorf("lessons page missing category %q", title)
		}
	}
	// The June revision is current at the build instant.
	if !strings.Contains(page, "Fruit of the Spirit (Effective Jun 2)") {
		t.Error("lessons page missing the dated-content header")
	}
}

func TestBuildDetailPages(t *testing.T) {
	outDir, _ := buildTestSite(t)

	discovery := readPage(t, outDir, "library/lessons/discovery/index.html")
	if !strings.Contains(discovery, "Fruit of the Spirit") {
		t.Error("discovery detail missing current topic")
	}

	// Twelve days past the curriculum start is one whole week: the second
	// eligible archive lesson is current for the search class.
	search := readPage(t, outDir, "library/lessons/search/index.html")
	if !strings.Contains(search, "The Flood") {
		t.Error("search detail missing the rotated archive lesson")
	}
	if !strings.Contains(search, "Genesis 6:5-22") {
		t.Error("search detail missing the joined bible reference")
	}

	// Categories with no data render the not-found state, not an error.
	beginners := readPage(t, outDir, "library/lessons/beginners/index.html")
	if !strings.Contains(beginners, "Lesson Not Found") {
		t.Error("beginners detail should render the not-found state")
	}
}

func TestBuildFeed(t *testing.T) {
	outDir, _ := buildTestSite(t)

	ics := readPage(t, outDir, "events.ics")
	if !strings.Contains(ics, "BEGIN:VCALENDAR") {
		t.Error("feed is not a calendar")
	}
	if !strings.Contains(ics, "RRULE:FREQ=WEEKLY;BYDAY=TU") {
		t.Error("feed missing the weekly RRULE")
	}
}

func TestBuildWithMissingDataDirStillSucceeds(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "nope")
	cfg.OutputDir = t.TempDir()
	cfg.Timezone = "UTC"

	b, err := NewBuilder(cfg)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if _, err := b.Build(buildInstant); err != nil {
		t.Fatalf("a missing data dir must not fail the build: %v", err)
	}

	page := readPage(t, cfg.OutputDir, "events/index.html")
	if !strings.Contains(page, "No upcoming events") {
		t.Error("events page should render the empty state")
	}
}
