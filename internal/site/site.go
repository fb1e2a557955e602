// Package site renders the static pages from the computed schedule data.
// All selection logic lives in internal/events and internal/lessons; this
// layer is a pure consumer of their plain-data results.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"faithsite/internal/config"
	"faithsite/internal/content"
	"faithsite/internal/events"
	"faithsite/internal/feed"
	"faithsite/internal/lessons"
	appLog "faithsite/internal/log"
	"faithsite/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Builder renders the whole site into the configured output directory.
type Builder struct {
	cfg  *config.Config
	tmpl *template.Template
}

// Result summarizes one build pass.
type Result struct {
	Pages       int
	GeneratedAt time.Time
}

// NewBuilder parses the embedded templates and returns a Builder.
func NewBuilder(cfg *config.Config) (*Builder, error) {
	funcs := template.FuncMap{
		"occurrence":   events.FormatOccurrence,
		"lessonHeader": lessons.FormatHeader,
		"safe":         func(s string) template.HTML { return template.HTML(s) },
	}
	tmpl, err := template.New("site").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("site: parse templates: %w", err)
	}
	return &Builder{cfg: cfg, tmpl: tmpl}, nil
}

type pageData struct {
	SiteTitle   string
	Title       string
	GeneratedAt string
}

type eventsData struct {
	pageData
	Events []model.ResolvedEvent
}

type lessonsData struct {
	pageData
	Lessons []model.StructuredLesson
}

type detailData struct {
	pageData
	Lesson model.StructuredLesson
	Found  bool
}

// Build samples nothing itself: now is the single reference instant the
// whole pass is computed against. It loads the data files, resolves events
// and lessons, and writes every page plus the ICS feed.
func (b *Builder) Build(now time.Time) (Result, error) {
	now = now.In(b.cfg.Location())

	appLog.Info("site build start",
		"at", now.Format(time.RFC3339),
		"data_dir", b.cfg.DataDir,
		"output_dir", b.cfg.OutputDir,
	)

	defs := content.LoadEvents(b.cfg.DataDir)
	allUpcoming := events.Upcoming(defs, now, 0)
	homeUpcoming := allUpcoming
	if len(homeUpcoming) > b.cfg.HomepageEventLimit {
		homeUpcoming = homeUpcoming[:b.cfg.HomepageEventLimit]
	}

	structured := lessons.Structured(content.Categories(b.cfg), now)

	res := Result{GeneratedAt: now}
	page := func(title string) pageData {
		return pageData{
			SiteTitle:   b.cfg.SiteTitle,
			Title:       title,
			GeneratedAt: now.Format("Jan 2, 2006, 3:04 PM"),
		}
	}

	writes := []struct {
		rel  string
		name string
		data any
	}{
		{"index.html", "index.tmpl", eventsData{page("Welcome"), homeUpcoming}},
		{"events/index.html", "events.tmpl", eventsData{page("Upcoming Events"), allUpcoming}},
		{"library/this-weeks-lessons/index.html", "lessons.tmpl", lessonsData{page("This Week's Lessons"), structured}},
	}
	for _, w := range writes {
		if err := b.writePage(w.rel, w.name, w.data); err != nil {
			return res, err
		}
		res.Pages++
	}

	// One detail page per category; a category with no current content gets
	// the not-found state rather than failing the build.
	for _, lesson := range structured {
		data := detailData{page(lesson.Title), lesson, lesson.HasContent}
		if !lesson.HasContent {
			appLog.Warn("no current content for category; rendering not-found state",
				"category", lesson.CategoryKey)
		}
		rel := filepath.Join("library", "lessons", lesson.CategoryKey, "index.html")
		if err := b.writePage(rel, "lesson_detail.tmpl", data); err != nil {
			return res, err
		}
		res.Pages++
	}

	if err := b.writeFile(feed.FileName, []byte(feed.Build(allUpcoming, "faithsite"))); err != nil {
		return res, err
	}

	appLog.Info("site build complete", "pages", res.Pages, "events", len(allUpcoming))
	return res, nil
}

func (b *Builder) writePage(rel, tmplName string, data any) error {
	var buf bytes.Buffer
	if err := b.tmpl.ExecuteTemplate(&buf, tmplName, data); err != nil {
		return fmt.Errorf("site: render %s: %w", rel, err)
	}
	return b.writeFile(rel, buf.Bytes())
}

func (b *Builder) writeFile(rel string, data []byte) error {
	path := filepath.Join(b.cfg.OutputDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("site: mkdir for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("site: write %s: %w", rel, err)
	}
	return nil
}
