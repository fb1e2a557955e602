// Package content loads the static data files the site is generated from.
//
// Load failures are isolated at the source boundary: a missing or corrupt
// file yields an empty list with a diagnostic, never an error that aborts
// the build. Callers render a defined empty state instead.
package content

import (
	"encoding/json"
	"os"
	"path/filepath"

	"faithsite/internal/config"
	"faithsite/internal/lessons"
	appLog "faithsite/internal/log"
	"faithsite/internal/model"
)

// Data file names under the data directory.
const (
	EventsFile  = "events.json"
	ArchiveFile = "archive.json"
)

// LoadEvents reads the event definitions list.
func LoadEvents(dataDir string) []model.EventDefinition {
	var defs []model.EventDefinition
	if !loadJSON(filepath.Join(dataDir, EventsFile), &defs) {
		return []model.EventDefinition{}
	}
	appLog.Info("loaded event definitions", "count", len(defs))
	return defs
}

// LoadLessonEntries reads the dated revision list for one category key
// (lessons-<key>.json).
func LoadLessonEntries(dataDir, key string) []model.LessonContentEntry {
	var entries []model.LessonContentEntry
	if !loadJSON(filepath.Join(dataDir, "lessons-"+key+".json"), &entries) {
		return []model.LessonContentEntry{}
	}
	appLog.Info("loaded lesson entries", "category", key, "count", len(entries))
	return entries
}

// LoadArchive reads the rotating curriculum archive.
func LoadArchive(dataDir string) []model.ArchivedLesson {
	var archive []model.ArchivedLesson
	if !loadJSON(filepath.Join(dataDir, ArchiveFile), &archive) {
		return []model.ArchivedLesson{}
	}
	appLog.Info("loaded lesson archive", "count", len(archive))
	return archive
}

// Categories binds every configured category to its content source. The
// archive is read once and shared by all archive-sourced categories.
func Categories(cfg *config.Config) []lessons.Category {
	var archive []model.ArchivedLesson
	archiveLoaded := false

	cats := make([]lessons.Category, 0, len(cfg.Categories))
	for _, meta := range cfg.Categories {
		var src lessons.Source
		switch meta.Source {
		case model.SourceArchive:
			if !archiveLoaded {
				archive = LoadArchive(cfg.DataDir)
				archiveLoaded = true
			}
			src = lessons.ArchiveSource{Archive: archive, Start: cfg.CurriculumStartTime()}
		default:
			src = lessons.DatedSource{Entries: LoadLessonEntries(cfg.DataDir, meta.Key)}
		}
		cats = append(cats, lessons.Category{Meta: meta, Source: src})
	}
	return cats
}

// loadJSON reads and unmarshals one data file. It reports false on any
// failure after logging it.
func loadJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		appLog.Warn("data file unavailable; using empty list", "path", path, "reason", err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		appLog.Error("data file is malformed; using empty list", err, "path", path)
		return false
	}
	return true
}
