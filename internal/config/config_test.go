package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"faithsite/internal/model"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faithsite.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("first-run config mismatch (-want +got):\n%s", diff)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config permissions = %o, want 600", perm)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faithsite.yaml")

	cfg := DefaultConfig()
	cfg.SiteTitle = "Test Chapel"
	cfg.Timezone = "America/Los_Angeles"
	cfg.HomepageEventLimit = 6
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	var cfg Config
	cfg.Normalize()

	if cfg.Listen == "" || cfg.DataDir == "" || cfg.OutputDir == "" || cfg.RefreshCron == "" {
		t.Errorf("zero config not normalized: %+v", cfg)
	}
	if cfg.HomepageEventLimit != 4 {
		t.Errorf("homepage limit = %d, want 4", cfg.HomepageEventLimit)
	}
	if len(cfg.Categories) != 5 {
		t.Fatalf("default categories = %d, want 5", len(cfg.Categories))
	}
	if cfg.Categories[4].Key != "search" || cfg.Categories[4].Source != model.SourceArchive {
		t.Errorf("search category must be archive-sourced: %+v", cfg.Categories[4])
	}
}

func TestNormalizeRepairsBadCategoryValues(t *testing.T) {
	cfg := Config{
		Categories: []model.LessonCategory{
			{Key: "odd", Title: "Odd", DayOfWeek: 9, Source: "crystal-ball"},
		},
	}
	cfg.Normalize()

	if cfg.Categories[0].Source != model.SourceDated {
		t.Errorf("unknown source = %q, want fallback to dated", cfg.Categories[0].Source)
	}
	if cfg.Categories[0].DayOfWeek != 0 {
		t.Errorf("out-of-range weekday = %d, want 0", cfg.Categories[0].DayOfWeek)
	}
}

func TestCurriculumStartTime(t *testing.T) {
	cfg := DefaultConfig()
	want := time.Date(2024, 8, 28, 0, 0, 0, 0, time.UTC)
	if got := cfg.CurriculumStartTime(); !got.Equal(want) {
		t.Errorf("CurriculumStartTime() = %v, want %v", got, want)
	}

	cfg.CurriculumStart = "someday"
	if got := cfg.CurriculumStartTime(); !got.Equal(want) {
		t.Errorf("invalid start must fall back to default, got %v", got)
	}
}

func TestLocationFallsBackToLocal(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Location(); got != time.Local {
		t.Errorf("empty timezone: got %v, want local", got)
	}
	cfg.Timezone = "Not/AZone"
	if got := cfg.Location(); got != time.Local {
		t.Errorf("invalid timezone: got %v, want local", got)
	}
	cfg.Timezone = "UTC"
	if got := cfg.Location(); got.String() != "UTC" {
		t.Errorf("UTC: got %v", got)
	}
}
