package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	appLog "faithsite/internal/log"
	"faithsite/internal/model"
)

// DefaultCurriculumStart is the official start date of the rotating
// curriculum archive, UTC. The archive index advances in whole weeks from
// this day.
const DefaultCurriculumStart = "2024-08-28"

// BasicAuthConfig holds HTTP Basic Auth credentials for the preview server.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level site configuration.
type Config struct {
	// SiteTitle is used in page titles and the generated feed name.
	SiteTitle string `yaml:"site_title" json:"site_title"`

	// Listen is the HTTP listen address for the preview server.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone recurring events resolve in (e.g.
	// "America/Los_Angeles"). Empty means the system's local zone. Dated
	// content and archive rotation always use UTC regardless.
	Timezone string `yaml:"timezone" json:"timezone"`

	// DataDir holds the static data files (events.json, lessons-<key>.json,
	// archive.json).
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// OutputDir is where rendered pages and the ICS feed are written.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// RefreshCron is a cron-style schedule (e.g. "*/15 * * * *") used by
	// serve mode to periodically rebuild the site.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// HomepageEventLimit caps the upcoming-events section on the homepage.
	HomepageEventLimit int `yaml:"homepage_event_limit" json:"homepage_event_limit"`

	// CurriculumStart is the "YYYY-MM-DD" start day of the archive rotation.
	CurriculumStart string `yaml:"curriculum_start" json:"curriculum_start"`

	// Categories is the ordered set of lesson classes and their content
	// source variant.
	Categories []model.LessonCategory `yaml:"categories" json:"categories"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// preview endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultCategories returns the built-in five lesson classes. The search
// class is the only archive-rotated one.
func DefaultCategories() []model.LessonCategory {
	return []model.LessonCategory{
		{Key: "discovery", Title: "Discovery Lesson (Wed)", DayOfWeek: 3, Source: model.SourceDated, Order: 0},
		{Key: "beginners", Title: "Beginners (Sun, Ages 2-5)", DayOfWeek: 0, Source: model.SourceDated, Order: 1},
		{Key: "primary", Title: "Primary Pals (Sun, 1st-3rd)", DayOfWeek: 0, Source: model.SourceDated, Order: 2},
		{Key: "answer", Title: "Answer Class (Sun, 4th-8th)", DayOfWeek: 0, Source: model.SourceDated, Order: 3},
		{Key: "search", Title: "Search Class (Sun, High School+)", DayOfWeek: 0, Source: model.SourceArchive, Order: 4},
	}
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		SiteTitle:          "Apostolic Faith Church",
		Listen:             "127.0.0.1:8080",
		Timezone:           "",
		DataDir:            "./data",
		OutputDir:          "./public",
		RefreshCron:        "*/15 * * * *",
		HomepageEventLimit: 4,
		CurriculumStart:    DefaultCurriculumStart,
		Categories:         DefaultCategories(),
		BasicAuth:          nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.SiteTitle == "" {
		c.SiteTitle = "Apostolic Faith Church"
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./public"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.HomepageEventLimit <= 0 {
		c.HomepageEventLimit = 4
	}
	if c.CurriculumStart == "" {
		c.CurriculumStart = DefaultCurriculumStart
	}
	if len(c.Categories) == 0 {
		c.Categories = DefaultCategories()
	}
	for i := range c.Categories {
		switch c.Categories[i].Source {
		case model.SourceDated, model.SourceArchive:
		default:
			c.Categories[i].Source = model.SourceDated
		}
		if c.Categories[i].DayOfWeek < 0 || c.Categories[i].DayOfWeek > 6 {
			c.Categories[i].DayOfWeek = 0
		}
	}
}

// Location resolves the configured timezone, falling back to the system
// local zone on an empty or invalid name.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", c.Timezone)
		return time.Local
	}
	return loc
}

// CurriculumStartTime parses the curriculum start day as UTC midnight. An
// invalid value falls back to the built-in default.
func (c *Config) CurriculumStartTime() time.Time {
	t, err := time.Parse("2006-01-02", c.CurriculumStart)
	if err != nil {
		appLog.Error("invalid curriculum_start; using default", err, "value", c.CurriculumStart)
		t, _ = time.Parse("2006-01-02", DefaultCurriculumStart)
	}
	return t
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create parent directory if needed, write a
//     default config with 0600 perms, and return the default config.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path, atomically via
// a temp file + rename, with final 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".faithsite-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
