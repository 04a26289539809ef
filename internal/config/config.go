package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	containerPath = "Library/Containers/co.noteplan.NotePlan3/Data/Library/Application Support/co.noteplan.NotePlan3"
	icloudPath    = "Library/Mobile Documents/iCloud~co~noteplan~NotePlan/Documents"

	LabelNotes          = "Notes"
	LabelCalendar       = "Calendar"
	LabelICloudNotes    = "iCloud/Notes"
	LabelICloudCalendar = "iCloud/Calendar"
)

type Config struct {
	NotesDir    string `json:"notes_dir"`
	CalendarDir string `json:"calendar_dir"`
	ICloudDir   string `json:"icloud_dir"`
	DBPath      string `json:"db_path"`
	LogLevel    string `json:"log_level"`
}

// Root is a labelled directory of markdown and text notes.
type Root struct {
	Label string
	Dir   string
}

type envOverrides struct {
	NotesDir    string `envconfig:"NOTES_DIR"`
	CalendarDir string `envconfig:"CALENDAR_DIR"`
	ICloudDir   string `envconfig:"ICLOUD_DIR"`
	DBPath      string `envconfig:"DB_PATH"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
}

func configDir(home string) string {
	return filepath.Join(home, ".config", "npq")
}

// Load resolves the configuration from NotePlan's default locations, the
// optional ~/.config/npq/config.json and .env files, and NPQ_* environment
// variables, in increasing order of precedence.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return load(home)
}

func load(home string) (*Config, error) {
	dir := configDir(home)

	cfg := &Config{}
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var env envOverrides
	if err := envconfig.Process("npq", &env); err != nil {
		return nil, err
	}
	cfg.merge(env)

	cfg.applyDefaults(home)
	return cfg, nil
}

func (c *Config) merge(env envOverrides) {
	if env.NotesDir != "" {
		c.NotesDir = env.NotesDir
	}
	if env.CalendarDir != "" {
		c.CalendarDir = env.CalendarDir
	}
	if env.ICloudDir != "" {
		c.ICloudDir = env.ICloudDir
	}
	if env.DBPath != "" {
		c.DBPath = env.DBPath
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
}

func (c *Config) applyDefaults(home string) {
	def := defaultConfig(home)
	if c.NotesDir == "" {
		c.NotesDir = def.NotesDir
	}
	if c.CalendarDir == "" {
		c.CalendarDir = def.CalendarDir
	}
	if c.ICloudDir == "" {
		c.ICloudDir = def.ICloudDir
	}
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Roots returns the note directories in the order they are searched. Roots
// that do not exist are still returned; callers check the filesystem.
func (c *Config) Roots() []Root {
	return []Root{
		{Label: LabelNotes, Dir: c.NotesDir},
		{Label: LabelCalendar, Dir: c.CalendarDir},
		{Label: LabelICloudNotes, Dir: filepath.Join(c.ICloudDir, "Notes")},
		{Label: LabelICloudCalendar, Dir: filepath.Join(c.ICloudDir, "Calendar")},
	}
}

func defaultConfig(home string) *Config {
	container := filepath.Join(home, containerPath)
	return &Config{
		NotesDir:    filepath.Join(container, "Notes"),
		CalendarDir: filepath.Join(container, "Calendar"),
		ICloudDir:   filepath.Join(home, icloudPath),
		DBPath:      filepath.Join(container, "Caches", "teamspace.db"),
		LogLevel:    "warn",
	}
}
