// internal/config/validate.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	} else if c.Database.Path != ":memory:" {
		dir := filepath.Dir(c.Database.Path)
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			errs = append(errs, fmt.Sprintf("database.path: parent %q is not a directory", dir))
		}
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if c.Log.MaxSizeMB < 0 {
		errs = append(errs, fmt.Sprintf("log.max_size_mb: must not be negative, got %d", c.Log.MaxSizeMB))
	}
	if c.Log.MaxBackups < 0 {
		errs = append(errs, fmt.Sprintf("log.max_backups: must not be negative, got %d", c.Log.MaxBackups))
	}
	if c.Log.MaxAgeDays < 0 {
		errs = append(errs, fmt.Sprintf("log.max_age_days: must not be negative, got %d", c.Log.MaxAgeDays))
	}

	if c.Events.Retention < 0 {
		errs = append(errs, fmt.Sprintf("events.retention: must not be negative, got %s", c.Events.Retention))
	}

	return errs
}
