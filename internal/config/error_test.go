package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError_Error(t *testing.T) {
	const path = "/etc/kyoo/config.toml"

	tests := []struct {
		name     string
		err      *ConfigError
		contains []string
		absent   []string
	}{
		{
			name: "empty",
			err:  &ConfigError{Path: path},
		},
		{
			name:     "missing variables",
			err:      &ConfigError{Path: path, Missing: []string{"KYOO_DATA", "KYOO_LOG"}},
			contains: []string{"missing environment variables", "KYOO_DATA", "KYOO_LOG"},
			absent:   []string{"validation failed"},
		},
		{
			name: "validation",
			err: &ConfigError{Path: path, Errors: []string{
				"log.level: must be one of debug, info, warn, error",
				"events.retention: must not be negative",
			}},
			contains: []string{"validation failed", "log.level", "events.retention"},
			absent:   []string{"missing environment variables"},
		},
		{
			name: "both",
			err: &ConfigError{
				Path:    path,
				Missing: []string{"KYOO_DATA"},
				Errors:  []string{"database.path: required"},
			},
			contains: []string{"missing environment variables", "validation failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if len(tt.contains) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.True(t, len(got) > 0 && got[len(got)-1] != '\n', "no trailing newline: %q", got)
			assert.Contains(t, got, "config "+path+":")
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, got, s)
			}
		})
	}
}
