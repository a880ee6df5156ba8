package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jess-sol/kyoo/internal/episode"
)

// runCLI executes rootCmd once. Subcommand flags keep their values between
// runs, so each test only relies on flags it passes itself.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	jsonOutput = false
	configPath = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[database]\npath = \"" + filepath.Join(dir, "kyoo.db") + "\"\n\n[log]\nlevel = \"error\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCLI_EpisodeLifecycle(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, "--config", cfg, "show", "add", "--title", "Dark", "--year", "2017")
	require.NoError(t, err)
	assert.Contains(t, out, "Added show dark")

	out, err = runCLI(t, "--config", cfg, "season", "add", "--show", "dark", "--number", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Added season 1 of dark")

	addArgs := []string{"--config", cfg, "episode", "add",
		"--show", "dark", "--season", "1", "--episode", "1",
		"--title", "Secrets",
		"--external", "tvdb:6303520",
		"--track", "video::h264",
	}
	out, err = runCLI(t, addArgs...)
	require.NoError(t, err)
	assert.Equal(t, "Episode dark-s1-e1 (id 1)\n", out)

	_, err = runCLI(t, addArgs...)
	require.Error(t, err)
	assert.ErrorIs(t, err, episode.ErrDuplicateItem)

	out, err = runCLI(t, append(addArgs, "--if-not-exists")...)
	require.NoError(t, err)
	assert.Equal(t, "Episode dark-s1-e1 (id 1)\n", out)

	out, err = runCLI(t, "--config", cfg, "episode", "get", "dark-s1-e1")
	require.NoError(t, err)
	assert.Contains(t, out, "Secrets")
	assert.Contains(t, out, "6303520")

	out, err = runCLI(t, "--config", cfg, "episode", "edit", "dark-s1-e1", "--overview", "Winden, 2019.")
	require.NoError(t, err)
	assert.Equal(t, "Edited dark-s1-e1\n", out)

	out, err = runCLI(t, "--config", cfg, "episode", "search", "secr")
	require.NoError(t, err)
	assert.Contains(t, out, "dark-s1-e1")

	out, err = runCLI(t, "--config", cfg, "events")
	require.NoError(t, err)
	assert.Contains(t, out, "episode.created")
	assert.Contains(t, out, "episode.edited")
	assert.Contains(t, out, "episode/1 dark-s1-e1")

	out, err = runCLI(t, "--config", cfg, "--json", "episode", "list", "--show", "dark", "--season", "1")
	require.NoError(t, err)
	var views []episodeView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Secrets", views[0].Title)
	assert.Equal(t, "Winden, 2019.", views[0].Overview)
	assert.NotNil(t, views[0].SeasonID)
	require.Len(t, views[0].ExternalIDs, 1)
	assert.Equal(t, "tvdb", views[0].ExternalIDs[0].Provider)
	require.Len(t, views[0].Tracks, 1)
	assert.Equal(t, "und", views[0].Tracks[0].Language)

	out, err = runCLI(t, "--config", cfg, "episode", "delete", "dark-s1-e1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted dark-s1-e1\n", out)

	_, err = runCLI(t, "--config", cfg, "episode", "get", "dark-s1-e1")
	assert.ErrorIs(t, err, episode.ErrNotFound)

	out, err = runCLI(t, "--config", cfg, "--json", "events", "--slug", "dark-s1-e1")
	require.NoError(t, err)
	var history []eventView
	require.NoError(t, json.Unmarshal([]byte(out), &history))
	require.Len(t, history, 3)
	assert.Equal(t, "episode.deleted", history[2].EventType)
	assert.Equal(t, "dark-s1-e1", history[2].EntitySlug)

	_, err = runCLI(t, "--config", cfg, "episode", "get", "dark-s1")
	assert.ErrorIs(t, err, episode.ErrInvalidFormat)
}

func TestCLI_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kyoo", "config.toml")

	out, err := runCLI(t, "init", path)
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+path+"\n", out)

	_, err = runCLI(t, "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCLI(t, "init", path, "--force")
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenDB_Memory(t *testing.T) {
	db, err := openDB(t.Context(), ":memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM episodes").Scan(&n))
	assert.Zero(t, n)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("WARN").String())
	assert.Equal(t, "ERROR", parseLogLevel("error").String())
	assert.Equal(t, "INFO", parseLogLevel("bogus").String())
}

func TestLoadConfig_Missing(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "nope.toml")
	t.Cleanup(func() { configPath = "" })

	_, err := loadConfig()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
