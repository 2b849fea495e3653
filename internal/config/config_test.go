package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "")
		t.Setenv("API_TIMEOUT", "")
		t.Setenv("LOG_LEVEL", "")
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
		require.NoError(t, err)
		require.Equal(t, "http://localhost:8000/api", conf.API.BaseURL)
		require.Equal(t, "info", conf.Log.Level)
		timeout, err := conf.APITimeout()
		require.NoError(t, err)
		require.Equal(t, time.Duration(0), timeout)
	})

	t.Run("file then env", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(file, []byte("api:\n  base_url: http://tracker.local/api\n  timeout: 5s\nlog:\n  level: debug\n"), 0644))
		t.Setenv("API_BASE_URL", "")
		t.Setenv("API_TIMEOUT", "")
		t.Setenv("LOG_LEVEL", "warn")

		conf, err := Load(file)
		require.NoError(t, err)
		require.Equal(t, "http://tracker.local/api", conf.API.BaseURL)
		require.Equal(t, "warn", conf.Log.Level)
		timeout, err := conf.APITimeout()
		require.NoError(t, err)
		require.Equal(t, 5*time.Second, timeout)
	})

	t.Run("bad timeout", func(t *testing.T) {
		t.Setenv("API_TIMEOUT", "soon")
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
	})
}

func TestPaths(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "drt")
	conf := &Configuration{}
	conf.Data.Dir = dir

	got, err := conf.DataDir()
	require.NoError(t, err)
	require.Equal(t, dir, got)
	require.DirExists(t, dir)

	logFile, err := conf.LogFile()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "drt.log"), logFile)

	conf.Log.File = "/tmp/custom.log"
	logFile, err = conf.LogFile()
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.log", logFile)

	dbFile, err := conf.DatabaseFile()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "drt.db"), dbFile)

	t.Run("xdg fallback", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_DATA_HOME", xdg)
		got, err := (&Configuration{}).DataDir()
		require.NoError(t, err)
		require.Equal(t, filepath.Join(xdg, "drt"), got)
	})
}
