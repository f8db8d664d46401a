package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/internal/config"
	"lumen/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	s := config.New()
	assert.True(t, s.GetBool(config.KeyCacheColorManaged))
	assert.False(t, s.GetBool(config.KeyExtendedThumbOverlay))
	assert.Equal(t, "", s.GetString(config.KeyAudioPlayer), "no default player")
}

func TestLoadFile(t *testing.T) {
	t.Run("nested yaml flattens to slash keys", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), `
plugins:
  lighttable:
    audio_player: mpv
    extended_thumb_overlay: true
cache_color_managed: false
`)
		s, err := config.LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "mpv", s.GetString(config.KeyAudioPlayer))
		assert.True(t, s.GetBool(config.KeyExtendedThumbOverlay))
		assert.False(t, s.GetBool(config.KeyCacheColorManaged), "file overrides default")
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		s, err := config.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.True(t, s.GetBool(config.KeyCacheColorManaged))
	})

	t.Run("broken yaml is an invalid config error", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "plugins: [unclosed")
		_, err := config.LoadFile(path)
		require.Error(t, err)
		var ve *errors.ViewError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, errors.InvalidConfig, ve.Kind())
	})
}

func TestGetBool(t *testing.T) {
	s := config.New()
	s.SetString("a", "true")
	s.SetString("b", "nonsense")
	s.SetBool("c", false)

	assert.True(t, s.GetBool("a"))
	assert.False(t, s.GetBool("b"), "unparsable reads as false")
	assert.False(t, s.GetBool("c"))
	assert.False(t, s.GetBool("unset"))
}

func TestPluginKey(t *testing.T) {
	assert.Equal(t, "plugins/lighttable/collect/expanded",
		config.PluginKey("lighttable", "collect", "expanded"))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	s, err := config.LoadFile(path)
	require.NoError(t, err)

	s.SetString(config.KeyAudioPlayer, "aplay")
	s.SetBool(config.PluginKey("lighttable", "collect", "expanded"), true)
	require.NoError(t, s.Save())

	again, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "aplay", again.GetString(config.KeyAudioPlayer))
	assert.True(t, again.GetBool(config.PluginKey("lighttable", "collect", "expanded")))
}

func TestSaveUnbound(t *testing.T) {
	assert.Error(t, config.New().Save())
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "cache_color_managed: true\n")

	s, err := config.LoadFile(path)
	require.NoError(t, err)

	stop, err := s.Watch()
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(path, []byte("cache_color_managed: false\n"), 0644))

	assert.Eventually(t, func() bool {
		return !s.GetBool(config.KeyCacheColorManaged)
	}, 3*time.Second, 10*time.Millisecond, "edit on disk should reach the store")
}
