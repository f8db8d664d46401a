// Package config implements the namespaced key/value configuration store the
// view layer reads (keys like "plugins/<view>/<plugin>/expanded"). Values
// live in a YAML file; a missing file yields the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"lumen/internal/errors"
	"lumen/internal/log"
)

// Well-known keys consumed by the view layer.
const (
	KeyExtendedThumbOverlay = "plugins/lighttable/extended_thumb_overlay"
	KeyCacheColorManaged    = "cache_color_managed"
	KeyAudioPlayer          = "plugins/lighttable/audio_player"
	KeyDrawCustomMetadata   = "plugins/lighttable/draw_custom_metadata"
	KeyImagesInRow          = "plugins/lighttable/images_in_a_row"
)

func defaults() map[string]string {
	return map[string]string{
		KeyExtendedThumbOverlay: "false",
		KeyCacheColorManaged:    "true",
		KeyDrawCustomMetadata:   "true",
		KeyImagesInRow:          "5",
	}
}

// Store holds the configuration values. All accessors are safe for
// concurrent use; the watcher goroutine reloads through the same lock.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	path   string
}

// New returns a store holding only the defaults, not bound to a file.
func New() *Store {
	return &Store{values: defaults()}
}

// Load reads configuration from the default location
// (~/.config/lumen/config.yaml).
func Load() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(home, ".config", "lumen", "config.yaml"))
}

// LoadFile reads configuration from a specific path. If the file does not
// exist the store starts from defaults and remembers the path for Save.
func LoadFile(path string) (*Store, error) {
	s := &Store{values: defaults(), path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, errors.NewViewError("could not parse config", path, errors.InvalidConfig, err)
	}
	flatten("", tree, s.values)
	return s, nil
}

// flatten turns the nested YAML mapping into slash-separated keys, matching
// the namespacing used by the rest of the application.
func flatten(prefix string, tree map[string]interface{}, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "/" + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprintf("%v", val)
		}
	}
}

// Path returns the file the store was loaded from ("" when unbound).
func (s *Store) Path() string { return s.path }

// GetString returns the value for key, or "" when unset.
func (s *Store) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// GetBool returns the boolean value for key; unset or unparsable is false.
func (s *Store) GetBool(key string) bool {
	v, err := strconv.ParseBool(s.GetString(key))
	return err == nil && v
}

// SetString stores a value.
func (s *Store) SetString(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// SetBool stores a boolean value.
func (s *Store) SetBool(key string, value bool) {
	s.SetString(key, strconv.FormatBool(value))
}

// PluginKey builds the per-view per-plugin key namespace, e.g.
// PluginKey("lighttable", "collect", "expanded").
func PluginKey(view, plugin, leaf string) string {
	return "plugins/" + view + "/" + plugin + "/" + leaf
}

// Save writes the store back to its file as nested YAML.
func (s *Store) Save() error {
	if s.path == "" {
		return errors.New("config store not bound to a file")
	}
	s.mu.RLock()
	tree := map[string]interface{}{}
	for k, v := range s.values {
		insert(tree, strings.Split(k, "/"), v)
	}
	s.mu.RUnlock()

	data, err := yaml.Marshal(tree)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

func insert(tree map[string]interface{}, path []string, value string) {
	if len(path) == 1 {
		tree[path[0]] = value
		return
	}
	child, ok := tree[path[0]].(map[string]interface{})
	if !ok {
		child = map[string]interface{}{}
		tree[path[0]] = child
	}
	insert(child, path[1:], value)
}

// reload re-reads the backing file in place. Called by the watcher.
func (s *Store) reload() {
	fresh, err := LoadFile(s.path)
	if err != nil {
		log.Warnf("config: reload of %s failed: %v", s.path, err)
		return
	}
	s.mu.Lock()
	s.values = fresh.values
	s.mu.Unlock()
	log.Debugf("config: reloaded %s", s.path)
}
