// Package config is the local key/value store of devdash (tokens and
// default service settings). The file is read whole and rewritten whole.
package config

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/devdash-cli/devdash/internal/apierr"
)

const (
	legacyFileName = ".devdash.yaml"
	xdgRelPath     = "devdash/config.yaml"
)

// Store is a flat string mapping persisted as YAML.
type Store struct {
	path   string
	values map[string]string
}

// DefaultPath returns ~/.devdash.yaml when it exists, otherwise the XDG
// config location (created on demand).
func DefaultPath() (string, error) {
	if home, err := os.UserHomeDir(); err == nil {
		legacy := filepath.Join(home, legacyFileName)
		if _, err := os.Stat(legacy); err == nil {
			return legacy, nil
		}
	}
	p, err := xdg.ConfigFile(xdgRelPath)
	if err != nil {
		return "", errors.Wrap(err, "unable to resolve config location")
	}
	return p, nil
}

// Load reads the store at path. A missing file is an empty store.
func Load(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]string{}}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		log.Debugf("config file %s not found, starting empty", path)
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config %s", path)
	}
	if err := yaml.Unmarshal(raw, &s.values); err != nil {
		return nil, &apierr.ConfigError{Key: path, Hint: "invalid YAML: " + err.Error()}
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) Set(key, value string) {
	s.values[key] = value
}

// Keys returns the stored keys in lexical order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save replaces the file with the current content. The new content is
// written to a temporary file in the same directory and renamed over the
// old one, so readers never see a partial file.
func (s *Store) Save() error {
	raw, err := yaml.Marshal(s.values)
	if err != nil {
		return errors.Wrap(err, "unable to encode config")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "unable to create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".devdash-*.yaml")
	if err != nil {
		return errors.Wrap(err, "unable to create temporary config")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.Wrap(err, "unable to write temporary config")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "unable to replace %s", s.path)
	}
	return nil
}
