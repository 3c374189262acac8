// Package config loads the YAML configuration of vt.
//
// A configuration file looks like this:
//
//	store:
//	  path: /var/lib/vt/db
//	  timeout: 2s
//	log:
//	  file: /var/log/vt.log
//	  debug: [edit-bounds, cow]
//
// All fields are optional. Debug codes listed in the VT_DEBUG environment
// variable are enabled in addition to those in the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	"src.vt.sh/pkg/env"
	"src.vt.sh/pkg/errutil"
	"src.vt.sh/pkg/logutil"
	"src.vt.sh/pkg/store"
)

// Config is the configuration of vt.
type Config struct {
	Store Store `yaml:"store"`
	Log   Log   `yaml:"log"`
}

// Store configures the persistent store.
type Store struct {
	// Path of the database file.
	Path string `yaml:"path"`
	// How long to wait for the lock on the database file.
	Timeout time.Duration `yaml:"timeout"`
}

// Log configures logging.
type Log struct {
	// File to append logs to. Logs are discarded if empty.
	File string `yaml:"file"`
	// Debug codes to enable.
	Debug []string `yaml:"debug"`
}

// Default returns the configuration used when there is no configuration file.
func Default() Config {
	return Config{Store: Store{Path: defaultStorePath(), Timeout: store.DefaultTimeout}}
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vt", "db")
}

// DefaultPath returns the path of the configuration file: the value of
// VT_CONFIG if set, or vt/config.yaml in the user's configuration directory.
func DefaultPath() (string, error) {
	if p := os.Getenv(env.VT_CONFIG); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vt", "config.yaml"), nil
}

// LoadDefault loads the configuration file at DefaultPath. A missing file
// gives the default configuration.
func LoadDefault() (Config, error) {
	p, err := DefaultPath()
	if err != nil {
		return Config{}, err
	}
	c, err := Load(p)
	if errors.Is(err, os.ErrNotExist) {
		return Read(bytes.NewReader(nil))
	}
	return c, err
}

// Load loads the configuration file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Read reads a configuration from r. Fields missing from it keep their
// default values. Unknown fields and invalid values are errors.
func Read(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, err
	}
	if s := os.Getenv(env.VT_DEBUG); s != "" {
		c.Log.Debug = append(c.Log.Debug, splitDebug(s)...)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func splitDebug(s string) []string {
	codes, unknown := logutil.ParseDebugCodes(s)
	names := make([]string, 0, len(codes)+len(unknown))
	for _, code := range codes {
		names = append(names, string(code))
	}
	return append(names, unknown...)
}

func (c Config) validate() error {
	var errs []error
	if c.Store.Timeout < 0 {
		errs = append(errs, fmt.Errorf("store.timeout must be non-negative, but is %v", c.Store.Timeout))
	}
	for _, name := range c.Log.Debug {
		if _, unknown := logutil.ParseDebugCodes(name); len(unknown) > 0 {
			errs = append(errs, fmt.Errorf("unknown debug code %q", name))
		}
	}
	return errutil.Multi(errs...)
}

// DebugCodes returns the debug codes to enable, without duplicates.
func (c Config) DebugCodes() []logutil.DebugCode {
	var codes []logutil.DebugCode
	seen := map[logutil.DebugCode]bool{}
	for _, name := range c.Log.Debug {
		parsed, _ := logutil.ParseDebugCodes(name)
		for _, code := range parsed {
			if !seen[code] {
				seen[code] = true
				codes = append(codes, code)
			}
		}
	}
	return codes
}

// Apply directs the log output to the configured file and enables the
// configured debug codes.
func (c Config) Apply() error {
	if err := logutil.SetOutputFile(c.Log.File); err != nil {
		return err
	}
	for _, code := range c.DebugCodes() {
		logutil.Enable(code, true)
	}
	return nil
}

// OpenStore opens the configured store, creating the directory of the
// database file if needed.
func (c Config) OpenStore() (store.DBStore, error) {
	if c.Store.Path == "" {
		return nil, errors.New("store.path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.Store.Path), 0700); err != nil {
		return nil, err
	}
	return store.NewStoreWithTimeout(c.Store.Path, c.Store.Timeout)
}
