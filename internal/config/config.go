// Package config discovers and decodes swiftcore.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up from the working directory
// upwards.
const FileName = "swiftcore.toml"

// Config is the resolved configuration. Path and Root are empty when no
// file was found.
type Config struct {
	Path  string
	Root  string
	Check Check
	Trace Trace
}

// Check configures property runs.
type Check struct {
	Seed       uint64
	Iterations int
	MaxSize    int
	Jobs       int
	Corpus     string
	UI         string
}

// Trace configures the tracer.
type Trace struct {
	Level     string
	Mode      string
	Output    string
	RingSize  int
	Heartbeat time.Duration
}

type fileConfig struct {
	Check checkTable `toml:"check"`
	Trace traceTable `toml:"trace"`
}

type checkTable struct {
	Seed       int64  `toml:"seed"`
	Iterations int64  `toml:"iterations"`
	MaxSize    int64  `toml:"max_size"`
	Jobs       int64  `toml:"jobs"`
	Corpus     string `toml:"corpus"`
	UI         string `toml:"ui"`
}

type traceTable struct {
	Level     string `toml:"level"`
	Mode      string `toml:"mode"`
	Output    string `toml:"output"`
	RingSize  int64  `toml:"ring_size"`
	Heartbeat string `toml:"heartbeat"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Check: Check{
			Seed:       1,
			Iterations: 200,
			MaxSize:    32,
			Jobs:       4,
			Corpus:     filepath.Join(".swiftcore", "corpus"),
			UI:         "auto",
		},
		Trace: Trace{
			Level:    "off",
			Mode:     "stream",
			Output:   "-",
			RingSize: 4096,
		},
	}
}

// Find walks up from startDir looking for swiftcore.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the configuration for startDir. A missing file
// yields Default.
func Load(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile decodes one file over the defaults. Keys absent from the file
// keep their default values.
func LoadFile(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg := Default()
	cfg.Path = path
	cfg.Root = filepath.Dir(path)

	if meta.IsDefined("check", "seed") {
		seed, err := safecast.Conv[uint64](raw.Check.Seed)
		if err != nil {
			return Config{}, fmt.Errorf("%s: [check].seed: %w", path, err)
		}
		cfg.Check.Seed = seed
	}
	ints := []struct {
		key  string
		raw  int64
		dst  *int
		min  int
		from string
	}{
		{"iterations", raw.Check.Iterations, &cfg.Check.Iterations, 1, "check"},
		{"max_size", raw.Check.MaxSize, &cfg.Check.MaxSize, 0, "check"},
		{"jobs", raw.Check.Jobs, &cfg.Check.Jobs, 1, "check"},
		{"ring_size", raw.Trace.RingSize, &cfg.Trace.RingSize, 1, "trace"},
	}
	for _, f := range ints {
		if !meta.IsDefined(f.from, f.key) {
			continue
		}
		v, err := safecast.Conv[int](f.raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: [%s].%s: %w", path, f.from, f.key, err)
		}
		if v < f.min {
			return Config{}, fmt.Errorf("%s: [%s].%s must be at least %d, got %d", path, f.from, f.key, f.min, v)
		}
		*f.dst = v
	}
	if meta.IsDefined("check", "corpus") {
		corpus := strings.TrimSpace(raw.Check.Corpus)
		if corpus == "" {
			return Config{}, fmt.Errorf("%s: [check].corpus is empty", path)
		}
		if !filepath.IsAbs(corpus) {
			corpus = filepath.Join(cfg.Root, filepath.FromSlash(corpus))
		}
		cfg.Check.Corpus = corpus
	}
	if meta.IsDefined("check", "ui") {
		cfg.Check.UI = raw.Check.UI
	}
	if meta.IsDefined("trace", "level") {
		cfg.Trace.Level = raw.Trace.Level
	}
	if meta.IsDefined("trace", "mode") {
		cfg.Trace.Mode = raw.Trace.Mode
	}
	if meta.IsDefined("trace", "output") {
		cfg.Trace.Output = raw.Trace.Output
	}
	if meta.IsDefined("trace", "heartbeat") {
		d, err := time.ParseDuration(raw.Trace.Heartbeat)
		if err != nil {
			return Config{}, fmt.Errorf("%s: [trace].heartbeat: %w", path, err)
		}
		cfg.Trace.Heartbeat = d
	}
	return cfg, nil
}
