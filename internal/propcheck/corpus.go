package propcheck

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"swiftcore/swift"
)

// Current schema version - increment when the Failure layout changes
const corpusSchemaVersion uint16 = 1

const corpusExt = ".mp"

// ErrSchema marks a corpus entry written by an incompatible version.
var ErrSchema = errors.New("corpus entry has an unknown schema")

// Failure is a reproducible failing case. Seed and Size fully determine the
// generated input.
type Failure struct {
	Schema   uint16    `json:"-"`
	Property string    `json:"property"`
	RunSeed  uint64    `json:"run_seed"`
	Seed     uint64    `json:"seed"`
	Case     int       `json:"case"`
	Size     int       `json:"size"`
	Code     string    `json:"code,omitempty"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
}

func newFailure(property string, runSeed, seed uint64, size int, err error) *Failure {
	f := &Failure{
		Schema:   corpusSchemaVersion,
		Property: property,
		RunSeed:  runSeed,
		Seed:     seed,
		Size:     size,
		Message:  err.Error(),
		Time:     time.Now().UTC(),
	}
	var se *swift.Error
	if errors.As(err, &se) {
		f.Code = se.Code.String()
	}
	return f
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s (seed %d, size %d): %s", f.Property, f.Seed, f.Size, f.Message)
}

// Key identifies the failing input. Saving the same case twice overwrites.
func (f *Failure) Key() string {
	h := sha256.New()
	h.Write([]byte(f.Property))
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], f.Seed)
	size, err := safecast.Conv[uint64](f.Size)
	if err != nil {
		size = 0
	}
	binary.LittleEndian.PutUint64(buf[8:], size)
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Corpus stores failing cases as msgpack files, one per key.
// Thread-safe for concurrent access.
type Corpus struct {
	mu  sync.RWMutex
	dir string
}

// OpenCorpus creates dir if needed.
func OpenCorpus(dir string) (*Corpus, error) {
	if dir == "" {
		return nil, errors.New("corpus directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Corpus{dir: dir}, nil
}

func (c *Corpus) Dir() string { return c.dir }

func (c *Corpus) pathFor(key string) string {
	return filepath.Join(c.dir, key+corpusExt)
}

// Save writes f atomically.
func (c *Corpus) Save(f *Failure) (err error) {
	if c == nil || f == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	f.Schema = corpusSchemaVersion
	p := c.pathFor(f.Key())
	tmp, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = msgpack.NewEncoder(tmp).Encode(f); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Load reads the entry stored under key.
func (c *Corpus) Load(key string) (*Failure, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.load(c.pathFor(key))
}

func (c *Corpus) load(path string) (*Failure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Failure
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if f.Schema != corpusSchemaVersion {
		return nil, fmt.Errorf("%s: %w (%d)", filepath.Base(path), ErrSchema, f.Schema)
	}
	return &f, nil
}

// List returns every readable entry ordered by property and time. Entries
// that fail to decode are reported in the joined error and skipped.
func (c *Corpus) List() ([]*Failure, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var (
		out  []*Failure
		errs []error
	)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), corpusExt) {
			continue
		}
		f, err := c.load(filepath.Join(c.dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b *Failure) int {
		if a.Property != b.Property {
			return strings.Compare(a.Property, b.Property)
		}
		return a.Time.Compare(b.Time)
	})
	return out, errors.Join(errs...)
}

// Remove deletes the entry for key. A missing entry is not an error.
func (c *Corpus) Remove(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(c.pathFor(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes all entries and returns how many were deleted.
func (c *Corpus) Clear() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), corpusExt) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
