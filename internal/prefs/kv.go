package prefs

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// KV is a flat string key-value settings area.
//
// Get reports ok=false for a missing key. Delete of a missing key is a
// no-op.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// ErrInvalidSettings is returned when the settings file is not a YAML
// mapping, or when a write would break the settings schema.
var ErrInvalidSettings = errors.New("invalid settings file")

//go:embed settings.cue
var settingsSchema string

// FileKV stores settings as a YAML mapping in a single file.
//
// The file is read on every Get so edits made outside the process are
// picked up. Writes replace the file atomically. A missing file is an
// empty settings area. Keys whose stored value breaks the schema are
// dropped with a warning on read, and removed from the file on the next
// write.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FileKV struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	schema cue.Value
}

// NewFileKV returns a FileKV for path. The file is created on first Set.
func NewFileKV(path string, logger *slog.Logger) *FileKV {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := cuecontext.New()
	schema := ctx.CompileString(settingsSchema).LookupPath(cue.ParsePath("#Settings"))
	return &FileKV{path: path, logger: logger, schema: schema}
}

// Path returns the settings file path.
func (f *FileKV) Path() string {
	return f.path
}

func (f *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	settings, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := settings[key]
	return v, ok, nil
}

func (f *FileKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	settings, err := f.load()
	if err != nil {
		return err
	}
	settings[key] = value
	return f.save(settings)
}

func (f *FileKV) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	settings, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := settings[key]; !ok {
		return nil
	}
	delete(settings, key)
	return f.save(settings)
}

// load reads the file and drops keys the schema rejects. Caller must hold
// f.mu.
func (f *FileKV) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	settings := map[string]string{}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, f.path, err)
	}
	if settings == nil {
		// An empty document decodes to a nil map.
		settings = map[string]string{}
	}
	f.dropInvalid(settings)
	return settings, nil
}

// dropInvalid removes every key whose value breaks the schema on its own.
func (f *FileKV) dropInvalid(settings map[string]string) {
	if f.validate(settings) == nil {
		return
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := f.validate(map[string]string{k: settings[k]}); err != nil {
			f.logger.Warn("ignoring invalid setting", "path", f.path, "key", k, "value", settings[k])
			delete(settings, k)
		}
	}
}

func (f *FileKV) validate(settings map[string]string) error {
	v := f.schema.Unify(f.schema.Context().Encode(settings))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSettings, f.path, err)
	}
	return nil
}

// save validates and atomically replaces the file. Caller must hold f.mu.
func (f *FileKV) save(settings map[string]string) error {
	if err := f.validate(settings); err != nil {
		return err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	// Write to temp file, then rename
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

// MemoryKV is an in-process KV. The zero value is ready to use.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
