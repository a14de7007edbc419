package vocab

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"
)

//go:embed bundles/*.yaml
var builtin embed.FS

// Registry manages the language bundles.
type Registry interface {
	// Register adds or replaces a bundle
	Register(bundle *Bundle) error

	// Get returns the bundle for a language
	Get(language string) (*Bundle, bool)

	// Languages returns the registered languages, sorted
	Languages() []string

	// LoadDirectory loads bundle overrides from a directory
	LoadDirectory(dir string) error

	// LoadFile loads a single bundle file
	LoadFile(path string) error

	// Reload restores the built-in bundles and reapplies the directory
	Reload() error

	// Watch starts watching the override directory for changes
	Watch() error

	// StopWatch stops watching the override directory
	StopWatch()
}

// DefaultRegistry is the default Registry implementation.
type DefaultRegistry struct {
	mu       sync.RWMutex
	bundles  map[string]*Bundle
	files    map[string]string // path -> language
	dir      string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(event string, bundle *Bundle)
	logger   *log.Logger
}

// RegistryOption configures a registry.
type RegistryOption func(*DefaultRegistry)

// WithLogger sets the registry logger.
func WithLogger(logger *log.Logger) RegistryOption {
	return func(r *DefaultRegistry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates a registry holding the built-in bundles.
func NewRegistry(opts ...RegistryOption) (*DefaultRegistry, error) {
	r := &DefaultRegistry{
		bundles: make(map[string]*Bundle),
		files:   make(map[string]string),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.loadBuiltin(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewRegistryWithDirectory creates a registry and applies overrides from dir.
func NewRegistryWithDirectory(dir string, opts ...RegistryOption) (*DefaultRegistry, error) {
	r, err := NewRegistry(opts...)
	if err != nil {
		return nil, err
	}
	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// Builtin returns a freshly parsed built-in bundle.
func Builtin(language string) (*Bundle, error) {
	data, err := builtin.ReadFile("bundles/" + language + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no built-in bundle for %q: %w", language, err)
	}
	return Parse(data)
}

// MustBuiltin is Builtin for package-level initialisation and tests.
func MustBuiltin(language string) *Bundle {
	b, err := Builtin(language)
	if err != nil {
		panic(err)
	}
	return b
}

// Parse decodes, validates and compiles a bundle.
func Parse(data []byte) (*Bundle, error) {
	var bundle Bundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bundle: %w", err)
	}
	if err := bundle.Compile(); err != nil {
		return nil, fmt.Errorf("compiling bundle %q: %w", bundle.Language, err)
	}
	return &bundle, nil
}

func (r *DefaultRegistry) loadBuiltin() error {
	entries, err := builtin.ReadDir("bundles")
	if err != nil {
		return fmt.Errorf("reading built-in bundles: %w", err)
	}
	for _, entry := range entries {
		data, err := builtin.ReadFile("bundles/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		bundle, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if err := r.Register(bundle); err != nil {
			return err
		}
	}
	return nil
}

// Register adds or replaces a bundle.
func (r *DefaultRegistry) Register(bundle *Bundle) error {
	if bundle == nil {
		return fmt.Errorf("bundle cannot be nil")
	}
	if err := bundle.Validate(); err != nil {
		return fmt.Errorf("invalid bundle: %w", err)
	}
	if !bundle.IsCompiled() {
		if err := bundle.Compile(); err != nil {
			return fmt.Errorf("compiling bundle %q: %w", bundle.Language, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bundles[bundle.Language] = bundle
	return nil
}

// Get returns the bundle for a language.
func (r *DefaultRegistry) Get(language string) (*Bundle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bundle, ok := r.bundles[strings.ToLower(language)]
	return bundle, ok
}

// Languages returns the registered languages, sorted.
func (r *DefaultRegistry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	languages := make([]string, 0, len(r.bundles))
	for language := range r.bundles {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}

// Count returns the number of registered bundles.
func (r *DefaultRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bundles)
}

// LoadDirectory loads all YAML bundle files from a directory. A missing
// directory is not an error.
func (r *DefaultRegistry) LoadDirectory(dir string) error {
	r.dir = dir

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []string
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := r.LoadFile(path); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", entry.Name(), err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading bundles: %s", strings.Join(loadErrors, "; "))
	}
	return nil
}

// LoadFile loads a single bundle file.
func (r *DefaultRegistry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	bundle, err := Parse(data)
	if err != nil {
		return err
	}

	if err := r.Register(bundle); err != nil {
		return fmt.Errorf("registering bundle: %w", err)
	}

	r.mu.Lock()
	r.files[path] = bundle.Language
	r.mu.Unlock()

	r.logger.Debug("bundle loaded", "path", path, "language", bundle.Language, "version", bundle.Version)
	return nil
}

// Reload restores the built-in bundles and reapplies the override directory.
func (r *DefaultRegistry) Reload() error {
	r.mu.Lock()
	r.bundles = make(map[string]*Bundle)
	r.files = make(map[string]string)
	r.mu.Unlock()

	if err := r.loadBuiltin(); err != nil {
		return err
	}
	if r.dir == "" {
		return nil
	}
	return r.LoadDirectory(r.dir)
}

// SetOnChange sets a callback invoked after a bundle file changes.
func (r *DefaultRegistry) SetOnChange(fn func(event string, bundle *Bundle)) {
	r.onChange = fn
}

// Watch starts watching the override directory for changes.
func (r *DefaultRegistry) Watch() error {
	if r.dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	r.watcher = watcher
	r.stopChan = make(chan struct{})

	go r.watchLoop(watcher, r.stopChan)

	if err := watcher.Add(r.dir); err != nil {
		r.watcher.Close()
		return fmt.Errorf("watching directory %s: %w", r.dir, err)
	}

	return nil
}

func (r *DefaultRegistry) watchLoop(watcher *fsnotify.Watcher, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isYAML(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				r.handleFileChange(event.Name, "create")
			case event.Op&fsnotify.Write == fsnotify.Write:
				r.handleFileChange(event.Name, "modify")
			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				r.handleFileRemove(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("bundle watcher error", "error", err)
		}
	}
}

func (r *DefaultRegistry) handleFileChange(path string, eventType string) {
	if err := r.LoadFile(path); err != nil {
		r.logger.Error("bundle reload failed", "path", path, "error", err)
		return
	}

	r.mu.RLock()
	language := r.files[path]
	r.mu.RUnlock()

	bundle, ok := r.Get(language)
	r.logger.Info("bundle updated", "event", eventType, "language", language)
	if r.onChange != nil && ok {
		r.onChange(eventType, bundle)
	}
}

func (r *DefaultRegistry) handleFileRemove(path string) {
	// The removed file may have overridden a built-in bundle, so start over.
	if err := r.Reload(); err != nil {
		r.logger.Error("bundle reload failed", "path", path, "error", err)
	}
	r.logger.Info("bundle removed", "path", path)
	if r.onChange != nil {
		r.onChange("remove", nil)
	}
}

// StopWatch stops watching the override directory.
func (r *DefaultRegistry) StopWatch() {
	if r.stopChan != nil {
		close(r.stopChan)
		r.stopChan = nil
	}
	if r.watcher != nil {
		r.watcher.Close()
		r.watcher = nil
	}
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
