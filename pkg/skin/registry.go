package skin

import (
	"os"
	"slices"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/deckfit/pkg/errors"
)

// Registry holds skins by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	skins map[string]Skin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{skins: make(map[string]Skin)}
}

// Default returns a registry holding the built-in skins.
func Default() *Registry {
	r := NewRegistry()
	for _, s := range Builtins() {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}

// Register validates s and adds it. Names are unique.
func (r *Registry) Register(s Skin) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.skins[s.Name]; ok {
		return errs.New(errs.ErrCodeInvalidSkin, "skin %q already registered", s.Name)
	}
	r.skins[s.Name] = s
	return nil
}

// Get returns the named skin. An empty name selects DefaultName.
func (r *Registry) Get(name string) (Skin, error) {
	if name == "" {
		name = DefaultName
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.skins[name]
	if !ok {
		return Skin{}, errs.New(errs.ErrCodeNotFound, "unknown skin %q (available: %v)", name, r.namesLocked())
	}
	return s, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.skins))
	for name := range r.skins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the registered skins sorted by name.
func (r *Registry) List() []Skin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Skin, 0, len(r.skins))
	for _, name := range r.namesLocked() {
		out = append(out, r.skins[name])
	}
	return out
}

// file is the TOML layout of a skin file.
type file struct {
	Skins []Skin `toml:"skin"`
}

// LoadFile reads skins from a TOML file. Every skin is validated; keys the
// schema does not know are rejected.
func LoadFile(path string) ([]Skin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "skin file %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidSkin, err, "read skin file %s", path)
	}
	var f file
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidSkin, err, "decode skin file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidSkin, "unknown keys in %s: %v", path, undecoded)
	}
	if len(f.Skins) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidSkin, "%s defines no [[skin]] tables", path)
	}
	for _, s := range f.Skins {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Skins, nil
}

// LoadFile registers every skin in a TOML file. Nothing is registered if
// any skin fails.
func (r *Registry) LoadFile(path string) error {
	skins, err := LoadFile(path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range skins {
		_, exists := r.skins[s.Name]
		if exists || slices.ContainsFunc(skins[:i], func(o Skin) bool { return o.Name == s.Name }) {
			return errs.New(errs.ErrCodeInvalidSkin, "skin %q already registered", s.Name)
		}
	}
	for _, s := range skins {
		r.skins[s.Name] = s
	}
	return nil
}
