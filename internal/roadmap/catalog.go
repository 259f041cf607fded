package roadmap

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ErrNotFound is returned when a roadmap id is not in the catalog.
var ErrNotFound = errors.New("roadmap not found")

// Catalog is an immutable, ordered set of roadmaps. Step ids are unique
// across the whole catalog because they share one progress namespace.
type Catalog struct {
	roadmaps []Roadmap
	byID     map[string]int
	byStep   map[string]int
}

// catalogFile is the YAML document layout.
type catalogFile struct {
	Roadmaps []Roadmap `yaml:"roadmaps"`
}

// defaultCatalog is the built-in catalog, parsed once at init.
var defaultCatalog *Catalog

func init() {
	c, err := Parse(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("roadmap: invalid built-in catalog: %v", err))
	}
	defaultCatalog = c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Parse decodes a YAML catalog document and validates it.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Roadmaps...)
}

// LoadFile reads and parses a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// New builds a catalog from the given roadmaps, in order.
func New(roadmaps ...Roadmap) (*Catalog, error) {
	c := &Catalog{
		roadmaps: make([]Roadmap, 0, len(roadmaps)),
		byID:     make(map[string]int, len(roadmaps)),
		byStep:   make(map[string]int),
	}

	var errs []string
	for _, r := range roadmaps {
		if err := r.Validate(); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if IsCustomID(r.ID) {
			errs = append(errs, fmt.Sprintf("roadmap id %q is reserved for custom roadmaps", r.ID))
			continue
		}
		if _, dup := c.byID[r.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate roadmap id: %q", r.ID))
			continue
		}

		idx := len(c.roadmaps)
		for _, s := range r.Steps {
			if IsCustomID(s.ID) {
				errs = append(errs, fmt.Sprintf("step id %q is reserved for custom roadmaps", s.ID))
				continue
			}
			if owner, dup := c.byStep[s.ID]; dup {
				errs = append(errs, fmt.Sprintf("step id %q used by both %q and %q", s.ID, c.roadmaps[owner].ID, r.ID))
				continue
			}
			c.byStep[s.ID] = idx
		}
		c.byID[r.ID] = idx
		c.roadmaps = append(c.roadmaps, r.clone())
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return c, nil
}

// With returns a new catalog holding c's roadmaps followed by extra's.
func (c *Catalog) With(extra *Catalog) (*Catalog, error) {
	if extra == nil {
		return c, nil
	}
	return New(append(c.All(), extra.All()...)...)
}

// All returns every roadmap in catalog order.
func (c *Catalog) All() []Roadmap {
	out := make([]Roadmap, len(c.roadmaps))
	for i, r := range c.roadmaps {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of roadmaps.
func (c *Catalog) Len() int {
	return len(c.roadmaps)
}

// Get returns the roadmap with the given id.
func (c *Catalog) Get(id string) (Roadmap, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Roadmap{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.roadmaps[idx].clone(), nil
}

// FindStep returns the roadmap owning stepID and the step itself.
func (c *Catalog) FindStep(stepID string) (Roadmap, Step, bool) {
	idx, ok := c.byStep[stepID]
	if !ok {
		return Roadmap{}, Step{}, false
	}
	r := c.roadmaps[idx]
	for _, s := range r.Steps {
		if s.ID == stepID {
			return r.clone(), s, true
		}
	}
	return Roadmap{}, Step{}, false
}

func (r Roadmap) clone() Roadmap {
	r.Steps = slices.Clone(r.Steps)
	return r
}
