package roadmap

import (
	"fmt"
	"strings"
)

// Theme is the visual accent token of a roadmap. It only affects rendering.
type Theme string

const (
	ThemeBlue   Theme = "blue"
	ThemePurple Theme = "purple"
	ThemeGreen  Theme = "green"
)

// Step is one unit of a roadmap. Completion is not stored here; it is looked
// up in the progress store by ID.
type Step struct {
	ID            string `yaml:"id"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	ReferenceLink string `yaml:"link,omitempty"`
}

// HasLink reports whether the step carries a reference link.
func (s Step) HasLink() bool {
	return s.ReferenceLink != ""
}

// Roadmap is a named, ordered collection of learning steps.
type Roadmap struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Theme       Theme  `yaml:"theme"`
	Steps       []Step `yaml:"steps"`
}

// StepIDs returns the step identifiers in presentation order.
func (r Roadmap) StepIDs() []string {
	ids := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		ids[i] = s.ID
	}
	return ids
}

// HasStep reports whether id names one of the roadmap's steps.
func (r Roadmap) HasStep(id string) bool {
	for _, s := range r.Steps {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants of a roadmap: an id and title,
// at least one step, and unique non-empty step ids.
// Returns a combined error describing all problems found, or nil if valid.
func (r Roadmap) Validate() error {
	var errs []string

	if strings.TrimSpace(r.ID) == "" {
		errs = append(errs, "missing roadmap id")
	}
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, "missing title")
	}
	if len(r.Steps) == 0 {
		errs = append(errs, "roadmap has no steps")
	}

	seen := make(map[string]bool, len(r.Steps))
	for i, s := range r.Steps {
		if strings.TrimSpace(s.ID) == "" {
			errs = append(errs, fmt.Sprintf("step %d has no id", i+1))
			continue
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate step id: %q", s.ID))
		}
		seen[s.ID] = true
		if strings.TrimSpace(s.Title) == "" {
			errs = append(errs, fmt.Sprintf("step %q has no title", s.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("roadmap %q is invalid:\n  %s", r.ID, strings.Join(errs, "\n  "))
	}
	return nil
}
