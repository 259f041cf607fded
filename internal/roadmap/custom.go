package roadmap

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CustomID is the id given to every user-authored roadmap in IDFixed mode.
const CustomID = "custom"

const (
	customDescription     = "Your personalized learning journey"
	customStepDescription = "Complete this learning milestone"
)

// IDMode selects how custom roadmaps are identified.
type IDMode string

const (
	// IDFixed reuses "custom" for every custom roadmap. Step flags of a new
	// custom roadmap alias those of the previous one by position.
	IDFixed IDMode = "fixed"

	// IDUnique gives each custom roadmap a fresh "custom-<uuid>" id.
	IDUnique IDMode = "unique"
)

// ParseIDMode parses a mode name. The empty string means IDFixed.
func ParseIDMode(s string) (IDMode, error) {
	switch IDMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", IDFixed:
		return IDFixed, nil
	case IDUnique:
		return IDUnique, nil
	default:
		return "", fmt.Errorf("invalid custom id mode %q (want fixed or unique)", s)
	}
}

// IsCustomID reports whether id lies in the namespace used by custom roadmaps.
func IsCustomID(id string) bool {
	return id == CustomID || strings.HasPrefix(id, CustomID+"-")
}

// NewCustom builds a user-authored roadmap. Step ids are derived from
// position: "<roadmap id>-0", "<roadmap id>-1", and so on. Callers are
// expected to have validated that topic and steps are non-empty.
func NewCustom(topic string, steps []string, mode IDMode) Roadmap {
	id := CustomID
	if mode == IDUnique {
		id = CustomID + "-" + uuid.NewString()
	}

	r := Roadmap{
		ID:          id,
		Title:       topic,
		Description: customDescription,
		Theme:       ThemeGreen,
		Steps:       make([]Step, len(steps)),
	}
	for i, text := range steps {
		r.Steps[i] = Step{
			ID:          fmt.Sprintf("%s-%d", id, i),
			Title:       text,
			Description: customStepDescription,
		}
	}
	return r
}
