// Package builder holds the editable state behind the custom roadmap form:
// an ordered list of step text slots plus the submit-time validation.
package builder

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/pathwise/internal/roadmap"
)

var (
	ErrEmptyTopic = errors.New("topic is empty")
	ErrEmptyStep  = errors.New("step is empty")
)

// Builder collects the step texts of a custom roadmap.
type Builder struct {
	slots []string
	mode  roadmap.IDMode
}

// New creates a Builder with a single empty slot.
func New(mode roadmap.IDMode) *Builder {
	return &Builder{
		slots: []string{""},
		mode:  mode,
	}
}

// Slots returns a copy of the current slot texts.
func (b *Builder) Slots() []string {
	return slices.Clone(b.slots)
}

// Len returns the number of slots.
func (b *Builder) Len() int {
	return len(b.slots)
}

// Slot returns the text at index i, or "" when out of range.
func (b *Builder) Slot(i int) string {
	if i < 0 || i >= len(b.slots) {
		return ""
	}
	return b.slots[i]
}

// AddSlot appends one empty slot.
func (b *Builder) AddSlot() {
	b.slots = append(b.slots, "")
}

// UpdateSlot replaces the text at index i. Out-of-range indices are ignored.
func (b *Builder) UpdateSlot(i int, text string) {
	if i < 0 || i >= len(b.slots) {
		return
	}
	b.slots[i] = text
}

// RemoveSlot removes the slot at index i. The last remaining slot is never
// removed.
func (b *Builder) RemoveSlot(i int) {
	if len(b.slots) <= 1 || i < 0 || i >= len(b.slots) {
		return
	}
	b.slots = slices.Delete(b.slots, i, i+1)
}

// SetSlots replaces every slot with texts. An empty list leaves one empty slot.
func (b *Builder) SetSlots(texts []string) {
	if len(texts) == 0 {
		b.slots = []string{""}
		return
	}
	b.slots = slices.Clone(texts)
}

// Validate reports why topic and the current slots cannot be submitted.
func (b *Builder) Validate(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return ErrEmptyTopic
	}
	for i, s := range b.slots {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: step %d", ErrEmptyStep, i+1)
		}
	}
	return nil
}

// Submit builds the custom roadmap. On validation failure nothing changes
// and no roadmap is produced.
func (b *Builder) Submit(topic string) (roadmap.Roadmap, error) {
	if err := b.Validate(topic); err != nil {
		return roadmap.Roadmap{}, err
	}

	steps := make([]string, 0, len(b.slots))
	for _, s := range b.slots {
		if strings.TrimSpace(s) != "" {
			steps = append(steps, s)
		}
	}
	return roadmap.NewCustom(topic, steps, b.mode), nil
}
