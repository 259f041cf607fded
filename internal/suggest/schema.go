package suggest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/pathwise/internal/llm"
)

const stepsSchemaJSON = `{
  "type": "object",
  "properties": {
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1},
      "description": "Milestones in learning order, each a short imperative title (2-8 words)"
    }
  },
  "required": ["steps"],
  "additionalProperties": false
}`

const stepsSchemaURL = "schema://roadmap-steps.json"

// stepsFormat is sent with every suggestion request.
var stepsFormat = sync.OnceValue(func() *llm.Format {
	var def map[string]any
	if err := json.Unmarshal([]byte(stepsSchemaJSON), &def); err != nil {
		panic(fmt.Sprintf("steps schema: %v", err))
	}
	return &llm.Format{Name: "roadmap-steps", Schema: def}
})

var stepsValidator = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(stepsSchemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(stepsSchemaURL, doc); err != nil {
		return nil, err
	}
	return c.Compile(stepsSchemaURL)
})

// InvalidError is an answer that did not hold usable steps. Steps counts
// the entries that survived normalization.
type InvalidError struct {
	Raw   json.RawMessage
	Steps int
	Err   error
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid step suggestion (%d usable steps): %v", e.Steps, e.Err)
}

func (e *InvalidError) Unwrap() error { return e.Err }

type stepsOutput struct {
	Steps []string `json:"steps"`
}

// decodeSteps validates raw against the steps schema and returns the
// normalized step titles, at most limit of them when limit > 0.
func decodeSteps(raw json.RawMessage, limit int) ([]string, error) {
	schema, err := stepsValidator()
	if err != nil {
		return nil, fmt.Errorf("compile steps schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &InvalidError{Raw: raw, Err: fmt.Errorf("malformed JSON: %w", err)}
	}

	// Decoded before validation so a rejected answer still reports how
	// many steps it carried.
	var out stepsOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		out.Steps = nil
	}
	steps := normalize(out.Steps, limit)

	if err := schema.Validate(doc); err != nil {
		return nil, &InvalidError{Raw: raw, Steps: len(steps), Err: err}
	}
	if len(steps) == 0 {
		return nil, &InvalidError{Raw: raw, Err: ErrNoSteps}
	}
	return steps, nil
}

// normalize trims titles and drops blanks and case-insensitive duplicates.
func normalize(raw []string, limit int) []string {
	seen := make(map[string]bool, len(raw))
	var steps []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		steps = append(steps, s)
		if limit > 0 && len(steps) == limit {
			break
		}
	}
	return steps
}
