package suggest

// Config holds step suggestion settings.
type Config struct {
	MinSteps    int
	MaxSteps    int
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for step suggestion.
func DefaultConfig() Config {
	return Config{
		MinSteps:    4,
		MaxSteps:    10,
		MaxTokens:   512,
		Temperature: 0.4,
	}
}
