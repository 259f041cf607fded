package progress

import "github.com/abhisek/pathwise/internal/roadmap"

// CompletedCount returns how many of r's steps are marked complete.
func (s *Store) CompletedCount(r roadmap.Roadmap) int {
	n := 0
	for _, step := range r.Steps {
		if s.flags[step.ID] {
			n++
		}
	}
	return n
}

// CompletionRatio returns the percentage of r's steps marked complete,
// rounded half up to an integer in [0, 100]. It is recomputed on every call.
func (s *Store) CompletionRatio(r roadmap.Roadmap) int {
	return Percent(s.CompletedCount(r), len(r.Steps))
}

// Percent computes round_half_up(done/total*100) in integer arithmetic.
// A zero total yields 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*done + total) / (2 * total)
}
