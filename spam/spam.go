// Package spam assigns a heuristic score to contact submissions so that
// obvious junk can be rejected without blocking legitimate messages.
package spam

import (
	"regexp"
	"strings"
)

// DefaultThreshold is the highest score a submission may carry and still
// be accepted. Scores above it are treated as spam.
const DefaultThreshold = 2

// Patterns are matched against the combined submission text. Every match
// counts toward the score; matches are not capped per pattern.
var defaultPatterns = []*regexp.Regexp{
	// URLs
	regexp.MustCompile(`(?i)https?://`),
	// Common promotional words
	regexp.MustCompile(`(?i)\b(buy|sale|discount|offer|deal|free|win|prize)\b`),
	// Obvious spam terms
	regexp.MustCompile(`(?i)(viagra|casino|lottery|inheritance)`),
}

// Scorer scores submission text against a fixed pattern set.
type Scorer struct {
	patterns  []*regexp.Regexp
	threshold int
}

// NewScorer creates a Scorer with the default pattern set. A non-positive
// threshold falls back to DefaultThreshold.
func NewScorer(threshold int) *Scorer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Scorer{patterns: defaultPatterns, threshold: threshold}
}

// Score lower-cases the space-joined fields and returns the total number
// of pattern matches across them.
func (s *Scorer) Score(fields ...string) int {
	combined := strings.ToLower(strings.Join(fields, " "))
	score := 0
	for _, pattern := range s.patterns {
		score += len(pattern.FindAllStringIndex(combined, -1))
	}
	return score
}

// IsSpam reports whether the combined fields score above the threshold.
func (s *Scorer) IsSpam(fields ...string) bool {
	return s.Score(fields...) > s.threshold
}
