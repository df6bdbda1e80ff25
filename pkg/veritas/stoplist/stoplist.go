package stoplist

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed english.yaml
var englishYAML []byte

// File is the on-disk stop-word list format.
type File struct {
	Terms []string `yaml:"terms"`
}

// Manager holds a set of lowercased stop words.
// Concurrent IsStop calls are safe as long as no Add/Remove runs at the same time.
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a new stoplist manager
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		stops[strings.ToLower(s)] = struct{}{}
	}
	return &Manager{stops: stops}
}

// Parse reads a YAML stop-word list.
func Parse(data []byte) (*Manager, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse stoplist: %w", err)
	}
	return NewManager(f.Terms), nil
}

// FromFile loads stopwords from a YAML file
func FromFile(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stoplist %s: %w", path, err)
	}
	return Parse(data)
}

var (
	englishOnce sync.Once
	english     *Manager
	englishErr  error
)

// English returns the shared English stop-word list. It is parsed once;
// callers must treat the result as read-only.
func English() (*Manager, error) {
	englishOnce.Do(func() {
		english, englishErr = Parse(englishYAML)
	})
	return english, englishErr
}

// IsStop reports whether the lowercased token is a stopword.
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[strings.ToLower(token)]
	return ok
}

// Add adds a token to the stoplist
func (m *Manager) Add(token string) {
	m.stops[strings.ToLower(token)] = struct{}{}
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, strings.ToLower(token))
}

// Len returns the number of stopwords.
func (m *Manager) Len() int {
	return len(m.stops)
}

// All returns all stopwords, sorted.
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// Stats holds corpus statistics for candidate evaluation
type Stats struct {
	Token        string
	DF           int
	DFPercent    float64
	LabelEntropy float64 // normalized to [0,1]; 1 means evenly spread over labels
}

// Candidate represents a candidate stopword
type Candidate struct {
	Token string
	Stats Stats
	Score float64 // confidence score
}

// Thresholds defines criteria for stopword identification
type Thresholds struct {
	DFPercent    float64 // e.g., 60% - appears in 60% of documents
	LabelEntropy float64 // e.g., 0.8 - nearly uniform across labels
}

// DefaultThresholds returns sensible default thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DFPercent:    60.0,
		LabelEntropy: 0.8,
	}
}

// StatsFromFrequencies builds candidate statistics from per-label document
// frequencies (term -> documents containing it, indexed by label).
func StatsFromFrequencies(freqs map[string][]int, totalDocs int) []Stats {
	if totalDocs <= 0 {
		return nil
	}
	stats := make([]Stats, 0, len(freqs))
	for token, perLabel := range freqs {
		df := 0
		for _, n := range perLabel {
			df += n
		}
		stats = append(stats, Stats{
			Token:        token,
			DF:           df,
			DFPercent:    100 * float64(df) / float64(totalDocs),
			LabelEntropy: normalizedEntropy(perLabel),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Token < stats[j].Token })
	return stats
}

func normalizedEntropy(counts []int) float64 {
	if len(counts) < 2 {
		return 0
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, n := range counts {
		if n == 0 {
			continue
		}
		p := float64(n) / float64(total)
		h -= p * math.Log(p)
	}
	return h / math.Log(float64(len(counts)))
}

// SuggestCandidates suggests tokens that should be stopwords: frequent across
// the corpus and carrying little label information. Highest score first.
func (m *Manager) SuggestCandidates(stats []Stats, thresholds Thresholds) []Candidate {
	var candidates []Candidate

	for _, s := range stats {
		if m.IsStop(s.Token) {
			continue // already a stopword
		}
		if s.DFPercent <= thresholds.DFPercent || s.LabelEntropy < thresholds.LabelEntropy {
			continue
		}
		candidates = append(candidates, Candidate{
			Token: s.Token,
			Stats: s,
			Score: (s.DFPercent/100.0 + s.LabelEntropy) / 2.0,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Token < candidates[j].Token
	})
	return candidates
}
