package stoplist

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestManagerBasic(t *testing.T) {
	stops := []string{"the", "a", "and"}
	mgr := NewManager(stops)

	if !mgr.IsStop("the") {
		t.Error("'the' should be a stopword")
	}

	if mgr.IsStop("hello") {
		t.Error("'hello' should not be a stopword")
	}
}

func TestManagerCaseInsensitive(t *testing.T) {
	mgr := NewManager([]string{"The"})

	if !mgr.IsStop("the") || !mgr.IsStop("THE") {
		t.Error("IsStop should compare lowercased forms")
	}
}

func TestManagerAddRemove(t *testing.T) {
	mgr := NewManager([]string{"the"})

	mgr.Add("Test")
	if !mgr.IsStop("test") {
		t.Error("'test' should be stopword after adding")
	}

	mgr.Remove("TEST")
	if mgr.IsStop("test") {
		t.Error("'test' should not be stopword after removing")
	}
}

func TestManagerAll(t *testing.T) {
	mgr := NewManager([]string{"the", "a", "and"})

	all := mgr.All()
	expected := []string{"a", "and", "the"}
	if len(all) != len(expected) {
		t.Fatalf("Expected %d stopwords, got %d", len(expected), len(all))
	}
	for i := range expected {
		if all[i] != expected[i] {
			t.Errorf("All()[%d] = %q, want %q", i, all[i], expected[i])
		}
	}
}

func TestEnglish(t *testing.T) {
	mgr, err := English()
	if err != nil {
		t.Fatalf("English: %v", err)
	}

	if mgr.Len() != 179 {
		t.Errorf("Expected 179 English stopwords, got %d", mgr.Len())
	}

	for _, w := range []string{"the", "are", "don't", "no", "on", "off", "y"} {
		if !mgr.IsStop(w) {
			t.Errorf("%q should be an English stopword", w)
		}
	}
	for _, w := range []string{"foxes", "running", "quickly"} {
		if mgr.IsStop(w) {
			t.Errorf("%q should not be an English stopword", w)
		}
	}

	again, _ := English()
	if again != mgr {
		t.Error("English should return the shared instance")
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stoplist.yaml")
	if err := os.WriteFile(path, []byte("terms:\n  - said\n  - Reuters\n"), 0644); err != nil {
		t.Fatal(err)
	}

	mgr, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if mgr.Len() != 2 || !mgr.IsStop("reuters") {
		t.Errorf("Unexpected stoplist contents: %v", mgr.All())
	}
}

func TestFromFileErrors(t *testing.T) {
	if _, err := FromFile("/nonexistent/stoplist.yaml"); err == nil {
		t.Error("Should error on missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("terms: [unclosed\n"), 0644)
	if _, err := FromFile(path); err == nil {
		t.Error("Should error on malformed YAML")
	}
}

func TestStatsFromFrequencies(t *testing.T) {
	freqs := map[string][]int{
		"said":  {5, 5},
		"alien": {4, 0},
	}

	stats := StatsFromFrequencies(freqs, 10)
	if len(stats) != 2 {
		t.Fatalf("Expected 2 stats, got %d", len(stats))
	}

	// sorted by token
	alien, said := stats[0], stats[1]
	if alien.Token != "alien" || said.Token != "said" {
		t.Fatalf("Unexpected order: %v", stats)
	}
	if said.DF != 10 || said.DFPercent != 100 {
		t.Errorf("said: DF=%d DFPercent=%f", said.DF, said.DFPercent)
	}
	if math.Abs(said.LabelEntropy-1) > 1e-9 {
		t.Errorf("Evenly spread term should have entropy 1, got %f", said.LabelEntropy)
	}
	if alien.LabelEntropy != 0 {
		t.Errorf("Single-label term should have entropy 0, got %f", alien.LabelEntropy)
	}

	if StatsFromFrequencies(freqs, 0) != nil {
		t.Error("Zero documents should produce no stats")
	}
}

func TestSuggestCandidates(t *testing.T) {
	mgr := NewManager([]string{"the"})

	stats := []Stats{
		{Token: "the", DFPercent: 99, LabelEntropy: 1},     // already a stopword
		{Token: "said", DFPercent: 85, LabelEntropy: 0.95}, // candidate
		{Token: "hoax", DFPercent: 70, LabelEntropy: 0.2},  // label-specific
		{Token: "news", DFPercent: 65, LabelEntropy: 0.9},  // candidate
		{Token: "mars", DFPercent: 10, LabelEntropy: 0.9},  // rare
	}

	candidates := mgr.SuggestCandidates(stats, DefaultThresholds())
	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d: %v", len(candidates), candidates)
	}
	if candidates[0].Token != "said" || candidates[1].Token != "news" {
		t.Errorf("Candidates should be ranked by score, got %v", candidates)
	}
}
