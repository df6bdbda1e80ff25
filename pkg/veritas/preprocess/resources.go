package preprocess

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cognicore/veritas/pkg/veritas/internalerr"
	"github.com/cognicore/veritas/pkg/veritas/linguistic"
	"github.com/cognicore/veritas/pkg/veritas/stoplist"
)

// Resources bundles the linguistic capabilities a pipeline draws on.
// A Resources value is shared by every pipeline built from it and must not
// be modified once a pipeline uses it.
type Resources struct {
	Splitter    linguistic.SentenceSplitter
	Tokenizer   linguistic.WordTokenizer
	Tagger      linguistic.Tagger
	Lemmatizer  linguistic.Lemmatizer
	Stemmer     linguistic.Stemmer
	Detokenizer linguistic.Detokenizer
	StopWords   StopSet
}

var (
	defaultOnce sync.Once
	defaultRes  *Resources
	defaultErr  error
)

// DefaultResources returns the process-wide English resources, loading them
// on first use. Later calls return the same value, or the same error.
func DefaultResources() (*Resources, error) {
	defaultOnce.Do(func() {
		defaultRes, defaultErr = LoadEnglish(nil)
	})
	return defaultRes, defaultErr
}

// LoadEnglish loads a fresh set of English resources. A nil stops uses the
// embedded English stop-word list.
func LoadEnglish(stops StopSet) (*Resources, error) {
	pr, err := linguistic.NewProse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrResourceUnavailable, err)
	}

	lem, err := linguistic.NewGolemLemmatizer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrResourceUnavailable, err)
	}

	if stops == nil {
		english, err := stoplist.English()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", internalerr.ErrResourceUnavailable, err)
		}
		stops = english
	}

	return &Resources{
		Splitter:    pr,
		Tokenizer:   pr,
		Tagger:      pr,
		Lemmatizer:  lem,
		Stemmer:     linguistic.SnowballStemmer{},
		Detokenizer: linguistic.TreebankDetokenizer{},
		StopWords:   stops,
	}, nil
}

// WithStopWords returns a copy of r using a different stop-word set.
func (r *Resources) WithStopWords(stops StopSet) *Resources {
	cp := *r
	cp.StopWords = stops
	return &cp
}

// check lists resources needed by cfg that are missing.
func (r *Resources) check(cfg Config) error {
	var missing []string
	if r.Splitter == nil {
		missing = append(missing, "sentence splitter")
	}
	if r.Tokenizer == nil {
		missing = append(missing, "word tokenizer")
	}
	if cfg.Lemmatize && r.Tagger == nil {
		missing = append(missing, "pos tagger")
	}
	if cfg.Lemmatize && r.Lemmatizer == nil {
		missing = append(missing, "lemmatizer")
	}
	if cfg.Stem && r.Stemmer == nil {
		missing = append(missing, "stemmer")
	}
	if cfg.RemoveStopWords && r.StopWords == nil {
		missing = append(missing, "stop words")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", internalerr.ErrResourceUnavailable, strings.Join(missing, ", "))
	}
	return nil
}
