package preprocess

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cognicore/veritas/pkg/veritas/linguistic"
)

// Punctuation is the set of ASCII punctuation characters removed by
// RemovePunctuation.
const Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// StopSet reports stop words. IsStop is expected to compare lowercased forms.
type StopSet interface {
	IsStop(token string) bool
}

// Stage functions never modify their input slice.

// Lemmatize tags tokens as they are and replaces each with its lemma for
// the tagged POS. Tokens the tagger cannot handle are treated as nouns.
func Lemmatize(tokens []string, tagger linguistic.Tagger, lem linguistic.Lemmatizer) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	tagged, err := tagger.Tag(tokens)
	if err != nil || len(tagged) != len(tokens) {
		tagged = make([]linguistic.Tagged, len(tokens))
		for i, tok := range tokens {
			tagged[i] = linguistic.Tagged{Token: tok, POS: linguistic.Noun}
		}
	}

	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = lem.Lemma(tok, tagged[i].POS)
	}
	return out, err
}

// Stem replaces each token with its stem.
func Stem(tokens []string, st linguistic.Stemmer) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = st.Stem(tok)
	}
	return out
}

// CaseFold lowercases every token using English case mapping.
func CaseFold(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	// Casers are stateful and must not be shared between goroutines.
	lower := cases.Lower(language.English)
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = lower.String(tok)
	}
	return out
}

// RemoveStopWords drops tokens whose lowercased form is a stop word.
func RemoveStopWords(tokens []string, stops StopSet) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !stops.IsStop(strings.ToLower(tok)) {
			out = append(out, tok)
		}
	}
	return out
}

// RemovePunctuation drops tokens that are a single punctuation character.
// Punctuation inside longer tokens ("U.S.", "--", "don't") is kept.
func RemovePunctuation(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !IsPunctuation(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// IsPunctuation reports whether token is exactly one ASCII punctuation character.
func IsPunctuation(token string) bool {
	return len(token) == 1 && strings.IndexByte(Punctuation, token[0]) >= 0
}
