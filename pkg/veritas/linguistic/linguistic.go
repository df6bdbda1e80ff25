// Package linguistic defines the external language capabilities the
// preprocessing pipeline relies on (sentence splitting, tokenization,
// part-of-speech tagging, lemma lookup, stemming, detokenization) and
// English implementations backed by third-party toolkits.
//
// Implementations are read-only after construction and safe for
// concurrent use.
package linguistic

import "strings"

// SentenceSplitter divides a document into ordered sentences.
type SentenceSplitter interface {
	Split(document string) ([]string, error)
}

// WordTokenizer divides a sentence into ordered word and punctuation tokens.
type WordTokenizer interface {
	Tokenize(sentence string) ([]string, error)
}

// Tagger assigns a part-of-speech tag to each token. The result has the
// same length and order as the input.
type Tagger interface {
	Tag(tokens []string) ([]Tagged, error)
}

// Lemmatizer returns the dictionary form of a token for the given POS.
type Lemmatizer interface {
	Lemma(token string, pos POS) string
}

// Stemmer returns the rule-based stem of a token.
type Stemmer interface {
	Stem(token string) string
}

// Detokenizer reassembles tokens into fluent text.
type Detokenizer interface {
	Detokenize(tokens []string) string
}

// Tagged is a token with its fine-grained (Penn Treebank) tag and the
// coarse POS derived from it.
type Tagged struct {
	Token string
	Tag   string
	POS   POS
}

// POS is a coarse part of speech used to disambiguate lemmatization.
type POS int

const (
	Noun POS = iota
	Verb
	Adjective
	Adverb
)

func (p POS) String() string {
	switch p {
	case Verb:
		return "verb"
	case Adjective:
		return "adjective"
	case Adverb:
		return "adverb"
	default:
		return "noun"
	}
}

// CoarsePOS maps a Penn Treebank tag onto a coarse POS. Unrecognized tags,
// including the empty tag, map to Noun.
func CoarsePOS(tag string) POS {
	switch {
	case strings.HasPrefix(tag, "JJ"):
		return Adjective
	case strings.HasPrefix(tag, "VB"):
		return Verb
	case strings.HasPrefix(tag, "RB"):
		return Adverb
	default:
		return Noun
	}
}
