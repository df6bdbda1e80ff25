package linguistic

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Prose implements SentenceSplitter, WordTokenizer and Tagger on top of
// prose: Punkt sentence segmentation, Treebank-style tokenization and an
// averaged perceptron tagger.
type Prose struct {
	model *prose.Model
}

// NewProse loads the tagging model once. The model is shared, read-only,
// by every subsequent call.
func NewProse() (*Prose, error) {
	doc, err := prose.NewDocument("warm up",
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("load prose model: %w", err)
	}
	if doc.Model == nil {
		return nil, fmt.Errorf("load prose model: no model")
	}
	return &Prose{model: doc.Model}, nil
}

// Split implements SentenceSplitter.
func (p *Prose) Split(document string) ([]string, error) {
	doc, err := prose.NewDocument(document,
		prose.UsingModel(p.model),
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("split sentences: %w", err)
	}

	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		if text := strings.TrimSpace(s.Text); text != "" {
			out = append(out, text)
		}
	}
	return out, nil
}

// Tokenize implements WordTokenizer.
func (p *Prose) Tokenize(sentence string) ([]string, error) {
	doc, err := prose.NewDocument(sentence,
		prose.UsingModel(p.model),
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	toks := doc.Tokens()
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Text)
	}
	return out, nil
}

// Tag implements Tagger. prose tags its own tokenization of the text, so
// the tokens are re-joined, tagged, and the tags aligned back onto the
// input. Tokens that cannot be aligned get an empty tag.
func (p *Prose) Tag(tokens []string) ([]Tagged, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	doc, err := prose.NewDocument(strings.Join(tokens, " "),
		prose.UsingModel(p.model),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("tag: %w", err)
	}

	toks := doc.Tokens()
	texts := make([]string, len(toks))
	tags := make([]string, len(toks))
	for i, t := range toks {
		texts[i] = t.Text
		tags[i] = t.Tag
	}

	aligned := alignTags(tokens, texts, tags)
	out := make([]Tagged, len(tokens))
	for i, tok := range tokens {
		out[i] = Tagged{Token: tok, Tag: aligned[i], POS: CoarsePOS(aligned[i])}
	}
	return out, nil
}

// alignTags maps tags of a re-tokenization (texts, tags) back onto tokens.
// A token split into several pieces takes the tag of its first piece.
func alignTags(tokens, texts, tags []string) []string {
	out := make([]string, len(tokens))
	j := 0
	for i, tok := range tokens {
		if j >= len(texts) {
			break
		}
		if texts[j] == tok {
			out[i] = tags[j]
			j++
			continue
		}

		var built strings.Builder
		k := j
		for k < len(texts) && built.Len() < len(tok) {
			built.WriteString(texts[k])
			k++
		}
		if built.String() == tok {
			out[i] = tags[j]
			j = k
		}
	}
	return out
}
