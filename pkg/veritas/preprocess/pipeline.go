package preprocess

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cognicore/veritas/pkg/veritas/internalerr"
	"github.com/cognicore/veritas/pkg/veritas/linguistic"
)

// Pipeline orchestrates per-sentence normalization:
// document → sentences → tokens → lemmatize → stem → case fold →
// stop words → punctuation → tokens or text.
//
// A Pipeline holds no mutable state; Process is safe for concurrent use.
type Pipeline struct {
	cfg    Config
	mode   Mode
	res    Resources
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMode selects the output shape. The default is ModeTokens.
func WithMode(m Mode) Option {
	return func(p *Pipeline) {
		p.mode = m
	}
}

// WithLogger sets the logger used to report degraded stages.
// If nil, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// NewPipeline creates a pipeline over shared resources. It fails with
// ErrResourceUnavailable when a resource needed by an enabled stage is
// missing, so problems surface before any document is processed.
func NewPipeline(cfg Config, res *Resources, opts ...Option) (*Pipeline, error) {
	if res == nil {
		return nil, fmt.Errorf("new pipeline: nil resources: %w", internalerr.ErrInvalidInput)
	}
	if err := res.check(cfg); err != nil {
		return nil, fmt.Errorf("new pipeline: %w", err)
	}

	p := &Pipeline{cfg: cfg, res: *res}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.res.Detokenizer == nil {
		p.res.Detokenizer = linguistic.TreebankDetokenizer{}
	}
	return p, nil
}

// Config returns the stage configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Mode returns the output mode.
func (p *Pipeline) Mode() Mode { return p.mode }

// Process runs a document through the pipeline and returns output in the
// configured mode. An empty document yields empty output.
func (p *Pipeline) Process(document string) Output {
	sentences := p.ProcessSentences(document)
	if p.mode == ModeText {
		return Output{Mode: ModeText, Text: p.join(sentences)}
	}
	return Output{Mode: ModeTokens, Tokens: flatten(sentences)}
}

// ProcessTokens returns the flat token list regardless of mode.
func (p *Pipeline) ProcessTokens(document string) []string {
	return flatten(p.ProcessSentences(document))
}

// ProcessText returns the reconstructed text regardless of mode.
func (p *Pipeline) ProcessText(document string) string {
	return p.join(p.ProcessSentences(document))
}

// Transform adapts the pipeline to a document transform.
func (p *Pipeline) Transform() func(string) []string {
	return p.ProcessTokens
}

// ProcessSentences returns the processed tokens of each sentence, in order.
func (p *Pipeline) ProcessSentences(document string) [][]string {
	if strings.TrimSpace(document) == "" {
		return nil
	}

	sentences, err := p.res.Splitter.Split(document)
	if err != nil {
		p.logger.Warn("sentence splitting failed, using whole document", "error", err)
		sentences = []string{document}
	}

	out := make([][]string, 0, len(sentences))
	for _, s := range sentences {
		out = append(out, p.processSentence(s))
	}
	return out
}

func (p *Pipeline) processSentence(sentence string) []string {
	tokens, err := p.res.Tokenizer.Tokenize(sentence)
	if err != nil {
		p.logger.Warn("tokenization failed, splitting on whitespace", "error", err)
		tokens = strings.Fields(sentence)
	}

	// Tagging must see the original word forms.
	if p.cfg.Lemmatize {
		lemmas, err := Lemmatize(tokens, p.res.Tagger, p.res.Lemmatizer)
		if err != nil {
			p.logger.Warn("pos tagging failed, lemmatizing as nouns", "error", err)
		}
		tokens = lemmas
	}

	if p.cfg.Stem {
		tokens = Stem(tokens, p.res.Stemmer)
	}

	if p.cfg.CaseFold {
		tokens = CaseFold(tokens)
	}

	if p.cfg.RemoveStopWords {
		tokens = RemoveStopWords(tokens, p.res.StopWords)
	}

	if p.cfg.RemovePunctuation {
		tokens = RemovePunctuation(tokens)
	}

	return tokens
}

// join detokenizes each non-empty sentence and joins them with one space.
func (p *Pipeline) join(sentences [][]string) string {
	parts := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if len(s) == 0 {
			continue
		}
		parts = append(parts, p.res.Detokenizer.Detokenize(s))
	}
	return strings.Join(parts, " ")
}

func flatten(sentences [][]string) []string {
	n := 0
	for _, s := range sentences {
		n += len(s)
	}
	out := make([]string, 0, n)
	for _, s := range sentences {
		out = append(out, s...)
	}
	return out
}
