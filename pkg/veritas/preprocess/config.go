package preprocess

import "fmt"

// Config selects which normalization stages run. The zero value runs none,
// which makes the pipeline a plain sentence-by-sentence tokenizer. Every
// combination of flags is valid.
type Config struct {
	CaseFold          bool `yaml:"case_fold" toml:"case_fold" json:"case_fold"`
	RemoveStopWords   bool `yaml:"remove_stop_words" toml:"remove_stop_words" json:"remove_stop_words"`
	RemovePunctuation bool `yaml:"remove_punctuation" toml:"remove_punctuation" json:"remove_punctuation"`
	Lemmatize         bool `yaml:"lemmatize" toml:"lemmatize" json:"lemmatize"`
	Stem              bool `yaml:"stem" toml:"stem" json:"stem"`
}

// Stage names one normalization step.
type Stage string

const (
	StageLemmatize         Stage = "lemmatize"
	StageStem              Stage = "stem"
	StageCaseFold          Stage = "case_fold"
	StageRemoveStopWords   Stage = "remove_stop_words"
	StageRemovePunctuation Stage = "remove_punctuation"
)

// Order is the fixed execution order of all stages.
var Order = []Stage{
	StageLemmatize,
	StageStem,
	StageCaseFold,
	StageRemoveStopWords,
	StageRemovePunctuation,
}

// Enabled reports whether the stage is switched on.
func (c Config) Enabled(s Stage) bool {
	switch s {
	case StageLemmatize:
		return c.Lemmatize
	case StageStem:
		return c.Stem
	case StageCaseFold:
		return c.CaseFold
	case StageRemoveStopWords:
		return c.RemoveStopWords
	case StageRemovePunctuation:
		return c.RemovePunctuation
	}
	return false
}

// Stages lists the enabled stages in execution order.
func (c Config) Stages() []Stage {
	var out []Stage
	for _, s := range Order {
		if c.Enabled(s) {
			out = append(out, s)
		}
	}
	return out
}

func (c Config) String() string {
	return fmt.Sprintf("%v", c.Stages())
}

// Mode is the shape of the pipeline output.
type Mode int

const (
	// ModeTokens produces one flat token list for the whole document.
	ModeTokens Mode = iota
	// ModeText detokenizes each sentence and joins them with a space.
	ModeText
)

func (m Mode) String() string {
	if m == ModeText {
		return "text"
	}
	return "tokens"
}

// ParseMode accepts "tokens" (or "") and "text".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "tokens":
		return ModeTokens, nil
	case "text":
		return ModeText, nil
	}
	return ModeTokens, fmt.Errorf("unknown output mode %q", s)
}
