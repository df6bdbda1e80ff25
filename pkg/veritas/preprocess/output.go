package preprocess

import "strings"

// Output is the result of Process. Tokens is set in ModeTokens, Text in
// ModeText.
type Output struct {
	Mode   Mode
	Tokens []string
	Text   string
}

// Empty reports whether the output carries no content.
func (o Output) Empty() bool {
	if o.Mode == ModeText {
		return o.Text == ""
	}
	return len(o.Tokens) == 0
}

// Len returns the number of tokens in ModeTokens and the number of
// whitespace-separated words in ModeText.
func (o Output) Len() int {
	if o.Mode == ModeText {
		return len(strings.Fields(o.Text))
	}
	return len(o.Tokens)
}

func (o Output) String() string {
	if o.Mode == ModeText {
		return o.Text
	}
	return strings.Join(o.Tokens, " ")
}
