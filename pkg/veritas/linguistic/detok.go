package linguistic

import "strings"

var (
	attachLeft = map[string]struct{}{
		".": {}, ",": {}, ";": {}, ":": {}, "!": {}, "?": {}, "%": {},
		")": {}, "]": {}, "}": {}, "...": {},
	}
	attachRight = map[string]struct{}{
		"(": {}, "[": {}, "{": {}, "$": {}, "#": {},
	}
	clitics = map[string]struct{}{
		"'s": {}, "n't": {}, "'re": {}, "'ve": {}, "'ll": {}, "'d": {}, "'m": {}, "'": {},
	}
)

// TreebankDetokenizer reverses Penn Treebank style tokenization.
type TreebankDetokenizer struct{}

// Detokenize implements Detokenizer.
func (TreebankDetokenizer) Detokenize(tokens []string) string {
	var b strings.Builder
	inQuote := false
	glueNext := true

	for _, tok := range tokens {
		spaceBefore := !glueNext
		glueNext = false

		switch {
		case tok == "``" || (tok == `"` && !inQuote):
			tok = `"`
			inQuote = true
			glueNext = true
		case tok == "''" || tok == `"`:
			tok = `"`
			inQuote = false
			spaceBefore = false
		case isAttachLeft(tok):
			spaceBefore = false
		case isAttachRight(tok):
			glueNext = true
		}

		if spaceBefore {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	return b.String()
}

func isAttachLeft(tok string) bool {
	if _, ok := attachLeft[tok]; ok {
		return true
	}
	_, ok := clitics[strings.ToLower(tok)]
	return ok
}

func isAttachRight(tok string) bool {
	_, ok := attachRight[tok]
	return ok
}
