package linguistic

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// suffix is a detachment rule: strip from, append to.
type suffix struct {
	from, to string
}

// Detachment rules per POS, tried in order. A candidate listed as a lemma
// of the word wins; otherwise the first candidate that is a headword in its
// own right is used.
var detachments = map[POS][]suffix{
	Noun: {
		{"ves", "f"}, {"ves", "fe"}, {"ies", "y"}, {"ses", "s"}, {"xes", "x"},
		{"zes", "z"}, {"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"s", ""},
	},
	Verb: {
		{"ies", "y"}, {"es", "e"}, {"es", ""}, {"ed", "e"}, {"ed", ""},
		{"ing", "e"}, {"ing", ""}, {"s", ""},
	},
	Adjective: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"}, {"ier", "y"}, {"iest", "y"},
	},
}

// irregularVerbs covers auxiliaries whose suffix rules hit unrelated
// headwords ("does" -> "doe", "has" -> "ha").
var irregularVerbs = map[string]string{
	"am": "be", "is": "be", "are": "be", "was": "be", "were": "be", "been": "be", "being": "be",
	"has": "have", "had": "have", "having": "have",
	"does": "do", "did": "do", "done": "do", "doing": "do",
	"goes": "go", "went": "go", "gone": "go",
}

// GolemLemmatizer looks lemmas up in the golem English dictionary and uses
// the POS to choose between competing lemmas ("leaves" is "leaf" as a noun
// and "leave" as a verb).
type GolemLemmatizer struct {
	lem *golem.Lemmatizer
}

// NewGolemLemmatizer loads the English lemma dictionary.
func NewGolemLemmatizer() (*GolemLemmatizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemma dictionary: %w", err)
	}
	return &GolemLemmatizer{lem: lem}, nil
}

// Lemma implements Lemmatizer.
func (g *GolemLemmatizer) Lemma(token string, pos POS) string {
	lower := strings.ToLower(token)
	if pos == Verb {
		if base, ok := irregularVerbs[lower]; ok {
			return matchCase(token, base)
		}
	}
	if !g.lem.InDict(lower) {
		return token
	}

	lemmas := g.lem.Lemmas(lower)
	if len(lemmas) == 0 {
		return token
	}
	known := make(map[string]struct{}, len(lemmas))
	for _, l := range lemmas {
		known[l] = struct{}{}
	}

	// Dictionary lemmas carry no POS: a verb may be listed only under its
	// noun reading ("leaves": leaf, leaves). Verbs always accept a headword
	// candidate; other POS only when the word is not a lemma itself ("news"
	// stays "news").
	_, isLemma := known[lower]
	if cand, ok := g.detach(lower, pos, known, pos == Verb || !isLemma); ok {
		return matchCase(token, cand)
	}

	// No rule applies. Irregular verbs and adjectives take another lemma
	// (made -> make, better -> good). Past forms never end in -er, so a verb
	// like "better" or "offer" that is its own lemma stays.
	keepVerb := isLemma && strings.HasSuffix(lower, "er")
	if pos == Adjective || (pos == Verb && !keepVerb) {
		for _, l := range lemmas {
			if l != lower {
				return matchCase(token, l)
			}
		}
	}
	if isLemma {
		return token
	}
	return matchCase(token, lemmas[0])
}

// detach applies the rules for pos. Only rules of that POS are tried.
func (g *GolemLemmatizer) detach(lower string, pos POS, known map[string]struct{}, headwords bool) (string, bool) {
	headword := ""
	for _, rule := range detachments[pos] {
		if !strings.HasSuffix(lower, rule.from) || len(lower) <= len(rule.from) {
			continue
		}
		if rule.from == "s" && strings.HasSuffix(lower, "ss") {
			continue
		}
		cand := lower[:len(lower)-len(rule.from)] + rule.to
		if _, ok := known[cand]; ok {
			return cand, true
		}
		if headwords && headword == "" && g.isHeadword(cand) {
			headword = cand
		}
	}
	return headword, headword != ""
}

// isHeadword reports whether word is in the dictionary as its own lemma.
func (g *GolemLemmatizer) isHeadword(word string) bool {
	if !g.lem.InDict(word) {
		return false
	}
	for _, l := range g.lem.Lemmas(word) {
		if l == word {
			return true
		}
	}
	return false
}

// matchCase copies the letter case of orig onto the prefix that lemma
// shares with it.
func matchCase(orig, lemma string) string {
	if orig == strings.ToLower(orig) {
		return lemma
	}

	var b strings.Builder
	rest := lemma
	for _, r := range orig {
		lr, size := utf8.DecodeRuneInString(rest)
		if size == 0 || unicode.ToLower(r) != lr {
			break
		}
		b.WriteRune(r)
		rest = rest[size:]
	}
	b.WriteString(rest)
	return b.String()
}
