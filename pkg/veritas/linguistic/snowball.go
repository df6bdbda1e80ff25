package linguistic

import "github.com/kljensen/snowball/english"

// SnowballStemmer is the English Snowball (Porter2) stemmer. Output is
// lowercase; stop words are stemmed like any other word. Stems can differ
// from the original Porter algorithm ("fairly" gives "fair", not "fairli").
type SnowballStemmer struct{}

// Stem implements Stemmer.
func (SnowballStemmer) Stem(token string) string {
	if token == "" {
		return token
	}
	return english.Stem(token, true)
}
