package preprocess

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/cognicore/veritas/pkg/veritas/internalerr"
	"github.com/cognicore/veritas/pkg/veritas/linguistic"
	"github.com/cognicore/veritas/pkg/veritas/stoplist"
)

func defaultResources(t *testing.T) *Resources {
	t.Helper()
	res, err := DefaultResources()
	if err != nil {
		t.Fatalf("DefaultResources: %v", err)
	}
	return res
}

func newPipeline(t *testing.T, cfg Config, opts ...Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg, defaultResources(t), opts...)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}

// lineSplitter treats each line as a sentence.
type lineSplitter struct{}

func (lineSplitter) Split(doc string) ([]string, error) {
	var out []string
	for _, l := range strings.Split(doc, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out, nil
}

type fieldsTokenizer struct{}

func (fieldsTokenizer) Tokenize(s string) ([]string, error) { return strings.Fields(s), nil }

type failingSplitter struct{}

func (failingSplitter) Split(string) ([]string, error) { return nil, errors.New("boom") }

func fakeResources(tagger linguistic.Tagger) *Resources {
	return &Resources{
		Splitter:   lineSplitter{},
		Tokenizer:  fieldsTokenizer{},
		Tagger:     tagger,
		Lemmatizer: fakeLemmatizer{},
		Stemmer:    linguistic.SnowballStemmer{},
		StopWords:  stoplist.NewManager([]string{"the", "he"}),
	}
}

func TestPipelineFoxesExample(t *testing.T) {
	p := newPipeline(t, Config{CaseFold: true, RemoveStopWords: true, RemovePunctuation: true})

	got := p.Process("The foxes are running quickly.")
	want := []string{"foxes", "running", "quickly"}
	if got.Mode != ModeTokens || !reflect.DeepEqual(got.Tokens, want) {
		t.Errorf("Process = %v, want %v", got.Tokens, want)
	}
}

func TestPipelinePassthrough(t *testing.T) {
	p := newPipeline(t, Config{})

	got := p.Process("Dogs bark.")
	want := []string{"Dogs", "bark", "."}
	if !reflect.DeepEqual(got.Tokens, want) {
		t.Errorf("Process = %v, want %v", got.Tokens, want)
	}
}

func TestPipelinePassthroughMatchesTokenizer(t *testing.T) {
	res := defaultResources(t)
	p := newPipeline(t, Config{})

	doc := `Mr. Smith paid $4.50 for "fresh" bread. Was it worth it? He thinks so!`
	sents, err := res.Splitter.Split(doc)
	if err != nil {
		t.Fatal(err)
	}
	var want []string
	for _, s := range sents {
		toks, err := res.Tokenizer.Tokenize(s)
		if err != nil {
			t.Fatal(err)
		}
		want = append(want, toks...)
	}

	if got := p.ProcessTokens(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("Passthrough = %v, want %v", got, want)
	}
}

func TestPipelineEmptyDocument(t *testing.T) {
	all := Config{CaseFold: true, RemoveStopWords: true, RemovePunctuation: true, Lemmatize: true, Stem: true}
	for _, cfg := range []Config{{}, all} {
		for _, doc := range []string{"", "   \n\t"} {
			tok := newPipeline(t, cfg).Process(doc)
			if tok.Mode != ModeTokens || len(tok.Tokens) != 0 || !tok.Empty() {
				t.Errorf("Empty document should produce no tokens, got %v", tok.Tokens)
			}

			txt := newPipeline(t, cfg, WithMode(ModeText)).Process(doc)
			if txt.Mode != ModeText || txt.Text != "" || !txt.Empty() {
				t.Errorf("Empty document should produce empty text, got %q", txt.Text)
			}
		}
	}
}

func TestPipelineOnlyStopWords(t *testing.T) {
	p := newPipeline(t, Config{RemoveStopWords: true, RemovePunctuation: true}, WithMode(ModeText))

	if got := p.Process("The and the of in a."); !got.Empty() {
		t.Errorf("Only stop words should produce empty output, got %q", got.Text)
	}
}

func TestPipelineTextMode(t *testing.T) {
	p := newPipeline(t, Config{}, WithMode(ModeText))

	got := p.Process("Dogs bark. Cats meow.")
	if got.Mode != ModeText || got.Text != "Dogs bark. Cats meow." {
		t.Errorf("Text mode = %q", got.Text)
	}
}

func TestPipelineTextModeCaseFoldIsPerToken(t *testing.T) {
	p := newPipeline(t, Config{CaseFold: true, RemoveStopWords: true}, WithMode(ModeText))

	got := p.Process("The foxes are running quickly. Dogs bark!")
	if got.Text != "foxes running quickly. dogs bark!" {
		t.Errorf("Text mode = %q", got.Text)
	}
	if p.ProcessText("The foxes are running quickly. Dogs bark!") != got.Text {
		t.Error("ProcessText should match text-mode Process")
	}
}

func TestPipelineStemming(t *testing.T) {
	p := newPipeline(t, Config{Stem: true, RemovePunctuation: true})

	got := p.ProcessTokens("Running dogs barked.")
	want := []string{"run", "dog", "bark"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Stemming = %v, want %v", got, want)
	}
}

func TestPipelineLemmaBeforeStem(t *testing.T) {
	tagger := &fakeTagger{}
	p, err := NewPipeline(Config{Lemmatize: true, Stem: true}, fakeResources(tagger))
	if err != nil {
		t.Fatal(err)
	}

	got := p.ProcessTokens("The leaves fall\nHe leaves early")
	want := []string{"the", "leaf", "fall", "he", "leav", "earli"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lemma then stem = %v, want %v", got, want)
	}

	// the tagger saw the original word forms
	if !reflect.DeepEqual(tagger.seen, [][]string{{"The", "leaves", "fall"}, {"He", "leaves", "early"}}) {
		t.Errorf("Tagger saw %v", tagger.seen)
	}
}

func TestPipelineLemmaBeforeStemEnglish(t *testing.T) {
	p := newPipeline(t, Config{Lemmatize: true, Stem: true})

	got := p.ProcessTokens("He leaves early.")
	want := []string{"he", "leav", "earli", "."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Verb reading = %v, want %v", got, want)
	}

	got = p.ProcessTokens("The leaves fall.")
	if len(got) < 2 || got[1] != "leaf" {
		t.Errorf("Noun reading = %v, want leaf at position 1", got)
	}
}

func TestPipelineStageOrder(t *testing.T) {
	tagger := &fakeTagger{}
	cfg := Config{Lemmatize: true, Stem: true, CaseFold: true, RemoveStopWords: true, RemovePunctuation: true}
	p, err := NewPipeline(cfg, fakeResources(tagger))
	if err != nil {
		t.Fatal(err)
	}

	got := p.ProcessTokens("The leaves fall !")
	if !reflect.DeepEqual(got, []string{"leaf", "fall"}) {
		t.Errorf("All stages = %v", got)
	}

	if !reflect.DeepEqual(cfg.Stages(), Order) {
		t.Errorf("Stages() = %v, want %v", cfg.Stages(), Order)
	}
	if got := (Config{RemovePunctuation: true, Stem: true}).Stages(); !reflect.DeepEqual(got, []Stage{StageStem, StageRemovePunctuation}) {
		t.Errorf("Stages() = %v", got)
	}
}

func TestPipelineStageOrderEnglish(t *testing.T) {
	cfg := Config{Lemmatize: true, Stem: true, CaseFold: true, RemoveStopWords: true, RemovePunctuation: true}
	p := newPipeline(t, cfg)

	got := p.ProcessTokens("The leaves fall!")
	if !reflect.DeepEqual(got, []string{"leaf", "fall"}) {
		t.Errorf("All stages = %v, want [leaf fall]", got)
	}

	text := newPipeline(t, cfg, WithMode(ModeText)).Process("The leaves fall!")
	if text.Text != "leaf fall" {
		t.Errorf("Text mode = %q, want %q", text.Text, "leaf fall")
	}
}

func TestPipelineDegradesOnSplitterError(t *testing.T) {
	res := fakeResources(&fakeTagger{})
	res.Splitter = failingSplitter{}
	p, err := NewPipeline(Config{}, res)
	if err != nil {
		t.Fatal(err)
	}

	if got := p.ProcessTokens("a b c"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Whole document should be one sentence, got %v", got)
	}
}

func TestPipelineTaggerErrorStillLemmatizes(t *testing.T) {
	p, err := NewPipeline(Config{Lemmatize: true}, fakeResources(&fakeTagger{err: errors.New("no model")}))
	if err != nil {
		t.Fatal(err)
	}

	if got := p.ProcessTokens("He leaves"); !reflect.DeepEqual(got, []string{"He", "leaf"}) {
		t.Errorf("Got %v", got)
	}
}

func TestNewPipelineMissingResources(t *testing.T) {
	if _, err := NewPipeline(Config{}, nil); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("nil resources: got %v", err)
	}

	res := &Resources{Splitter: lineSplitter{}, Tokenizer: fieldsTokenizer{}}
	if _, err := NewPipeline(Config{CaseFold: true, RemovePunctuation: true}, res); err != nil {
		t.Errorf("Case folding and punctuation need no resources: %v", err)
	}

	cases := []Config{
		{Lemmatize: true},
		{Stem: true},
		{RemoveStopWords: true},
	}
	for _, cfg := range cases {
		_, err := NewPipeline(cfg, res)
		if !errors.Is(err, internalerr.ErrResourceUnavailable) {
			t.Errorf("%v: expected ErrResourceUnavailable, got %v", cfg, err)
		}
	}

	_, err := NewPipeline(Config{}, &Resources{})
	if err == nil || !strings.Contains(err.Error(), "sentence splitter") {
		t.Errorf("Error should name the missing resource, got %v", err)
	}
}

func TestPipelineConfigReadOnly(t *testing.T) {
	cfg := Config{Stem: true}
	p := newPipeline(t, cfg)

	cfg.Stem = false
	if !p.Config().Stem {
		t.Error("Pipeline config must not change after construction")
	}
	c := p.Config()
	c.CaseFold = true
	if p.Config().CaseFold {
		t.Error("Config() must return a copy")
	}
}

func TestDefaultResourcesShared(t *testing.T) {
	a := defaultResources(t)
	b := defaultResources(t)
	if a != b {
		t.Error("DefaultResources should return the shared instance")
	}

	custom := a.WithStopWords(stoplist.NewManager([]string{"foxes"}))
	if custom == a || a.StopWords == custom.StopWords {
		t.Error("WithStopWords should return a modified copy")
	}

	p, err := NewPipeline(Config{RemoveStopWords: true}, custom)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.ProcessTokens("The foxes run"); !reflect.DeepEqual(got, []string{"The", "run"}) {
		t.Errorf("Custom stop words: got %v", got)
	}
}

func TestPipelineConcurrent(t *testing.T) {
	p := newPipeline(t, Config{CaseFold: true, RemoveStopWords: true, Lemmatize: true, Stem: true})
	doc := "The leaves are falling. Reporters said the story was fabricated!"
	want := p.ProcessTokens(doc)

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := p.ProcessTokens(doc); !reflect.DeepEqual(got, want) {
				errs <- strings.Join(got, " ")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Errorf("Concurrent result differs: %s", e)
	}
}

func TestTransform(t *testing.T) {
	p := newPipeline(t, Config{CaseFold: true})
	fn := p.Transform()

	if got := fn("Dogs bark."); !reflect.DeepEqual(got, []string{"dogs", "bark", "."}) {
		t.Errorf("Transform = %v", got)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeTokens, "tokens": ModeTokens, "text": ModeText} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("xml"); err == nil {
		t.Error("Unknown mode should fail")
	}
	if ModeText.String() != "text" || ModeTokens.String() != "tokens" {
		t.Error("Unexpected mode names")
	}
}

func TestOutputString(t *testing.T) {
	if s := (Output{Tokens: []string{"a", "b"}}).String(); s != "a b" {
		t.Errorf("token output String = %q", s)
	}
	if s := (Output{Mode: ModeText, Text: "a b."}).String(); s != "a b." {
		t.Errorf("text output String = %q", s)
	}
}

func TestOutputLen(t *testing.T) {
	if n := (Output{Tokens: []string{"foxes", "running", "."}}).Len(); n != 3 {
		t.Errorf("token output Len = %d, want 3", n)
	}
	if n := (Output{Mode: ModeText, Text: "foxes are running quickly."}).Len(); n != 4 {
		t.Errorf("text output Len = %d, want 4", n)
	}
	if n := (Output{Mode: ModeText}).Len(); n != 0 {
		t.Errorf("empty text Len = %d", n)
	}

	p := newPipeline(t, Config{})
	if n := p.Process("Dogs bark.").Len(); n != 3 {
		t.Errorf("Process(\"Dogs bark.\").Len() = %d, want 3", n)
	}
}
