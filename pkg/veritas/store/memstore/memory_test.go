package memstore

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/veritas/pkg/veritas/internalerr"
	"github.com/cognicore/veritas/pkg/veritas/preprocess"
	"github.com/cognicore/veritas/pkg/veritas/store"
)

var _ store.Store = (*Store)(nil)

func TestMemStoreRuns(t *testing.T) {
	ctx := context.Background()
	st := New()

	first, _ := st.CreateRun(ctx, preprocess.Config{Stem: true}, preprocess.ModeTokens)
	second, _ := st.CreateRun(ctx, preprocess.Config{}, preprocess.ModeText)
	if first.ID.Compare(second.ID) >= 0 {
		t.Errorf("Run IDs should increase: %s then %s", first.ID, second.ID)
	}

	got, err := st.GetRun(ctx, first.ID)
	if err != nil || !got.Config.Stem {
		t.Errorf("GetRun = %+v, %v", got, err)
	}
	if _, err := st.GetRun(ctx, ulid.Make()); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemStoreDocs(t *testing.T) {
	ctx := context.Background()
	st := New()
	run, _ := st.CreateRun(ctx, preprocess.Config{}, preprocess.ModeTokens)

	tokens := []string{"oil", "soar"}
	out := preprocess.Output{Mode: preprocess.ModeTokens, Tokens: tokens}
	if _, err := st.AppendDoc(ctx, store.DocFromOutput(run.ID, 3, out)); err != nil {
		t.Fatalf("AppendDoc: %v", err)
	}
	tokens[0] = "mutated"

	text := preprocess.Output{Mode: preprocess.ModeText, Text: "tennis star wins"}
	pos, _ := st.AppendDoc(ctx, store.DocFromOutput(run.ID, 1, text))
	if pos != 1 {
		t.Errorf("Second doc position = %d", pos)
	}

	docs, _ := st.Docs(ctx, run.ID, 0)
	if len(docs) != 2 {
		t.Fatalf("Expected 2 docs, got %d", len(docs))
	}
	if !reflect.DeepEqual(docs[0].Tokens, []string{"oil", "soar"}) || docs[0].Label != 3 {
		t.Errorf("Stored doc should be a copy, got %+v", docs[0])
	}
	if docs[1].Text != "tennis star wins" || docs[1].Tokens != nil {
		t.Errorf("Text doc = %+v", docs[1])
	}

	limited, _ := st.Docs(ctx, run.ID, 1)
	if len(limited) != 1 {
		t.Errorf("Limit ignored: %d docs", len(limited))
	}

	if _, err := st.AppendDoc(ctx, store.Doc{RunID: ulid.Make()}); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemStoreTermDF(t *testing.T) {
	ctx := context.Background()
	st := New()
	run, _ := st.CreateRun(ctx, preprocess.Config{}, preprocess.ModeTokens)

	st.AddTermDF(ctx, run.ID, map[string][]int{"oil": {2, 0, 0, 0}, "vote": {0, 0, 1, 0}})
	st.AddTermDF(ctx, run.ID, map[string][]int{"oil": {1, 3}})

	if got, _ := st.TermDF(ctx, run.ID, "oil"); !reflect.DeepEqual(got, []int{3, 3}) {
		t.Errorf("oil = %v, want [3 3]", got)
	}
	if got, _ := st.TermDF(ctx, run.ID, "vote"); !reflect.DeepEqual(got, []int{0, 0, 1}) {
		t.Errorf("vote = %v, want [0 0 1]", got)
	}
	if got, _ := st.TermDF(ctx, run.ID, "missing"); got != nil {
		t.Errorf("Unknown term should be nil, got %v", got)
	}
	if err := st.AddTermDF(ctx, ulid.Make(), map[string][]int{"x": {1}}); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMergeDF(t *testing.T) {
	got := store.MergeDF([]int{1}, []int{0, 2, 1})
	if !reflect.DeepEqual(got, []int{1, 2, 1}) {
		t.Errorf("MergeDF = %v", got)
	}
}
