package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/veritas/pkg/veritas/preprocess"
)

// Store persists preprocessing runs and their output
type Store interface {
	Close() error

	// Runs
	CreateRun(ctx context.Context, cfg preprocess.Config, mode preprocess.Mode) (Run, error)
	GetRun(ctx context.Context, id ulid.ULID) (Run, error)

	// Docs
	AppendDoc(ctx context.Context, d Doc) (int, error)
	Docs(ctx context.Context, runID ulid.ULID, limit int) ([]Doc, error)

	// Per-label document frequencies
	AddTermDF(ctx context.Context, runID ulid.ULID, df map[string][]int) error
	TermDF(ctx context.Context, runID ulid.ULID, term string) ([]int, error)
}

// Run records the configuration a corpus was processed with
type Run struct {
	ID        ulid.ULID
	Config    preprocess.Config
	Mode      preprocess.Mode
	CreatedAt time.Time
}

// Doc is one processed document. Tokens is set for token-mode runs and
// Text for text-mode runs.
type Doc struct {
	RunID    ulid.ULID
	Position int
	Label    int
	Tokens   []string
	Text     string
}

// DocFromOutput builds a Doc from pipeline output.
func DocFromOutput(runID ulid.ULID, label int, out preprocess.Output) Doc {
	d := Doc{RunID: runID, Label: label}
	if out.Mode == preprocess.ModeText {
		d.Text = out.Text
	} else {
		d.Tokens = out.Tokens
	}
	return d
}

// IDs hands out monotonic run IDs. Safe for concurrent use.
type IDs struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDs creates an ID source.
func NewIDs() *IDs {
	return &IDs{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a new ID stamped with t.
func (g *IDs) Next(t time.Time) ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy)
}

// MergeDF adds the per-label counts in src to dst, growing dst as needed.
func MergeDF(dst, src []int) []int {
	for len(dst) < len(src) {
		dst = append(dst, 0)
	}
	for i, c := range src {
		dst[i] += c
	}
	return dst
}
