// Package dataset loads labeled fake-news documents from CSV.
//
// Each row is "label,document". Labels are 1-indexed in the published data
// and are shifted to 0-indexed by default. Documents are passed through a
// transform, typically a preprocessing pipeline, whose result type is the
// dataset's item type.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cognicore/veritas/pkg/veritas/internalerr"
)

// Item is one labeled document. Sentence holds the transformed document.
type Item[S any] struct {
	Label    int
	Sentence S
}

// Dataset is an in-memory list of labeled documents.
type Dataset[S any] struct {
	Items []Item[S]
}

// Len returns the number of items.
func (d *Dataset[S]) Len() int { return len(d.Items) }

// At returns the item at index i.
func (d *Dataset[S]) At(i int) Item[S] { return d.Items[i] }

// Labels returns the labels in row order.
func (d *Dataset[S]) Labels() []int {
	out := make([]int, len(d.Items))
	for i, it := range d.Items {
		out[i] = it.Label
	}
	return out
}

// LabelFunc converts a raw label field.
type LabelFunc func(raw string) (int, error)

// ZeroIndexed converts a 1-indexed label to 0-indexed.
func ZeroIndexed(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

// AsIs parses the label without shifting it.
func AsIs(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

type options struct {
	label       LabelFunc
	limit       int
	stripMarkup bool
}

// Option configures loading.
type Option func(*options)

// WithLabelTransform replaces the default ZeroIndexed label conversion.
func WithLabelTransform(fn LabelFunc) Option {
	return func(o *options) {
		o.label = fn
	}
}

// WithLimit stops after n rows. Zero means no limit.
func WithLimit(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// WithMarkupStripping extracts the text content of HTML documents before
// they reach the transform.
func WithMarkupStripping() Option {
	return func(o *options) {
		o.stripMarkup = true
	}
}

// Load reads every row and applies transform to the document field.
func Load[S any](r io.Reader, transform func(string) S, opts ...Option) (*Dataset[S], error) {
	o := options{label: ZeroIndexed}
	for _, opt := range opts {
		opt(&o)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	ds := &Dataset[S]{}
	for row := 1; o.limit == 0 || len(ds.Items) < o.limit; row++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("row %d: expected label and document, got %d fields: %w", row, len(rec), internalerr.ErrInvalidInput)
		}

		label, err := o.label(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: label %q: %v: %w", row, rec[0], err, internalerr.ErrInvalidInput)
		}

		doc := rec[1]
		if o.stripMarkup {
			doc = StripMarkup(doc)
		}
		ds.Items = append(ds.Items, Item[S]{Label: label, Sentence: transform(doc)})
	}
	return ds, nil
}

// LoadFile opens path and calls Load.
func LoadFile[S any](path string, transform func(string) S, opts ...Option) (*Dataset[S], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(f, transform, opts...)
}

// Raw is the identity transform.
func Raw(doc string) string { return doc }

// DocumentFrequencies counts, per term, the documents containing it for
// each label. classes sizes the per-term slice; labels outside
// [0, classes) grow it.
func DocumentFrequencies(ds *Dataset[[]string], classes int) map[string][]int {
	df := make(map[string][]int)
	for _, it := range ds.Items {
		if it.Label < 0 {
			continue
		}
		seen := make(map[string]struct{}, len(it.Sentence))
		for _, term := range it.Sentence {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}

			counts := df[term]
			size := classes
			if it.Label >= size {
				size = it.Label + 1
			}
			for len(counts) < size {
				counts = append(counts, 0)
			}
			counts[it.Label]++
			df[term] = counts
		}
	}
	return df
}
