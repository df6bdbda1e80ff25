package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cognicore/veritas/pkg/veritas/config"
	"github.com/cognicore/veritas/pkg/veritas/dataset"
	"github.com/cognicore/veritas/pkg/veritas/preprocess"
	"github.com/cognicore/veritas/pkg/veritas/stoplist"
	"github.com/cognicore/veritas/pkg/veritas/store"
	"github.com/cognicore/veritas/pkg/veritas/store/sqlite"
)

type options struct {
	configPath string
	dataPath   string
	dbPath     string
	limit      int
	print      bool
	suggest    int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Config file (.yaml, .yml or .toml)")
	flag.StringVar(&opts.dataPath, "data", "", "Input CSV of label,document rows (required)")
	flag.StringVar(&opts.dbPath, "db", "", "SQLite database to persist the run (overrides store.path)")
	flag.IntVar(&opts.limit, "limit", 0, "Maximum rows to read (overrides dataset.limit)")
	flag.BoolVar(&opts.print, "print", false, "Print processed documents to stdout")
	flag.IntVar(&opts.suggest, "suggest-stops", 0, "Print up to N stop-word candidates mined from the corpus")
	flag.Parse()

	if opts.dataPath == "" {
		fmt.Fprintln(os.Stderr, "--data required")
		os.Exit(2)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(os.Stderr, cfg.Logging)
	slog.SetDefault(logger)

	if err := run(context.Background(), cfg, opts, os.Stdout, logger); err != nil {
		logger.Error("preprocess failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.AppConfig, opts options, out io.Writer, logger *slog.Logger) error {
	start := time.Now()
	loader := config.Loader{Config: &cfg, Logger: logger}
	comp, err := loader.Load()
	if err != nil {
		return err
	}
	logger.Debug("resources loaded", "elapsed", time.Since(start))

	var loadOpts []dataset.Option
	limit := cfg.Dataset.Limit
	if opts.limit > 0 {
		limit = opts.limit
	}
	if limit > 0 {
		loadOpts = append(loadOpts, dataset.WithLimit(limit))
	}
	if cfg.Dataset.StripMarkup != nil && *cfg.Dataset.StripMarkup {
		loadOpts = append(loadOpts, dataset.WithMarkupStripping())
	}

	ds, err := dataset.LoadFile(opts.dataPath, comp.Pipeline.Process, loadOpts...)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("dataset processed",
		"path", opts.dataPath,
		"documents", ds.Len(),
		"elapsed", time.Since(start))

	if opts.print {
		for _, it := range ds.Items {
			fmt.Fprintf(out, "%d\t%s\n", it.Label, it.Sentence)
		}
	}

	df := dataset.DocumentFrequencies(termsOf(ds), cfg.Dataset.Classes)

	dbPath := cfg.Store.Path
	if opts.dbPath != "" {
		dbPath = opts.dbPath
	}
	if dbPath != "" {
		if err := persist(ctx, dbPath, comp.Pipeline, ds, df, logger); err != nil {
			return err
		}
	}

	if opts.suggest > 0 {
		stats := stoplist.StatsFromFrequencies(df, ds.Len())
		candidates := comp.Stoplist.SuggestCandidates(stats, stoplist.DefaultThresholds())
		if len(candidates) > opts.suggest {
			candidates = candidates[:opts.suggest]
		}
		for _, c := range candidates {
			fmt.Fprintf(out, "stop?\t%s\tdf=%.1f%%\tentropy=%.2f\n", c.Token, c.Stats.DFPercent, c.Stats.LabelEntropy)
		}
	}
	return nil
}

func persist(ctx context.Context, path string, p *preprocess.Pipeline, ds *dataset.Dataset[preprocess.Output], df map[string][]int, logger *slog.Logger) error {
	st, err := sqlite.OpenSQLite(ctx, path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	r, err := st.CreateRun(ctx, p.Config(), p.Mode())
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	for i, it := range ds.Items {
		if _, err := st.AppendDoc(ctx, store.DocFromOutput(r.ID, it.Label, it.Sentence)); err != nil {
			return fmt.Errorf("store document %d: %w", i, err)
		}
		if (i+1)%1000 == 0 {
			logger.Debug("stored documents", "run", r.ID.String(), "count", i+1)
		}
	}
	if err := st.AddTermDF(ctx, r.ID, df); err != nil {
		return fmt.Errorf("store term frequencies: %w", err)
	}

	logger.Info("run stored",
		"run", r.ID.String(),
		"db", path,
		"documents", ds.Len(),
		"terms", len(df))
	return nil
}

// termsOf views processed output as token lists. Text output is split on
// whitespace.
func termsOf(ds *dataset.Dataset[preprocess.Output]) *dataset.Dataset[[]string] {
	terms := &dataset.Dataset[[]string]{Items: make([]dataset.Item[[]string], len(ds.Items))}
	for i, it := range ds.Items {
		tokens := it.Sentence.Tokens
		if it.Sentence.Mode == preprocess.ModeText {
			tokens = strings.Fields(it.Sentence.Text)
		}
		terms.Items[i] = dataset.Item[[]string]{Label: it.Label, Sentence: tokens}
	}
	return terms
}

func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
