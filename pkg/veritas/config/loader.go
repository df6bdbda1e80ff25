package config

import (
	"fmt"
	"log/slog"

	"github.com/cognicore/veritas/pkg/veritas/preprocess"
	"github.com/cognicore/veritas/pkg/veritas/stoplist"
)

// Loader loads the configuration file and constructs components.
// When Config is set it is used as is and ConfigPath is not read.
type Loader struct {
	ConfigPath string
	Config     *AppConfig
	Logger     *slog.Logger
}

// Components holds all loaded configuration components
type Components struct {
	Config    AppConfig
	Stoplist  *stoplist.Manager
	Resources *preprocess.Resources
	Pipeline  *preprocess.Pipeline
}

// Load reads the configuration and returns initialized components. Missing
// linguistic resources are reported here rather than during processing.
func (l *Loader) Load() (*Components, error) {
	var (
		cfg AppConfig
		err error
	)
	if l.Config != nil {
		cfg = *l.Config
		err = cfg.Validate()
	} else {
		cfg, err = Load(l.ConfigPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	comp := &Components{Config: cfg}

	if cfg.Stoplist.Path != "" {
		comp.Stoplist, err = stoplist.FromFile(cfg.Stoplist.Path)
	} else {
		comp.Stoplist, err = stoplist.English()
	}
	if err != nil {
		return nil, fmt.Errorf("load stoplist: %w", err)
	}

	res, err := preprocess.DefaultResources()
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	comp.Resources = res.WithStopWords(comp.Stoplist)

	comp.Pipeline, err = preprocess.NewPipeline(cfg.Pipeline, comp.Resources,
		preprocess.WithMode(cfg.Mode()),
		preprocess.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	logger.Info("pipeline ready",
		"stages", cfg.Pipeline.String(),
		"mode", cfg.Mode().String(),
		"stopwords", comp.Stoplist.Len())
	return comp, nil
}
