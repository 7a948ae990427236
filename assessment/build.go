package assessment

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/semcomply/config"
	"github.com/c360studio/semcomply/crosswalk"
	"github.com/c360studio/semcomply/gap"
	"github.com/c360studio/semcomply/graph"
	"github.com/c360studio/semcomply/inference"
	"github.com/c360studio/semcomply/rules"
)

// FromConfig loads the ontology, rule catalog and frameworks named by cfg
// (embedded defaults for empty directories) and wires a Reasoner. publisher
// may be nil.
func FromConfig(cfg *config.Config, publisher *graph.Publisher, logger *slog.Logger) (*Reasoner, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ontology, err := loadOntology(cfg.Ontology)
	if err != nil {
		return nil, fmt.Errorf("load ontology: %w", err)
	}

	catalog, err := loadCatalog(cfg.Rules, logger)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	registry, err := loadFrameworks(cfg.Frameworks, logger)
	if err != nil {
		return nil, fmt.Errorf("load frameworks: %w", err)
	}

	logger.Debug("Reasoner loaded",
		slog.Int("ontology_facts", ontology.Len()),
		slog.Int("rules", catalog.Len()),
		slog.Int("warnings", len(catalog.Warnings())),
		slog.Any("frameworks", registry.Frameworks()))

	return New(Deps{
		Ontology: ontology,
		Catalog:  catalog,
		Engine: inference.New(inference.Options{
			MaxIterations: cfg.Engine.MaxIterations,
			Incremental:   cfg.Engine.IncrementalEnabled(),
			Logger:        logger,
		}),
		Analyzer:  gap.NewAnalyzer(gap.NewKeywordClassifier(cfg.Evidence.Phrases), registry, logger),
		Publisher: publisher,
		Logger:    logger,
	})
}

func loadOntology(src config.SourceConfig) (*graph.Ontology, error) {
	if src.Dir == "" {
		return graph.Default()
	}
	return graph.LoadDir(src.Dir, src.Patterns...)
}

func loadCatalog(src config.SourceConfig, logger *slog.Logger) (*rules.Catalog, error) {
	if src.Dir == "" {
		return rules.Default(logger)
	}
	return rules.LoadCatalogDir(src.Dir, logger, src.Patterns...)
}

func loadFrameworks(src config.SourceConfig, logger *slog.Logger) (*crosswalk.Registry, error) {
	if src.Dir == "" {
		return crosswalk.Default(logger)
	}
	return crosswalk.LoadDir(src.Dir, logger, src.Patterns...)
}
