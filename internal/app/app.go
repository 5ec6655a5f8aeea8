// Package app turns a loaded configuration into a queryable Library and
// renders query results in the output formats shared by the CLI commands.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/chriscorrea/bookrec/internal/catalog"
	"github.com/chriscorrea/bookrec/internal/config"
	"github.com/chriscorrea/bookrec/internal/extract"
	"github.com/chriscorrea/bookrec/internal/recommend"
	"github.com/chriscorrea/bookrec/internal/search"
	"github.com/chriscorrea/bookrec/internal/spinner"
	"github.com/chriscorrea/bookrec/internal/tfidf"
)

// OutputFormat selects how results are printed.
type OutputFormat int

const (
	// Text prints aligned tables (default)
	Text OutputFormat = iota
	// Markdown prints lists and cards in Markdown
	Markdown
	// JSON prints the raw result objects
	JSON
)

func (f OutputFormat) String() string {
	switch f {
	case Markdown:
		return "Markdown"
	case Text:
		return "Text"
	case JSON:
		return "JSON"
	default:
		return "Unknown"
	}
}

// Library is a catalog with its fitted recommendation engine and keyword index.
type Library struct {
	Source string
	Engine *recommend.Engine
	Index  *search.Index
	filter func(string) string
}

// DescriptionFilter returns the cleaner applied to descriptions before they
// are indexed, or nil when descriptions are used verbatim.
func DescriptionFilter(cfg *config.Config) func(string) string {
	if cfg.StripHTML {
		return extract.PlainText
	}
	return nil
}

// EngineOptions maps configuration onto engine options.
func EngineOptions(cfg *config.Config) []recommend.Option {
	opts := []recommend.Option{
		recommend.WithTFIDFOptions(tfidf.Options{
			Stem:  cfg.Stem,
			MinDF: cfg.MinDF,
			MaxDF: cfg.MaxDF,
		}),
	}
	if filter := DescriptionFilter(cfg); filter != nil {
		opts = append(opts, recommend.WithDescriptionFilter(filter))
	}
	if cfg.CacheSimilarities {
		opts = append(opts, recommend.WithSimilarityCache())
	}
	return opts
}

// Build fits the engine and keyword index over already loaded entries.
func Build(entries []catalog.Entry, cfg *config.Config) (*Library, error) {
	engine, err := recommend.New(entries, EngineOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendation engine: %w", err)
	}

	filter := DescriptionFilter(cfg)
	return &Library{
		Source: cfg.Catalog,
		Engine: engine,
		Index:  search.NewIndex(engine.Entries(), filter),
		filter: filter,
	}, nil
}

// Open loads the configured catalog and builds a Library. Progress is shown
// on progress (normally stderr) unless quiet is set or it is not a terminal.
func Open(ctx context.Context, cfg *config.Config, progress io.Writer, quiet bool) (*Library, error) {
	sp := spinner.Begin(ctx, progress, !quiet, "Loading catalog...")
	defer sp.Stop()

	entries, err := catalog.Load(ctx, cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	sp.UpdateMessage(fmt.Sprintf("Fitting model on %d %s...", len(entries), plural(len(entries), "entry", "entries")))
	lib, err := Build(entries, cfg)
	if err != nil {
		return nil, err
	}

	slog.Debug("Library ready", "source", cfg.Catalog, "entries", lib.Engine.Len())
	return lib, nil
}

// Documents returns the synthetic documents the model was fitted on.
func (l *Library) Documents() []string {
	return catalog.Documents(l.Engine.Entries(), l.filter)
}
