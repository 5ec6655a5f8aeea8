package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chriscorrea/bookrec/internal/fetch"
)

// Load opens source (a file path, an http(s) URL, or "-" for stdin) and
// decodes the catalog it holds. The format is chosen from the source name.
func Load(ctx context.Context, source string) ([]Entry, error) {
	reader, err := fetch.Open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	format := DetectFormat(source)
	entries, err := Read(reader, format)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s catalog %q: %w", format, source, err)
	}

	slog.Debug("Catalog loaded", "source", source, "format", format.String(), "entries", len(entries))
	return entries, nil
}
