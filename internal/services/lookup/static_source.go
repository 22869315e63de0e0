package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"LaunchCast/internal/domain/models"
	"LaunchCast/internal/services/catalog"
)

// staticEntry is one snippet in a static catalog file. Entries without a
// category are offered for every target.
type staticEntry struct {
	Category string `json:"category"`
	models.RawCandidateSnippet
}

// StaticFileSource serves snippets from a JSON file, either a bare array or
// an object with a "snippets" array.
type StaticFileSource struct {
	name string
	path string
}

// NewStaticFileSource returns a source reading the given file on each fetch.
func NewStaticFileSource(name, path string) (*StaticFileSource, error) {
	if name == "" {
		return nil, errors.New("static source requires a name")
	}
	if path == "" {
		return nil, errors.New("static source requires a path")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("static source: %w", err)
	}
	return &StaticFileSource{name: name, path: path}, nil
}

func (s *StaticFileSource) Name() string { return s.name }

// Fetch returns the file's snippets whose category matches the target's.
func (s *StaticFileSource) Fetch(ctx context.Context, target models.TargetProduct) ([]models.RawCandidateSnippet, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read static file %s: %w", s.path, err)
	}
	entries, err := decodeEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("decode static file %s: %w", s.path, err)
	}

	category := catalog.NormalizeCategory(target.Category)
	var out []models.RawCandidateSnippet
	for _, e := range entries {
		if e.Category != "" && catalog.NormalizeCategory(e.Category) != category {
			continue
		}
		snippet := e.RawCandidateSnippet
		if snippet.Source == "" {
			snippet.Source = s.name
		}
		out = append(out, snippet)
	}
	return out, nil
}

func decodeEntries(raw []byte) ([]staticEntry, error) {
	var list []staticEntry
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var doc struct {
		Snippets []staticEntry `json:"snippets"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc.Snippets, nil
}
