package lookup

import (
	"fmt"

	"LaunchCast/internal/domain/repository"
	"LaunchCast/pkg/config"
)

// Registry keeps lookup sources in registration order.
type Registry struct {
	sources []repository.SnippetSource
}

// NewRegistry builds a registry with the provided sources. An empty registry is
// valid: plans then rely on caller supplied snippets only.
func NewRegistry(sources ...repository.SnippetSource) *Registry {
	return &Registry{sources: sources}
}

// Add registers a new source instance.
func (r *Registry) Add(source repository.SnippetSource) {
	r.sources = append(r.sources, source)
}

// Sources returns the registered sources in order.
func (r *Registry) Sources() []repository.SnippetSource {
	out := make([]repository.SnippetSource, len(r.sources))
	copy(out, r.sources)
	return out
}

func (r *Registry) Len() int { return len(r.sources) }

// FromConfig builds every configured source.
func FromConfig(cfg config.LookupConfig) (*Registry, error) {
	r := NewRegistry()
	for _, sc := range cfg.Sources {
		switch sc.Type {
		case "static":
			src, err := NewStaticFileSource(sc.Name, sc.File)
			if err != nil {
				return nil, err
			}
			r.Add(src)
		case "http":
			src, err := NewHTTPSource(sc.Name, sc.URL, cfg.Timeout, WithAttempts(2))
			if err != nil {
				return nil, err
			}
			r.Add(src)
		default:
			return nil, fmt.Errorf("lookup source %s: unknown type %q", sc.Name, sc.Type)
		}
	}
	return r, nil
}
