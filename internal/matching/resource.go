package matching

import (
	"github.com/jwcastillo/imposter/internal/router"
	"github.com/jwcastillo/imposter/pkg/config"
	"github.com/jwcastillo/imposter/pkg/script"
)

// ResolvedResource pairs a resource configuration with the resolution
// metadata evaluators need at request time. Resources are resolved once at
// startup and are read-only afterwards; a configuration reload builds a
// fresh set rather than mutating these in place.
type ResolvedResource struct {
	// Config is the underlying resource configuration, referenced, never
	// copied.
	Config *config.ResourceConfig

	// Path is the effective path predicate, with the plugin's base path
	// applied.
	Path string

	// NormalizedPath is Path with template parameters normalized, the
	// identity literal route comparison uses.
	NormalizedPath string

	// Namespaces is the merged XML namespace map for XPath body
	// predicates: system-level bindings overridden by resource-level ones.
	// Condition-level bindings are merged on top at evaluation time.
	Namespaces map[string]string

	// Script is the resolved predicate script, nil when none is
	// configured.
	Script *script.Script
}

// Resolve builds a ResolvedResource for a resource within its plugin
// configuration. loadScript resolves the resource's eval reference into a
// Script; it is only consulted when one is configured.
func Resolve(cfg *config.PluginConfig, res *config.ResourceConfig, loadScript func(string) (*script.Script, error)) (*ResolvedResource, error) {
	path := res.Path
	if path != "" && cfg.BasePath != "" {
		path = cfg.BasePath + path
	}

	namespaces := make(map[string]string)
	if cfg.System != nil {
		for prefix, uri := range cfg.System.XMLNamespaces {
			namespaces[prefix] = uri
		}
	}
	for prefix, uri := range res.XMLNamespaces {
		namespaces[prefix] = uri
	}

	resolved := &ResolvedResource{
		Config:         res,
		Path:           path,
		NormalizedPath: router.NormalizePath(path),
		Namespaces:     namespaces,
	}

	if res.Eval != "" {
		s, err := loadScript(res.Eval)
		if err != nil {
			return nil, err
		}
		resolved.Script = s
	}
	return resolved, nil
}
