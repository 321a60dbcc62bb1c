package stripper

import (
	"strings"

	"github.com/ternarybob/shaderstrip/internal/common"
	"github.com/ternarybob/shaderstrip/internal/models"
)

// Policy is the read-only configuration snapshot of one run
type Policy struct {
	Stage            models.BuildStage
	StrippingEnabled bool
	AlwaysInclude    map[string]struct{}
	AlwaysExclude    map[string]struct{}
	SkipUnregistered bool
}

// NewPolicy derives the run policy from the stripping settings and the build stage
// supplied by the host. The stage is read here once and never re-derived per variant.
func NewPolicy(cfg common.StrippingConfig, stage models.BuildStage) Policy {
	enabled := !stage.IsPlayerBuild() && cfg.StripAssetBundles ||
		stage.IsPlayerBuild() && cfg.StripPlayer

	return Policy{
		Stage:            stage,
		StrippingEnabled: enabled,
		AlwaysInclude:    nameSet(cfg.AlwaysIncluded),
		AlwaysExclude:    nameSet(cfg.AlwaysExcluded),
		SkipUnregistered: cfg.SkipNotRegisteredShaders,
	}
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set[strings.ToLower(name)] = struct{}{}
	}
	return set
}

// IsAlwaysIncluded reports whether the shader is listed as always included
func (p Policy) IsAlwaysIncluded(shader string) bool {
	_, ok := p.AlwaysInclude[strings.ToLower(shader)]
	return ok
}

// IsAlwaysExcluded reports whether the shader is listed as always excluded
func (p Policy) IsAlwaysExcluded(shader string) bool {
	_, ok := p.AlwaysExclude[strings.ToLower(shader)]
	return ok
}
