package interfaces

import "github.com/ternarybob/shaderstrip/internal/models"

// WhitelistSource is an evidence provider answering whether a variant is known to be required
type WhitelistSource interface {
	// Name identifies the source in logs and configuration ("player_log", "collections")
	Name() string

	// IsPassed returns true when the source has direct evidence the variant is needed
	IsPassed(shader string, pass models.ShaderPass, keywords []string) bool

	// IsShaderRegistered returns true when the source has any evidence about the shader,
	// independent of pass and keywords
	IsShaderRegistered(shader string) bool
}

// CollectionProvider is the boundary to a pre-baked variant collection asset.
// Implementations may fail on malformed data; callers treat failures as "not contained".
type CollectionProvider interface {
	// RegisteredShaderNames returns every shader name the collection mentions
	RegisteredShaderNames() []string

	// Contains checks the collection for the variant identity (shader, pass type token, keywords)
	Contains(shader, passType string, keywords []string) (bool, error)
}

// ReportSink receives per-shader pass/strip counts during a run
type ReportSink interface {
	// Register adds the shader to the report; later calls for the same shader are no-ops
	Register(shader string)

	// Record adds weight to the shader's kept or stripped counter
	Record(shader string, kept bool, weight int)
}
