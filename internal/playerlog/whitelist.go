package playerlog

import (
	"strings"

	"github.com/ternarybob/shaderstrip/internal/models"
	"github.com/ternarybob/shaderstrip/internal/variant"
)

// SourceName identifies the log-derived whitelist in configuration
const SourceName = "player_log"

// Whitelist answers from variants observed in a captured player log
type Whitelist struct {
	entries Entries
}

// NewWhitelist wraps parsed entries. Nil entries behave as an empty log.
func NewWhitelist(entries Entries) *Whitelist {
	if entries == nil {
		entries = Entries{}
	}
	return &Whitelist{entries: entries}
}

// LoadWhitelist parses the log at path; an empty path yields an empty whitelist
func LoadWhitelist(path string) (*Whitelist, error) {
	entries, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return NewWhitelist(entries), nil
}

// Name returns the configuration token of this source
func (w *Whitelist) Name() string {
	return SourceName
}

// IsPassed reports whether an equivalent variant was compiled at runtime
func (w *Whitelist) IsPassed(shader string, pass models.ShaderPass, keywords []string) bool {
	key := variant.NewKey(shader, pass.Name, keywords)
	return w.entries[key.Shader()].Contains(key)
}

// IsShaderRegistered reports whether the log mentions the shader at all
func (w *Whitelist) IsShaderRegistered(shader string) bool {
	_, ok := w.entries[strings.ToLower(shader)]
	return ok
}

// Entries exposes the parsed table
func (w *Whitelist) Entries() Entries {
	return w.entries
}
