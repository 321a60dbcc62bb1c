package collection

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shaderstrip/internal/interfaces"
	"github.com/ternarybob/shaderstrip/internal/models"
)

// SourceName identifies the collection-backed whitelist in configuration
const SourceName = "collections"

// Whitelist answers from a pre-baked variant collection. Provider failures never
// propagate: an unproven variant is simply not protected by this source.
type Whitelist struct {
	provider   interfaces.CollectionProvider
	registered map[string]struct{}
	logger     arbor.ILogger
}

// NewWhitelist precomputes the registered shader names of provider.
// A nil provider yields an empty whitelist.
func NewWhitelist(provider interfaces.CollectionProvider, logger arbor.ILogger) *Whitelist {
	w := &Whitelist{
		provider:   provider,
		registered: make(map[string]struct{}),
		logger:     logger,
	}
	if provider != nil {
		for _, name := range provider.RegisteredShaderNames() {
			w.registered[strings.ToLower(name)] = struct{}{}
		}
	}
	return w
}

// Name returns the configuration token of this source
func (w *Whitelist) Name() string {
	return SourceName
}

// IsPassed delegates to the provider; errors and panics count as not passed
func (w *Whitelist) IsPassed(shader string, pass models.ShaderPass, keywords []string) bool {
	if w.provider == nil {
		return false
	}

	passed, err := w.contains(shader, pass.Type, keywords)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn().
				Err(err).
				Str("shader", shader).
				Str("pass_type", pass.Type).
				Strs("keywords", keywords).
				Msg("Collection check failed, treating variant as not passed")
		}
		return false
	}
	return passed
}

func (w *Whitelist) contains(shader, passType string, keywords []string) (passed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			passed = false
			err = fmt.Errorf("collection provider panic: %v", r)
		}
	}()
	return w.provider.Contains(shader, passType, keywords)
}

// IsShaderRegistered is a lookup in the precomputed name set
func (w *Whitelist) IsShaderRegistered(shader string) bool {
	_, ok := w.registered[strings.ToLower(shader)]
	return ok
}
