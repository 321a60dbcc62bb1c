// -----------------------------------------------------------------------
// Package stripper decides, per compiled shader variant, whether it is kept
// or stripped. Decisions follow a fixed short-circuit chain: stripping
// disabled, always included, always excluded, unregistered shaders, then
// the whitelist sources in configured order (first match wins).
// -----------------------------------------------------------------------

package stripper

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shaderstrip/internal/interfaces"
	"github.com/ternarybob/shaderstrip/internal/models"
)

// Reason names the rule that produced a decision
type Reason string

const (
	ReasonStrippingDisabled Reason = "stripping_disabled"
	ReasonAlwaysIncluded    Reason = "always_included"
	ReasonAlwaysExcluded    Reason = "always_excluded"
	ReasonNotRegistered     Reason = "not_registered"
	ReasonWhitelist         Reason = "whitelist"
)

// Batch is the set of candidate keyword combinations compiled for one shader pass
type Batch struct {
	Shader   string
	Pass     models.ShaderPass
	Variants [][]string
}

// Result carries one decision per batch variant, in the batch's order
type Result struct {
	Decisions []models.Decision
	Reason    Reason
	Sources   []string // matching whitelist source per variant, "" when none matched
}

// Kept returns the number of kept variants
func (r Result) Kept() int {
	n := 0
	for _, d := range r.Decisions {
		if d.Kept() {
			n++
		}
	}
	return n
}

// Engine classifies variant batches. It holds no mutable state; the optional
// report sink must be safe for the caller's concurrency.
type Engine struct {
	policy  Policy
	sources []interfaces.WhitelistSource
	sink    interfaces.ReportSink
	logger  arbor.ILogger
}

// New creates an Engine. sources are consulted in order; sink may be nil.
func New(policy Policy, sources []interfaces.WhitelistSource, sink interfaces.ReportSink, logger arbor.ILogger) *Engine {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &Engine{
		policy:  policy,
		sources: append([]interfaces.WhitelistSource(nil), sources...),
		sink:    sink,
		logger:  logger,
	}
}

// Policy returns the run policy
func (e *Engine) Policy() Policy {
	return e.policy
}

// Sources returns the whitelist source names in evaluation order
func (e *Engine) Sources() []string {
	names := make([]string, 0, len(e.sources))
	for _, s := range e.sources {
		names = append(names, s.Name())
	}
	return names
}

// ProcessBatch applies the decision chain to every variant of the batch
func (e *Engine) ProcessBatch(b Batch) Result {
	if e.sink != nil {
		e.sink.Register(b.Shader)
	}

	weight := len(b.Variants)

	switch {
	case !e.policy.StrippingEnabled:
		return e.uniform(b, models.DecisionKeep, ReasonStrippingDisabled, weight)
	case e.policy.IsAlwaysIncluded(b.Shader):
		return e.uniform(b, models.DecisionKeep, ReasonAlwaysIncluded, weight)
	case e.policy.IsAlwaysExcluded(b.Shader):
		return e.uniform(b, models.DecisionDrop, ReasonAlwaysExcluded, weight)
	case e.policy.SkipUnregistered && !e.IsShaderRegistered(b.Shader):
		return e.uniform(b, models.DecisionKeep, ReasonNotRegistered, weight)
	}

	result := Result{
		Decisions: make([]models.Decision, len(b.Variants)),
		Sources:   make([]string, len(b.Variants)),
		Reason:    ReasonWhitelist,
	}
	for i, keywords := range b.Variants {
		source := e.match(b.Shader, b.Pass, keywords)
		kept := source != ""

		result.Decisions[i] = models.DecisionFromBool(kept)
		result.Sources[i] = source
		if e.sink != nil {
			e.sink.Record(b.Shader, kept, 1)
		}
	}

	e.logger.Trace().
		Str("shader", b.Shader).
		Str("pass", b.Pass.Name).
		Int("variants", len(b.Variants)).
		Int("kept", result.Kept()).
		Msg("Whitelist stripping applied")

	return result
}

// Classify decides a single variant; it is a one-variant batch
func (e *Engine) Classify(shader string, pass models.ShaderPass, keywords []string) models.Decision {
	return e.ProcessBatch(Batch{Shader: shader, Pass: pass, Variants: [][]string{keywords}}).Decisions[0]
}

// Filter returns the batch with dropped variants removed
func (e *Engine) Filter(b Batch) Batch {
	result := e.ProcessBatch(b)
	kept := make([][]string, 0, result.Kept())
	for i, d := range result.Decisions {
		if d.Kept() {
			kept = append(kept, b.Variants[i])
		}
	}
	return Batch{Shader: b.Shader, Pass: b.Pass, Variants: kept}
}

// IsShaderRegistered reports whether any source has evidence about the shader
func (e *Engine) IsShaderRegistered(shader string) bool {
	for _, s := range e.sources {
		if s.IsShaderRegistered(shader) {
			return true
		}
	}
	return false
}

func (e *Engine) match(shader string, pass models.ShaderPass, keywords []string) string {
	for _, s := range e.sources {
		if s.IsPassed(shader, pass, keywords) {
			return s.Name()
		}
	}
	return ""
}

func (e *Engine) uniform(b Batch, decision models.Decision, reason Reason, weight int) Result {
	result := Result{
		Decisions: make([]models.Decision, len(b.Variants)),
		Sources:   make([]string, len(b.Variants)),
		Reason:    reason,
	}
	for i := range result.Decisions {
		result.Decisions[i] = decision
	}

	if e.sink != nil {
		e.sink.Record(b.Shader, decision.Kept(), weight)
	}

	e.logger.Trace().
		Str("shader", b.Shader).
		Str("reason", string(reason)).
		Int("variants", weight).
		Str("decision", decision.String()).
		Msg("Batch decided by policy")

	return result
}
