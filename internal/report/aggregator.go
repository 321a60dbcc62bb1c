// -----------------------------------------------------------------------
// Package report accumulates per-shader stripping counters for one run and
// renders the plain-text stripping report.
// -----------------------------------------------------------------------

package report

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ternarybob/shaderstrip/internal/models"
)

// DefaultName is the report identity written on the first line
const DefaultName = "ShaderStripper"

// Summary holds totals across every shader of a run
type Summary struct {
	Shaders   int
	Processed int
	Passed    int
	Stripped  int
}

type counters struct {
	passed   int
	stripped int
}

// Aggregator implements interfaces.ReportSink. Register, Record and Render share
// one mutex so batches may be classified from several goroutines.
type Aggregator struct {
	name  string
	stage models.BuildStage

	mu      sync.Mutex
	shaders map[string]*counters
}

// New creates an empty aggregator for a run
func New(name string, stage models.BuildStage) *Aggregator {
	if name == "" {
		name = DefaultName
	}
	return &Aggregator{
		name:    name,
		stage:   stage,
		shaders: make(map[string]*counters),
	}
}

// Name returns the report identity
func (a *Aggregator) Name() string {
	return a.name
}

// Stage returns the build stage the report describes
func (a *Aggregator) Stage() models.BuildStage {
	return a.stage
}

// Register adds a shader with zeroed counters; repeated calls are no-ops
func (a *Aggregator) Register(shader string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.register(shader)
}

func (a *Aggregator) register(shader string) *counters {
	c, ok := a.shaders[shader]
	if !ok {
		c = &counters{}
		a.shaders[shader] = c
	}
	return c
}

// Record adds weight to the shader's passed or stripped counter
func (a *Aggregator) Record(shader string, kept bool, weight int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c := a.register(shader)
	if kept {
		c.passed += weight
	} else {
		c.stripped += weight
	}
}

// Counts returns the passed and stripped counters of one shader
func (a *Aggregator) Counts(shader string) (passed, stripped int, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.shaders[shader]
	if !ok {
		return 0, 0, false
	}
	return c.passed, c.stripped, true
}

// Summary returns totals across all shaders
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary()
}

func (a *Aggregator) summary() Summary {
	s := Summary{Shaders: len(a.shaders)}
	for _, c := range a.shaders {
		s.Passed += c.passed
		s.Stripped += c.stripped
	}
	s.Processed = s.Passed + s.Stripped
	return s
}

func (a *Aggregator) sortedShaders() []string {
	names := make([]string, 0, len(a.shaders))
	for name := range a.shaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render serializes the report. It performs no I/O and is deterministic.
func (a *Aggregator) Render() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var sb strings.Builder

	sb.WriteString(a.name)
	sb.WriteString("\n")
	sb.WriteString("Shaders stripping during ")
	sb.WriteString(a.stage.Label())
	sb.WriteString("\n")

	for _, shader := range a.sortedShaders() {
		c := a.shaders[shader]
		sb.WriteString("\n")
		sb.WriteString("Shader: ")
		sb.WriteString(shader)
		sb.WriteString(", Processed variants: : ")
		sb.WriteString(strconv.Itoa(c.passed + c.stripped))
		sb.WriteString(", Passed variants: ")
		sb.WriteString(strconv.Itoa(c.passed))
		sb.WriteString(", Stripped variants: ")
		sb.WriteString(strconv.Itoa(c.stripped))
	}

	summary := a.summary()
	line := strings.Repeat("-", 5)

	sb.WriteString("\n\n")
	sb.WriteString(line + "Summary" + line + "\n")
	sb.WriteString("Total shaders: " + strconv.Itoa(summary.Shaders) + "\n")
	sb.WriteString("Total processed SV: " + strconv.Itoa(summary.Processed) + "\n")
	sb.WriteString("Total passed SV: " + strconv.Itoa(summary.Passed) + "\n")
	sb.WriteString("Total stripped SV: " + strconv.Itoa(summary.Stripped) + "\n")

	return sb.String()
}
