// -----------------------------------------------------------------------
// Package playerlog parses compilation logs captured from a running player
// ("Compiled shader: ..." lines) into per-shader variant sets and exposes
// them as a whitelist source.
// -----------------------------------------------------------------------

package playerlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ternarybob/shaderstrip/internal/variant"
)

const (
	linePrefix = "Compiled shader: "
	passSep    = ", pass: "
	stageSep   = ", stage: "
	keywordSep = ", keywords "
	noKeywords = "no keywords"

	// echoStage is written by Lines; the stage is not kept in Entries
	echoStage = "all"

	maxLineSize = 1024 * 1024
)

// ErrMalformedLine is wrapped by every ParseError
var ErrMalformedLine = errors.New("malformed compiled shader line")

// ParseError reports the first prefixed line that does not match the record grammar
type ParseError struct {
	Line int    // 1-based line number
	Text string // offending line
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("can't parse line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Record is one parsed "Compiled shader" line
type Record struct {
	Shader   string
	Pass     string
	Stage    string
	Keywords []string
}

// Entries maps a lowercase shader name to the variants observed for it
type Entries map[string]*variant.Set

// Shaders returns the shader names in sorted order
func (e Entries) Shaders() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variants returns the total number of distinct variants across all shaders
func (e Entries) Variants() int {
	total := 0
	for _, set := range e {
		total += set.Len()
	}
	return total
}

// Lines renders the collapsed whitelist back in log format, one line per distinct
// variant, shaders and variants in stable order. Names come out lowercased.
func (e Entries) Lines() []string {
	lines := make([]string, 0, e.Variants())
	for _, shader := range e.Shaders() {
		for _, key := range e[shader].Keys() {
			lines = append(lines, FormatLine(key.Shader(), key.Pass(), echoStage, key.Keywords()))
		}
	}
	return lines
}

func (e Entries) add(r Record) {
	key := variant.NewKey(r.Shader, r.Pass, r.Keywords)
	set, ok := e[key.Shader()]
	if !ok {
		set = variant.NewSet()
		e[key.Shader()] = set
	}
	set.Add(key)
}

// ParseFile parses the log at path. An empty path means no log was provided
// and yields empty entries.
func ParseFile(path string) (Entries, error) {
	if path == "" {
		return Entries{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open player log %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse player log %s: %w", path, err)
	}
	return entries, nil
}

// ParseString parses an in-memory log
func ParseString(log string) (Entries, error) {
	if log == "" {
		return Entries{}, nil
	}
	return Parse(strings.NewReader(log))
}

// Parse reads the whole log. Lines without the "Compiled shader: " prefix are skipped;
// the first prefixed line that does not match the grammar aborts the parse with a
// *ParseError and no entries are returned.
func Parse(r io.Reader) (Entries, error) {
	entries := Entries{}
	if r == nil {
		return entries, nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		record, ok, err := ParseLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineNumber, Text: line, Err: err}
		}
		if !ok {
			continue
		}
		entries.add(record)
	}

	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: lineNumber + 1, Err: err}
	}

	return entries, nil
}

// ParseLine parses a single line. ok is false for lines that are not compiled shader
// records; err is non-nil for prefixed lines that break the grammar.
func ParseLine(line string) (record Record, ok bool, err error) {
	rest, found := strings.CutPrefix(line, linePrefix)
	if !found {
		return Record{}, false, nil
	}

	shader, rest, found := strings.Cut(rest, passSep)
	if !found {
		return Record{}, false, fmt.Errorf("%w: missing %q", ErrMalformedLine, strings.TrimSpace(passSep))
	}
	pass, rest, found := strings.Cut(rest, stageSep)
	if !found {
		return Record{}, false, fmt.Errorf("%w: missing %q", ErrMalformedLine, strings.TrimSpace(stageSep))
	}
	stage, keywordList, found := strings.Cut(rest, keywordSep)
	if !found {
		return Record{}, false, fmt.Errorf("%w: missing %q", ErrMalformedLine, strings.TrimSpace(keywordSep))
	}
	for _, part := range []string{shader, pass, stage, keywordList} {
		if containsSeparator(part) {
			return Record{}, false, fmt.Errorf("%w: more than four parts", ErrMalformedLine)
		}
	}

	return Record{
		Shader:   shader,
		Pass:     pass,
		Stage:    stage,
		Keywords: splitKeywords(keywordList),
	}, true, nil
}

func containsSeparator(part string) bool {
	return strings.Contains(part, passSep) ||
		strings.Contains(part, stageSep) ||
		strings.Contains(part, keywordSep)
}

func splitKeywords(list string) []string {
	list = strings.TrimSpace(list)
	if list == noKeywords {
		return nil
	}
	return strings.Fields(list)
}

// FormatLine renders a record exactly as the compilation logging facility writes it
func FormatLine(shader, pass, stage string, keywords []string) string {
	list := noKeywords
	if len(keywords) > 0 {
		list = strings.Join(keywords, " ")
	}

	var sb strings.Builder
	sb.WriteString(linePrefix)
	sb.WriteString(shader)
	sb.WriteString(passSep)
	sb.WriteString(pass)
	sb.WriteString(stageSep)
	sb.WriteString(stage)
	sb.WriteString(keywordSep)
	sb.WriteString(list)
	return sb.String()
}
