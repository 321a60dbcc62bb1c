// -----------------------------------------------------------------------
// Package variant provides the normalized identity of a compiled shader
// variant (shader name, pass identity, keyword set) and its equivalence.
// -----------------------------------------------------------------------

package variant

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	unnamedToken = "unnamed"

	// unnamedPassID is the canonical pass identity shared by every unnamed pass.
	// It contains the unnamed token, so no named pass can normalize to it.
	unnamedPassID = "<unnamed>"

	noKeywords = "no keywords"
)

// passIndexPattern matches compiler placeholders such as "pass 0" or "<unnamed pass 12>"
var passIndexPattern = regexp.MustCompile(`pass\s*\d+`)

// Key is the immutable, comparable identity of one compiled variant
type Key struct {
	shader   string
	pass     string
	unnamed  bool
	keywords []string // lowercased, unique, sorted
	id       string
}

// NewKey normalizes the inputs into a Key. It never fails.
func NewKey(shader, pass string, keywords []string) Key {
	k := Key{
		shader:   strings.ToLower(shader),
		pass:     strings.ToLower(pass),
		keywords: normalizeKeywords(keywords),
	}
	k.unnamed = isUnnamedLower(k.pass)

	passID := k.pass
	if k.unnamed {
		passID = unnamedPassID
	}
	k.id = encodeID(k.shader, passID, k.keywords)
	return k
}

// encodeID length-prefixes every component so distinct keys never share an ID,
// whatever bytes the names and keywords contain
func encodeID(shader, passID string, keywords []string) string {
	var b strings.Builder
	writeComponent(&b, shader)
	writeComponent(&b, passID)
	for _, keyword := range keywords {
		writeComponent(&b, keyword)
	}
	return b.String()
}

func writeComponent(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

// IsUnnamedPass reports whether a pass name is an author-omitted (compiler placeholder) name
func IsUnnamedPass(pass string) bool {
	return isUnnamedLower(strings.ToLower(pass))
}

func isUnnamedLower(pass string) bool {
	return pass == "" ||
		strings.Contains(pass, unnamedToken) ||
		passIndexPattern.MatchString(pass)
}

func normalizeKeywords(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(keywords))
	result := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		lower := strings.ToLower(keyword)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		result = append(result, lower)
	}
	sort.Strings(result)
	return result
}

// Equivalent reports whether two keys denote the same variant: equal shader names,
// equal keyword sets and pass identities that are equal or both unnamed.
func Equivalent(a, b Key) bool {
	return a.ID() == b.ID()
}

// ID returns the canonical identity string. Equivalent keys and only equivalent
// keys share an ID, so it is safe to use as a map key.
func (k Key) ID() string {
	if k.id == "" {
		// zero Key: shader "", unnamed pass, no keywords
		return encodeID("", unnamedPassID, nil)
	}
	return k.id
}

// Shader returns the lowercased shader name
func (k Key) Shader() string {
	return k.shader
}

// Pass returns the lowercased pass name as given
func (k Key) Pass() string {
	return k.pass
}

// IsUnnamed reports whether the pass identity is the unnamed marker
func (k Key) IsUnnamed() bool {
	return k.unnamed || k.id == ""
}

// Keywords returns a copy of the sorted keyword set
func (k Key) Keywords() []string {
	out := make([]string, len(k.keywords))
	copy(out, k.keywords)
	return out
}

func (k Key) String() string {
	keywords := noKeywords
	if len(k.keywords) > 0 {
		keywords = strings.Join(k.keywords, " ")
	}
	return k.shader + " pass: " + k.pass + " keywords: " + keywords
}
