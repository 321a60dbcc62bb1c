package collection

import (
	"sort"
	"strings"
)

// Builder accumulates kept variants into a collection document
type Builder struct {
	shaders map[string]map[string]VariantEntry // shader -> identity -> entry
}

// NewBuilder creates an empty Builder
func NewBuilder() *Builder {
	return &Builder{shaders: make(map[string]map[string]VariantEntry)}
}

// Add records a variant; duplicates collapse
func (b *Builder) Add(shader, passType string, keywords []string) {
	variants, ok := b.shaders[shader]
	if !ok {
		variants = make(map[string]VariantEntry)
		b.shaders[shader] = variants
	}
	variants[identity(shader, passType, keywords)] = VariantEntry{
		PassType: passType,
		Keywords: strings.Join(keywords, " "),
	}
}

// Document returns the accumulated variants with shaders and variants in stable order
func (b *Builder) Document(name string) *Document {
	names := make([]string, 0, len(b.shaders))
	for shader := range b.shaders {
		names = append(names, shader)
	}
	sort.Strings(names)

	doc := &Document{Name: name, Shaders: make([]ShaderEntry, 0, len(names))}
	for _, shader := range names {
		ids := make([]string, 0, len(b.shaders[shader]))
		for id := range b.shaders[shader] {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		entry := ShaderEntry{Name: shader, Variants: make([]VariantEntry, 0, len(ids))}
		for _, id := range ids {
			entry.Variants = append(entry.Variants, b.shaders[shader][id])
		}
		doc.Shaders = append(doc.Shaders, entry)
	}
	return doc
}
