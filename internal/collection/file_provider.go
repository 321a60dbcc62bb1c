// -----------------------------------------------------------------------
// Package collection adapts pre-baked shader variant collections into a
// whitelist source. FileProvider reads YAML collection files shaped like
// the serialized ShaderVariantCollection asset.
// -----------------------------------------------------------------------

package collection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ternarybob/shaderstrip/internal/variant"
)

// ErrMalformedVariant is returned by Contains when the collection holds an entry
// for the shader that cannot be evaluated
var ErrMalformedVariant = errors.New("malformed collection variant")

// Document is the on-disk layout of a variant collection file
type Document struct {
	Name    string        `yaml:"name"`
	Shaders []ShaderEntry `yaml:"shaders"`
}

// ShaderEntry lists the variants collected for one shader
type ShaderEntry struct {
	Name     string         `yaml:"name"`
	Variants []VariantEntry `yaml:"variants"`
}

// VariantEntry is one (pass type, keywords) pair; keywords are space separated
type VariantEntry struct {
	PassType string `yaml:"pass_type"`
	Keywords string `yaml:"keywords"`
}

// FileProvider implements interfaces.CollectionProvider over loaded documents
type FileProvider struct {
	names     map[string]string   // lowercase -> first spelling seen
	variants  map[string]struct{} // identity -> present
	malformed map[string]int      // lowercase shader -> malformed entry count
}

// NewFileProvider builds a provider from already decoded documents
func NewFileProvider(docs ...*Document) *FileProvider {
	p := &FileProvider{
		names:     make(map[string]string),
		variants:  make(map[string]struct{}),
		malformed: make(map[string]int),
	}
	for _, doc := range docs {
		if doc != nil {
			p.add(doc)
		}
	}
	return p
}

// LoadFiles reads every collection file. No paths yields an empty provider.
func LoadFiles(paths ...string) (*FileProvider, error) {
	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		doc, err := ReadDocument(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return NewFileProvider(docs...), nil
}

// ReadDocument decodes a single collection file
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse collection %s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &doc, nil
}

// WriteDocument encodes doc to path, creating parent directories
func WriteDocument(path string, doc *Document) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create collection directory: %w", err)
		}
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", path, err)
	}
	return nil
}

func (p *FileProvider) add(doc *Document) {
	for _, shader := range doc.Shaders {
		if shader.Name == "" {
			continue
		}
		lower := strings.ToLower(shader.Name)
		if _, ok := p.names[lower]; !ok {
			p.names[lower] = shader.Name
		}

		for _, v := range shader.Variants {
			if strings.TrimSpace(v.PassType) == "" {
				p.malformed[lower]++
				continue
			}
			p.variants[identity(shader.Name, v.PassType, strings.Fields(v.Keywords))] = struct{}{}
		}
	}
}

// RegisteredShaderNames returns every shader name in the loaded collections
func (p *FileProvider) RegisteredShaderNames() []string {
	names := make([]string, 0, len(p.names))
	for _, name := range p.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Contains checks for the exact variant. Collections holding malformed entries for the
// shader report ErrMalformedVariant when no well-formed entry matches.
func (p *FileProvider) Contains(shader, passType string, keywords []string) (bool, error) {
	if _, ok := p.variants[identity(shader, passType, keywords)]; ok {
		return true, nil
	}
	if n := p.malformed[strings.ToLower(shader)]; n > 0 {
		return false, fmt.Errorf("%w: %d entries without pass_type for shader %s", ErrMalformedVariant, n, shader)
	}
	return false, nil
}

// Len returns the number of well-formed variants
func (p *FileProvider) Len() int {
	return len(p.variants)
}

func identity(shader, passType string, keywords []string) string {
	passType = strings.ToLower(strings.TrimSpace(passType))
	return strconv.Itoa(len(passType)) + ":" + passType + variant.NewKey(shader, "", keywords).ID()
}
