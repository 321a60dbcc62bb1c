// -----------------------------------------------------------------------
// Package manifest reads and writes the TOML batch manifest consumed by the
// classify command: the build stage plus every candidate variant batch.
// -----------------------------------------------------------------------

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/shaderstrip/internal/models"
	"github.com/ternarybob/shaderstrip/internal/stripper"
)

// Manifest lists candidate batches for one build stage
type Manifest struct {
	Stage   string  `toml:"stage" validate:"required"`
	Batches []Batch `toml:"batch" validate:"dive"`
}

// Batch is one shader pass with its candidate keyword combinations.
// Each variant is a space separated keyword list; "" means no keywords.
type Batch struct {
	Shader   string   `toml:"shader" validate:"required"`
	Pass     string   `toml:"pass"`
	PassType string   `toml:"pass_type"`
	Variants []string `toml:"variants"`
}

// Load reads and validates a manifest file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest content
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks required fields and the stage token
func (m *Manifest) Validate() error {
	if err := validator.New().Struct(m); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}
	if _, err := m.BuildStage(); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}
	return nil
}

// BuildStage returns the typed build stage
func (m *Manifest) BuildStage() (models.BuildStage, error) {
	return models.ParseBuildStage(m.Stage)
}

// Batch converts the manifest batch into an engine batch
func (b Batch) Batch() stripper.Batch {
	variants := make([][]string, len(b.Variants))
	for i, v := range b.Variants {
		variants[i] = strings.Fields(v)
	}
	return stripper.Batch{
		Shader:   b.Shader,
		Pass:     models.ShaderPass{Name: b.Pass, Type: b.PassType},
		Variants: variants,
	}
}

// FromBatch converts an engine batch back into its manifest form
func FromBatch(b stripper.Batch) Batch {
	variants := make([]string, len(b.Variants))
	for i, keywords := range b.Variants {
		variants[i] = strings.Join(keywords, " ")
	}
	return Batch{
		Shader:   b.Shader,
		Pass:     b.Pass.Name,
		PassType: b.Pass.Type,
		Variants: variants,
	}
}

// Write encodes the manifest to path, creating parent directories
func Write(path string, m *Manifest) error {
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}
