package collection

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/shaderstrip/internal/models"
)

const testCollection = `name: ManualCollection
shaders:
  - name: Custom/Water
    variants:
      - pass_type: Normal
        keywords: "WAVES_ON FOAM"
      - pass_type: ShadowCaster
        keywords: ""
  - name: Custom/Broken
    variants:
      - pass_type: ""
        keywords: "A"
      - pass_type: Normal
        keywords: "B"
`

func writeCollection(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manual.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// failingProvider simulates malformed external data
type failingProvider struct {
	panics bool
}

func (p *failingProvider) RegisteredShaderNames() []string {
	return []string{"Custom/Fails"}
}

func (p *failingProvider) Contains(shader, passType string, keywords []string) (bool, error) {
	if p.panics {
		panic("corrupt asset")
	}
	return true, errors.New("corrupt asset")
}

func TestFileProvider_Contains(t *testing.T) {
	provider, err := LoadFiles(writeCollection(t, testCollection))
	require.NoError(t, err)

	assert.Equal(t, []string{"Custom/Broken", "Custom/Water"}, provider.RegisteredShaderNames())
	assert.Equal(t, 3, provider.Len())

	ok, err := provider.Contains("Custom/Water", "Normal", []string{"FOAM", "WAVES_ON"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = provider.Contains("custom/water", "ShadowCaster", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = provider.Contains("Custom/Water", "ShadowCaster", []string{"FOAM"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = provider.Contains("Custom/Broken", "Normal", []string{"B"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = provider.Contains("Custom/Broken", "Normal", []string{"A"})
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrMalformedVariant))
}

func TestFileProvider_KeywordBoundaries(t *testing.T) {
	provider := NewFileProvider(&Document{Shaders: []ShaderEntry{{
		Name:     "Custom/Water",
		Variants: []VariantEntry{{PassType: "Normal", Keywords: "WAVES_ON FOAM"}},
	}}})

	ok, err := provider.Contains("Custom/Water", "Normal", []string{"FOAM WAVES_ON"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = provider.Contains("Custom/Water", "Normal\x00", []string{"FOAM", "WAVES_ON"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadFiles_Errors(t *testing.T) {
	provider, err := LoadFiles()
	require.NoError(t, err)
	assert.Empty(t, provider.RegisteredShaderNames())

	_, err = LoadFiles(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadFiles(writeCollection(t, "shaders: [unterminated"))
	require.Error(t, err)
}

func TestWhitelist(t *testing.T) {
	provider, err := LoadFiles(writeCollection(t, testCollection))
	require.NoError(t, err)
	whitelist := NewWhitelist(provider, arbor.NewLogger())

	assert.Equal(t, SourceName, whitelist.Name())
	assert.True(t, whitelist.IsShaderRegistered("custom/water"))
	assert.False(t, whitelist.IsShaderRegistered("Custom/Lava"))

	assert.True(t, whitelist.IsPassed("Custom/Water", models.ShaderPass{Name: "ignored", Type: "Normal"}, []string{"WAVES_ON", "FOAM"}))
	assert.False(t, whitelist.IsPassed("Custom/Water", models.ShaderPass{Type: "Normal"}, []string{"WAVES_ON"}))

	// malformed external data fails closed
	assert.False(t, whitelist.IsPassed("Custom/Broken", models.ShaderPass{Type: "Normal"}, []string{"A"}))
}

func TestWhitelist_ProviderFailures(t *testing.T) {
	for _, panics := range []bool{false, true} {
		whitelist := NewWhitelist(&failingProvider{panics: panics}, arbor.NewLogger())
		assert.True(t, whitelist.IsShaderRegistered("Custom/Fails"))
		assert.NotPanics(t, func() {
			assert.False(t, whitelist.IsPassed("Custom/Fails", models.ShaderPass{Type: "Normal"}, nil))
		})
	}
}

func TestWhitelist_NilProvider(t *testing.T) {
	whitelist := NewWhitelist(nil, nil)
	assert.False(t, whitelist.IsPassed("Custom/Water", models.ShaderPass{}, nil))
	assert.False(t, whitelist.IsShaderRegistered("Custom/Water"))
}

func TestBuilder_RoundTrip(t *testing.T) {
	builder := NewBuilder()
	builder.Add("Custom/Water", "Normal", []string{"WAVES_ON", "FOAM"})
	builder.Add("Custom/Water", "Normal", []string{"FOAM", "WAVES_ON"})
	builder.Add("Custom/Lava", "ShadowCaster", nil)

	doc := builder.Document("Kept")
	require.Len(t, doc.Shaders, 2)
	assert.Equal(t, "Custom/Lava", doc.Shaders[0].Name)
	assert.Len(t, doc.Shaders[1].Variants, 1)

	path := filepath.Join(t.TempDir(), "out", "kept.yaml")
	require.NoError(t, WriteDocument(path, doc))

	provider, err := LoadFiles(path)
	require.NoError(t, err)
	ok, err := provider.Contains("Custom/Water", "Normal", []string{"FOAM", "WAVES_ON"})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = provider.Contains("Custom/Lava", "ShadowCaster", []string{})
	require.NoError(t, err)
	assert.True(t, ok)
}
