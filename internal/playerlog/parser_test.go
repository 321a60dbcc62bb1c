package playerlog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/shaderstrip/internal/variant"
)

const testPlayerLog = "Compiled shader: Custom/HealthChangeBar, pass: Default, stage: all, keywords INVERTED_ADDITIONAL_TEXTURE\n" +
	"Compiled shader: CutoutDiffuse_Simple, pass: FORWARD, stage: all, keywords DIRECTIONAL LIGHTPROBE_SH\n" +
	"Compiled shader: Hidden/Internal-Halo, pass: <Unnamed Pass 0>, stage: all, keywords FOG_EXP\n" +
	"Compiled shader: Hidden/InternalClear, pass: <Unnamed Pass 6>, stage: all, keywords no keywords\n" +
	"Compiled shader: Hidden/InternalClear, pass: <Unnamed Pass 7>, stage: all, keywords no keywords\n" +
	"Compiled shader: Oleg/Caves, pass: ShadowCaster, stage: all, keywords SHADOWS_DEPTH\n" +
	"Compiled shader: Oleg/Cutout_VertexColor_2Sided_Simple, pass: FORWARD, stage: all, keywords DIRECTIONAL FOG_EXP LIGHTPROBE_SH\n" +
	"Compiled shader: Oleg/Cutout_VertexColor_2Sided_Simple, pass: FORWARD, stage: all, keywords DIRECTIONAL FOG_EXP2 INSTANCING_ON LIGHTPROBE_SH\n" +
	"Compiled shader: Oleg/Cutout_VertexColor_2Sided_Simple, pass: FORWARD, stage: all, keywords DIRECTIONAL FOG_EXP2 LIGHTPROBE_SH\n"

func TestParse_PlayerLog(t *testing.T) {
	entries, err := ParseString(testPlayerLog)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"custom/healthchangebar",
		"cutoutdiffuse_simple",
		"hidden/internal-halo",
		"hidden/internalclear",
		"oleg/caves",
		"oleg/cutout_vertexcolor_2sided_simple",
	}, entries.Shaders())

	// the two InternalClear lines collapse into one unnamed-pass variant
	assert.Equal(t, 1, entries["hidden/internalclear"].Len())
	assert.Equal(t, 3, entries["oleg/cutout_vertexcolor_2sided_simple"].Len())
	assert.Equal(t, 8, entries.Variants())

	assert.True(t, entries["cutoutdiffuse_simple"].Contains(
		variant.NewKey("CutoutDiffuse_Simple", "forward", []string{"LIGHTPROBE_SH", "DIRECTIONAL"})))
}

func TestParse_SkipsUnrelatedLines(t *testing.T) {
	log := "Initialize engine version: 2021.3.0f1\r\n" +
		"Direct3D:\r\n" +
		"Compiled shader: Oleg/Caves, pass: ShadowCaster, stage: all, keywords SHADOWS_DEPTH\r\n" +
		"  Compiled shader: indented lines are not records\r\n" +
		"UnloadTime: 0.5 ms\r\n"

	entries, err := ParseString(log)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries["oleg/caves"].Contains(variant.NewKey("oleg/caves", "shadowcaster", []string{"shadows_depth"})))
}

func TestParse_EmptyInput(t *testing.T) {
	entries, err := ParseString("")
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = ParseFile("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParse_MalformedLine(t *testing.T) {
	tests := []struct {
		name string
		log  string
		line int
	}{
		{
			name: "missing pass separator",
			log:  "header\nCompiled shader: Oleg/Caves, stage: all, keywords SHADOWS_DEPTH\n",
			line: 2,
		},
		{
			name: "missing stage separator",
			log:  "Compiled shader: Oleg/Caves, pass: ShadowCaster, keywords SHADOWS_DEPTH\n",
			line: 1,
		},
		{
			name: "missing keywords separator",
			log: "Compiled shader: Oleg/Caves, pass: ShadowCaster, stage: all, keywords SHADOWS_DEPTH\n" +
				"\n" +
				"Compiled shader: Oleg/Caves, pass: ShadowCaster, stage: all\n",
			line: 3,
		},
		{
			name: "extra separator",
			log:  "Compiled shader: Oleg/Caves, pass: A, pass: B, stage: all, keywords X\n",
			line: 1,
		},
		{
			name: "prefix only",
			log:  "Compiled shader: \n",
			line: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ParseString(tt.log)
			require.Error(t, err)
			assert.Nil(t, entries)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.line, parseErr.Line)
			assert.True(t, errors.Is(err, ErrMalformedLine))
			assert.Contains(t, err.Error(), "line")
		})
	}
}

func TestParseLine_Keywords(t *testing.T) {
	record, ok, err := ParseLine("Compiled shader: S, pass: P, stage: all, keywords no keywords")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, record.Keywords)
	assert.Equal(t, "all", record.Stage)

	record, ok, err = ParseLine("Compiled shader: S, pass: P, stage: vertex, keywords A  B ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, record.Keywords)

	_, ok, err = ParseLine("Not a record")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFormatLine_RoundTrip(t *testing.T) {
	line := FormatLine("Hidden/InternalClear", "<Unnamed Pass 6>", "all", nil)
	assert.Equal(t, "Compiled shader: Hidden/InternalClear, pass: <Unnamed Pass 6>, stage: all, keywords no keywords", line)

	line = FormatLine("Custom/HealthChangeBar", "Default", "all", []string{"INVERTED_ADDITIONAL_TEXTURE"})
	assert.True(t, strings.HasPrefix(testPlayerLog, line+"\n"))

	record, ok, err := ParseLine(line)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Custom/HealthChangeBar", record.Shader)
	assert.Equal(t, []string{"INVERTED_ADDITIONAL_TEXTURE"}, record.Keywords)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Player.log")
	require.NoError(t, os.WriteFile(path, []byte(testPlayerLog), 0644))

	entries, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, entries, 6)

	_, err = ParseFile(filepath.Join(dir, "missing.log"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.log")
	require.NoError(t, os.WriteFile(bad, []byte("Compiled shader: broken\n"), 0644))
	_, err = ParseFile(bad)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 1, parseErr.Line)
}

func TestEntries_Lines(t *testing.T) {
	entries, err := ParseString(testPlayerLog)
	require.NoError(t, err)

	lines := entries.Lines()
	require.Len(t, lines, entries.Variants())
	assert.Equal(t, "Compiled shader: custom/healthchangebar, pass: default, stage: all, keywords inverted_additional_texture", lines[0])
	assert.Contains(t, lines, "Compiled shader: hidden/internalclear, pass: <unnamed pass 6>, stage: all, keywords no keywords")

	// the echoed lines parse back to the same whitelist
	again, err := ParseString(strings.Join(lines, "\n"))
	require.NoError(t, err)
	assert.Equal(t, lines, again.Lines())

	assert.Empty(t, Entries{}.Lines())
}
