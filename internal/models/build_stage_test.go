package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildStage(t *testing.T) {
	tests := []struct {
		input    string
		expected BuildStage
		wantErr  bool
	}{
		{"player", BuildStagePlayer, false},
		{" Final ", BuildStagePlayer, false},
		{"asset_bundles", BuildStageAssetBundles, false},
		{"AssetBundles", BuildStageAssetBundles, false},
		{"editor", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			stage, err := ParseBuildStage(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stage)
			assert.True(t, stage.IsValid())
		})
	}
}

func TestBuildStage_Label(t *testing.T) {
	assert.Equal(t, "Player build", BuildStagePlayer.Label())
	assert.Equal(t, "AssetBundles build", BuildStageAssetBundles.Label())
	assert.False(t, BuildStage("editor").IsValid())
}

func TestDecision(t *testing.T) {
	assert.True(t, DecisionFromBool(true).Kept())
	assert.False(t, DecisionFromBool(false).Kept())
	assert.Equal(t, "keep", DecisionKeep.String())
	assert.Equal(t, "drop", DecisionDrop.String())
}

func TestRunRecord_StrippedRatio(t *testing.T) {
	assert.Zero(t, (&RunRecord{}).StrippedRatio())
	assert.Equal(t, 0.25, (&RunRecord{Processed: 8, Stripped: 2}).StrippedRatio())
}
