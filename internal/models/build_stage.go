package models

import (
	"fmt"
	"strings"
)

// BuildStage identifies which of the two mutually exclusive build phases a run belongs to.
// The host supplies it once per run; it is never re-derived per variant.
type BuildStage string

// BuildStage constants
const (
	BuildStageAssetBundles BuildStage = "asset_bundles" // intermediate asset packaging (pre-final build)
	BuildStagePlayer       BuildStage = "player"        // final player build
)

// IsValid checks if the BuildStage is a known stage
func (s BuildStage) IsValid() bool {
	switch s {
	case BuildStageAssetBundles, BuildStagePlayer:
		return true
	}
	return false
}

// IsPlayerBuild reports whether the stage is the final player build
func (s BuildStage) IsPlayerBuild() bool {
	return s == BuildStagePlayer
}

// Label returns the human readable label used in stripping reports
func (s BuildStage) Label() string {
	if s.IsPlayerBuild() {
		return "Player build"
	}
	return "AssetBundles build"
}

// String returns the string representation of the BuildStage
func (s BuildStage) String() string {
	return string(s)
}

// ParseBuildStage accepts the canonical names plus a few common spellings
func ParseBuildStage(value string) (BuildStage, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "player", "final", "player_build":
		return BuildStagePlayer, nil
	case "asset_bundles", "assetbundles", "bundles", "pre_final":
		return BuildStageAssetBundles, nil
	}
	return "", fmt.Errorf("unknown build stage %q (expected player or asset_bundles)", value)
}
