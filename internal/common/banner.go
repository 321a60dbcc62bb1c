package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and the resolved stripping settings
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.Print("ShaderStrip", GetVersion())

	logger.Debug().
		Bool("strip_asset_bundles", config.Stripping.StripAssetBundles).
		Bool("strip_player", config.Stripping.StripPlayer).
		Bool("skip_not_registered", config.Stripping.SkipNotRegisteredShaders).
		Strs("whitelist_order", config.Whitelists.Order).
		Str("player_log", config.Whitelists.PlayerLog).
		Strs("collections", config.Whitelists.Collections).
		Msg("Resolved configuration")
}
