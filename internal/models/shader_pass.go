package models

// ShaderPass describes the pass a candidate batch was compiled for.
// Name feeds the log-derived whitelist; Type is an opaque token that is only
// passed through to collection-backed whitelists.
type ShaderPass struct {
	Name string `json:"name" toml:"name" yaml:"name"`
	Type string `json:"type" toml:"type" yaml:"type"`
}
