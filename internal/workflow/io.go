package workflow

import (
	"encoding/json"
	"fmt"
)

// Export serializes the configuration to indented JSON, the document a
// user downloads from the dashboard.
func Export(cfg *Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export config: %w", err)
	}
	return data, nil
}

// Import parses an uploaded configuration document. A parse failure
// returns an error and no partial result; callers keep their previous
// configuration untouched.
func Import(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("import config: %w", err)
	}
	if cfg.Teams == nil {
		cfg.Teams = []Team{}
	}
	if cfg.PeerAgents == nil {
		cfg.PeerAgents = []Agent{}
	}
	if cfg.Tools == nil {
		cfg.Tools = []Tool{}
	}
	return &cfg, nil
}

// Clone deep-copies a configuration through its JSON form. The model is
// plain data, so the round trip is lossless.
func Clone(cfg *Config) *Config {
	data, err := json.Marshal(cfg)
	if err != nil {
		// The config model contains only marshalable types.
		panic(fmt.Sprintf("clone config: %v", err))
	}
	out := &Config{}
	if err := json.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("clone config: %v", err))
	}
	return out
}
