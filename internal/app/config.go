package app

import "errors"

// ArtifactName is the fixed artifact file name written into the input
// directory.
const ArtifactName = "mvs_csv_config.json"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	InputDir    string // directory holding the group tables
	SchemasPath string // optional directory of extra schema manifests
	Artifact    string // artifact file name inside InputDir

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and fills its defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputDir == "" {
		return nil, errors.New("InputDir is a required configuration field and cannot be empty")
	}
	if cfg.Artifact == "" {
		cfg.Artifact = ArtifactName
	}
	return &cfg, nil
}
