package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from solscope.yml.
type ProjectConfig struct {
	OutputDir       string   `yaml:"outputDir,omitempty"`
	ExcludePatterns []string `yaml:"excludePatterns,omitempty"`
	ContinueOnError bool     `yaml:"continueOnError,omitempty"`
	Remote          bool     `yaml:"remote,omitempty"`
	Verbose         bool     `yaml:"verbose,omitempty"`

	Explorer ExplorerConfig `yaml:"explorer,omitempty"`
}

// ExplorerConfig configures the block explorer source client. The API key
// is named by environment variable, never stored in the file.
type ExplorerConfig struct {
	BaseURL   string `yaml:"baseUrl,omitempty"`
	APIKeyEnv string `yaml:"apiKeyEnv,omitempty"`
}

// APIKey resolves the configured environment variable, if any.
func (e ExplorerConfig) APIKey() string {
	if e.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(e.APIKeyEnv)
}

// Load attempts to read solscope.yml or solscope.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"solscope.yml", "solscope.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
