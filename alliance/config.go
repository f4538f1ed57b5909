package alliance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the alliance tag table, trigger keywords and reply embed.
type Config struct {
	Tags     map[string]string `json:"tags" yaml:"tags"`
	Keywords []string          `json:"keywords" yaml:"keywords"`
	Reply    Reply             `json:"reply" yaml:"reply"`
}

// NewConfig creates and returns a new Config instance with the built-in tags, keywords and reply.
func NewConfig() *Config {
	return &Config{
		Tags:     DefaultTags(),
		Keywords: DefaultKeywords(),
		Reply:    DefaultReply(),
	}
}

// LoadConfig reads a YAML file on top of the defaults.
// Keys absent from the file keep their default values; a tags or keywords list given in the file replaces the default one.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return ParseConfig(buf)
}

// ParseConfig decodes YAML on top of the defaults.
func ParseConfig(buf []byte) (*Config, error) {
	config := NewConfig()

	// Replace rather than merge the default tags.
	var present struct {
		Tags map[string]string `yaml:"tags"`
	}
	if err := yaml.Unmarshal(buf, &present); err != nil {
		return nil, fmt.Errorf("failed to parse alliance config: %w", err)
	}
	if present.Tags != nil {
		config.Tags = nil
	}

	if err := yaml.Unmarshal(buf, config); err != nil {
		return nil, fmt.Errorf("failed to parse alliance config: %w", err)
	}

	if _, err := NewTagTable(config.Tags); err != nil {
		return nil, err
	}

	return config, nil
}
