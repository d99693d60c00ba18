package config

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultContent returns the embedded defaults file
func DefaultContent() string {
	return string(defaultConfig)
}

// GenerateConfigContent returns the defaults with every value commented out,
// ready to be saved as a user config file
func GenerateConfigContent() string {
	return commentOutConfigValues(DefaultContent())
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Blank lines, comments and section headers stay
		if trimmed == "" || strings.HasPrefix(trimmed, "#") ||
			(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")) {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}

// Map returns the configuration keyed like the config file
func (c *Config) Map() map[string]interface{} {
	return map[string]interface{}{
		"targets": c.Targets,
		"paths": map[string]interface{}{
			"source": c.Paths.Source,
			"dest":   c.Paths.Dest,
			"backup": c.Paths.Backup,
		},
		"source": map[string]interface{}{
			"url":      c.Source.URL,
			"branch":   c.Source.Branch,
			"checkout": c.Source.Checkout,
			"subdir":   c.Source.Subdir,
		},
		"keepalive": map[string]interface{}{
			"enabled":  c.KeepAlive.Enabled,
			"interval": c.KeepAlive.Interval.String(),
			"command":  c.KeepAlive.Command,
		},
		"restore": map[string]interface{}{
			"prompt": c.Restore.Prompt,
		},
		"retry": map[string]interface{}{
			"attempts": c.Retry.Attempts,
			"delay":    c.Retry.Delay.String(),
			"maxdelay": c.Retry.MaxDelay.String(),
		},
	}
}

// Marshal renders the effective configuration as TOML
func (c *Config) Marshal() ([]byte, error) {
	out, err := toml.Marshal(c.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return out, nil
}
