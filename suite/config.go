// CLAUDE:SUMMARY Defines suite config structs and parses YAML check-suite files with defaults.
// Package suite runs YAML-defined assertion suites against live or static
// pages and records results in an SQLite history.
package suite

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level suite configuration.
type Config struct {
	Name    string        `yaml:"name"`
	Browser BrowserConfig `yaml:"browser"`
	Wait    WaitConfig    `yaml:"wait"`
	History HistoryConfig `yaml:"history"`
	Pages   []PageConfig  `yaml:"pages"`
}

// BrowserConfig controls the Chrome connection for live pages.
type BrowserConfig struct {
	Remote           string        `yaml:"remote"`
	ResourceBlocking []string      `yaml:"resource_blocking"`
	NavigateTimeout  time.Duration `yaml:"navigate_timeout"`
}

// WaitConfig is the default retry policy for every check.
type WaitConfig struct {
	Budget   time.Duration `yaml:"budget"`
	Interval time.Duration `yaml:"interval"`
}

// HistoryConfig controls run recording.
type HistoryConfig struct {
	Path string `yaml:"path"` // empty = no recording
}

// PageConfig is one page and its checks.
type PageConfig struct {
	ID     string  `yaml:"id"`
	URL    string  `yaml:"url"`
	Mode   string  `yaml:"mode"`   // live (default) | static
	Within string  `yaml:"within"` // optional XPath scoping every check
	Checks []Check `yaml:"checks"`
}

// Check is one boolean assertion. Kind selects the semantic predicate;
// Negate flips it to the absence form. Count is a pointer so "exactly zero"
// stays distinct from "any".
type Check struct {
	Kind     string        `yaml:"kind" json:"kind"` // css | xpath | content | link | button | field | checked_field | unchecked_field | select | table
	Locator  string        `yaml:"locator" json:"locator"`
	Negate   bool          `yaml:"negate" json:"negate,omitempty"`
	Count    *int          `yaml:"count" json:"count,omitempty"`
	Text     string        `yaml:"text" json:"text,omitempty"`
	With     *string       `yaml:"with" json:"with,omitempty"`
	Visible  *bool         `yaml:"visible" json:"visible,omitempty"`
	Selected []string      `yaml:"selected" json:"selected,omitempty"`
	Options  []string      `yaml:"options" json:"options,omitempty"`
	Rows     [][]string    `yaml:"rows" json:"rows,omitempty"`
	Wait     time.Duration `yaml:"wait" json:"wait,omitempty"` // per-check budget override
}

// LoadFile reads a YAML suite configuration.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("suite: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.Wait.Budget <= 0 {
		c.Wait.Budget = 2 * time.Second
	}
	if c.Wait.Interval <= 0 {
		c.Wait.Interval = 50 * time.Millisecond
	}
	if c.Browser.NavigateTimeout <= 0 {
		c.Browser.NavigateTimeout = 30 * time.Second
	}
	for i := range c.Pages {
		if c.Pages[i].Mode == "" {
			c.Pages[i].Mode = "live"
		}
		if c.Pages[i].ID == "" {
			c.Pages[i].ID = c.Pages[i].URL
		}
	}
}

func (c *Config) validate() error {
	for _, p := range c.Pages {
		if p.URL == "" {
			return fmt.Errorf("suite: page %q has no url", p.ID)
		}
		if p.Mode != "live" && p.Mode != "static" {
			return fmt.Errorf("suite: page %q: unknown mode %q", p.ID, p.Mode)
		}
		for _, chk := range p.Checks {
			if !knownKind(chk.Kind) {
				return fmt.Errorf("suite: page %q: unknown check kind %q", p.ID, chk.Kind)
			}
			if chk.Locator == "" {
				return fmt.Errorf("suite: page %q: %s check has no locator", p.ID, chk.Kind)
			}
			if chk.Negate && (chk.Kind == "checked_field" || chk.Kind == "unchecked_field") {
				return fmt.Errorf("suite: page %q: %s checks have no negated form", p.ID, chk.Kind)
			}
		}
	}
	return nil
}

func knownKind(k string) bool {
	switch k {
	case "css", "xpath", "content", "link", "button", "field",
		"checked_field", "unchecked_field", "select", "table":
		return true
	}
	return false
}
