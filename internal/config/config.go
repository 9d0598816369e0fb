package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Config holds configuration options for a markup run
type Config struct {
	// Format is the output format: html, markdown or text
	Format string `yaml:"format"`

	// Verbose turns on debug logging
	Verbose bool `yaml:"verbose"`

	// ContinueOnError keeps batch mode going past files that fail
	ContinueOnError bool `yaml:"continue_on_error"`

	// Extensions lists the file extensions picked up in batch mode
	Extensions []string `yaml:"extensions"`

	// Steps is the recipe applied by the run command
	Steps []Step `yaml:"steps"`
}

// Step is one edit of a recipe
type Step struct {
	Name   string `yaml:"name"`
	Select string `yaml:"select"` // empty targets the root
	All    bool   `yaml:"all"`    // every match instead of the first
	Action string `yaml:"action"`
	Value  string `yaml:"value"`
	Attr   string `yaml:"attr"` // attribute or style property for the attribute actions
}

// Actions maps every recipe action to whether it needs a value and an attr
var Actions = map[string]struct{ Value, Attr bool }{
	"rename":       {Value: true},
	"wrap":         {Value: true},
	"into":         {Value: true},
	"extract":      {},
	"placeholder":  {},
	"before":       {Value: true},
	"after":        {Value: true},
	"append":       {Value: true},
	"prepend":      {Value: true},
	"replace":      {Value: true},
	"set-attr":     {Value: true, Attr: true},
	"remove-attr":  {Attr: true},
	"add-class":    {Value: true},
	"remove-class": {Value: true},
	"set-style":    {Value: true, Attr: true},
	"wrap-root":    {Value: true},
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Format:          FormatHTML,
		Verbose:         false,
		ContinueOnError: true,
		Extensions:      []string{".html", ".htm"},
	}
}

// Load reads a YAML configuration file on top of the defaults
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the format and every recipe step
func (c Config) Validate() error {
	valid := []string{FormatHTML, FormatMarkdown, FormatText}
	if !slices.Contains(valid, c.Format) {
		return fmt.Errorf("invalid format: %s (valid: %s)", c.Format, strings.Join(valid, ", "))
	}
	for i, step := range c.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Label(), err)
		}
	}
	return nil
}

// Validate checks that the step names a known action with the inputs it needs
func (s Step) Validate() error {
	needs, ok := Actions[s.Action]
	if !ok {
		return fmt.Errorf("unknown action %q", s.Action)
	}
	if needs.Value && s.Value == "" {
		return fmt.Errorf("action %s needs a value", s.Action)
	}
	if needs.Attr && s.Attr == "" {
		return fmt.Errorf("action %s needs an attr", s.Action)
	}
	if s.All && s.Select == "" {
		return fmt.Errorf("all needs a selector")
	}
	if s.Action == "wrap-root" && s.Select != "" {
		return fmt.Errorf("wrap-root applies to the whole input and takes no selector")
	}
	return nil
}

// Label names the step for logs and errors
func (s Step) Label() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Select == "" {
		return s.Action
	}
	return s.Action + " " + s.Select
}
