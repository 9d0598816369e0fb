// Package recipe applies a list of configured edits to HTML through a single
// markup selection
package recipe

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"markupkit/internal/config"
	"markupkit/pkg/markup"
)

// Runner applies the steps of a configuration to HTML
type Runner struct {
	config config.Config
	logger *zap.Logger
}

// New creates a runner for cfg. A nil logger discards log output
func New(cfg config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{config: cfg, logger: logger}
}

// NewWithDefaults creates a runner with the default configuration and no steps
func NewWithDefaults() *Runner {
	return New(config.Default(), nil)
}

// Result contains the outcome of a run
type Result struct {
	HTML      string   // Final HTML
	Extracted []string // Markup of every node removed by extract or placeholder steps
	Stats     Stats    // Processing statistics
}

// Stats contains metrics from a run
type Stats struct {
	StepsApplied     int   // Steps queued and applied
	ElementsMatched  int   // Transform calls across all steps
	ProcessingTimeMs int64 // Processing time in milliseconds
}

// Run applies every step to src in order
func (r *Runner) Run(src string) (*Result, error) {
	start := time.Now()
	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recipe: %w", err)
	}

	result := &Result{}
	var memory []*html.Node
	sel := markup.Select(src)

	for i, step := range r.config.Steps {
		r.logger.Debug("Queueing step",
			zap.Int("step", i+1),
			zap.String("label", step.Label()),
			zap.String("action", step.Action),
			zap.String("select", step.Select),
			zap.Bool("all", step.All))

		if step.Action == "wrap-root" {
			sel = sel.Wrap(step.Value, step.Label())
			continue
		}

		fn, err := Transform(step, &memory)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Label(), err)
		}
		counted := func(in markup.Invocation) (any, error) {
			result.Stats.ElementsMatched++
			return fn(in)
		}
		if step.All {
			sel = sel.UpdateAll(step.Select, counted)
		} else {
			sel = sel.Update(step.Select, counted, step.Label())
		}
	}

	out, err := sel.ToHTML()
	if err != nil {
		return nil, fmt.Errorf("failed to apply recipe: %w", err)
	}
	result.HTML = out
	result.Stats.StepsApplied = len(r.config.Steps)

	for _, n := range memory {
		h, err := markup.ToHTML(n)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize extracted node: %w", err)
		}
		result.Extracted = append(result.Extracted, h)
	}

	result.Stats.ProcessingTimeMs = time.Since(start).Milliseconds()
	r.logger.Info("Recipe applied",
		zap.Int("steps", result.Stats.StepsApplied),
		zap.Int("matched", result.Stats.ElementsMatched),
		zap.Int("extracted", len(result.Extracted)),
		zap.Int64("ms", result.Stats.ProcessingTimeMs))
	return result, nil
}

// RunString is a convenience method that returns only the HTML
func (r *Runner) RunString(src string) (string, error) {
	result, err := r.Run(src)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

// Transform builds the markup transform for a step. Nodes removed by
// extract and placeholder steps are copied into memory
func Transform(step config.Step, memory *[]*html.Node) (markup.Transform, error) {
	switch step.Action {
	case "rename":
		return markup.ChangeTagName(step.Value), nil
	case "wrap":
		return markup.Wrap(step.Value), nil
	case "into":
		return markup.Into(step.Value), nil
	case "extract":
		return markup.Extract(memory), nil
	case "placeholder":
		if step.Value == "" {
			return markup.Placeholder(memory, nil), nil
		}
		el, err := markup.CreateElement(step.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid placeholder: %w", err)
		}
		return markup.Placeholder(memory, el), nil
	case "before":
		return markup.Before(step.Value), nil
	case "after":
		return markup.After(step.Value), nil
	case "append":
		return markup.Append(step.Value), nil
	case "prepend":
		return markup.Prepend(step.Value), nil
	case "replace":
		return markup.ReplaceElement(step.Value), nil
	case "set-attr":
		return markup.SetAttribute(step.Attr, step.Value), nil
	case "remove-attr":
		return markup.RemoveAttribute(step.Attr), nil
	case "add-class":
		return markup.AddClass(strings.Fields(step.Value)...), nil
	case "remove-class":
		return markup.RemoveClass(strings.Fields(step.Value)...), nil
	case "set-style":
		return markup.SetStyle(step.Attr, step.Value), nil
	}
	return nil, fmt.Errorf("unsupported action %q", step.Action)
}
