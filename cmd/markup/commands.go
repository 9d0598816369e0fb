package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"markupkit/internal/config"
	"markupkit/internal/recipe"
	"markupkit/pkg/markup"
)

// processor turns one input document into output text
type processor func(src string) (string, error)

func selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <selector>",
		Short: "Print every element matching a selector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selector := args[0]
			return dispatch(func(src string) (string, error) {
				found, err := markup.Select(src).FindAll(selector)
				if err != nil {
					return "", err
				}
				logger.Debug("Selected elements", zap.String("selector", selector), zap.Int("count", len(found)))
				parts := make([]string, 0, len(found))
				for _, el := range found {
					h, err := markup.ToHTML(el)
					if err != nil {
						return "", err
					}
					parts = append(parts, h)
				}
				return render(cfg.Format, strings.Join(parts, "\n"))
			})
		},
	}
}

func renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <selector> <tag>",
		Short: "Change the tag name of every matching element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(recipeProcessor(config.Step{Select: args[0], All: true, Action: "rename", Value: args[1]}))
		},
	}
}

func wrapCmd() *cobra.Command {
	var root bool

	cmd := &cobra.Command{
		Use:   "wrap <selector> <wrapper>",
		Short: "Wrap every matching element in a wrapper element",
		Long: `Wrap every element matching the selector in the wrapper markup.

With --root the selector is omitted and the whole input is wrapped:

  markup wrap --root '<article class="post">' -i page.html`,
		Args: func(cmd *cobra.Command, args []string) error {
			if root {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if root {
				return dispatch(recipeProcessor(config.Step{Action: "wrap-root", Value: args[0]}))
			}
			return dispatch(recipeProcessor(config.Step{Select: args[0], All: true, Action: "into", Value: args[1]}))
		},
	}

	cmd.Flags().BoolVar(&root, "root", false, "Wrap the whole input")

	return cmd
}

func extractCmd() *cobra.Command {
	var (
		printRemoved bool
		placeholder  string
	)

	cmd := &cobra.Command{
		Use:   "extract <selector>",
		Short: "Remove every matching element",
		Long: `Remove every element matching the selector.

--print outputs the removed elements instead of the remaining document.
--placeholder leaves the given element in place of each removed one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			step := config.Step{Select: args[0], All: true, Action: "extract"}
			if cmd.Flags().Changed("placeholder") {
				step.Action = "placeholder"
				step.Value = placeholder
			}
			c := cfg
			c.Steps = []config.Step{step}
			runner := recipe.New(c, logger)

			return dispatch(func(src string) (string, error) {
				result, err := runner.Run(src)
				if err != nil {
					return "", err
				}
				if printRemoved {
					return render(c.Format, strings.Join(result.Extracted, "\n"))
				}
				return render(c.Format, result.HTML)
			})
		},
	}

	cmd.Flags().BoolVar(&printRemoved, "print", false, "Output the removed elements")
	cmd.Flags().StringVar(&placeholder, "placeholder", "", "Element left in place of each removed one (default <placeholder>)")

	return cmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Apply the recipe steps of a config file",
		Long: `Apply the steps listed in the config file given with --config.

  steps:
    - select: .ad
      all: true
      action: extract
    - select: .grid
      action: rename
      value: table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath == "" {
				return fmt.Errorf("run needs --config")
			}
			if len(cfg.Steps) == 0 {
				return fmt.Errorf("config %s has no steps", opts.configPath)
			}
			return dispatch(recipeProcessor(cfg.Steps...))
		},
	}
}

// recipeProcessor runs steps through a recipe runner and renders the result
func recipeProcessor(steps ...config.Step) processor {
	c := cfg
	c.Steps = steps
	runner := recipe.New(c, logger)

	return func(src string) (string, error) {
		result, err := runner.Run(src)
		if err != nil {
			return "", err
		}
		for _, removed := range result.Extracted {
			logger.Debug("Extracted element", zap.String("html", removed))
		}
		return render(c.Format, result.HTML)
	}
}
