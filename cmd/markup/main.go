package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"markupkit/internal/config"
)

// options holds the flags shared by every command
type options struct {
	inputFile  string
	outputFile string
	inputDir   string
	outputDir  string
	configPath string
	format     string
	verbose    bool
}

var (
	opts   options
	cfg    config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "markup",
		Short: "Query and rewrite HTML from the command line",
		Long: `markup edits HTML fragments and documents with CSS selectors.

Input is read from --input, every HTML file under --input-dir, or stdin.
Output is HTML, Markdown or plain text.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.inputFile, "input", "i", "", "Input HTML file path")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&opts.inputDir, "input-dir", "", "Process all HTML files in directory")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Output directory for batch processing")
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.StringVarP(&opts.format, "format", "f", config.FormatHTML, "Output format (html, markdown, text)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(
		selectCmd(),
		renameCmd(),
		wrapCmd(),
		extractCmd(),
		runCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the configuration, applies flag overrides and builds the logger
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = opts.format
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateArgs(); err != nil {
		return err
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	logger, err = zapConfig.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// validateArgs validates the input and output flags
func validateArgs() error {
	if opts.inputFile != "" && opts.inputDir != "" {
		return fmt.Errorf("cannot specify both --input and --input-dir")
	}
	if opts.inputDir != "" && opts.outputDir == "" {
		return fmt.Errorf("--output-dir required when using --input-dir")
	}
	return nil
}
