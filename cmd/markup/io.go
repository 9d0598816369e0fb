package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// dispatch routes to the processing mode picked by the flags
func dispatch(fn processor) error {
	switch {
	case opts.inputDir != "":
		return runBatchProcessing(fn)
	case opts.inputFile != "":
		return runSingleFile(fn)
	default:
		return runStdin(fn)
	}
}

// runSingleFile processes a single input file
func runSingleFile(fn processor) error {
	inputContent, err := os.ReadFile(opts.inputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file %s: %w", opts.inputFile, err)
	}

	result, err := fn(string(inputContent))
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", opts.inputFile, err)
	}

	if err := writeOutput(result, opts.outputFile); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// runBatchProcessing processes all HTML files in a directory
func runBatchProcessing(fn processor) error {
	htmlFiles, err := findHTMLFiles(opts.inputDir, cfg.Extensions)
	if err != nil {
		return fmt.Errorf("failed to find HTML files: %w", err)
	}

	if len(htmlFiles) == 0 {
		return fmt.Errorf("no HTML files found in directory: %s", opts.inputDir)
	}

	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	failed := 0
	for i, inputPath := range htmlFiles {
		logger.Debug("Processing file",
			zap.Int("n", i+1),
			zap.Int("of", len(htmlFiles)),
			zap.String("path", inputPath))

		if err := processFile(fn, inputPath); err != nil {
			if !cfg.ContinueOnError {
				return err
			}
			failed++
			logger.Warn("Skipping file", zap.String("path", inputPath), zap.Error(err))
		}
	}

	logger.Info("Batch complete",
		zap.Int("files", len(htmlFiles)),
		zap.Int("failed", failed))
	if failed == len(htmlFiles) {
		return fmt.Errorf("all %d files failed", failed)
	}
	return nil
}

// processFile processes one file of a batch into the output directory
func processFile(fn processor, inputPath string) error {
	inputContent, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	result, err := fn(string(inputContent))
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", inputPath, err)
	}

	relPath, err := filepath.Rel(opts.inputDir, inputPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", inputPath, err)
	}
	outputPath := filepath.Join(opts.outputDir, outputName(relPath, cfg.Format))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", filepath.Dir(outputPath), err)
	}
	if err := writeOutput(result, outputPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}

// runStdin processes HTML from stdin and outputs to stdout
func runStdin(fn processor) error {
	inputContent, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}

	result, err := fn(string(inputContent))
	if err != nil {
		return err
	}

	if err := writeOutput(result, opts.outputFile); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeOutput writes content to a file or stdout
func writeOutput(content, filename string) error {
	if filename == "" {
		_, err := fmt.Print(content)
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// findHTMLFiles finds all files under dir with one of the extensions
func findHTMLFiles(dir string, extensions []string) ([]string, error) {
	var htmlFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			ext := strings.ToLower(filepath.Ext(path))
			if slices.Contains(extensions, ext) {
				htmlFiles = append(htmlFiles, path)
			}
		}

		return nil
	})

	return htmlFiles, err
}
