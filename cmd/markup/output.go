package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"markupkit/internal/config"
	"markupkit/pkg/markup"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// render converts HTML output to the requested format
func render(format, html string) (string, error) {
	switch format {
	case config.FormatHTML, "":
		return html, nil
	case config.FormatMarkdown:
		md, err := mdConverter.ConvertString(html)
		if err != nil {
			return "", fmt.Errorf("failed to convert to markdown: %w", err)
		}
		return md, nil
	case config.FormatText:
		return markup.SafeString(html), nil
	}
	return "", fmt.Errorf("unknown format: %s", format)
}

// outputName swaps the extension of a batch output file to match format
func outputName(relPath, format string) string {
	ext := filepath.Ext(relPath)
	stem := strings.TrimSuffix(relPath, ext)
	switch format {
	case config.FormatMarkdown:
		return stem + ".md"
	case config.FormatText:
		return stem + ".txt"
	}
	return relPath
}
