package css

import (
	"regexp"
	"strings"
)

// Parser handles inline style parsing
type Parser struct {
	importantRegex *regexp.Regexp
}

// NewParser creates a new CSS parser with compiled regexes
func NewParser() *Parser {
	return &Parser{
		importantRegex: regexp.MustCompile(`!\s*important\s*$`),
	}
}

// ParseInlineStyle parses a style attribute into declarations. A property
// declared twice keeps its first position and its last value
func (p *Parser) ParseInlineStyle(styleAttr string) Declarations {
	var declarations Declarations

	// Split by semicolon, but handle semicolons in quoted strings
	for _, part := range p.smartSplit(styleAttr, ';') {
		if d, ok := p.ParseDeclaration(part); ok {
			declarations = declarations.Set(d)
		}
	}

	return declarations
}

// ParseDeclaration parses a single "property: value" pair
func (p *Parser) ParseDeclaration(text string) (Declaration, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Declaration{}, false
	}

	// Find the first colon that's not in a quoted string
	colonIndex := p.findUnquotedChar(text, ':')
	if colonIndex == -1 {
		return Declaration{}, false
	}

	property := NormalizePropertyName(text[:colonIndex])
	value := strings.TrimSpace(text[colonIndex+1:])
	if property == "" || value == "" {
		return Declaration{}, false
	}

	// Check for !important
	important := p.importantRegex.MatchString(value)
	if important {
		value = strings.TrimSpace(p.importantRegex.ReplaceAllString(value, ""))
	}

	return Declaration{
		Property:  property,
		Value:     value,
		Important: important,
	}, true
}

// smartSplit splits a string by delimiter, respecting quoted strings
func (p *Parser) smartSplit(s string, delimiter rune) []string {
	var parts []string
	var current strings.Builder
	var inQuotes bool
	var quoteChar rune

	for _, char := range s {
		switch {
		case !inQuotes && (char == '"' || char == '\''):
			inQuotes = true
			quoteChar = char
			current.WriteRune(char)
		case inQuotes && char == quoteChar:
			inQuotes = false
			current.WriteRune(char)
		case !inQuotes && char == delimiter:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// findUnquotedChar finds the first occurrence of char that's not in quotes
func (p *Parser) findUnquotedChar(s string, char rune) int {
	var inQuotes bool
	var quoteChar rune

	for i, c := range s {
		switch {
		case !inQuotes && (c == '"' || c == '\''):
			inQuotes = true
			quoteChar = c
		case inQuotes && c == quoteChar:
			inQuotes = false
		case !inQuotes && c == char:
			return i
		}
	}

	return -1
}

// NormalizePropertyName normalizes CSS property names
func NormalizePropertyName(property string) string {
	return strings.ToLower(strings.TrimSpace(property))
}
