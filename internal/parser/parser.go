// Package parser turns raw filings into ParsedDocuments.
package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"finqa/internal/domain"
	"finqa/internal/segmenter"
)

// Extractor converts raw filing bytes into plain text, one logical line per
// text block.
type Extractor interface {
	Extract(r io.Reader) (string, error)
}

// SupportedExtensions lists filing extensions the indexer picks up.
var SupportedExtensions = map[string]bool{
	".htm":      true,
	".html":     true,
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// ForFile returns the extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".htm", ".html":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".txt":
		return &TextExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ParseFilename derives company and year from "{COMPANY}_{YEAR}.<ext>".
func ParseFilename(path string) (company string, year int, err error) {
	base := filepath.Base(path)
	parts := strings.Split(base, "_")
	if len(parts) < 2 || parts[0] == "" {
		return "", 0, fmt.Errorf("filename %q is not COMPANY_YEAR.ext", base)
	}
	yearPart, _, _ := strings.Cut(parts[1], ".")
	year, err = strconv.Atoi(yearPart)
	if err != nil {
		return "", 0, fmt.Errorf("filename %q has no numeric year: %w", base, err)
	}
	return parts[0], year, nil
}

// ParseFiling extracts the text of the filing at path and segments it.
func ParseFiling(path string) (domain.ParsedDocument, error) {
	company, year, err := ParseFilename(path)
	if err != nil {
		return domain.ParsedDocument{}, err
	}
	ex, err := ForFile(path)
	if err != nil {
		return domain.ParsedDocument{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return domain.ParsedDocument{}, err
	}
	defer f.Close()

	text, err := ex.Extract(f)
	if err != nil {
		return domain.ParsedDocument{}, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}
	return domain.ParsedDocument{
		Company:    company,
		Year:       year,
		SourceFile: filepath.Base(path),
		Sections:   segmenter.Split(text),
	}, nil
}
