package parser

import "io"

// TextExtractor handles plain-text filings.
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
