package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"finqa/internal/domain"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		path    string
		company string
		year    int
		wantErr bool
	}{
		{"data/GOOGL_2023.htm", "GOOGL", 2023, false},
		{"/abs/MSFT_2022.pdf", "MSFT", 2022, false},
		{"GOOGL_2021_parsed.json", "GOOGL", 2021, false},
		{"GOOGL.htm", "", 0, true},
		{"GOOGL_latest.htm", "", 0, true},
	}
	for _, tt := range tests {
		company, year, err := ParseFilename(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.path)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.path, err)
			continue
		}
		if company != tt.company || year != tt.year {
			t.Errorf("%s: expected %s/%d, got %s/%d", tt.path, tt.company, tt.year, company, year)
		}
	}
}

func TestForFile(t *testing.T) {
	for _, name := range []string{"a_1.htm", "a_1.HTML", "a_1.pdf", "a_1.md", "a_1.txt"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("%s: expected supported", name)
		}
	}
	if _, err := ForFile("a_1.docx"); err == nil {
		t.Error("expected error for .docx")
	}
}

func TestHTMLExtractor(t *testing.T) {
	input := `<html><head><title>GOOGL 10-K</title><style>p{color:red}</style></head>
<body>
<script>var x = 1;</script>
<div><span>Item 7.</span> <span>Management's Discussion</span></div>
<p>Total revenues were <b>$307,394</b> million.</p>
<noscript>enable js</noscript>
</body></html>`
	got, err := (&HTMLExtractor{}).Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "GOOGL 10-K\nItem 7.\nManagement's Discussion\nTotal revenues were\n$307,394\nmillion."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownExtractor(t *testing.T) {
	input := "# Annual Report\n\nPreamble.\n\n## Item 1. Business\n\nWe sell ads.\n\n- Search\n- YouTube\n\n```\nraw block\n```\n"
	got, err := (&MarkdownExtractor{}).Extract(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Annual Report\nPreamble.\nItem 1. Business\nWe sell ads.\nSearch\nYouTube\nraw block"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseFiling(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "GOOGL_2023.txt")
	body := "Cover page\nItem 1. Business\nGoogle Services and Google Cloud.\nItem 7. MD&A\nRevenue rose."
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := ParseFiling(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Company != "GOOGL" || doc.Year != 2023 || doc.SourceFile != "GOOGL_2023.txt" {
		t.Errorf("unexpected header %+v", doc)
	}
	want := []domain.Section{
		{Heading: "Item 1. Business", Text: "Google Services and Google Cloud."},
		{Heading: "Item 7. MD&A", Text: "Revenue rose."},
	}
	if len(doc.Sections) != len(want) {
		t.Fatalf("expected %d sections, got %+v", len(want), doc.Sections)
	}
	for i := range want {
		if doc.Sections[i] != want[i] {
			t.Errorf("section %d: expected %+v, got %+v", i, want[i], doc.Sections[i])
		}
	}
}
