package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"finqa/internal/domain"
)

const (
	DefaultChunkSizeChars  = 3000
	DefaultOverlapChars    = 300
	DefaultMinSectionChars = 50
)

// SentenceChunker packs sentences into character-bounded windows. Each new
// window is seeded with the tail of the previous one.
type SentenceChunker struct {
	chunkSizeChars  int
	overlapChars    int
	minSectionChars int
	boundary        *regexp.Regexp
}

func NewSentenceChunker(chunkSizeChars, overlapChars, minSectionChars int) *SentenceChunker {
	if chunkSizeChars <= 0 {
		chunkSizeChars = DefaultChunkSizeChars
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if minSectionChars < 0 {
		minSectionChars = 0
	}
	return &SentenceChunker{
		chunkSizeChars:  chunkSizeChars,
		overlapChars:    overlapChars,
		minSectionChars: minSectionChars,
		boundary:        regexp.MustCompile(`[.!?]\s+`),
	}
}

// Chunk turns one section into chunks tagged with the filing's company, year
// and section label. Sections shorter than the minimum produce nothing.
func (c *SentenceChunker) Chunk(doc domain.ParsedDocument, section domain.Section) []domain.Chunk {
	if section.Text == "" || utf8.RuneCountInString(section.Text) < c.minSectionChars {
		return nil
	}
	label := section.Heading
	if label == "" {
		label = "unknown"
	}
	windows := c.Windows(section.Text)
	chunks := make([]domain.Chunk, 0, len(windows))
	for _, w := range windows {
		chunks = append(chunks, domain.Chunk{
			ID:      uuid.NewString(),
			Company: doc.Company,
			Year:    doc.Year,
			Section: label,
			Text:    w,
			CharLen: utf8.RuneCountInString(w),
		})
	}
	return chunks
}

// Windows returns the chunk texts for text without any metadata.
func (c *SentenceChunker) Windows(text string) []string {
	var out []string
	cur := ""
	curLen := 0
	for _, s := range c.SplitSentences(text) {
		sLen := utf8.RuneCountInString(s)
		if curLen+sLen <= c.chunkSizeChars {
			cur += " " + s
			curLen += 1 + sLen
			continue
		}
		if emitted := strings.TrimSpace(cur); emitted != "" {
			out = append(out, emitted)
		}
		tail := lastRunes(cur, c.overlapChars)
		cur = tail + " " + s
		curLen = utf8.RuneCountInString(tail) + 1 + sLen
	}
	if emitted := strings.TrimSpace(cur); emitted != "" {
		out = append(out, emitted)
	}
	return out
}

// SplitSentences cuts after '.', '!' or '?' followed by whitespace. It will
// split "U.S. dollars" and similar; that is accepted.
func (c *SentenceChunker) SplitSentences(text string) []string {
	var sentences []string
	prev := 0
	for _, loc := range c.boundary.FindAllStringIndex(text, -1) {
		sentences = append(sentences, text[prev:loc[0]+1])
		prev = loc[1]
	}
	sentences = append(sentences, text[prev:])
	return sentences
}

func lastRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
