package domain

// FallbackSection labels the single section produced when a filing has no
// "Item N" headings.
const FallbackSection = "full_text"

// Section is one labeled span of a filing.
type Section struct {
	Heading string `json:"section"`
	Text    string `json:"text"`
}

// ParsedDocument is a filing after text extraction and segmentation.
type ParsedDocument struct {
	Company    string    `json:"company"`
	Year       int       `json:"year"`
	SourceFile string    `json:"source_file"`
	Sections   []Section `json:"sections"`
}

// Chunk is the atomic retrieval unit.
type Chunk struct {
	ID      string `json:"id"`
	Company string `json:"company"`
	Year    int    `json:"year"`
	Section string `json:"section"`
	Text    string `json:"text"`
	CharLen int    `json:"char_len"`
}

// EmbeddingRecord pairs a chunk with its vector.
type EmbeddingRecord struct {
	Chunk  Chunk
	Vector []float64
}

// SearchResult is a copy of a chunk's metadata plus score and excerpt.
type SearchResult struct {
	Chunk
	Score   float64 `json:"score"`
	Excerpt string  `json:"excerpt"`
}

// SubQueryResult is what one sub-query produced after retrieval and extraction.
type SubQueryResult struct {
	SubQuery     string        `json:"sub_query"`
	Value        *float64      `json:"value"`
	ValuePercent *float64      `json:"value_percent,omitempty"`
	Raw          *string       `json:"raw"`
	Source       *SearchResult `json:"source"`
}

// Citation points at the chunk that backed a sub-query.
type Citation struct {
	Company string `json:"company"`
	Year    string `json:"year"`
	Excerpt string `json:"excerpt"`
	Section string `json:"section"`
}

// SynthesizedAnswer is the final structured answer to a question.
type SynthesizedAnswer struct {
	Query      string     `json:"query"`
	Answer     string     `json:"answer"`
	Reasoning  string     `json:"reasoning"`
	Percentage *float64   `json:"percentage"`
	SubQueries []string   `json:"sub_queries"`
	Sources    []Citation `json:"sources"`
}
