package tfidf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"finqa/internal/embedding"
)

// DefaultMaxFeatures caps the vocabulary, and so the vector dimension.
const DefaultMaxFeatures = 4096

// Embedder implements a TF-IDF vectorizer over a capped vocabulary.
// Vocabulary and IDF weights are learned in Prepare and can be persisted.
type Embedder struct {
	vocabulary   map[string]int
	terms        []string
	idf          []float64
	maxFeatures  int
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder(maxFeatures int) *Embedder {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Embedder{
		vocabulary:   make(map[string]int),
		maxFeatures:  maxFeatures,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF values from the provided corpus.
// When the corpus has more distinct terms than maxFeatures, the terms with the
// highest document frequency are kept.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus; ensure tokenizer supports your language")
	}
	if len(terms) > e.maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if df[terms[i]] != df[terms[j]] {
				return df[terms[i]] > df[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:e.maxFeatures]
	}
	// Stable ordering for vocabulary
	sort.Strings(terms)

	n := float64(len(corpus))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		// Smoothed IDF
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.setState(terms, idf)
	return nil
}

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return len(e.terms) }

// Embed computes the L2-normalized TF-IDF embedding for the given text.
// Text with no in-vocabulary terms yields the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	if !e.prepared {
		return nil, errors.New("tfidf embedder not prepared")
	}
	vec := make([]float64, len(e.terms))
	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}
	embedding.NormalizeL2(vec)
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type persistedState struct {
	Name  string    `json:"name"`
	Terms []string  `json:"terms"`
	IDF   []float64 `json:"idf"`
}

// SaveState writes the learned vocabulary and IDF weights as JSON.
func (e *Embedder) SaveState(path string) error {
	if !e.prepared {
		return errors.New("tfidf embedder not prepared")
	}
	data, err := json.Marshal(persistedState{Name: e.Name(), Terms: e.terms, IDF: e.idf})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadState restores a vocabulary written by SaveState.
func (e *Embedder) LoadState(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var st persistedState
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode tfidf state: %w", err)
	}
	if st.Name != e.Name() {
		return fmt.Errorf("state was written by embedder %q, not %q", st.Name, e.Name())
	}
	if len(st.Terms) == 0 || len(st.Terms) != len(st.IDF) {
		return fmt.Errorf("corrupt tfidf state: %d terms, %d idf weights", len(st.Terms), len(st.IDF))
	}
	e.setState(st.Terms, st.IDF)
	return nil
}

func (e *Embedder) setState(terms []string, idf []float64) {
	e.terms = terms
	e.idf = idf
	e.vocabulary = make(map[string]int, len(terms))
	for i, term := range terms {
		e.vocabulary[term] = i
	}
	e.prepared = true
}

func (e *Embedder) tokenize(text string) []string {
	raw := e.tokenPattern.FindAllString(strings.ToLower(text), -1)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
