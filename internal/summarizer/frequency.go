// Package summarizer condenses the indexed corpus into a few representative
// sentences for the index manifest.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxSentences is used when the caller passes a non-positive limit.
const DefaultMaxSentences = 5

// maxSentenceChars drops table rows and run-on extraction artifacts, which
// otherwise dominate the frequency ranking.
const maxSentenceChars = 400

// FrequencySummarizer ranks sentences by normalized term frequency, with
// stopwords filtered, and returns the best ones in document order.
type FrequencySummarizer struct {
	tokenPattern    *regexp.Regexp
	sentencePattern *regexp.Regexp
	stopwords       map[string]struct{}
}

func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		tokenPattern:    regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentencePattern: regexp.MustCompile(`[^.!?\n]+[.!?]`),
		stopwords:       defaultStopwords(),
	}
}

type scored struct {
	idx   int
	score float64
}

func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	var sentences []string
	for _, sent := range s.sentencePattern.FindAllString(text, -1) {
		sent = strings.TrimSpace(sent)
		if len(sent) > 1 && len(sent) <= maxSentenceChars {
			sentences = append(sentences, sent)
		}
	}
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := s.termFrequencies(sentences)
	ranked := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		total := 0.0
		for _, tok := range toks {
			total += freq[tok]
		}
		if len(toks) > 0 {
			total /= math.Sqrt(float64(len(toks)))
		}
		ranked[i] = scored{idx: i, score: total}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	seen := make(map[string]struct{})
	var picked []int
	for _, r := range ranked {
		if len(picked) == maxSentences {
			break
		}
		// overlapping chunks repeat sentences verbatim
		if _, dup := seen[sentences[r.idx]]; dup {
			continue
		}
		seen[sentences[r.idx]] = struct{}{}
		picked = append(picked, r.idx)
	}
	sort.Ints(picked)
	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " "), nil
}

// termFrequencies counts non-stopword tokens and scales them into [0, 1].
func (s *FrequencySummarizer) termFrequencies(sentences []string) map[string]float64 {
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			if _, stop := s.stopwords[tok]; stop {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}
	return freq
}

func (s *FrequencySummarizer) tokens(text string) []string {
	return s.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that", "these", "those", "from", "up", "down", "over", "under", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "can", "will", "should", "now", "we", "our", "us", "not", "may", "which", "other", "also",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
