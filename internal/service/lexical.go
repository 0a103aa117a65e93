package service

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"finqa/internal/domain"
)

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// lexicalSearch ranks records by the Ochiai coefficient between the query's
// and each chunk's token sets. It stands in for the index when the query
// embeds to the zero vector.
func lexicalSearch(query string, records []domain.EmbeddingRecord, topK int) []domain.Hit {
	qset := tokenSet(query)
	hits := make([]domain.Hit, len(records))
	for i, rec := range records {
		hits[i] = domain.Hit{Position: i, Score: ochiai(qset, tokenSet(rec.Chunk.Text))}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK < 0 {
		topK = 0
	}
	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK]
}

func tokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// ochiai is |A∩B| / sqrt(|A||B|).
func ochiai(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(a))*float64(len(b)))
}
