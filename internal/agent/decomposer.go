// Package agent turns a question into sub-queries, answers each through a
// Retriever plus numeric extraction, and composes the final answer.
package agent

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultEntity names the company sub-queries are phrased about.
const DefaultEntity = "Google"

// PlanKind is the query shape a Plan was built for.
type PlanKind int

const (
	// PlanSingle retrieves for the question as asked.
	PlanSingle PlanKind = iota
	// PlanAdShare asks for advertising and total revenue of one year.
	PlanAdShare
	// PlanYearRange asks for one metric in two years.
	PlanYearRange
)

func (k PlanKind) String() string {
	switch k {
	case PlanAdShare:
		return "ad_share"
	case PlanYearRange:
		return "year_range"
	default:
		return "single"
	}
}

// Plan is the ordered list of sub-queries issued for a question.
type Plan struct {
	Kind       PlanKind
	SubQueries []string
}

var (
	yearRe         = regexp.MustCompile(`20\d{2}`)
	yearRangeRe    = regexp.MustCompile(`from\s+(20\d{2})\s+to\s+(20\d{2})`)
	revenueShareRe = regexp.MustCompile(`percentage of .* revenue|% of .* revenue|what percentage`)

	changeKeywords = []string{"compare", "growth", "how did", "change"}
)

// NeedsDecomposition reports whether query names a year range, asks for a
// comparison or change, or asks for a share of revenue.
func NeedsDecomposition(query string) bool {
	q := strings.ToLower(query)
	if yearRangeRe.MatchString(q) {
		return true
	}
	for _, kw := range changeKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return revenueShareRe.MatchString(q)
}

// Decompose picks the template for query. Questions that need no
// decomposition, or match no template, become a single verbatim sub-query.
func Decompose(query, entity string) Plan {
	if entity == "" {
		entity = DefaultEntity
	}
	single := Plan{Kind: PlanSingle, SubQueries: []string{query}}
	if !NeedsDecomposition(query) {
		return single
	}
	q := strings.ToLower(query)

	if strings.Contains(q, "percentage") && strings.Contains(q, "revenue") && strings.Contains(q, "advert") {
		suffix := ""
		if year := yearRe.FindString(q); year != "" {
			suffix = " " + year
		}
		return Plan{Kind: PlanAdShare, SubQueries: []string{
			entity + " advertising revenue" + suffix,
			entity + " total revenue" + suffix,
		}}
	}

	if m := yearRangeRe.FindStringSubmatch(q); m != nil {
		metric := rangeMetric(q)
		return Plan{Kind: PlanYearRange, SubQueries: []string{
			fmt.Sprintf("%s %s %s", entity, metric, m[1]),
			fmt.Sprintf("%s %s %s", entity, metric, m[2]),
		}}
	}
	return single
}

func rangeMetric(q string) string {
	switch {
	case strings.Contains(q, "data center") || strings.Contains(q, "cloud"):
		return "cloud revenue"
	case strings.Contains(q, "revenue"):
		return "total revenue"
	default:
		return "revenue"
	}
}
