package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"finqa/internal/domain"
	"finqa/internal/extract"
	"finqa/internal/logger"
)

// DefaultTopK is the retrieval depth for every sub-query.
const DefaultTopK = 6

const (
	reasoningShare   = "Extracted advertising and total revenue from 10-K chunks and computed advertising/total * 100."
	reasoningGrowth  = "Retrieved values for the two years and computed percentage growth."
	reasoningGeneric = "Returned top retrieved excerpts because numeric extraction failed or query was open-ended."
	noInformation    = "No information found in the parsed 10-K chunks."
)

// Synthesizer answers questions from retrieved chunks.
type Synthesizer struct {
	retriever domain.Retriever
	entity    string
	topK      int
	log       *zap.Logger
}

func NewSynthesizer(retriever domain.Retriever, entity string, topK int, log *zap.Logger) *Synthesizer {
	if entity == "" {
		entity = DefaultEntity
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Synthesizer{retriever: retriever, entity: entity, topK: topK, log: logger.OrNop(log)}
}

// RunSubQuery retrieves for subQuery and takes the first chunk, in rank
// order, with a monetary amount. Failing that it takes the first with a
// percentage, then the top chunk without a value.
func (s *Synthesizer) RunSubQuery(ctx context.Context, subQuery string) (domain.SubQueryResult, error) {
	results, err := s.retriever.Retrieve(ctx, subQuery, s.topK)
	if err != nil {
		return domain.SubQueryResult{}, fmt.Errorf("retrieve %q: %w", subQuery, err)
	}
	for i := range results {
		if m, ok := extract.ParseMoney(results[i].Text); ok {
			return domain.SubQueryResult{SubQuery: subQuery, Value: &m.Value, Raw: &m.Raw, Source: &results[i]}, nil
		}
	}
	for i := range results {
		if pct, ok := extract.ParsePercent(results[i].Text); ok {
			raw := formatPercentRaw(pct)
			return domain.SubQueryResult{SubQuery: subQuery, ValuePercent: &pct, Raw: &raw, Source: &results[i]}, nil
		}
	}
	if len(results) > 0 {
		return domain.SubQueryResult{SubQuery: subQuery, Source: &results[0]}, nil
	}
	return domain.SubQueryResult{SubQuery: subQuery}, nil
}

// Synthesize decomposes query, runs every sub-query and composes the answer.
func (s *Synthesizer) Synthesize(ctx context.Context, query string) (domain.SynthesizedAnswer, error) {
	plan := Decompose(query, s.entity)
	s.log.Debug("decomposed", zap.String("query", query), zap.Stringer("plan", plan.Kind), zap.Strings("sub_queries", plan.SubQueries))

	results := make([]domain.SubQueryResult, 0, len(plan.SubQueries))
	for _, sq := range plan.SubQueries {
		res, err := s.RunSubQuery(ctx, sq)
		if err != nil {
			return domain.SynthesizedAnswer{}, err
		}
		results = append(results, res)
	}
	return Compose(query, plan, results), nil
}

// Compose builds the answer from sub-query results. Two monetary values under
// an advertising-share plan give a share; any other two monetary values give
// growth; everything else returns the retrieved excerpts.
func Compose(query string, plan Plan, results []domain.SubQueryResult) domain.SynthesizedAnswer {
	out := domain.SynthesizedAnswer{
		Query:      query,
		SubQueries: make([]string, len(results)),
		Sources:    []domain.Citation{},
	}
	for i, r := range results {
		out.SubQueries[i] = r.SubQuery
		if r.Source != nil {
			out.Sources = append(out.Sources, citation(r.Source))
		}
	}

	twoValues := len(results) == 2 && results[0].Value != nil && results[1].Value != nil
	switch {
	case twoValues && plan.Kind == PlanAdShare:
		adv, total := *results[0].Value, *results[1].Value
		out.Percentage = share(adv, total)
		out.Answer = fmt.Sprintf("%s advertising revenue was %s USD and total revenue was %s USD, so advertising was %s%% of revenue.",
			results[0].Source.Company, groupThousands(adv), groupThousands(total), formatPct(out.Percentage))
		out.Reasoning = reasoningShare
	case twoValues:
		old, cur := *results[0].Value, *results[1].Value
		out.Percentage = pctChange(old, cur)
		out.Answer = fmt.Sprintf("%s %s -> %s USD; %s -> %s USD. Growth = %s%%.",
			results[0].Source.Company, results[0].SubQuery, groupThousands(old), results[1].SubQuery, groupThousands(cur), formatPct(out.Percentage))
		out.Reasoning = reasoningGrowth
	default:
		var parts []string
		for _, r := range results {
			if r.Source != nil {
				parts = append(parts, fmt.Sprintf("Sub-query: %s\nExcerpt: %s\n", r.SubQuery, r.Source.Excerpt))
			}
		}
		out.Answer = noInformation
		if len(parts) > 0 {
			out.Answer = strings.Join(parts, "\n\n")
		}
		out.Reasoning = reasoningGeneric
	}
	return out
}

func citation(src *domain.SearchResult) domain.Citation {
	return domain.Citation{
		Company: src.Company,
		Year:    strconv.Itoa(src.Year),
		Excerpt: src.Excerpt,
		Section: src.Section,
	}
}

// share is part/total*100, nil when total is zero.
func share(part, total float64) *float64 {
	if total == 0 {
		return nil
	}
	v := part / total * 100
	return &v
}

// pctChange is (cur-old)/old*100, nil when old is zero.
func pctChange(old, cur float64) *float64 {
	if old == 0 {
		return nil
	}
	v := (cur - old) / old * 100
	return &v
}

func formatPct(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

// groupThousands renders v rounded to an integer with comma separators.
func groupThousands(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// formatPercentRaw renders an extracted percentage as "45.6%" or "12.0%".
func formatPercentRaw(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "%"
}
