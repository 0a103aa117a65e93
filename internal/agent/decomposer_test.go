package agent

import (
	"reflect"
	"testing"
)

func TestNeedsDecomposition(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"How did Google's cloud revenue grow from 2022 to 2023?", true},
		{"Compare search and YouTube revenue", true},
		{"What was the change in operating income?", true},
		{"What percentage of Google's 2023 revenue came from advertising?", true},
		{"Advertising as a % of total revenue", true},
		{"Who is the CEO of Alphabet?", false},
		{"What was total revenue in 2023?", false},
	}
	for _, tt := range tests {
		if got := NeedsDecomposition(tt.query); got != tt.want {
			t.Errorf("NeedsDecomposition(%q) = %v, expected %v", tt.query, got, tt.want)
		}
	}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		entity string
		kind   PlanKind
		subs   []string
	}{
		{
			name:  "advertising share with year",
			query: "What percentage of Google's 2023 revenue came from advertising?",
			kind:  PlanAdShare,
			subs:  []string{"Google advertising revenue 2023", "Google total revenue 2023"},
		},
		{
			name:  "advertising share without year",
			query: "What percentage of revenue comes from advertising?",
			kind:  PlanAdShare,
			subs:  []string{"Google advertising revenue", "Google total revenue"},
		},
		{
			name:  "cloud growth over a range",
			query: "How did Google's cloud revenue grow from 2022 to 2023?",
			kind:  PlanYearRange,
			subs:  []string{"Google cloud revenue 2022", "Google cloud revenue 2023"},
		},
		{
			name:  "data center maps to cloud",
			query: "Data center spend from 2021 to 2022",
			kind:  PlanYearRange,
			subs:  []string{"Google cloud revenue 2021", "Google cloud revenue 2022"},
		},
		{
			name:  "revenue range",
			query: "Revenue from 2021 to 2023",
			kind:  PlanYearRange,
			subs:  []string{"Google total revenue 2021", "Google total revenue 2023"},
		},
		{
			name:  "generic metric range",
			query: "Headcount from 2020 to 2023",
			kind:  PlanYearRange,
			subs:  []string{"Google revenue 2020", "Google revenue 2023"},
		},
		{
			name:   "custom entity",
			query:  "How did cloud revenue change from 2022 to 2023?",
			entity: "Alphabet",
			kind:   PlanYearRange,
			subs:   []string{"Alphabet cloud revenue 2022", "Alphabet cloud revenue 2023"},
		},
		{
			name:  "flagged but no template",
			query: "Compare Search and YouTube",
			kind:  PlanSingle,
			subs:  []string{"Compare Search and YouTube"},
		},
		{
			name:  "not flagged",
			query: "Who audits the company?",
			kind:  PlanSingle,
			subs:  []string{"Who audits the company?"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decompose(tt.query, tt.entity)
			if got.Kind != tt.kind {
				t.Errorf("kind: expected %v, got %v", tt.kind, got.Kind)
			}
			if !reflect.DeepEqual(got.SubQueries, tt.subs) {
				t.Errorf("sub-queries: expected %q, got %q", tt.subs, got.SubQueries)
			}
		})
	}
}
