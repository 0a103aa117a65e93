package extract

import "testing"

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantValue float64
		wantRaw   string
		wantScale string
	}{
		{"currency grouped", "Total revenues were $12,345,678 for the year.", 12345678, "$12,345,678", ""},
		{"currency billion", "Google Cloud revenue was $12.3 billion in 2022.", 12300000000, "$12.3 billion", "billion"},
		{"currency abbreviated", "capex of $4 bn", 4e9, "$4 bn", "bn"},
		{"currency thousand", "a fee of $250 thousand", 250000, "$250 thousand", "thousand"},
		{"currency space after symbol", "costs $ 1,200 million", 1.2e9, "$ 1,200 million", "million"},
		{"scale word without symbol", "advertising brought in 224,473 million in dollars", 224473e6, "224,473 million in dollars", "million"},
		{"revenue keyword", "Total revenue: 282,836 (in millions)", 282836, "282,836", ""},
		{"symbol beats later scale word", "$100 then 5 billion", 100, "$100", ""},
		{"m is not the start of a word", "we spent $5 more than planned", 5, "$5", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMoney(tt.text)
			if !ok {
				t.Fatalf("expected a match in %q", tt.text)
			}
			if got.Value != tt.wantValue {
				t.Errorf("value: expected %v, got %v", tt.wantValue, got.Value)
			}
			if got.Raw != tt.wantRaw {
				t.Errorf("raw: expected %q, got %q", tt.wantRaw, got.Raw)
			}
			if got.Scale != tt.wantScale {
				t.Errorf("scale: expected %q, got %q", tt.wantScale, got.Scale)
			}
			if got.Unit != UnitUSD {
				t.Errorf("unit: expected %q, got %q", UnitUSD, got.Unit)
			}
		})
	}
}

func TestParseMoney_NoMatch(t *testing.T) {
	for _, text := range []string{"", "No figures here.", "Item 7. Management's Discussion"} {
		if m, ok := ParseMoney(text); ok {
			t.Errorf("expected no match for %q, got %+v", text, m)
		}
	}
}

func TestParseMoney_UnparsableSeparatorsFallThrough(t *testing.T) {
	// "1.234.567" keeps two dots after separator stripping; the next pattern
	// still finds the keyword-anchored figure.
	got, ok := ParseMoney("$1.234.567 and net sales of 900")
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Value != 900 {
		t.Errorf("expected 900, got %v", got.Value)
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"Advertising was 45.6% of revenue.", 45.6},
		{"Cloud revenue grew by 12 percent year over year.", 12},
		{"a 7 percentage point increase", 7},
		{"margin of 30 %", 30},
		{"first 10% then 20%", 10},
	}
	for _, tt := range tests {
		got, ok := ParsePercent(tt.text)
		if !ok {
			t.Errorf("expected a match in %q", tt.text)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: expected %v, got %v", tt.text, tt.want, got)
		}
	}
}

func TestParsePercent_NoMatch(t *testing.T) {
	if v, ok := ParsePercent("revenue increased substantially"); ok {
		t.Errorf("expected no match, got %v", v)
	}
}
