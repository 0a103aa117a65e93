package summarizer

import (
	"strings"
	"testing"
)

func TestSummarize_PicksFrequentSentencesInOrder(t *testing.T) {
	text := "Advertising revenue grew strongly. The weather was mild. " +
		"Advertising revenue from search drove advertising growth. Cats sleep."
	got, err := NewFrequencySummarizer().Summarize(text, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := "Advertising revenue grew strongly. Advertising revenue from search drove advertising growth."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSummarize_DropsDuplicates(t *testing.T) {
	text := "Cloud revenue increased. Cloud revenue increased. Search revenue increased."
	got, _ := NewFrequencySummarizer().Summarize(text, 2)
	if strings.Count(got, "Cloud revenue increased.") != 1 {
		t.Errorf("duplicate sentence kept: %q", got)
	}
}

func TestSummarize_NoSentences(t *testing.T) {
	got, err := NewFrequencySummarizer().Summarize("  no terminal punctuation ", 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != "no terminal punctuation" {
		t.Errorf("unexpected summary %q", got)
	}
}
