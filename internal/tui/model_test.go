package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"finqa/internal/domain"
)

type fakePort struct {
	answer domain.SynthesizedAnswer
	err    error
	asked  []string
}

func (f *fakePort) Synthesize(_ context.Context, q string) (domain.SynthesizedAnswer, error) {
	f.asked = append(f.asked, q)
	a := f.answer
	a.Query = q
	return a, f.err
}

func ready(t *testing.T, port AnswerPort) Model {
	t.Helper()
	next, _ := New(port, "summary line").Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func submit(t *testing.T, m Model, q string) Model {
	t.Helper()
	m.input.SetValue(q)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command for the question")
	}
	next, _ = next.(Model).Update(cmd())
	return next.(Model)
}

func TestAsk_RendersAnswerAndCitations(t *testing.T) {
	port := &fakePort{answer: domain.SynthesizedAnswer{
		Answer:     "GOOGL advertising revenue was 1 USD.",
		Reasoning:  "computed",
		SubQueries: []string{"Google advertising revenue 2023", "Google total revenue 2023"},
		Sources: []domain.Citation{
			{Company: "GOOGL", Year: "2023", Section: "Item 7", Excerpt: "Advertising revenue rose."},
			{Company: "GOOGL", Year: "2022", Section: "Item 8", Excerpt: "Total revenue rose."},
		},
	}}
	m := submit(t, ready(t, port), "what share?")

	if len(port.asked) != 1 || port.asked[0] != "what share?" {
		t.Fatalf("unexpected questions %v", port.asked)
	}
	view := m.View()
	for _, want := range []string{"GOOGL advertising revenue was 1 USD.", "Source 1/2", "Item 7", "summary line"} {
		if !strings.Contains(view, want) {
			t.Errorf("view is missing %q", want)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.cursor != 1 || !strings.Contains(m.renderAnswer(), "Source 2/2") {
		t.Errorf("down did not move to the second citation")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if next.(Model).cursor != 0 {
		t.Errorf("cursor should wrap around")
	}
}

func TestAsk_ShowsErrors(t *testing.T) {
	m := submit(t, ready(t, &fakePort{err: errors.New("index not built")}), "anything")
	if !strings.Contains(m.status, "index not built") {
		t.Errorf("unexpected status %q", m.status)
	}
	if m.answer != nil {
		t.Error("answer should be cleared on error")
	}
}

func TestEnter_BlankInputDoesNothing(t *testing.T) {
	port := &fakePort{}
	m := ready(t, port)
	m.input.SetValue("   ")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next.(Model).busy || len(port.asked) != 0 {
		t.Error("blank input should not be submitted")
	}
}

func TestHighlightBestSentence(t *testing.T) {
	text := "Search grew. Cloud revenue was $33 billion. Other bets shrank."
	got := highlightBestSentence(text, "Google cloud revenue 2023")
	if !strings.Contains(got, highlightStyle.Render("Cloud revenue was $33 billion.")) {
		t.Errorf("expected the cloud sentence to be highlighted, got %q", got)
	}
	if !strings.HasPrefix(got, "Search grew.") {
		t.Errorf("unexpected rendering %q", got)
	}
}
