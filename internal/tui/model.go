package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"finqa/internal/domain"
)

// AnswerPort is the TUI-facing subset of the answer synthesizer.
type AnswerPort interface {
	Synthesize(ctx context.Context, query string) (domain.SynthesizedAnswer, error)
}

const queryTimeout = 2 * time.Minute

type answerMsg struct {
	query  string
	answer domain.SynthesizedAnswer
	err    error
}

// Model is the Bubble Tea model for the question/answer loop.
type Model struct {
	service  AnswerPort
	input    textinput.Model
	viewport viewport.Model
	answer   *domain.SynthesizedAnswer
	summary  string
	status   string
	cursor   int
	ready    bool
	busy     bool
}

// New creates a TUI model. summary is shown under the title, usually the
// index manifest summary.
func New(service AnswerPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the filings and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, summary: summary, status: "Index loaded. Ask a question."}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) ask(q string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		ans, err := m.service.Synthesize(ctx, q)
		return answerMsg{query: q, answer: ans, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.answer = nil
		} else {
			m.status = fmt.Sprintf("Answered %q with %d sub-queries", msg.query, len(msg.answer.SubQueries))
			ans := msg.answer
			m.answer = &ans
			m.cursor = 0
		}
		m.viewport.SetContent(m.renderAnswer())
		m.viewport.GotoTop()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.busy {
				m.busy = true
				m.status = fmt.Sprintf("Answering %q...", q)
				return m, m.ask(q)
			}
		case "down":
			if n := m.citationCount(); n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "up":
			if n := m.citationCount(); n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Filing Q&A")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) citationCount() int {
	if m.answer == nil {
		return 0
	}
	return len(m.answer.Sources)
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "No answer yet."
	}
	a := m.answer
	var b strings.Builder
	b.WriteString(answerStyle.Render(a.Answer))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(a.Reasoning))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Sub-queries: " + strings.Join(a.SubQueries, " | ")))
	if len(a.Sources) == 0 {
		return b.String()
	}
	src := a.Sources[m.cursor]
	fmt.Fprintf(&b, "\n\nSource %d/%d  %s %s  %s\n\n", m.cursor+1, len(a.Sources), src.Company, src.Year, src.Section)
	hint := a.Query
	if m.cursor < len(a.SubQueries) {
		hint = a.SubQueries[m.cursor]
	}
	b.WriteString(highlightBestSentence(src.Excerpt, hint))
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	answerStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\d[\d,.]*`)
	sentenceRe     = regexp.MustCompile(`[^.!?]+(?:[.!?]|$)`)
)

// highlightBestSentence renders text with the sentence sharing the most
// tokens with query highlighted.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := toTokenSet(query)
	bestIdx, bestScore := -1, 0
	for i, s := range sentences {
		if score := tokenOverlapScore(qTokens, s); score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	out := make([]string, 0, len(sentences))
	for i, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if i == bestIdx {
			s = highlightStyle.Render(s)
		}
		out = append(out, s)
	}
	return strings.Join(out, " ")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	seen := make(map[string]struct{})
	for _, t := range unicodeWordRe.FindAllString(strings.ToLower(sentence), -1) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
