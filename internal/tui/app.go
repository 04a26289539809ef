// Package tui is an interactive browser over search results.
package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgomes/npq/internal/note"
)

// linesPerResult is the height of one rendered result, blank line included.
const linesPerResult = 5

// SearchFunc runs a search for the browser.
type SearchFunc func(query string) []note.Result

type SearchModel struct {
	input    textinput.Model
	search   SearchFunc
	query    string
	results  []note.Result
	selected int
	status   string
	error    string
	width    int
	height   int
}

func NewSearchModel(query string, search SearchFunc) SearchModel {
	input := textinput.New()
	input.Placeholder = "Search notes..."
	input.SetValue(query)
	input.Focus()
	input.Width = 60

	return SearchModel{
		input:  input,
		search: search,
	}
}

func (m SearchModel) Init() tea.Cmd {
	if q := strings.TrimSpace(m.input.Value()); q != "" {
		return tea.Batch(textinput.Blink, m.runSearch(q))
	}
	return textinput.Blink
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.selected < len(m.results)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && q != m.query {
				return m, m.runSearch(q)
			}
			if len(m.results) > 0 && m.selected < len(m.results) {
				return m, openInNotePlan(m.results[m.selected])
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SearchResultsMsg:
		m.query = msg.Query
		m.results = msg.Results
		m.selected = 0
		m.error = ""
		m.status = ""
		return m, nil

	case OpenedMsg:
		m.status = "Opened " + msg.Title
		m.error = ""
		return m, nil

	case OpenErrorMsg:
		m.error = msg.Error
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m SearchModel) runSearch(query string) tea.Cmd {
	search := m.search
	return func() tea.Msg {
		return SearchResultsMsg{Query: query, Results: search(query)}
	}
}

func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("npq") + " " + m.input.View() + "\n\n")

	if m.error != "" {
		b.WriteString(errorStyle.Render("Error: "+m.error) + "\n\n")
	}

	switch {
	case m.query == "":
		b.WriteString(dimStyle.Render("Type a query and press enter") + "\n")
	case len(m.results) == 0:
		b.WriteString(dimStyle.Render("No results found for: "+m.query) + "\n")
	default:
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d result(s) for '%s'", len(m.results), m.query)) + "\n\n")
		m.writeResults(&b)
	}

	if m.status != "" {
		b.WriteString(dimStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ navigate  enter search/open in NotePlan  esc quit"))

	return b.String()
}

func (m SearchModel) writeResults(b *strings.Builder) {
	first, last := m.visibleRange()
	width := 76
	if m.width > 24 && m.width-4 < width {
		width = m.width - 4
	}

	for i := first; i < last; i++ {
		r := m.results[i]

		if i == m.selected {
			b.WriteString(selectedStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}

		tag := markdownStyle
		if r.Source == note.SourceSpaces {
			tag = spacesStyle
		}
		b.WriteString(tag.Render("["+strings.ToUpper(r.Source)+"]") + " ")
		b.WriteString(truncate(r.Title, width-12))
		if r.ModifiedAt != nil {
			b.WriteString(" " + dimStyle.Render(note.DatePrefix(*r.ModifiedAt)))
		}
		b.WriteString("\n")

		b.WriteString("    " + pathStyle.Render(truncate(r.Path, width)) + "\n")
		for _, line := range wrapText(r.Snippet, width, linesPerResult-3) {
			b.WriteString("    " + snippetStyle.Render(line) + "\n")
		}
		b.WriteString("\n")
	}
}

// visibleRange returns the slice of results that fits the window, keeping
// the selection in view.
func (m SearchModel) visibleRange() (int, int) {
	n := len(m.results)
	if m.height <= 0 {
		return 0, n
	}

	visible := max(1, (m.height-8)/linesPerResult)
	if visible >= n {
		return 0, n
	}

	first := max(0, m.selected-visible/2)
	if first+visible > n {
		first = n - visible
	}
	return first, first + visible
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}

func wrapText(s string, width, maxLines int) []string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) == 0 {
		return nil
	}

	runes := []rune(s)
	var lines []string
	for len(runes) > 0 && len(lines) < maxLines {
		if len(runes) <= width {
			lines = append(lines, string(runes))
			runes = nil
			break
		}

		// Break at the last space in the second half of the line.
		breakAt := width
		for breakAt > width/2 && runes[breakAt] != ' ' {
			breakAt--
		}
		if runes[breakAt] != ' ' {
			breakAt = width
		}

		lines = append(lines, strings.TrimSpace(string(runes[:breakAt])))
		runes = []rune(strings.TrimSpace(string(runes[breakAt:])))
	}

	if len(runes) > 0 && len(lines) == maxLines {
		last := []rune(lines[maxLines-1])
		if len(last) > width-3 {
			last = last[:width-3]
		}
		lines[maxLines-1] = string(last) + "..."
	}

	return lines
}

func openInNotePlan(r note.Result) tea.Cmd {
	return func() tea.Msg {
		if r.URL == "" {
			return OpenErrorMsg{Error: "no NotePlan link for " + r.Title}
		}

		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", r.URL)
		case "linux":
			cmd = exec.Command("xdg-open", r.URL)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", r.URL)
		default:
			return OpenErrorMsg{Error: "opening links is not supported on " + runtime.GOOS}
		}

		if err := cmd.Start(); err != nil {
			return OpenErrorMsg{Error: err.Error()}
		}
		return OpenedMsg{Title: r.Title}
	}
}
