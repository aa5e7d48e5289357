package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"swiftcore/internal/propcheck"
)

type progressModel struct {
	title   string
	events  <-chan propcheck.Event
	spinner spinner.Model
	prog    progress.Model
	items   []propertyItem
	index   map[string]int
	failed  int
	width   int
	done    bool
}

type propertyItem struct {
	name   string
	status propcheck.Status
	cases  int
	total  int
	detail string
}

type eventMsg propcheck.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders property check
// progress. The model quits when events is closed.
func NewProgressModel(title string, properties []string, events <-chan propcheck.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	items := make([]propertyItem, 0, len(properties))
	index := make(map[string]int, len(properties))
	for i, name := range properties {
		items = append(items, propertyItem{name: name, status: propcheck.StatusQueued})
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(propcheck.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.failed > 0 {
		header = fmt.Sprintf("%s (%d failed)", header, m.failed)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 10
	countWidth := 11
	nameWidth := m.width - statusWidth - countWidth - 6
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		status := string(item.status)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%10s", status))
		count := fmt.Sprintf("%5d/%-5d", item.cases, item.total)
		line := fmt.Sprintf("  %s %s %s", statusStyled, count, truncate(item.name, nameWidth))
		b.WriteString(line)
		b.WriteString("\n")
		if item.detail != "" {
			b.WriteString("    ")
			b.WriteString(styleStatus(propcheck.StatusFailed).Render(truncate(item.detail, m.width-6)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev propcheck.Event) tea.Cmd {
	idx, ok := m.index[ev.Property]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	item.status = ev.Status
	item.total = ev.Total
	if ev.Case > item.cases {
		item.cases = ev.Case
	}
	if ev.Status == propcheck.StatusFailed {
		m.failed++
		if ev.Err != nil {
			item.detail = ev.Err.Error()
		}
	}
	return m.prog.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		switch item.status {
		case propcheck.StatusPassed, propcheck.StatusFailed, propcheck.StatusSkipped:
			total += 1.0
		case propcheck.StatusRunning:
			total += 0.5
		}
	}
	return total / float64(len(m.items))
}

func styleStatus(status propcheck.Status) lipgloss.Style {
	switch status {
	case propcheck.StatusPassed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case propcheck.StatusFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case propcheck.StatusRunning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	case propcheck.StatusSkipped:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
