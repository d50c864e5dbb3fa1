// Package tui is the interactive side of ganttline: a bubbletea Gantt
// viewer and the huh prompts used to confirm cascading moves.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/ganttline/internal/calendar"
	"github.com/felixgeelhaar/ganttline/internal/domain"
	"github.com/felixgeelhaar/ganttline/internal/schedule"
	"github.com/felixgeelhaar/ganttline/internal/ux"
)

// keyMap defines the keyboard shortcuts
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Earlier  key.Binding
	Later    key.Binding
	Collapse key.Binding
	Confirm  key.Binding
	Compat   key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Earlier:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "1 day earlier")),
		Later:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "1 day later")),
		Collapse: key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "collapse/expand")),
		Confirm:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "shift all")),
		Compat:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "compatible only")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Earlier, k.Later, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Collapse},
		{k.Earlier, k.Later},
		{k.Confirm, k.Compat, k.Cancel},
		{k.Help, k.Quit},
	}
}

// GanttModel is the bubbletea model of the Gantt viewer.
type GanttModel struct {
	ctx   context.Context
	store *schedule.Store

	rows    []ux.TaskRow
	cursor  int
	pending *schedule.MoveResult

	status   string
	statusOK bool

	width    int
	height   int
	quitting bool
	noColor  bool

	keys   keyMap
	help   help.Model
	styles Styles
}

// NewGanttModel creates a viewer over store. Mutations run with ctx.
func NewGanttModel(ctx context.Context, store *schedule.Store, noColor bool) GanttModel {
	styles := DefaultStyles()
	if noColor {
		styles = PlainStyles()
	}
	m := GanttModel{
		ctx:     ctx,
		store:   store,
		width:   100,
		height:  30,
		noColor: noColor,
		keys:    defaultKeys(),
		help:    help.New(),
		styles:  styles,
	}
	m.refresh("")
	return m
}

// RunGantt runs the viewer full screen until the user quits.
func RunGantt(ctx context.Context, store *schedule.Store, noColor bool) error {
	program := tea.NewProgram(NewGanttModel(ctx, store, noColor), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run gantt viewer: %w", err)
	}
	return nil
}

// Init initializes the model (required by Bubble Tea)
func (m GanttModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m GanttModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && (m.pending == nil || msg.String() == "ctrl+c") {
			m.quitting = true
			return m, tea.Quit
		}
		if m.pending != nil {
			return m.handleCascadeKey(msg), nil
		}
		return m.handleKey(msg), nil
	}
	return m, nil
}

func (m GanttModel) handleKey(msg tea.KeyMsg) GanttModel {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Earlier):
		m = m.shiftSelected(-1)
	case key.Matches(msg, m.keys.Later):
		m = m.shiftSelected(1)
	case key.Matches(msg, m.keys.Collapse):
		m = m.toggleSelected()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m
}

func (m GanttModel) handleCascadeKey(msg tea.KeyMsg) GanttModel {
	proposal := *m.pending
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.pending = nil
		return m.commit(proposal, proposal.Plan.ConflictingIDs())
	case key.Matches(msg, m.keys.Compat):
		m.pending = nil
		return m.commit(proposal, nil)
	case key.Matches(msg, m.keys.Cancel):
		m.pending = nil
		m.setStatus("Move cancelled", false)
	}
	return m
}

// Selected returns the task under the cursor.
func (m GanttModel) Selected() (ux.TaskRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ux.TaskRow{}, false
	}
	return m.rows[m.cursor], true
}

// Pending returns the move awaiting a cascade decision, if any.
func (m GanttModel) Pending() (schedule.MoveResult, bool) {
	if m.pending == nil {
		return schedule.MoveResult{}, false
	}
	return *m.pending, true
}

func (m GanttModel) shiftSelected(days int) GanttModel {
	row, ok := m.Selected()
	if !ok {
		return m
	}
	r := row.Range().Shift(days)
	res, err := m.store.MoveTask(m.ctx, row.ID, r.Start, r.End)
	if err != nil {
		m.setStatus(err.Error(), false)
		return m
	}

	switch res.Outcome {
	case schedule.OutcomeRejected:
		m.setStatus(fmt.Sprintf("%s cannot start before %s", row.Name,
			calendar.Format(res.Violation.MinAllowedStart)), false)
		return m
	case schedule.OutcomeNeedsCascade:
		if !res.Plan.HasConflicts() {
			return m.commit(res, nil)
		}
		m.pending = &res
		return m
	}
	m.refresh(row.ID)
	m.setStatus(fmt.Sprintf("Moved %s to %s", row.Name, calendar.Format(res.NewStart)), true)
	return m
}

func (m GanttModel) commit(proposal schedule.MoveResult, confirmed []string) GanttModel {
	res, err := m.store.CommitMove(m.ctx, proposal, confirmed)
	if err != nil {
		m.setStatus(err.Error(), false)
		return m
	}
	m.refresh(proposal.TaskID)
	if !res.Applied() {
		m.setStatus(fmt.Sprintf("Move of %s no longer fits the schedule", proposal.TaskID), false)
		return m
	}
	msg := fmt.Sprintf("Moved %s and %d dependent task(s)", proposal.TaskID, len(res.Shifted))
	if len(res.Overridden) > 0 {
		msg += fmt.Sprintf(", %d overriding dependencies", len(res.Overridden))
	}
	if len(res.Skipped) > 0 {
		msg += fmt.Sprintf(", %d left in place", len(res.Skipped))
	}
	m.setStatus(msg, true)
	return m
}

func (m GanttModel) toggleSelected() GanttModel {
	row, ok := m.Selected()
	if !ok || !row.Parent {
		return m
	}
	if _, err := m.store.ToggleTaskCollapse(m.ctx, row.ID); err != nil {
		m.setStatus(err.Error(), false)
		return m
	}
	m.refresh(row.ID)
	return m
}

func (m *GanttModel) setStatus(msg string, ok bool) {
	m.status = msg
	m.statusOK = ok
}

// refresh reloads the visible rows, keeping the cursor on focusID when it
// is still visible.
func (m *GanttModel) refresh(focusID string) {
	m.rows = ux.NewTaskTable(m.store, false, 0, m.noColor).Tasks
	for i, r := range m.rows {
		if r.ID == focusID {
			m.cursor = i
			return
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the TUI (required by Bubble Tea)
func (m GanttModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("ganttline"))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(m.styles.Muted.Render("No tasks yet. Add one with 'ganttline task add'."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderChart())
	}

	if m.pending != nil {
		b.WriteString("\n")
		b.WriteString(m.renderCascade(*m.pending))
		b.WriteString("\n")
	} else if m.status != "" {
		style := m.styles.Error
		if m.statusOK {
			style = m.styles.Success
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m GanttModel) renderChart() string {
	labels := make([]string, len(m.rows))
	ranges := make([]calendar.Range, len(m.rows))
	nameWidth := 0
	for i, r := range m.rows {
		labels[i] = rowLabel(r)
		ranges[i] = r.Range()
		if w := len([]rune(labels[i])); w > nameWidth {
			nameWidth = w
		}
	}

	width := m.width - nameWidth - 3
	if width < 20 {
		width = 20
	}
	tl := ux.NewTimeline(ranges, width)

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s   %s\n", nameWidth, "", m.styles.Subtitle.Render(tl.Axis()))
	if today := calendar.Day(time.Now()); tl.Span.Contains(today) {
		fmt.Fprintf(&b, "%-*s   %s%s\n", nameWidth, "", strings.Repeat(" ", tl.Marker(today)), m.styles.Muted.Render("▼ today"))
	}
	for i, r := range m.rows {
		label := fmt.Sprintf("%-*s", nameWidth, labels[i])
		pointer := " "
		if i == m.cursor {
			label = m.styles.Highlighted.Render(label)
			pointer = "▶"
		}
		bar := tl.Render(ranges[i], domain.Color(r.Color), r.Parent, m.noColor)
		fmt.Fprintf(&b, "%s %s %s\n", label, pointer, bar)
	}
	return b.String()
}

func rowLabel(r ux.TaskRow) string {
	icon := "  "
	if r.Parent {
		icon = "▾ "
		if r.Collapsed {
			icon = "▸ "
		}
	}
	return strings.Repeat("  ", r.Depth) + icon + r.Name
}

func (m GanttModel) renderCascade(res schedule.MoveResult) string {
	var b strings.Builder
	b.WriteString(m.styles.Warning.Render(fmt.Sprintf("Moving %s by %+d days affects dependent tasks", res.TaskID, res.DaysDelta)))
	b.WriteString("\n")
	for _, t := range res.Plan.Clean {
		fmt.Fprintf(&b, "  ✓ %s\n", t.Name)
	}
	for _, t := range res.Plan.Conflicting {
		fmt.Fprintf(&b, "  ✗ %s (would violate its own dependencies)\n", t.Name)
	}
	b.WriteString("\ny: shift all   n: compatible only   esc: cancel")
	return m.styles.Border.Render(b.String())
}
