// Package ui is the terminal presentation layer: a bubbletea program over
// the reconciler and classifier. It renders the active tab and the
// collapsible completed section, and surfaces degraded outcomes in the
// status line so local-only changes are never mistaken for persisted ones.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/classify"
	"taskdeck/internal/models"
	"taskdeck/internal/reconcile"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
)

type mode int

const (
	modeName mode = iota
	modeList
	modeAdd
	modeEdit
)

type Model struct {
	rec    *reconcile.Reconciler
	client *store.Client
	sess   *session.Session

	tab           classify.Tab
	active        []models.Task
	completed     []models.Task
	showCompleted bool
	cursor        int

	mode       mode
	input      textinput.Model
	editID     int64
	confirmDel bool
	pendingDel int64
	status     string
}

// Run starts the program. With no saved session it opens in name-entry
// mode; otherwise it fetches the user's tasks first.
func Run(rec *reconcile.Reconciler, client *store.Client, sess *session.Session) error {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 48

	m := Model{
		rec:           rec,
		client:        client,
		sess:          sess,
		tab:           classify.TabToday,
		showCompleted: true,
		input:         ti,
		mode:          modeList,
	}
	if sess.Name() == "" {
		m.enterNameMode()
	} else {
		m.refetch()
	}

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmDel {
			return m.updateDeleteConfirm(msg.String())
		}
		switch m.mode {
		case modeName:
			return m.updateNameMode(msg)
		case modeAdd, modeEdit:
			return m.updateInputMode(msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

// reclassify re-runs the classifier over the reconciler's collection with a
// reference instant captured once for the pass.
func (m *Model) reclassify() {
	now := time.Now()
	m.active, m.completed = classify.Partition(m.rec.Tasks(), m.tab, now)
	m.cursor = clampCursor(m.cursor, m.visibleCount())
}

func (m *Model) refetch() {
	res := m.rec.RefetchAll(context.Background())
	if res.Status == reconcile.Failed {
		m.status = "Could not reach the server; task list cleared"
	} else {
		m.status = fmt.Sprintf("Hello, %s", m.sess.Name())
	}
	m.reclassify()
}

func (m *Model) enterNameMode() {
	m.mode = modeName
	m.input.Placeholder = "Your name..."
	m.input.SetValue("")
	m.input.Focus()
	m.status = "Enter your name to get started"
}

// visible returns the rows the cursor can reach: the active tab, then the
// completed section when expanded.
func (m *Model) visible() []models.Task {
	if !m.showCompleted {
		return m.active
	}
	out := make([]models.Task, 0, len(m.active)+len(m.completed))
	out = append(out, m.active...)
	out = append(out, m.completed...)
	return out
}

func (m *Model) visibleCount() int {
	n := len(m.active)
	if m.showCompleted {
		n += len(m.completed)
	}
	return n
}

func (m *Model) current() (models.Task, bool) {
	rows := m.visible()
	if len(rows) == 0 || m.cursor >= len(rows) {
		return models.Task{}, false
	}
	return rows[m.cursor], true
}

func (m Model) updateNameMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.status = "Please enter your name"
			return m, nil
		}
		if err := m.sess.SetName(name); err != nil {
			m.status = fmt.Sprintf("could not save session: %v", err)
			return m, nil
		}
		// Register the name; a dead server is fine, tasks will sync later.
		if _, err := m.client.CreateUser(context.Background(), name); err != nil {
			m.status = "Server unreachable; working locally"
		}
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		m.refetch()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		m.status = "Cancelled"
		return m, nil
	case "enter":
		req := parseQuickAdd(m.input.Value())
		var res reconcile.Result
		if m.mode == modeAdd {
			res = m.rec.Add(context.Background(), models.CreateTaskRequest{
				Title:    req.Title,
				DueDate:  req.DueDate,
				Priority: req.Priority,
				Tag:      req.Tag,
			})
			m.status = statusLine("added", res)
		} else {
			res = m.rec.Edit(context.Background(), m.editID, models.UpdateTaskRequest{
				Title:    req.Title,
				DueDate:  req.DueDate,
				Priority: req.Priority,
				Tag:      req.Tag,
			})
			m.status = statusLine("updated", res)
		}
		if res.Status == reconcile.Rejected {
			// Keep the input open so the line can be fixed.
			return m, nil
		}
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		m.reclassify()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		res := m.rec.Delete(context.Background(), m.pendingDel)
		m.status = statusLine("deleted", res)
		m.reclassify()
	default:
		m.status = "Delete cancelled"
	}
	m.confirmDel = false
	m.pendingDel = 0
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		m.tab = classify.TabToday
		m.reclassify()
	case "2":
		m.tab = classify.TabPending
		m.reclassify()
	case "3":
		m.tab = classify.TabOverdue
		m.reclassify()
	case "tab":
		switch m.tab {
		case classify.TabToday:
			m.tab = classify.TabPending
		case classify.TabPending:
			m.tab = classify.TabOverdue
		default:
			m.tab = classify.TabToday
		}
		m.reclassify()
	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, m.visibleCount())
	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, m.visibleCount())
	case "c":
		m.showCompleted = !m.showCompleted
		m.cursor = clampCursor(m.cursor, m.visibleCount())
	case "a":
		m.mode = modeAdd
		m.input.Placeholder = "title @2025-11-01 !high #Work"
		m.input.SetValue("")
		m.input.Focus()
		m.status = "New task"
	case "e":
		if task, ok := m.current(); ok {
			m.mode = modeEdit
			m.editID = task.ID
			m.input.Placeholder = ""
			m.input.SetValue(quickAddLine(task))
			m.input.Focus()
			m.status = "Edit task"
		}
	case " ", "space":
		if task, ok := m.current(); ok {
			res := m.rec.Toggle(context.Background(), task.ID)
			m.status = statusLine("toggled", res)
			m.reclassify()
		}
	case "d":
		if task, ok := m.current(); ok {
			m.confirmDel = true
			m.pendingDel = task.ID
			m.status = fmt.Sprintf("Delete %q? (y/n)", task.Title)
		}
	case "r":
		m.refetch()
	case "u":
		if err := m.sess.Clear(); err != nil {
			m.status = fmt.Sprintf("could not clear session: %v", err)
			return m, nil
		}
		m.enterNameMode()
	}
	return m, nil
}

// statusLine turns a reconciler result into a user-visible message,
// keeping confirmed and local-only outcomes distinguishable.
func statusLine(verb string, res reconcile.Result) string {
	switch res.Status {
	case reconcile.Confirmed:
		return "Task " + verb
	case reconcile.Degraded:
		if verb == "deleted" {
			return "Task deleted locally; server unreachable, it may come back on refetch"
		}
		return "Task " + verb + " locally; server unreachable, not yet saved"
	case reconcile.Rejected:
		return fmt.Sprintf("Not %s: %v", verb, res.Err)
	case reconcile.Failed:
		return fmt.Sprintf("Failed: %v", res.Err)
	}
	return ""
}

func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func (m Model) View() string {
	var b strings.Builder

	if m.mode == modeName {
		b.WriteString("Welcome to taskdeck\n\n")
		b.WriteString(m.input.View() + "\n\n")
		b.WriteString(m.status + "\n")
		return b.String()
	}

	b.WriteString(renderTabs(m.tab))
	b.WriteString("\n\n")

	if len(m.active) == 0 {
		b.WriteString("  No data to display\n")
	}
	for i, task := range m.active {
		b.WriteString(renderTask(task, i == m.cursor))
	}

	if len(m.completed) > 0 {
		marker := "▸"
		if m.showCompleted {
			marker = "▾"
		}
		fmt.Fprintf(&b, "\n%s Completed (%d)\n", marker, len(m.completed))
		if m.showCompleted {
			for i, task := range m.completed {
				b.WriteString(renderTask(task, len(m.active)+i == m.cursor))
			}
		}
	}

	if m.mode == modeAdd || m.mode == modeEdit {
		b.WriteString("\n" + m.input.View() + "\n")
	}

	b.WriteString("\n" + m.status + "\n")
	b.WriteString("a add · e edit · space toggle · d delete · c completed · 1/2/3 tabs · r refresh · u user · q quit\n")
	return b.String()
}

func renderTabs(active classify.Tab) string {
	names := map[classify.Tab]string{
		classify.TabToday:   "Today",
		classify.TabPending: "Pending",
		classify.TabOverdue: "Overdue",
	}
	labels := make([]string, 0, len(names))
	for _, t := range []classify.Tab{classify.TabToday, classify.TabPending, classify.TabOverdue} {
		label := names[t]
		if t == active {
			label = "[" + label + "]"
		} else {
			label = " " + label + " "
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, " ")
}

func renderTask(t models.Task, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	line := cursor + check + " " + t.Title
	if t.DueDate != "" {
		line += "  due " + t.DueDate
	}
	if t.Priority != "" {
		line += "  " + priorityMarker(t.Priority)
	}
	if t.Tag != "" {
		line += "  #" + string(t.Tag)
	}
	return line + "\n"
}

func priorityMarker(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "!!!"
	case models.PriorityMedium:
		return "!!"
	case models.PriorityLow:
		return "!"
	}
	return ""
}
