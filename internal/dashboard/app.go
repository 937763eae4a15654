package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"taskpulse/internal/commands"
	"taskpulse/internal/priority"
	"taskpulse/internal/storage"
	"taskpulse/internal/views"
)

const (
	refreshEvery = time.Minute
	repoTimeout  = 5 * time.Second
)

type tickMsg time.Time

type Model struct {
	repo   storage.Repository
	params priority.Params
	owner  string

	tasks    []storage.Task
	sections Sections
	section  SectionKind
	cursor   int
	now      time.Time

	quickAdd    textinput.Model
	capture     bool
	helpVisible bool
	status      string
	statusErr   bool
	quitting    bool
}

func NewModel(repo storage.Repository, params priority.Params, owner string) Model {
	input := textinput.New()
	input.Placeholder = "add <title> [!importance] [@deadline]"
	input.CharLimit = 512
	input.Width = 60

	m := Model{
		repo:     repo,
		params:   params,
		owner:    owner,
		section:  SectionDeadline,
		now:      time.Now().UTC(),
		quickAdd: input,
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tickMsg:
		// Priorities drift as deadlines approach, so the board recomputes
		// on a timer even without edits.
		m.now = time.Time(typed).UTC()
		m.reload()
		return m, tickCmd()
	case tea.KeyMsg:
		if m.capture {
			return m.handleCaptureKey(typed)
		}
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "a", "i":
		m.capture = true
		m.quickAdd.Focus()
		m.quickAdd.SetValue("")
		m.setStatus("quick-add active", false)
	case "tab":
		m.section = nextSection(m.section)
		m.cursor = 0
	case "j", "down":
		if m.cursor < len(m.sections.Rows(m.section))-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "x":
		m.toggleSelected()
	case "d":
		m.deleteSelected()
	case "r":
		m.now = time.Now().UTC()
		m.reload()
		m.setStatus("refreshed", false)
	case "?":
		m.helpVisible = !m.helpVisible
	}
	return m, nil
}

func (m Model) handleCaptureKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.capture = false
		m.quickAdd.Blur()
		m.setStatus("", false)
		return m, nil
	case "enter":
		line := strings.TrimSpace(m.quickAdd.Value())
		m.capture = false
		m.quickAdd.Blur()
		if line == "" {
			return m, nil
		}
		m.runCommand(line)
		return m, nil
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.quickAdd, cmd = m.quickAdd.Update(key)
	return m, cmd
}

// runCommand executes one quick-add line. A line without a known verb is
// shorthand for "add".
func (m *Model) runCommand(line string) {
	cmd, err := commands.ParseAt(line, m.now)
	if err != nil {
		var ce *commands.CommandError
		if errors.As(err, &ce) && ce.Code == commands.ErrCodeUnknownCommand {
			cmd, err = commands.ParseAt("add "+line, m.now)
		}
		if err != nil {
			m.setStatus("error: "+err.Error(), true)
			return
		}
	}

	result, err := commands.Execute(cmd, commands.Handlers{
		Add:  m.addTask,
		Done: m.markDone,
		Rm:   m.removeTask,
		Show: m.showSection,
	})
	if err != nil {
		m.setStatus("error: "+err.Error(), true)
		return
	}
	m.reload()
	m.setStatus(result.Message, false)
}

func (m *Model) addTask(args commands.AddArgs) (commands.Result, error) {
	ctx, cancel := repoContext()
	defer cancel()
	task := storage.Task{
		ID:         uuid.NewString(),
		Title:      args.Title,
		Importance: args.Importance,
		Deadline:   args.Deadline,
		Owner:      m.owner,
		CreatedAt:  m.now,
	}
	if err := m.repo.CreateTask(ctx, task); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: "added: " + args.Title}, nil
}

func (m *Model) markDone(args commands.DoneArgs) (commands.Result, error) {
	task, ok := m.findTask(args.ID)
	if !ok {
		return commands.Result{}, fmt.Errorf("dashboard: no task matching %q", args.ID)
	}
	ctx, cancel := repoContext()
	defer cancel()
	task.Completed = true
	completedAt := m.now
	task.CompletedAt = &completedAt
	if err := m.repo.UpdateTask(ctx, task); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: "done: " + task.Title}, nil
}

func (m *Model) removeTask(args commands.RmArgs) (commands.Result, error) {
	task, ok := m.findTask(args.ID)
	if !ok {
		return commands.Result{}, fmt.Errorf("dashboard: no task matching %q", args.ID)
	}
	ctx, cancel := repoContext()
	defer cancel()
	if err := m.repo.DeleteTask(ctx, task.ID); err != nil {
		return commands.Result{}, err
	}
	return commands.Result{Message: "removed: " + task.Title}, nil
}

func (m *Model) showSection(args commands.ShowArgs) (commands.Result, error) {
	switch args.Subject {
	case "done":
		m.section = SectionCompleted
	case "all", "active":
		m.section = SectionDeadline
	}
	m.cursor = 0
	return commands.Result{Message: "showing " + args.Subject}, nil
}

func (m *Model) toggleSelected() {
	rows := m.sections.Rows(m.section)
	if m.cursor >= len(rows) {
		return
	}
	task := rows[m.cursor].Task
	ctx, cancel := repoContext()
	defer cancel()

	task.Completed = !task.Completed
	if task.Completed {
		completedAt := m.now
		task.CompletedAt = &completedAt
	} else {
		task.CompletedAt = nil
	}
	if err := m.repo.UpdateTask(ctx, task); err != nil {
		m.setStatus("error: "+err.Error(), true)
		return
	}
	m.reload()
	m.setStatus("toggled: "+task.Title, false)
}

func (m *Model) deleteSelected() {
	rows := m.sections.Rows(m.section)
	if m.cursor >= len(rows) {
		return
	}
	task := rows[m.cursor].Task
	ctx, cancel := repoContext()
	defer cancel()
	if err := m.repo.DeleteTask(ctx, task.ID); err != nil {
		m.setStatus("error: "+err.Error(), true)
		return
	}
	m.reload()
	m.setStatus("removed: "+task.Title, false)
}

// findTask resolves an id or unique id prefix against the loaded tasks.
func (m *Model) findTask(id string) (storage.Task, bool) {
	var match storage.Task
	found := 0
	for _, task := range m.tasks {
		if task.ID == id {
			return task, true
		}
		if strings.HasPrefix(task.ID, id) {
			match = task
			found++
		}
	}
	if found == 1 {
		return match, true
	}
	return storage.Task{}, false
}

func (m *Model) reload() {
	ctx, cancel := repoContext()
	defer cancel()
	tasks, err := m.repo.ListTasks(ctx, storage.TaskListFilter{Owner: m.owner})
	if err != nil {
		m.setStatus("error: "+err.Error(), true)
		return
	}
	m.tasks = tasks
	m.sections = BuildSections(tasks, m.params, m.now)
	if rows := m.sections.Rows(m.section); m.cursor >= len(rows) {
		m.cursor = 0
	}
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusErr = isError
}

func repoContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), repoTimeout)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := views.RenderSections(m.sectionData())
	if m.capture {
		body += "\n\n" + views.RenderQuickAdd(true, m.quickAdd.View())
	}
	if m.helpVisible {
		body += "\n\n" + views.RenderMarkdown(helpMarkdown)
	}

	status := m.status
	if m.statusErr && status != "" && !strings.HasPrefix(status, "error") {
		status = "error: " + status
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("taskpulse | %s | updated %s", m.ownerLabel(), m.now.Format("15:04")),
		Body:       body,
		StatusLine: status,
		Footer:     "keys: a add | x done | d delete | tab section | j/k move | r refresh | ? help | q quit",
	})
}

func (m Model) ownerLabel() string {
	if m.owner == "" {
		return "all tasks"
	}
	return m.owner
}

func (m Model) sectionData() []views.SectionData {
	out := make([]views.SectionData, 0, len(sectionOrder))
	for _, kind := range sectionOrder {
		data := views.SectionData{
			Title:   string(kind),
			Focused: kind == m.section,
			Cursor:  m.cursor,
		}
		for _, row := range m.sections.Rows(kind) {
			item := views.TaskRowData{
				ID:    row.Task.ID,
				Title: row.Task.Title,
				Done:  row.Task.Completed,
				Band:  string(row.Band),
			}
			if !row.Task.Completed {
				item.Priority = fmt.Sprintf("%.2f", row.Priority)
				item.Remaining = row.Remaining
			}
			data.Rows = append(data.Rows, item)
		}
		out = append(out, data)
	}
	return out
}

const helpMarkdown = `# taskpulse dashboard

Quick-add lines:

* ` + "`add <title> [!importance] [@deadline]`" + ` creates a task
* ` + "`done <id>`" + ` completes a task, ` + "`rm <id>`" + ` deletes it
* ` + "`show active|done|all`" + ` switches section

Deadlines accept RFC3339, ` + "`2006-01-02`" + `, or relative forms
like ` + "`@+2h`" + ` and ` + "`@+3d`" + `.
`

// Run starts the dashboard on the current terminal.
func Run(repo storage.Repository, params priority.Params, owner string) error {
	_, err := tea.NewProgram(NewModel(repo, params, owner), tea.WithAltScreen()).Run()
	return err
}
