package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
	"github.com/tgienger/tick/internal/ui/keys"
	"github.com/tgienger/tick/internal/ui/mirror"
	"github.com/tgienger/tick/internal/ui/styles"
)

// statusTTL is how long a status message stays on screen
const statusTTL = 5 * time.Second

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// TaskClient is the remote task store
type TaskClient interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, in models.NewTask) (models.Task, error)
	Update(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	Toggle(ctx context.Context, id int64) (models.Task, error)
	Delete(ctx context.Context, id int64) error
}

// TaskListView shows the task collection and the create/edit forms
type TaskListView struct {
	client TaskClient
	log    *log.Logger
	tasks  *mirror.Mirror
	styles *styles.Styles
	keys   keys.KeyMap

	width  int
	height int

	// UI state
	loaded  bool
	cursor  int
	scrollY int

	// Task creation
	creating       bool
	submitting     bool
	newTitle       textinput.Model
	newDesc        textarea.Model
	createFocusIdx int // 0=title, 1=desc, 2=create

	// Task editing; editingID is 0 when no task is being edited
	editingID    int64
	editTitle    textinput.Model
	editDesc     textarea.Model
	editFocusIdx int // 0=title, 1=desc, 2=save

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	// Status line
	status      string
	statusIsErr bool
	statusSeq   int

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates a new task list view
func NewTaskListView(client TaskClient, logger *log.Logger) *TaskListView {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	newTitle := textinput.New()
	newTitle.Placeholder = "What needs to be done?"
	newTitle.CharLimit = store.MaxTitleLen

	newDesc := textarea.New()
	newDesc.Placeholder = "Add a description (optional)"
	newDesc.CharLimit = store.MaxDescriptionLen
	newDesc.SetWidth(50)
	newDesc.SetHeight(3)
	newDesc.ShowLineNumbers = false

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = store.MaxTitleLen

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = store.MaxDescriptionLen
	editDesc.SetWidth(50)
	editDesc.SetHeight(2)
	editDesc.ShowLineNumbers = false

	return &TaskListView{
		client:    client,
		log:       logger,
		tasks:     mirror.New(),
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		newTitle:  newTitle,
		newDesc:   newDesc,
		editTitle: editTitle,
		editDesc:  editDesc,
	}
}

// Messages produced by remote calls
type (
	tasksLoadedMsg struct {
		tasks []models.Task
	}
	taskCreatedMsg struct {
		task models.Task
	}
	// taskChangedMsg carries the canonical task after an update or toggle
	taskChangedMsg struct {
		op   string
		task models.Task
	}
	taskDeletedMsg struct {
		id int64
	}
	callFailedMsg struct {
		op  string
		id  int64
		err error
	}
	clearStatusMsg struct {
		seq int
	}
)

// Init loads the collection
func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks
}

func (v *TaskListView) loadTasks() tea.Msg {
	tasks, err := v.client.List(context.Background())
	if err != nil {
		return callFailedMsg{op: "load", err: err}
	}
	return tasksLoadedMsg{tasks: tasks}
}

func (v *TaskListView) createTask(in models.NewTask) tea.Cmd {
	return func() tea.Msg {
		task, err := v.client.Create(context.Background(), in)
		if err != nil {
			return callFailedMsg{op: "create", err: err}
		}
		return taskCreatedMsg{task: task}
	}
}

func (v *TaskListView) updateTask(id int64, patch models.TaskPatch) tea.Cmd {
	return func() tea.Msg {
		task, err := v.client.Update(context.Background(), id, patch)
		if err != nil {
			return callFailedMsg{op: "update", id: id, err: err}
		}
		return taskChangedMsg{op: "update", task: task}
	}
}

func (v *TaskListView) toggleTask(id int64) tea.Cmd {
	return func() tea.Msg {
		task, err := v.client.Toggle(context.Background(), id)
		if err != nil {
			return callFailedMsg{op: "toggle", id: id, err: err}
		}
		return taskChangedMsg{op: "toggle", task: task}
	}
}

func (v *TaskListView) deleteTask(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := v.client.Delete(context.Background(), id); err != nil {
			return callFailedMsg{op: "delete", id: id, err: err}
		}
		return taskDeletedMsg{id: id}
	}
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		// Update textarea widths dynamically based on content width
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.newDesc.SetWidth(inputWidth)
		v.editDesc.SetWidth(inputWidth)
		return v, nil

	case tasksLoadedMsg:
		v.tasks.Reset(msg.tasks)
		v.loaded = true
		// Drop forms for tasks the reload no longer has
		if _, ok := v.tasks.Get(v.editingID); !ok {
			v.editingID = 0
		}
		if _, ok := v.tasks.Get(v.deleteTargetID); v.confirmingDelete && !ok {
			v.confirmingDelete = false
		}
		v.clampCursor()
		return v, nil

	case taskCreatedMsg:
		v.submitting = false
		v.tasks.Upsert(msg.task)
		// The draft was submitted, even if the form was closed meanwhile
		v.creating = false
		v.newTitle.Reset()
		v.newDesc.Reset()
		v.cursor = v.tasks.Index(msg.task.ID)
		v.ensureVisible()
		return v, v.setStatus(fmt.Sprintf("Added %q", msg.task.Title), false)

	case taskChangedMsg:
		v.tasks.Replace(msg.task)
		v.clearStatus()
		if msg.op == "update" && v.editingID == msg.task.ID {
			v.editingID = 0
		}
		return v, nil

	case taskDeletedMsg:
		v.tasks.Remove(msg.id)
		v.clearStatus()
		if v.editingID == msg.id {
			v.editingID = 0
		}
		v.clampCursor()
		return v, nil

	case callFailedMsg:
		return v, v.callFailed(msg)

	case clearStatusMsg:
		if msg.seq == v.statusSeq {
			v.status = ""
			v.statusIsErr = false
		}
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editingID != 0 {
			return v.updateEditing(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		return v.updateNormal(msg)
	}

	// Cursor blink and other input messages go to the focused field
	return v, v.updateFocusedInput(msg)
}

// callFailed logs a failed call and surfaces it on the status line. Local
// state is left as it was, except for clearing the in-flight flag.
func (v *TaskListView) callFailed(msg callFailedMsg) tea.Cmd {
	if msg.op == "create" {
		v.submitting = false
	}

	v.log.Error("call failed", "op", msg.op, "id", msg.id, "err", msg.err)

	var text string
	var ve *store.ValidationError
	switch {
	case errors.As(msg.err, &ve):
		text = fmt.Sprintf("Could not %s task: %s", msg.op, ve.Error())
	case errors.Is(msg.err, store.ErrNotFound):
		text = fmt.Sprintf("Could not %s task: it no longer exists", msg.op)
	case msg.op == "load":
		text = "Could not load tasks: " + msg.err.Error()
	default:
		text = fmt.Sprintf("Could not %s task: %v", msg.op, msg.err)
	}
	return v.setStatus(text, true)
}

func (v *TaskListView) setStatus(text string, isErr bool) tea.Cmd {
	v.statusSeq++
	v.status = text
	v.statusIsErr = isErr
	seq := v.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (v *TaskListView) clearStatus() {
	v.statusSeq++
	v.status = ""
	v.statusIsErr = false
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < v.tasks.Len()-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if task, ok := v.tasks.At(v.cursor); ok {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if task, ok := v.tasks.At(v.cursor); ok {
			return v, v.toggleTask(task.ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.tasks.At(v.cursor); ok {
			v.confirmingDelete = true
			v.deleteTargetID = task.ID
			v.deleteTargetName = task.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Reload):
		return v, v.loadTasks

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		return v, v.deleteTask(v.deleteTargetID)
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.submitCreate()

	case key.Matches(msg, v.keys.Tab):
		v.createFocusIdx = (v.createFocusIdx + 1) % 3
		v.updateCreateFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.createFocusIdx = (v.createFocusIdx + 2) % 3
		v.updateCreateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.createFocusIdx {
		case 0:
			v.createFocusIdx++
			v.updateCreateFocus()
			return v, nil
		case 2:
			return v, v.submitCreate()
		}
		// Enter in the description adds a newline
	}

	var cmd tea.Cmd
	switch v.createFocusIdx {
	case 0:
		v.newTitle, cmd = v.newTitle.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return v, cmd
}

// canSubmit reports whether the create button is enabled
func (v *TaskListView) canSubmit() bool {
	return !v.submitting && strings.TrimSpace(v.newTitle.Value()) != ""
}

func (v *TaskListView) submitCreate() tea.Cmd {
	if !v.canSubmit() {
		return nil
	}
	v.submitting = true
	return v.createTask(models.NewTask{
		Title:       strings.TrimSpace(v.newTitle.Value()),
		Description: strings.TrimSpace(v.newDesc.Value()),
	})
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editingID = 0
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveEdit()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % 3
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + 2) % 3
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case 0:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case 2:
			return v, v.saveEdit()
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) saveEdit() tea.Cmd {
	title := strings.TrimSpace(v.editTitle.Value())
	if title == "" {
		return v.setStatus("Title must not be empty", true)
	}
	desc := strings.TrimSpace(v.editDesc.Value())
	return v.updateTask(v.editingID, models.TaskPatch{
		Title:       &title,
		Description: &desc,
	})
}

func (v *TaskListView) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case v.editingID != 0 && v.editFocusIdx == 0:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case v.editingID != 0 && v.editFocusIdx == 1:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case v.creating && v.createFocusIdx == 0:
		v.newTitle, cmd = v.newTitle.Update(msg)
	case v.creating && v.createFocusIdx == 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return cmd
}

func (v *TaskListView) clampCursor() {
	if v.cursor >= v.tasks.Len() {
		v.cursor = max(0, v.tasks.Len()-1)
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.ensureVisible()
}

func (v *TaskListView) visibleItems() int {
	// Each task item is 2 lines + 1 margin = 3 lines
	availableHeight := v.height - 14
	if availableHeight < 3 {
		availableHeight = 3
	}
	return max(availableHeight/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
	if v.scrollY < 0 {
		v.scrollY = 0
	}
}

func (v *TaskListView) startNewTask() {
	// Keep a draft if the form was closed mid-way
	v.creating = true
	v.createFocusIdx = 0
	v.updateCreateFocus()
}

// startEditTask puts task in edit state, replacing any edit in progress
func (v *TaskListView) startEditTask(task models.Task) {
	v.editingID = task.ID
	v.editFocusIdx = 0
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.updateEditFocus()
}

func (v *TaskListView) updateCreateFocus() {
	v.newTitle.Blur()
	v.newDesc.Blur()
	switch v.createFocusIdx {
	case 0:
		v.newTitle.Focus()
	case 1:
		v.newDesc.Focus()
	}
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	switch v.editFocusIdx {
	case 0:
		v.editTitle.Focus()
	case 1:
		v.editDesc.Focus()
	}
}

// EditingID returns the id of the task in edit state, or 0
func (v *TaskListView) EditingID() int64 {
	return v.editingID
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editingID != 0 {
		return v.renderEditForm()
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded && v.status == "" {
		return v.styles.TitleMuted.Render("Loading...")
	}

	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(v.renderStatus())
	b.WriteString("\n")

	if v.tasks.Len() == 0 {
		b.WriteString(v.renderEmpty())
	} else {
		b.WriteString(v.renderTaskList())
		b.WriteString("\n")
		b.WriteString(v.renderFooter())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	completed, remaining := v.tasks.Counts()

	badges := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Badge.Render(fmt.Sprintf("%d completed", completed)),
		" ",
		s.Badge.Render(fmt.Sprintf("%d remaining", remaining)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("✓ Tasks"),
		s.TitleMuted.Render("Stay organized, stay productive"),
		badges,
	)
}

func (v *TaskListView) renderStatus() string {
	if v.status == "" {
		return ""
	}
	if v.statusIsErr {
		return v.styles.StatusError.Render(v.status)
	}
	return v.styles.StatusInfo.Render(v.status)
}

func (v *TaskListView) renderEmpty() string {
	s := v.styles
	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		s.TitleMuted.Render("No tasks yet"),
		s.TitleMuted.Render("Press 'n' to create your first task"),
	)
}

func (v *TaskListView) renderTaskList() string {
	var items []string
	tasks := v.tasks.Tasks()
	endIdx := min(v.scrollY+v.visibleItems(), len(tasks))

	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(tasks[i], i == v.cursor))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	check := s.Check.Render("○")
	title := s.TaskTitle.Render(task.Title)
	if task.Completed {
		check = s.CheckDone.Render("●")
		title = s.TaskDone.Render(task.Title)
	}

	created := "Created " + task.CreatedAt.Local().Format("Jan 2, 2006")
	meta := s.TaskMeta.Render(truncate(created, width-6))
	if desc := firstLine(task.Description); desc != "" {
		desc = truncate(desc, max(width-6-len(created)-3, 1))
		meta = v.descStyle(task).Render(desc) + s.TaskMeta.Render(" · "+created)
	}

	lineStyle := s.ListItem
	if selected {
		lineStyle = s.ListSelected
	}

	titleLine := lineStyle.Width(width).Render(check + " " + title)
	metaLine := lineStyle.Width(width).Render("  " + meta)

	return lipgloss.JoinVertical(lipgloss.Left, titleLine, metaLine) + "\n"
}

// descStyle strikes the description through along with the title
func (v *TaskListView) descStyle(task models.Task) lipgloss.Style {
	if task.Completed {
		return v.styles.TaskDone
	}
	return v.styles.TaskMeta
}

func (v *TaskListView) renderFooter() string {
	completed, remaining := v.tasks.Counts()
	if remaining == 0 && completed > 0 {
		return v.styles.Footer.Render("All tasks completed! Great job!")
	}
	noun := "tasks"
	if remaining == 1 {
		noun = "task"
	}
	return v.styles.Footer.Render(fmt.Sprintf("%d %s remaining", remaining, noun))
}

func (v *TaskListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	titleStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.createFocusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	btnLabel := " Add Task "
	switch {
	case v.submitting:
		btnLabel = " Adding... "
		btnStyle = s.ButtonDisabled
	case !v.canSubmit():
		btnStyle = s.ButtonDisabled
	}

	// Dynamic input width based on content width
	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Add New Task"),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(v.newTitle.View()),
		"",
		"Description:",
		descStyle.Render(v.newDesc.View()),
		"",
		btnStyle.Render(btnLabel),
		v.renderStatus(),
		s.TitleMuted.Render("Tab: next • Ctrl+S: add • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	titleStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.editFocusIdx {
	case 0:
		titleStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Edit Task"),
		"",
		"Title:",
		titleStyle.Width(inputWidth).Render(v.editTitle.View()),
		"",
		"Description:",
		descStyle.Render(v.editDesc.View()),
		"",
		btnStyle.Render(" Save "),
		v.renderStatus(),
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	return v.styles.Help.Render(
		fmt.Sprintf("%s toggle • %s edit • %s new • %s del • %s reload • %s quit",
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("r"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("space") + "  toggle completed",
		s.HelpKey.Render("e/↵") + "    edit task",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("r") + "      reload",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed permanently.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width < 1 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
