package views

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/tick/internal/models"
	"github.com/tgienger/tick/internal/store"
	"github.com/tgienger/tick/internal/store/memory"
)

// failingClient wraps a working client and fails the named operations
type failingClient struct {
	TaskClient
	fail map[string]error
}

func (c *failingClient) Create(ctx context.Context, in models.NewTask) (models.Task, error) {
	if err := c.fail["create"]; err != nil {
		return models.Task{}, err
	}
	return c.TaskClient.Create(ctx, in)
}

func (c *failingClient) Toggle(ctx context.Context, id int64) (models.Task, error) {
	if err := c.fail["toggle"]; err != nil {
		return models.Task{}, err
	}
	return c.TaskClient.Toggle(ctx, id)
}

func (c *failingClient) Delete(ctx context.Context, id int64) error {
	if err := c.fail["delete"]; err != nil {
		return err
	}
	return c.TaskClient.Delete(ctx, id)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyCtrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

// send feeds msg to v. If the result is a remote call, the call is run and
// its result fed back, so one send is one user action round-tripped.
func send(t *testing.T, v *TaskListView, msg tea.Msg) {
	t.Helper()
	_, cmd := v.Update(msg)
	if cmd == nil {
		return
	}
	// Only some keys start a call. The rest return blink or status timers,
	// which are not run here.
	if k, ok := msg.(tea.KeyMsg); ok && !startsCall(k) {
		return
	}
	if out := cmd(); out != nil {
		v.Update(out)
	}
}

func startsCall(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+s", " ", "x", "y", "r":
		return true
	}
	return false
}

func newLoadedView(t *testing.T, client TaskClient) *TaskListView {
	t.Helper()
	v := NewTaskListView(client, nil)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	v.Update(v.Init()())
	if !v.loaded {
		t.Fatal("view not loaded after Init")
	}
	return v
}

func seeded(t *testing.T, titles ...string) *store.Store {
	t.Helper()
	s := store.New(memory.New())
	for _, title := range titles {
		if _, err := s.Create(context.Background(), models.NewTask{Title: title}); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestTaskListView_EmptyState(t *testing.T) {
	v := newLoadedView(t, seeded(t))

	out := v.View()
	if !strings.Contains(out, "No tasks yet") {
		t.Errorf("View() missing empty state:\n%s", out)
	}
	if !strings.Contains(out, "0 completed") || !strings.Contains(out, "0 remaining") {
		t.Errorf("View() missing counts:\n%s", out)
	}
}

func TestTaskListView_Create(t *testing.T) {
	s := seeded(t)
	v := newLoadedView(t, s)

	send(t, v, runes("n"))
	if !v.creating {
		t.Fatal("n did not open the create form")
	}
	if v.canSubmit() {
		t.Fatal("canSubmit() = true with a blank title")
	}
	if _, cmd := v.Update(keyCtrlS); cmd != nil {
		t.Fatal("ctrl+s with a blank title started a call")
	}

	send(t, v, runes("Buy milk"))
	send(t, v, keyTab)
	send(t, v, runes("2 liters"))
	send(t, v, keyCtrlS)

	if v.creating || v.submitting {
		t.Fatalf("creating=%v submitting=%v after create", v.creating, v.submitting)
	}
	if v.tasks.Len() != 1 {
		t.Fatalf("mirror has %d tasks, want 1", v.tasks.Len())
	}
	task, _ := v.tasks.At(0)
	if task.Title != "Buy milk" || task.Description != "2 liters" || task.Completed {
		t.Fatalf("created task = %+v", task)
	}

	// the form is reset for the next task
	if v.newTitle.Value() != "" {
		t.Errorf("title input = %q after create, want empty", v.newTitle.Value())
	}
	if v.statusIsErr || !strings.Contains(v.status, "Buy milk") {
		t.Errorf("status = %q (err=%v), want an info line naming the task", v.status, v.statusIsErr)
	}

	out := v.View()
	for _, want := range []string{"Buy milk", "1 task remaining", "1 remaining"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}
}

func TestTaskListView_SubmittingDisablesCreate(t *testing.T) {
	v := newLoadedView(t, seeded(t))

	send(t, v, runes("n"))
	send(t, v, runes("Walk dog"))

	_, cmd := v.Update(keyCtrlS)
	if cmd == nil {
		t.Fatal("ctrl+s did not start a create")
	}
	if !v.submitting {
		t.Fatal("submitting = false while the call is in flight")
	}
	if _, again := v.Update(keyCtrlS); again != nil {
		t.Fatal("second ctrl+s started another create while one is in flight")
	}
	if out := v.View(); !strings.Contains(out, "Adding...") {
		t.Errorf("View() missing in-flight label:\n%s", out)
	}
}

func TestTaskListView_CancelDuringCreateClearsDraft(t *testing.T) {
	s := seeded(t)
	v := newLoadedView(t, s)

	send(t, v, runes("n"))
	send(t, v, runes("Walk dog"))
	_, call := v.Update(keyCtrlS)
	if call == nil {
		t.Fatal("ctrl+s did not start a create")
	}

	// close the form while the call is in flight, then let it land
	send(t, v, keyEsc)
	v.Update(call())

	send(t, v, runes("n"))
	if v.newTitle.Value() != "" {
		t.Fatalf("reopened form title = %q, want empty", v.newTitle.Value())
	}
	if _, cmd := v.Update(keyCtrlS); cmd != nil {
		t.Fatal("ctrl+s on the reopened form started another create")
	}

	tasks, _ := s.List(context.Background())
	if len(tasks) != 1 {
		t.Fatalf("store has %d tasks, want 1: %+v", len(tasks), tasks)
	}
}

func TestTaskListView_CreateFailureKeepsForm(t *testing.T) {
	client := &failingClient{
		TaskClient: seeded(t),
		fail:       map[string]error{"create": &store.ValidationError{Field: "title", Reason: "too long"}},
	}
	v := newLoadedView(t, client)

	send(t, v, runes("n"))
	send(t, v, runes("Something"))
	send(t, v, keyCtrlS)

	if !v.creating {
		t.Fatal("create form closed after a failed create")
	}
	if v.submitting {
		t.Fatal("submitting still set after a failed create")
	}
	if v.newTitle.Value() != "Something" {
		t.Errorf("title input = %q, want the draft kept", v.newTitle.Value())
	}
	if !v.statusIsErr || !strings.Contains(v.status, "too long") {
		t.Errorf("status = %q (err=%v)", v.status, v.statusIsErr)
	}
	if v.tasks.Len() != 0 {
		t.Errorf("mirror has %d tasks after a failed create", v.tasks.Len())
	}
}

func TestTaskListView_Toggle(t *testing.T) {
	v := newLoadedView(t, seeded(t, "one"))

	send(t, v, keySpace)
	task, _ := v.tasks.At(0)
	if !task.Completed {
		t.Fatal("space did not complete the task")
	}
	if out := v.View(); !strings.Contains(out, "All tasks completed! Great job!") {
		t.Errorf("View() missing all-done footer:\n%s", out)
	}

	send(t, v, runes("x"))
	task, _ = v.tasks.At(0)
	if task.Completed {
		t.Fatal("x did not reopen the task")
	}
}

func TestTaskListView_ToggleNotFound(t *testing.T) {
	client := &failingClient{
		TaskClient: seeded(t, "one"),
		fail:       map[string]error{"toggle": &store.NotFoundError{ID: 1}},
	}
	v := newLoadedView(t, client)

	send(t, v, keySpace)

	task, _ := v.tasks.At(0)
	if task.Completed {
		t.Fatal("mirror changed after a failed toggle")
	}
	if !v.statusIsErr || !strings.Contains(v.status, "no longer exists") {
		t.Errorf("status = %q (err=%v)", v.status, v.statusIsErr)
	}
}

func TestTaskListView_Edit(t *testing.T) {
	s := seeded(t, "first", "second")
	v := newLoadedView(t, s)

	send(t, v, runes("j"))
	send(t, v, runes("e"))
	if v.EditingID() != 2 {
		t.Fatalf("EditingID() = %d, want 2", v.EditingID())
	}
	if v.editTitle.Value() != "second" {
		t.Fatalf("edit title = %q, want prefilled", v.editTitle.Value())
	}

	v.editTitle.SetValue("second, revised")
	v.editDesc.SetValue("notes")
	send(t, v, keyCtrlS)

	if v.EditingID() != 0 {
		t.Fatal("still editing after a successful save")
	}
	got, _ := v.tasks.Get(2)
	if got.Title != "second, revised" || got.Description != "notes" {
		t.Fatalf("mirror task = %+v", got)
	}

	tasks, _ := s.List(context.Background())
	if tasks[1].Title != "second, revised" {
		t.Fatalf("store task = %+v", tasks[1])
	}
}

func TestTaskListView_EditBlankTitleStaysOpen(t *testing.T) {
	v := newLoadedView(t, seeded(t, "first"))

	send(t, v, runes("e"))
	v.editTitle.SetValue("   ")
	v.Update(keyCtrlS)

	if v.EditingID() != 1 {
		t.Fatal("edit form closed on a blank title")
	}
	if !v.statusIsErr {
		t.Fatal("no error shown for a blank title")
	}

	send(t, v, keyEsc)
	if v.EditingID() != 0 {
		t.Fatal("esc did not cancel the edit")
	}
	got, _ := v.tasks.Get(1)
	if got.Title != "first" {
		t.Fatalf("cancelled edit changed the task: %+v", got)
	}
}

func TestTaskListView_DeleteConfirm(t *testing.T) {
	v := newLoadedView(t, seeded(t, "a", "b"))

	send(t, v, runes("d"))
	if !v.confirmingDelete || v.deleteTargetID != 1 {
		t.Fatalf("confirmingDelete=%v target=%d", v.confirmingDelete, v.deleteTargetID)
	}
	send(t, v, runes("n"))
	if v.confirmingDelete || v.tasks.Len() != 2 {
		t.Fatal("n did not cancel the delete")
	}

	send(t, v, runes("d"))
	send(t, v, runes("y"))
	if v.tasks.Len() != 1 {
		t.Fatalf("mirror has %d tasks after delete, want 1", v.tasks.Len())
	}
	if _, ok := v.tasks.Get(1); ok {
		t.Fatal("deleted task still in the mirror")
	}
	if v.cursor != 0 {
		t.Errorf("cursor = %d, want 0", v.cursor)
	}
}

func TestTaskListView_ReloadDropsFormsForMissingTasks(t *testing.T) {
	s := seeded(t, "a", "b")
	v := newLoadedView(t, s)

	send(t, v, runes("e"))
	if err := s.Delete(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	v.Update(v.loadTasks())
	if v.EditingID() != 0 {
		t.Fatalf("EditingID() = %d after reload without the task, want 0", v.EditingID())
	}

	send(t, v, runes("d"))
	if !v.confirmingDelete || v.deleteTargetID != 2 {
		t.Fatalf("confirmingDelete=%v target=%d", v.confirmingDelete, v.deleteTargetID)
	}
	if err := s.Delete(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	v.Update(v.loadTasks())
	if v.confirmingDelete {
		t.Fatal("still confirming the delete of a task the reload dropped")
	}
}

func TestTaskListView_ReloadKeepsEditForExistingTask(t *testing.T) {
	v := newLoadedView(t, seeded(t, "a"))

	send(t, v, runes("e"))
	v.Update(v.loadTasks())
	if v.EditingID() != 1 {
		t.Fatalf("EditingID() = %d after reload, want 1", v.EditingID())
	}
}

func TestTaskListView_CompletedDescriptionStruckThrough(t *testing.T) {
	v := NewTaskListView(seeded(t), nil)

	if !v.descStyle(models.Task{Completed: true}).GetStrikethrough() {
		t.Error("completed description is not struck through")
	}
	if v.descStyle(models.Task{}).GetStrikethrough() {
		t.Error("open description is struck through")
	}
}

func TestTaskListView_DeleteLeavesEditMode(t *testing.T) {
	v := newLoadedView(t, seeded(t, "a"))

	send(t, v, runes("e"))
	v.Update(taskDeletedMsg{id: 1})

	if v.EditingID() != 0 {
		t.Fatal("still editing a deleted task")
	}
	if v.tasks.Len() != 0 {
		t.Fatal("deleted task still in the mirror")
	}
}

func TestTaskListView_DeleteFailureKeepsTask(t *testing.T) {
	client := &failingClient{
		TaskClient: seeded(t, "a"),
		fail:       map[string]error{"delete": errors.New("connection refused")},
	}
	v := newLoadedView(t, client)

	send(t, v, runes("d"))
	send(t, v, runes("y"))

	if v.tasks.Len() != 1 {
		t.Fatal("task removed after a failed delete")
	}
	if !strings.Contains(v.status, "connection refused") {
		t.Errorf("status = %q", v.status)
	}
}

func TestTaskListView_StaleStatusTimer(t *testing.T) {
	v := newLoadedView(t, seeded(t))

	v.setStatus("first", true)
	stale := v.statusSeq
	v.setStatus("second", true)

	v.Update(clearStatusMsg{seq: stale})
	if v.status != "second" {
		t.Fatalf("stale timer cleared the status: %q", v.status)
	}
	v.Update(clearStatusMsg{seq: v.statusSeq})
	if v.status != "" {
		t.Fatalf("status = %q, want cleared", v.status)
	}
}

func TestTaskListView_Reload(t *testing.T) {
	s := seeded(t, "a")
	v := newLoadedView(t, s)

	if _, err := s.Create(context.Background(), models.NewTask{Title: "b"}); err != nil {
		t.Fatal(err)
	}
	send(t, v, runes("r"))

	if v.tasks.Len() != 2 {
		t.Fatalf("mirror has %d tasks after reload, want 2", v.tasks.Len())
	}
}

func TestTaskListView_HelpPopup(t *testing.T) {
	v := newLoadedView(t, seeded(t))

	send(t, v, runes("?"))
	if out := v.View(); !strings.Contains(out, "Keyboard Shortcuts") {
		t.Fatalf("View() missing help popup:\n%s", out)
	}
	send(t, v, runes("n"))
	if v.showHelpPopup || v.creating {
		t.Fatal("a key should only close the help popup")
	}
}
