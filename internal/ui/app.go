package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/tgienger/tick/internal/ui/views"
)

type App struct {
	taskList *views.TaskListView
}

// Creates a new application backed by client
func NewApp(client views.TaskClient, logger *log.Logger) *App {
	return &App{
		taskList: views.NewTaskListView(client, logger),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("tick"),
		a.taskList.Init(),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := a.taskList.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.taskList.View()
}
