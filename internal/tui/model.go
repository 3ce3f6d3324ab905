package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/lifeflow/internal/cli"
	"github.com/julianstephens/lifeflow/internal/constants"
	"github.com/julianstephens/lifeflow/internal/models"
	"github.com/julianstephens/lifeflow/internal/tracker"
	budgetview "github.com/julianstephens/lifeflow/internal/tui/components/budget"
	"github.com/julianstephens/lifeflow/internal/tui/components/chores"
	"github.com/julianstephens/lifeflow/internal/tui/components/groceries"
	"github.com/julianstephens/lifeflow/internal/tui/components/habits"
	"github.com/julianstephens/lifeflow/internal/tui/components/tasklist"
	"github.com/julianstephens/lifeflow/internal/utils"
)

type Model struct {
	tracker  *tracker.Tracker
	clock    func() time.Time
	settings models.Settings

	state          constants.SessionState
	previousState  constants.SessionState
	keys           KeyMap
	help           help.Model
	habitsModel    habits.Model
	choresModel    chores.Model
	taskList       tasklist.Model
	groceriesModel groceries.Model
	budgetModel    budgetview.Model

	form          *huh.Form
	habitForm     *HabitFormModel
	groceryForm   *GroceryFormModel
	confirmForm   *ConfirmFormModel
	pendingAction func() error

	status    string
	statusErr bool
	quitting  bool
	width     int
	height    int
}

func NewModel(ctx *cli.Context) (Model, error) {
	t, err := ctx.Tracker()
	if err != nil {
		return Model{}, err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return Model{}, err
	}
	loc, err := ctx.Location()
	if err != nil {
		return Model{}, err
	}

	clock := func() time.Time {
		now, err := ctx.Now()
		if err != nil {
			return time.Now()
		}
		return now
	}
	today := utils.DateOf(clock())

	m := Model{
		tracker:        t,
		clock:          clock,
		settings:       settings,
		state:          constants.StateHabits,
		keys:           DefaultKeyMap(),
		help:           help.New(),
		habitsModel:    habits.New(nil, 0, 0),
		choresModel:    chores.New(nil, today, 0, 0),
		taskList:       tasklist.New(nil, loc, 0, 0),
		groceriesModel: groceries.New(nil, 0, 0),
		budgetModel:    budgetview.New(emptySummary(clock()), currency(settings), 0, 0),
	}
	if err := m.refreshAll(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func currency(s models.Settings) string {
	if s.CurrencySymbol == "" {
		return constants.DefaultCurrencySymbol
	}
	return s.CurrencySymbol
}

func (m Model) today() time.Time {
	return utils.DateOf(m.clock())
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	return append(keys, m.actionKeys()...)
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}
	return [][]key.Binding{global, navigation, m.actionKeys()}
}

func (m Model) actionKeys() []key.Binding {
	switch m.state {
	case constants.StateHabits:
		return m.habitsModel.Keys().Bindings()
	case constants.StateChores:
		return m.choresModel.Keys().Bindings()
	case constants.StateTasks:
		return m.taskList.Keys().Bindings()
	case constants.StateGroceries:
		return m.groceriesModel.Keys().Bindings()
	case constants.StateBudget:
		return m.budgetModel.Keys().Bindings()
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}
