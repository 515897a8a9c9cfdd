package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"ai-superpower/internal/engine"
	"ai-superpower/internal/game"
	"ai-superpower/internal/i18n"
)

type model struct {
	orch *game.Orchestrator
	gen  engine.Generator
	cat  *i18n.Catalog
	log  *zap.Logger

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int

	countryCursor   int
	focusedScenario int
	choiceCursor    int
}

// NewModel wires the presentation to an orchestrator and a generator.
func NewModel(orch *game.Orchestrator, gen engine.Generator, cat *i18n.Catalog, log *zap.Logger) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return model{
		orch:     orch,
		gen:      gen,
		cat:      cat,
		log:      log,
		spinner:  sp,
		viewport: viewport.New(40, 20),
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Completion messages carry the request generation token so the
// orchestrator can discard results that a newer request superseded.

type scenariosMsg struct {
	gen       int
	scenarios []game.Scenario
	sources   []game.Source
	err       error
}

type outcomeMsg struct {
	gen     int
	outcome game.Outcome
	err     error
}

type translationMsg struct {
	gen    int
	locale string
	turns  []game.TranslatedTurn
	err    error
}

func (m model) fetchScenarios(req *game.ScenarioRequest) tea.Cmd {
	return func() tea.Msg {
		scenarios, sources, err := m.gen.GenerateScenarios(context.Background(), *req)
		return scenariosMsg{gen: req.Gen, scenarios: scenarios, sources: sources, err: err}
	}
}

func (m model) fetchOutcome(req *game.OutcomeRequest) tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.gen.GenerateOutcome(context.Background(), *req)
		return outcomeMsg{gen: req.Gen, outcome: outcome, err: err}
	}
}

func (m model) fetchTranslation(req *game.TranslationRequest) tea.Cmd {
	return func() tea.Msg {
		turns, err := m.gen.TranslateHistory(context.Background(), *req)
		return translationMsg{gen: req.Gen, locale: req.Locale, turns: turns, err: err}
	}
}

// localeChangeCmds turns a LocaleChange into the commands it needs.
func (m model) localeChangeCmds(change *game.LocaleChange) tea.Cmd {
	var cmds []tea.Cmd
	if change.Translation != nil {
		cmds = append(cmds, m.fetchTranslation(change.Translation))
	}
	if change.Scenarios != nil {
		cmds = append(cmds, m.fetchScenarios(change.Scenarios))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = historyWidth(msg.Width)
		m.viewport.Height = msg.Height - 8
		m.refreshHistoryView()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scenariosMsg:
		m.orch.ApplyScenarios(msg.gen, msg.scenarios, msg.sources, msg.err)
		m.focusedScenario = 0
		m.choiceCursor = 0
		return m, nil

	case outcomeMsg:
		next := m.orch.ApplyOutcome(msg.gen, msg.outcome, msg.err)
		m.autosave(msg.err)
		m.refreshHistoryView()
		if next != nil {
			return m, m.fetchScenarios(next)
		}
		return m, nil

	case translationMsg:
		m.orch.ApplyTranslation(msg.gen, msg.locale, msg.turns, msg.err)
		m.refreshHistoryView()
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.orch.Phase() {
	case game.PhaseWelcome:
		if msg.Type == tea.KeyEnter {
			_ = m.orch.Enter()
		}
		return m, nil

	case game.PhaseSelectingCountry:
		return m.handleCountryKey(msg)

	case game.PhaseInProgress:
		return m.handleGameKey(msg)

	case game.PhaseGameOver:
		switch msg.String() {
		case "r":
			if err := m.orch.Restart(); err == nil {
				m.countryCursor = 0
			}
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleCountryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.countryCursor > 0 {
			m.countryCursor--
		}
	case "down", "j":
		if m.countryCursor < len(game.Countries)-1 {
			m.countryCursor++
		}
	case "enter":
		req, err := m.orch.SelectCountry(game.Countries[m.countryCursor].ID)
		if err != nil {
			m.log.Warn("country selection rejected", zap.Error(err))
			return m, nil
		}
		m.refreshHistoryView()
		return m, m.fetchScenarios(req)
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleGameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A pending curveball modal captures all input until answered.
	if s := m.orch.Session(); s != nil && s.Curveball != nil && m.orch.Sub() == game.SubAwaitingCurveball {
		return m.handleCurveballKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "r":
		_ = m.orch.Restart()
		m.countryCursor = 0
		return m, nil

	case "l":
		change, err := m.orch.ChangeLocale(nextLocale(m.orch.Locale()))
		if err != nil || change == nil {
			return m, nil
		}
		if cat, catErr := i18n.Load(m.orch.Locale()); catErr == nil {
			m.cat = cat
		}
		m.refreshHistoryView()
		return m, m.localeChangeCmds(change)

	case "enter":
		// Retry after a failed scenario fetch, otherwise lock in the
		// focused scenario's highlighted choice.
		if req, err := m.orch.RetryScenarios(); err == nil {
			return m, m.fetchScenarios(req)
		}
		if err := m.orch.SelectChoice(m.focusedScenario, m.choiceCursor); err == nil {
			m.advanceFocus()
		}
		return m, nil

	case "c":
		req, err := m.orch.ConfirmTurn()
		if err != nil {
			return m, nil
		}
		return m, m.fetchOutcome(req)

	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		if s := m.orch.Session(); s != nil && idx < len(s.Scenarios) {
			m.focusedScenario = idx
			m.choiceCursor = m.selectedChoice(idx)
		}
		return m, nil

	case "up":
		if m.choiceCursor > 0 {
			m.choiceCursor--
		}
		return m, nil

	case "down":
		if s := m.orch.Session(); s != nil && m.focusedScenario < len(s.Scenarios) {
			if m.choiceCursor < len(s.Scenarios[m.focusedScenario].Choices)-1 {
				m.choiceCursor++
			}
		}
		return m, nil

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleCurveballKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1", "2", "3":
		idx := int(msg.String()[0] - '1')
		req, err := m.orch.ResolveCurveball(idx)
		if err != nil {
			return m, nil
		}
		m.autosave(nil)
		m.refreshHistoryView()
		if req != nil {
			return m, m.fetchScenarios(req)
		}
		return m, nil
	case "l":
		// Locale may change under the modal; the curveball survives.
		change, err := m.orch.ChangeLocale(nextLocale(m.orch.Locale()))
		if err != nil || change == nil {
			return m, nil
		}
		if cat, catErr := i18n.Load(m.orch.Locale()); catErr == nil {
			m.cat = cat
		}
		m.refreshHistoryView()
		return m, m.localeChangeCmds(change)
	}
	return m, nil
}

// selectedChoice returns the already-picked choice for a scenario, or 0.
func (m model) selectedChoice(scenarioIndex int) int {
	if s := m.orch.Session(); s != nil {
		if c, ok := s.Choices[scenarioIndex]; ok {
			return c
		}
	}
	return 0
}

// advanceFocus moves focus to the next scenario without a pick yet.
func (m *model) advanceFocus() {
	s := m.orch.Session()
	if s == nil {
		return
	}
	for i := range s.Scenarios {
		idx := (m.focusedScenario + 1 + i) % len(s.Scenarios)
		if _, ok := s.Choices[idx]; !ok {
			m.focusedScenario = idx
			m.choiceCursor = 0
			return
		}
	}
}

func (m *model) autosave(fetchErr error) {
	s := m.orch.Session()
	if fetchErr != nil || s == nil {
		return
	}
	if err := s.Save(); err != nil {
		m.log.Warn("autosave failed", zap.Error(err))
	}
}

func (m *model) refreshHistoryView() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoTop()
}

// nextLocale cycles through the supported locales.
func nextLocale(current string) string {
	for i, loc := range i18n.Locales {
		if loc.Code == current {
			return i18n.Locales[(i+1)%len(i18n.Locales)].Code
		}
	}
	return i18n.Locales[0].Code
}

// Run starts the TUI event loop.
func Run(orch *game.Orchestrator, gen engine.Generator, cat *i18n.Catalog, log *zap.Logger) error {
	p := tea.NewProgram(NewModel(orch, gen, cat, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
