package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ai-superpower/internal/game"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			Padding(0, 1)

	focusedCardStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#FFA500")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			Padding(0, 1)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	pickedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FD75F")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	badStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FF5F5F")).
			Padding(1, 2)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
)

func historyWidth(total int) int {
	return int(float64(total) * 0.38)
}

func (m model) View() string {
	switch m.orch.Phase() {
	case game.PhaseWelcome:
		return m.welcomeView()
	case game.PhaseSelectingCountry:
		return m.countryView()
	case game.PhaseInProgress:
		return m.gameView()
	case game.PhaseGameOver:
		return m.gameOverView()
	}
	return ""
}

func (m model) welcomeView() string {
	return fmt.Sprintf(
		"\n  %s\n\n  %s\n\n  %s\n",
		titleStyle.Render(m.cat.T("appTitle")),
		m.cat.T("appTagline"),
		helpStyle.Render(m.cat.T("welcomePrompt")),
	)
}

func (m model) countryView() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render(m.cat.T("selectCountryTitle")) + "\n\n")
	for i, c := range game.Countries {
		cursor := "  "
		line := fmt.Sprintf("%s %s", c.Flag, c.Name)
		if i == m.countryCursor {
			cursor = "> "
			line = pickedStyle.Render(line)
		}
		b.WriteString("  " + cursor + line + "\n")
		if i == m.countryCursor {
			b.WriteString("       " + helpStyle.Render(m.cat.T(c.Description)) + "\n")
			b.WriteString("       " + helpStyle.Render(m.cat.T("specialAbility")+": "+m.cat.T(c.AbilityName)+" — "+m.cat.T(c.AbilityDesc)) + "\n")
		}
	}
	b.WriteString("\n  " + helpStyle.Render(m.cat.T("selectCountryHelp")) + "\n")
	return b.String()
}

func (m model) gameView() string {
	s := m.orch.Session()
	if s == nil {
		return ""
	}

	if m.orch.ChangingLocale() {
		return fmt.Sprintf("\n\n  %s %s\n", m.spinner.View(), m.cat.T("changingLanguage"))
	}
	if s.Curveball != nil && m.orch.Sub() == game.SubAwaitingCurveball {
		return m.curveballView(s.Curveball)
	}

	header := headerStyle.Render(fmt.Sprintf("%s %s  ·  %s  ·  %s %.1f",
		s.Country.Flag, s.Country.Name,
		m.cat.T("yearLabel", "year", fmt.Sprint(s.Year)),
		m.cat.T("scoreLabel"), s.Score))

	var main string
	switch {
	case m.orch.Loading():
		main = fmt.Sprintf("\n  %s %s\n", m.spinner.View(), m.loadingText())
	case len(s.Scenarios) > 0:
		main = m.scenariosView(s)
	default:
		main = ""
	}

	if key := m.orch.ErrKey(); key != "" {
		main = "\n  " + errorStyle.Render(m.cat.T(key)) + "\n  " + helpStyle.Render(m.cat.T("retryHelp")) + "\n" + main
	}

	sidebar := m.sidebarView(s)
	body := lipgloss.JoinHorizontal(lipgloss.Top, main, sidebar)

	help := helpStyle.Render(strings.Join([]string{
		m.cat.T("confirmTurnHelp"),
		m.cat.T("languageHelp"),
		m.cat.T("restartHelp"),
		m.cat.T("quitHelp"),
	}, "  ·  "))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, "", help)
}

func (m model) loadingText() string {
	if m.orch.Sub() == game.SubAwaitingOutcome {
		return m.cat.T("loadingOutcome")
	}
	return m.cat.T("loadingScenarios")
}

func (m model) scenariosView(s *game.Session) string {
	cardWidth := m.width - historyWidth(m.width) - 6
	if cardWidth < 30 {
		cardWidth = 30
	}

	var cards []string
	for i, sc := range s.Scenarios {
		var b strings.Builder
		b.WriteString(titleStyle.Render(fmt.Sprintf("%d. %s", i+1, sc.Title)) + "\n")
		b.WriteString(sc.Description + "\n")
		picked, hasPick := s.Choices[i]
		for j, choice := range sc.Choices {
			marker := "  "
			style := choiceStyle
			if hasPick && j == picked {
				marker = "✔ "
				style = pickedStyle
			}
			if i == m.focusedScenario && j == m.choiceCursor {
				marker = "> "
			}
			b.WriteString(marker + style.Render(choice) + "\n")
		}
		if len(sc.Jargons) > 0 {
			b.WriteString(helpStyle.Render(m.cat.T("jargonTitle")) + "\n")
			for _, jg := range sc.Jargons {
				b.WriteString(helpStyle.Render("  "+jg.Term+": "+jg.Definition) + "\n")
			}
		}
		style := cardStyle
		if i == m.focusedScenario {
			style = focusedCardStyle
		}
		cards = append(cards, style.Width(cardWidth).Render(b.String()))
	}

	progress := m.cat.T("scenarioProgress",
		"done", fmt.Sprint(len(s.Choices)),
		"total", fmt.Sprint(len(s.Scenarios)))
	if m.orch.Sub() == game.SubReadyToConfirm {
		progress += "  " + pickedStyle.Render("["+m.cat.T("confirmTurn")+": c]")
	}

	return lipgloss.JoinVertical(lipgloss.Left, append(cards, helpStyle.Render(progress))...)
}

func (m model) sidebarView(s *game.Session) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.cat.T("metricsTitle")) + "\n")
	// Current metrics match the newest history item once a turn has
	// resolved, so the sidebar delta compares against the turn before.
	h := m.orch.DisplayedHistory()
	prev := s.Baseline
	if len(h) > 0 {
		prev = game.PrevMetrics(h, 0, s.Baseline)
	}
	for _, key := range game.MetricKeys {
		cur := s.Metrics.Get(key)
		line := fmt.Sprintf("%s: %s", m.cat.T("metric_"+string(key)), formatMetric(key, cur))
		if d := cur - prev.Get(key); d > 0 {
			line += goodStyle.Render(fmt.Sprintf(" ▲%s", formatDelta(key, d)))
		} else if d < 0 {
			line += badStyle.Render(fmt.Sprintf(" ▼%s", formatDelta(key, -d)))
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + titleStyle.Render(m.cat.T("historyTitle")) + "\n")
	b.WriteString(m.viewport.View())

	return sidebarStyle.Width(historyWidth(m.width)).Render(b.String())
}

// renderHistory renders the displayed (locale-view) history, newest
// first, with each turn's score-relevant metric movements against the
// next-older turn.
func (m model) renderHistory() string {
	s := m.orch.Session()
	if s == nil {
		return ""
	}
	items := m.orch.DisplayedHistory()
	var b strings.Builder
	for i, item := range items {
		b.WriteString(headerStyle.Render(fmt.Sprint(item.Year)) + " " + item.Outcome + "\n")
		prev := game.PrevMetrics(items, i, s.Baseline)
		for _, key := range game.MetricKeys {
			d := item.Metrics.Get(key) - prev.Get(key)
			if d > 0 {
				b.WriteString(goodStyle.Render(fmt.Sprintf("  ▲ %s +%s", m.cat.T("metric_"+string(key)), formatDelta(key, d))) + "\n")
			} else if d < 0 {
				b.WriteString(badStyle.Render(fmt.Sprintf("  ▼ %s -%s", m.cat.T("metric_"+string(key)), formatDelta(key, -d))) + "\n")
			}
		}
		if len(item.NewsFeed) > 0 {
			b.WriteString(helpStyle.Render(m.cat.T("newsFeedTitle")) + "\n")
			for _, news := range item.NewsFeed {
				marker := "·"
				if news.IsCurveball {
					marker = "‼"
				}
				b.WriteString(helpStyle.Render("  "+marker+" "+news.Headline) + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) curveballView(cb *game.CurveballEvent) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(m.cat.T("curveballTitle")) + "  " + titleStyle.Render(cb.Title) + "\n\n")
	b.WriteString(cb.Description + "\n\n")
	for i, choice := range cb.Choices {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, choice.Text))
	}
	b.WriteString("\n" + helpStyle.Render(m.cat.T("curveballHelp")))

	width := m.width - 10
	if width < 40 {
		width = 40
	}
	return "\n" + modalStyle.Width(width).Render(b.String()) + "\n"
}

func (m model) gameOverView() string {
	s := m.orch.Session()
	if s == nil {
		return ""
	}
	return fmt.Sprintf(
		"\n  %s\n\n  %s\n\n  %s\n",
		titleStyle.Render(m.cat.T("gameOverTitle", "year", fmt.Sprint(game.FinalYear))),
		m.cat.T("gameOverScore", "country", s.Country.Name, "score", fmt.Sprintf("%.1f", s.Score)),
		helpStyle.Render(m.cat.T("playAgain")),
	)
}

// formatMetric renders a metric value in its natural unit.
func formatMetric(key game.MetricKey, v float64) string {
	switch key {
	case game.MetricSTEMWorkforce:
		return fmt.Sprintf("%.1fM", v)
	case game.MetricAIStartups:
		return fmt.Sprintf("%.0f", v)
	case game.MetricGovernmentAdoption:
		return fmt.Sprintf("%.0f/10", v)
	default:
		return fmt.Sprintf("%.1f%%", v)
	}
}

func formatDelta(key game.MetricKey, v float64) string {
	switch key {
	case game.MetricAIStartups:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}
