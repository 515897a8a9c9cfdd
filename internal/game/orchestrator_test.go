package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testScenarios() []Scenario {
	out := make([]Scenario, ScenariosPerTurn)
	for i := range out {
		out[i] = Scenario{
			Title:       fmt.Sprintf("dilemma %d", i),
			Description: "a hard call",
			Choices:     []string{"option a", "option b", "option c"},
		}
	}
	return out
}

func testOutcome(metrics Metrics, withCurveball bool) Outcome {
	out := Outcome{
		Summary:        "five years pass",
		UpdatedMetrics: metrics,
		NewsFeed: []NewsItem{
			{Headline: "steady progress", Summary: "things happen"},
		},
	}
	if withCurveball {
		out.NewsFeed = append(out.NewsFeed, NewsItem{
			Headline:    "shock",
			Summary:     "unexpected",
			IsCurveball: true,
			Event: &CurveballEvent{
				Title:       "crisis",
				Description: "act now",
				Choices: []CurveballChoice{
					{Text: "absorb it", MetricImpacts: Delta{MetricGDPContribution: -0.2}},
					{Text: "double down", MetricImpacts: Delta{MetricRDSpending: 1}},
				},
			},
		})
	}
	return out
}

// startTurn drives a fresh orchestrator to AWAITING_CHOICES.
func startTurn(t *testing.T) *Orchestrator {
	t.Helper()
	orch := New(zap.NewNop(), "en")
	require.NoError(t, orch.Enter())
	req, err := orch.SelectCountry("laos")
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, StartYear, req.Year)
	assert.Empty(t, req.History)
	assert.True(t, orch.Loading())

	orch.ApplyScenarios(req.Gen, testScenarios(), []Source{}, nil)
	require.Equal(t, SubAwaitingChoices, orch.Sub())
	require.False(t, orch.Loading())
	return orch
}

func pickAll(t *testing.T, orch *Orchestrator) {
	t.Helper()
	for i := 0; i < ScenariosPerTurn; i++ {
		require.NoError(t, orch.SelectChoice(i, 1))
	}
	require.Equal(t, SubReadyToConfirm, orch.Sub())
}

// playTurn resolves one full turn without a curveball and returns the
// follow-up scenario request (nil once the game ended).
func playTurn(t *testing.T, orch *Orchestrator, metrics Metrics) *ScenarioRequest {
	t.Helper()
	pickAll(t, orch)
	req, err := orch.ConfirmTurn()
	require.NoError(t, err)
	next := orch.ApplyOutcome(req.Gen, testOutcome(metrics, false), nil)
	if next != nil {
		orch.ApplyScenarios(next.Gen, testScenarios(), []Source{}, nil)
	}
	return next
}

func TestLifecyclePhaseGating(t *testing.T) {
	orch := New(zap.NewNop(), "en")
	assert.Equal(t, PhaseWelcome, orch.Phase())

	_, err := orch.SelectCountry("laos")
	assert.ErrorIs(t, err, ErrBadPhase)
	_, err = orch.ConfirmTurn()
	assert.ErrorIs(t, err, ErrBadPhase)
	assert.ErrorIs(t, orch.SelectChoice(0, 0), ErrBadPhase)
	_, err = orch.ResolveCurveball(0)
	assert.ErrorIs(t, err, ErrBadPhase)
	assert.ErrorIs(t, orch.Restart(), ErrBadPhase)

	require.NoError(t, orch.Enter())
	assert.Equal(t, PhaseSelectingCountry, orch.Phase())
	assert.ErrorIs(t, orch.Enter(), ErrBadPhase)

	_, err = orch.SelectCountry("atlantis")
	assert.Error(t, err)
}

func TestFullTurnCycle(t *testing.T) {
	orch := startTurn(t)
	s := orch.Session()
	baseline := s.Baseline
	assert.Zero(t, s.Score)

	// Selecting out of range is rejected; re-picking overwrites.
	assert.Error(t, orch.SelectChoice(7, 0))
	assert.Error(t, orch.SelectChoice(0, 9))
	require.NoError(t, orch.SelectChoice(0, 0))
	require.NoError(t, orch.SelectChoice(0, 2))
	assert.Equal(t, SubAwaitingChoices, orch.Sub(), "three picks still missing")

	pickAll(t, orch)
	req, err := orch.ConfirmTurn()
	require.NoError(t, err)
	assert.Equal(t, SubAwaitingOutcome, orch.Sub())
	assert.Equal(t, []string{"option b", "option b", "option b", "option b"}, req.ChoiceTexts)

	updated := baseline.ApplyDelta(Delta{MetricGDPContribution: 0.5, MetricAIStartups: 20})
	next := orch.ApplyOutcome(req.Gen, testOutcome(updated, false), nil)
	require.NotNil(t, next, "game continues into the next year")

	assert.Equal(t, StartYear+YearStep, next.Year)
	assert.Equal(t, SubAwaitingScenarios, orch.Sub())
	assert.True(t, orch.Loading())
	assert.Equal(t, updated, s.Metrics)
	assert.Equal(t, baseline, s.Baseline, "baseline never moves")
	assert.Equal(t, Score(updated, baseline), s.Score)

	require.Len(t, orch.DisplayedHistory(), 1)
	assert.Equal(t, StartYear, orch.DisplayedHistory()[0].Year)
	assert.Equal(t, -1, orch.DisplayedHistory()[0].CurveballChoice)
	require.Len(t, next.History, 1, "next fetch sees canonical history")
}

func TestGameEndsAfterFinalYear(t *testing.T) {
	orch := startTurn(t)
	m := orch.Session().Metrics

	require.NotNil(t, playTurn(t, orch, m)) // 2025 resolved, on to 2030
	require.NotNil(t, playTurn(t, orch, m)) // 2030 resolved, on to 2035
	require.Nil(t, playTurn(t, orch, m))    // 2035 resolved, nothing follows
	assert.Equal(t, PhaseGameOver, orch.Phase())
	assert.False(t, orch.Loading())
	assert.Len(t, orch.Session().History.Canonical(), 3)
}

func TestCurveballInterrupt(t *testing.T) {
	orch := startTurn(t)
	s := orch.Session()
	pickAll(t, orch)
	req, err := orch.ConfirmTurn()
	require.NoError(t, err)

	updated := s.Baseline.ApplyDelta(Delta{MetricRDSpending: 1})
	next := orch.ApplyOutcome(req.Gen, testOutcome(updated, true), nil)
	assert.Nil(t, next, "no scenario fetch while the curveball is pending")
	assert.Equal(t, SubAwaitingCurveball, orch.Sub())
	assert.False(t, orch.Loading())
	require.NotNil(t, s.Curveball)

	_, err = orch.ResolveCurveball(5)
	assert.Error(t, err)

	next, err = orch.ResolveCurveball(1)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, SubAwaitingScenarios, orch.Sub())
	assert.Nil(t, s.Curveball)

	// The +1 R&D impact applied on top of the outcome metrics, and the
	// newest history item got the decision and the fresh snapshot.
	assert.Equal(t, updated.RDSpending+1, s.Metrics.RDSpending)
	assert.Equal(t, 1, s.History.Canonical()[0].CurveballChoice)
	assert.Equal(t, s.Metrics, s.History.Canonical()[0].Metrics)
	assert.Equal(t, Score(s.Metrics, s.Baseline), s.Score)
}

func TestStaleScenarioResultDiscarded(t *testing.T) {
	orch := startTurn(t)

	change, err := orch.ChangeLocale("zh")
	require.NoError(t, err)
	require.NotNil(t, change.Scenarios)
	assert.Nil(t, change.Translation, "no history to translate yet")
	assert.True(t, orch.Loading())

	// The pre-switch fetch finally lands; its token lost the race.
	stale := []Scenario{{Title: "stale", Description: "x", Choices: []string{"a", "b"}}}
	orch.ApplyScenarios(change.Scenarios.Gen-1, stale, nil, nil)
	assert.True(t, orch.Loading(), "stale result must not clear newer state")
	assert.Empty(t, orch.Session().Scenarios)

	orch.ApplyScenarios(change.Scenarios.Gen, testScenarios(), nil, nil)
	assert.False(t, orch.Loading())
	assert.Equal(t, SubAwaitingChoices, orch.Sub())
	assert.Equal(t, "zh", change.Scenarios.Locale)
}

func TestLocaleChangeCachesTranslations(t *testing.T) {
	orch := startTurn(t)
	playTurn(t, orch, orch.Session().Metrics)

	// First visit to zh needs a translation.
	change, err := orch.ChangeLocale("zh")
	require.NoError(t, err)
	require.NotNil(t, change.Translation)
	assert.True(t, orch.ChangingLocale())

	translated := []TranslatedTurn{{
		Scenarios: []Scenario{{Title: "译", Description: "描述", Choices: []string{"甲", "乙", "丙"}}},
		Outcome:   "五年过去了",
	}}
	orch.ApplyTranslation(change.Translation.Gen, "zh", translated, nil)
	orch.ApplyScenarios(change.Scenarios.Gen, testScenarios(), nil, nil)
	assert.False(t, orch.ChangingLocale())
	assert.Equal(t, "五年过去了", orch.DisplayedHistory()[0].Outcome)

	// Back to en: the write-through view is still cached, no call.
	change, err = orch.ChangeLocale("en")
	require.NoError(t, err)
	assert.Nil(t, change.Translation)
	assert.Equal(t, "five years pass", orch.DisplayedHistory()[0].Outcome)
	orch.ApplyScenarios(change.Scenarios.Gen, testScenarios(), nil, nil)

	// zh again: still cached, still no translation call.
	change, err = orch.ChangeLocale("zh")
	require.NoError(t, err)
	assert.Nil(t, change.Translation)
	assert.Equal(t, "五年过去了", orch.DisplayedHistory()[0].Outcome)
	orch.ApplyScenarios(change.Scenarios.Gen, testScenarios(), nil, nil)
}

func TestAppendInvalidatesOtherLocaleCaches(t *testing.T) {
	orch := startTurn(t)
	playTurn(t, orch, orch.Session().Metrics)

	change, err := orch.ChangeLocale("zh")
	require.NoError(t, err)
	orch.ApplyTranslation(change.Translation.Gen, "zh", []TranslatedTurn{{
		Scenarios: []Scenario{{Title: "译", Choices: []string{"甲", "乙"}}},
		Outcome:   "第一回合",
	}}, nil)
	orch.ApplyScenarios(change.Scenarios.Gen, testScenarios(), nil, nil)

	// Resolve a second turn in zh; the en view is now stale.
	playTurn(t, orch, orch.Session().Metrics)
	change, err = orch.ChangeLocale("en")
	require.NoError(t, err)
	require.NotNil(t, change.Translation, "stale cached view must be regenerated, not reused")
	assert.Len(t, change.Translation.History, 2)
}

func TestTranslationFailureDoesNotBlockScenarios(t *testing.T) {
	orch := startTurn(t)
	playTurn(t, orch, orch.Session().Metrics)

	change, err := orch.ChangeLocale("hi")
	require.NoError(t, err)
	require.NotNil(t, change.Translation)

	orch.ApplyTranslation(change.Translation.Gen, "hi", nil, errors.New("boom"))
	assert.Equal(t, "historyTranslationError", orch.ErrKey())

	// The scenario leg of the locale change still completes normally.
	orch.ApplyScenarios(change.Scenarios.Gen, testScenarios(), nil, nil)
	assert.Equal(t, SubAwaitingChoices, orch.Sub())
	assert.False(t, orch.ChangingLocale())
	assert.Len(t, orch.Session().Scenarios, ScenariosPerTurn)
}

func TestOutcomeFailureAllowsRetry(t *testing.T) {
	orch := startTurn(t)
	pickAll(t, orch)
	req, err := orch.ConfirmTurn()
	require.NoError(t, err)

	next := orch.ApplyOutcome(req.Gen, Outcome{}, errors.New("network down"))
	assert.Nil(t, next)
	assert.Equal(t, SubReadyToConfirm, orch.Sub(), "player stays put and may retry")
	assert.Equal(t, "outcomeErrorGeneric", orch.ErrKey())
	assert.False(t, orch.Loading())
	assert.Empty(t, orch.Session().History.Canonical())

	retry, err := orch.ConfirmTurn()
	require.NoError(t, err)
	assert.Greater(t, retry.Gen, req.Gen)
}

func TestScenarioFailureAllowsRetry(t *testing.T) {
	orch := New(zap.NewNop(), "en")
	require.NoError(t, orch.Enter())
	req, err := orch.SelectCountry("india")
	require.NoError(t, err)

	orch.ApplyScenarios(req.Gen, nil, nil, errors.New("parse failure"))
	assert.Equal(t, "simulationErrorGeneric", orch.ErrKey())
	assert.Equal(t, SubAwaitingScenarios, orch.Sub())
	assert.False(t, orch.Loading())

	retry, err := orch.RetryScenarios()
	require.NoError(t, err)
	assert.Greater(t, retry.Gen, req.Gen)
	orch.ApplyScenarios(retry.Gen, testScenarios(), nil, nil)
	assert.Equal(t, SubAwaitingChoices, orch.Sub())
	assert.Empty(t, orch.ErrKey())
}

func TestLocaleChangePreservesPendingCurveball(t *testing.T) {
	orch := startTurn(t)
	pickAll(t, orch)
	req, err := orch.ConfirmTurn()
	require.NoError(t, err)
	orch.ApplyOutcome(req.Gen, testOutcome(orch.Session().Metrics, true), nil)
	require.Equal(t, SubAwaitingCurveball, orch.Sub())

	change, err := orch.ChangeLocale("id")
	require.NoError(t, err)
	require.NotNil(t, change.Scenarios, "scenarios refetch even under the modal")
	assert.Equal(t, SubAwaitingCurveball, orch.Sub())
	assert.NotNil(t, orch.Session().Curveball)

	// The refreshed scenarios arrive but the decision still gates.
	orch.ApplyScenarios(change.Scenarios.Gen, testScenarios(), nil, nil)
	assert.Equal(t, SubAwaitingCurveball, orch.Sub())

	next, err := orch.ResolveCurveball(0)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "id", next.Locale)
}

func TestLocaleChangeDuringOutcomeKeepsConfirmedTurn(t *testing.T) {
	orch := startTurn(t)
	pickAll(t, orch)
	req, err := orch.ConfirmTurn()
	require.NoError(t, err)
	require.Equal(t, SubAwaitingOutcome, orch.Sub())

	// The switch wipes the live scenario set while the outcome is in
	// flight, so the history item must come from the confirmed snapshot.
	change, err := orch.ChangeLocale("zh")
	require.NoError(t, err)
	require.NotNil(t, change.Scenarios)
	assert.Empty(t, orch.Session().Scenarios)

	orch.ApplyOutcome(req.Gen, testOutcome(orch.Session().Metrics, false), nil)
	h := orch.Session().History.Canonical()
	require.Len(t, h, 1)
	assert.Equal(t, req.Scenarios, h[0].Scenarios)
	assert.Equal(t, req.ChoiceIndices, h[0].ChoiceIndices)
	assert.Equal(t, StartYear, h[0].Year)
}

func TestOutcomeFailureAfterLocaleChangeFallsBack(t *testing.T) {
	orch := startTurn(t)
	pickAll(t, orch)
	req, err := orch.ConfirmTurn()
	require.NoError(t, err)

	change, err := orch.ChangeLocale("hi")
	require.NoError(t, err)
	require.NotNil(t, change.Scenarios)

	// The picks died with the locale switch, so READY_TO_CONFIRM is not
	// reachable; wait on the refetch already in flight instead.
	orch.ApplyOutcome(req.Gen, Outcome{}, errors.New("network down"))
	assert.Equal(t, SubAwaitingScenarios, orch.Sub())
	assert.True(t, orch.Loading())
	assert.Equal(t, "outcomeErrorGeneric", orch.ErrKey())

	orch.ApplyScenarios(change.Scenarios.Gen, testScenarios(), nil, nil)
	assert.Equal(t, SubAwaitingChoices, orch.Sub())
}

func TestChangeLocaleToSameLocaleIsNoop(t *testing.T) {
	orch := startTurn(t)
	change, err := orch.ChangeLocale("en")
	require.NoError(t, err)
	assert.Nil(t, change)
	assert.False(t, orch.ChangingLocale())
}

func TestRestartClearsEverything(t *testing.T) {
	orch := startTurn(t)
	m := orch.Session().Metrics
	playTurn(t, orch, m)
	playTurn(t, orch, m)
	playTurn(t, orch, m)
	require.Equal(t, PhaseGameOver, orch.Phase())

	require.NoError(t, orch.Restart())
	assert.Equal(t, PhaseSelectingCountry, orch.Phase())
	assert.Nil(t, orch.Session())
	assert.Empty(t, orch.DisplayedHistory())
	assert.False(t, orch.Loading())
	assert.Empty(t, orch.ErrKey())

	// A new game starts clean.
	req, err := orch.SelectCountry("usa")
	require.NoError(t, err)
	assert.Empty(t, req.History)
	assert.Zero(t, orch.Session().Score)
}
