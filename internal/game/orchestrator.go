package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Phase is the top-level game lifecycle state.
type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseSelectingCountry
	PhaseInProgress
	PhaseGameOver
)

// SubPhase tracks where an in-progress turn is in its cycle.
type SubPhase int

const (
	SubNone SubPhase = iota
	SubAwaitingScenarios
	SubAwaitingChoices
	SubReadyToConfirm
	SubAwaitingOutcome
	SubAwaitingCurveball
)

// ErrBadPhase is returned when an intent arrives in a phase that does
// not accept it.
var ErrBadPhase = errors.New("intent not valid in current phase")

// ScenarioRequest asks the generator for the next four dilemmas. Gen is
// the request generation token: a completion whose token no longer
// matches the orchestrator's current scenario generation is stale and
// must be discarded.
type ScenarioRequest struct {
	Gen     int
	Country Country
	Year    int
	Metrics Metrics
	History []HistoryItem // canonical, never a translated view
	Locale  string
}

// OutcomeRequest asks the generator to resolve a confirmed turn.
type OutcomeRequest struct {
	Gen           int
	Country       Country
	Year          int
	Metrics       Metrics
	Scenarios     []Scenario
	ChoiceTexts   []string
	ChoiceIndices []int
	Locale        string
}

// TranslationRequest asks the generator to translate the full canonical
// history into a locale.
type TranslationRequest struct {
	Gen     int
	History []HistoryItem
	Locale  string
}

// LocaleChange bundles the work a locale switch needs: an optional
// history translation (nil on cache hit or empty history) and the
// mandatory scenario refetch.
type LocaleChange struct {
	Translation *TranslationRequest
	Scenarios   *ScenarioRequest
}

// Orchestrator is the turn state machine. It owns the session and is
// driven entirely by discrete intents plus the completions of the
// requests it hands out; it never blocks. All methods must be called
// from a single goroutine (the presentation layer's event loop).
type Orchestrator struct {
	log *zap.Logger

	phase   Phase
	sub     SubPhase
	session *Session
	locale  string

	displayed []HistoryItem // history in the active locale's view

	// The turn captured at ConfirmTurn time. A locale change while the
	// outcome is in flight clears the live scenario set, so the item
	// recorded into history must come from this snapshot instead.
	pendingTurn *OutcomeRequest

	loading            bool
	changingLocale     bool
	translationPending bool
	errKey             string

	scenarioGen    int
	outcomeGen     int
	translationGen int
}

// New returns an orchestrator on the welcome screen with the given
// starting locale.
func New(log *zap.Logger, locale string) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{log: log, phase: PhaseWelcome, locale: locale}
}

// Enter leaves the welcome screen.
func (o *Orchestrator) Enter() error {
	if o.phase != PhaseWelcome {
		return ErrBadPhase
	}
	o.phase = PhaseSelectingCountry
	return nil
}

// SelectCountry starts a new game session and returns the first
// scenario fetch.
func (o *Orchestrator) SelectCountry(countryID string) (*ScenarioRequest, error) {
	if o.phase != PhaseSelectingCountry {
		return nil, ErrBadPhase
	}
	country, ok := CountryByID(countryID)
	if !ok {
		return nil, fmt.Errorf("unknown country %q", countryID)
	}

	o.session = newSession(country)
	o.displayed = nil
	o.phase = PhaseInProgress
	o.log.Info("session started",
		zap.String("session", o.session.ID.String()),
		zap.String("country", country.ID),
		zap.String("locale", o.locale))
	return o.fetchScenarios(), nil
}

// fetchScenarios moves into AWAITING_SCENARIOS and issues a fetch for
// the session's current year against canonical history.
func (o *Orchestrator) fetchScenarios() *ScenarioRequest {
	s := o.session
	s.Scenarios = nil
	s.Sources = nil
	s.Choices = make(map[int]int)
	o.sub = SubAwaitingScenarios
	o.loading = true
	o.errKey = ""
	o.scenarioGen++
	return &ScenarioRequest{
		Gen:     o.scenarioGen,
		Country: s.Country,
		Year:    s.Year,
		Metrics: s.Metrics,
		History: s.History.Canonical(),
		Locale:  o.locale,
	}
}

// RetryScenarios reissues the scenario fetch after a failure.
func (o *Orchestrator) RetryScenarios() (*ScenarioRequest, error) {
	if o.phase != PhaseInProgress || o.sub != SubAwaitingScenarios || o.loading {
		return nil, ErrBadPhase
	}
	return o.fetchScenarios(), nil
}

// ApplyScenarios feeds a scenario fetch completion back in. Stale
// completions are dropped without touching state.
func (o *Orchestrator) ApplyScenarios(gen int, scenarios []Scenario, sources []Source, err error) {
	if gen != o.scenarioGen || o.phase != PhaseInProgress {
		o.log.Debug("discarding stale scenario result", zap.Int("gen", gen), zap.Int("current", o.scenarioGen))
		return
	}
	o.loading = false
	o.maybeFinishLocaleChange()
	if err != nil {
		o.log.Warn("scenario generation failed", zap.Error(err))
		o.errKey = "simulationErrorGeneric"
		return
	}
	o.session.Scenarios = scenarios
	o.session.Sources = sources
	o.session.Choices = make(map[int]int)
	// During a pending curveball the refreshed scenarios are only
	// display state; the decision still gates the turn cycle.
	if o.sub == SubAwaitingScenarios {
		o.sub = SubAwaitingChoices
	}
}

// SelectChoice records the player's pick for one scenario. Re-picking
// overwrites. Once all four scenarios have a pick the turn is ready to
// confirm.
func (o *Orchestrator) SelectChoice(scenarioIndex, choiceIndex int) error {
	if o.phase != PhaseInProgress || (o.sub != SubAwaitingChoices && o.sub != SubReadyToConfirm) {
		return ErrBadPhase
	}
	s := o.session
	if scenarioIndex < 0 || scenarioIndex >= len(s.Scenarios) {
		return fmt.Errorf("scenario index %d out of range", scenarioIndex)
	}
	if choiceIndex < 0 || choiceIndex >= len(s.Scenarios[scenarioIndex].Choices) {
		return fmt.Errorf("choice index %d out of range for scenario %d", choiceIndex, scenarioIndex)
	}
	s.Choices[scenarioIndex] = choiceIndex
	if s.ChoicesComplete() {
		o.sub = SubReadyToConfirm
	}
	return nil
}

// ConfirmTurn locks the four picks in and requests the collective
// outcome.
func (o *Orchestrator) ConfirmTurn() (*OutcomeRequest, error) {
	if o.phase != PhaseInProgress || o.sub != SubReadyToConfirm {
		return nil, ErrBadPhase
	}
	s := o.session
	texts, indices := s.choiceTexts()
	o.sub = SubAwaitingOutcome
	o.loading = true
	o.errKey = ""
	o.outcomeGen++
	o.pendingTurn = &OutcomeRequest{
		Gen:           o.outcomeGen,
		Country:       s.Country,
		Year:          s.Year,
		Metrics:       s.Metrics,
		Scenarios:     s.Scenarios,
		ChoiceTexts:   texts,
		ChoiceIndices: indices,
		Locale:        o.locale,
	}
	return o.pendingTurn, nil
}

// ApplyOutcome feeds an outcome completion back in. On success it
// records the turn, then either stops on a curveball, ends the game, or
// returns the next year's scenario fetch. On failure the player is put
// back at READY_TO_CONFIRM to confirm again.
func (o *Orchestrator) ApplyOutcome(gen int, out Outcome, err error) *ScenarioRequest {
	if gen != o.outcomeGen || o.phase != PhaseInProgress || o.sub != SubAwaitingOutcome {
		o.log.Debug("discarding stale outcome result", zap.Int("gen", gen))
		return nil
	}
	if err != nil {
		o.log.Warn("outcome generation failed", zap.Error(err))
		o.errKey = "outcomeErrorGeneric"
		o.loading = false
		o.pendingTurn = nil
		// Normally the player lands back in READY_TO_CONFIRM to retry.
		// If a locale change invalidated the picks mid-flight, fall
		// back to wherever the live scenario state actually is.
		switch {
		case o.session.ChoicesComplete():
			o.sub = SubReadyToConfirm
		case len(o.session.Scenarios) > 0:
			o.sub = SubAwaitingChoices
		default:
			o.sub = SubAwaitingScenarios
			o.loading = true
		}
		return nil
	}

	s := o.session
	pending := o.pendingTurn
	o.pendingTurn = nil
	item := HistoryItem{
		Year:            pending.Year,
		Scenarios:       pending.Scenarios,
		ChoiceIndices:   pending.ChoiceIndices,
		Outcome:         out.Summary,
		Metrics:         out.UpdatedMetrics,
		NewsFeed:        out.NewsFeed,
		CurveballChoice: -1,
	}
	s.History.Append(item, o.locale)
	o.displayed, _ = s.History.View(o.locale)
	s.Metrics = out.UpdatedMetrics
	s.Score = Score(s.Metrics, s.Baseline)
	o.log.Info("turn resolved",
		zap.Int("year", s.Year),
		zap.Float64("score", s.Score),
		zap.Bool("curveball", out.Curveball() != nil))

	if cb := out.Curveball(); cb != nil {
		s.Curveball = cb
		o.sub = SubAwaitingCurveball
		o.loading = false
		return nil
	}
	return o.advanceOrEnd()
}

// ResolveCurveball applies the chosen curveball impact, amends the
// newest history item, and advances the turn cycle.
func (o *Orchestrator) ResolveCurveball(choiceIndex int) (*ScenarioRequest, error) {
	if o.phase != PhaseInProgress || o.sub != SubAwaitingCurveball {
		return nil, ErrBadPhase
	}
	s := o.session
	if choiceIndex < 0 || choiceIndex >= len(s.Curveball.Choices) {
		return nil, fmt.Errorf("curveball choice %d out of range", choiceIndex)
	}

	s.Metrics = s.Metrics.ApplyDelta(s.Curveball.Choices[choiceIndex].MetricImpacts)
	s.Score = Score(s.Metrics, s.Baseline)
	s.History.ResolveCurveball(choiceIndex, s.Metrics, o.locale)
	o.displayed, _ = s.History.View(o.locale)
	s.Curveball = nil
	o.log.Info("curveball resolved", zap.Int("choice", choiceIndex), zap.Float64("score", s.Score))
	return o.advanceOrEnd(), nil
}

// advanceOrEnd is the shared tail of ConfirmTurn and ResolveCurveball:
// step the year, or end the game past the final year.
func (o *Orchestrator) advanceOrEnd() *ScenarioRequest {
	next := o.session.Year + YearStep
	if next > FinalYear {
		o.phase = PhaseGameOver
		o.sub = SubNone
		o.loading = false
		o.log.Info("game over", zap.Float64("finalScore", o.session.Score))
		return nil
	}
	o.session.Year = next
	return o.fetchScenarios()
}

// ChangeLocale switches the display language mid-game. The pending
// scenario set and partial picks are discarded (choice text is
// locale-specific), the history view swaps from cache or gets a
// translation request, and scenarios are always refetched in the new
// locale. A pending curveball survives the switch untouched.
func (o *Orchestrator) ChangeLocale(locale string) (*LocaleChange, error) {
	if o.phase != PhaseInProgress {
		return nil, ErrBadPhase
	}
	if locale == o.locale {
		return nil, nil
	}
	o.log.Info("locale change", zap.String("from", o.locale), zap.String("to", locale))
	o.locale = locale
	o.changingLocale = true
	o.errKey = ""

	change := &LocaleChange{}
	s := o.session
	if view, ok := s.History.View(locale); ok {
		o.displayed = view
	} else if s.History.Len() > 0 {
		o.translationGen++
		o.translationPending = true
		change.Translation = &TranslationRequest{
			Gen:     o.translationGen,
			History: s.History.Canonical(),
			Locale:  locale,
		}
	} else {
		o.displayed = nil
	}

	// The outcome and curveball gates stay where they are; only the
	// choice-collection sub-phases restart from a fresh fetch.
	switch o.sub {
	case SubAwaitingChoices, SubReadyToConfirm, SubAwaitingScenarios:
		change.Scenarios = o.fetchScenarios()
	default:
		s.Scenarios = nil
		s.Sources = nil
		s.Choices = make(map[int]int)
		o.scenarioGen++
		change.Scenarios = &ScenarioRequest{
			Gen:     o.scenarioGen,
			Country: s.Country,
			Year:    s.Year,
			Metrics: s.Metrics,
			History: s.History.Canonical(),
			Locale:  locale,
		}
		o.loading = true
	}
	return change, nil
}

// ApplyTranslation feeds a history translation completion back in. A
// failure reports an error but never blocks the scenario fetch that
// accompanied the locale change.
func (o *Orchestrator) ApplyTranslation(gen int, locale string, turns []TranslatedTurn, err error) {
	if gen != o.translationGen || o.phase != PhaseInProgress {
		o.log.Debug("discarding stale translation result", zap.Int("gen", gen))
		return
	}
	o.translationPending = false
	if err != nil {
		o.log.Warn("history translation failed", zap.String("locale", locale), zap.Error(err))
		o.errKey = "historyTranslationError"
		o.maybeFinishLocaleChange()
		return
	}
	view, storeErr := o.session.History.StoreView(locale, turns)
	if storeErr != nil {
		o.log.Warn("history translation mismatch", zap.Error(storeErr))
		o.errKey = "historyTranslationError"
		o.maybeFinishLocaleChange()
		return
	}
	if locale == o.locale {
		o.displayed = view
	}
	o.maybeFinishLocaleChange()
}

func (o *Orchestrator) maybeFinishLocaleChange() {
	if o.changingLocale && !o.translationPending && !o.loading {
		o.changingLocale = false
	}
}

// Restart abandons the session and returns to country selection. All
// request generations bump so anything still in flight lands stale.
func (o *Orchestrator) Restart() error {
	if o.phase != PhaseInProgress && o.phase != PhaseGameOver {
		return ErrBadPhase
	}
	if o.session != nil {
		o.session.History.Reset()
	}
	o.session = nil
	o.displayed = nil
	o.pendingTurn = nil
	o.phase = PhaseSelectingCountry
	o.sub = SubNone
	o.loading = false
	o.changingLocale = false
	o.translationPending = false
	o.errKey = ""
	o.scenarioGen++
	o.outcomeGen++
	o.translationGen++
	o.log.Info("restart")
	return nil
}

// Observable state for the presentation layer. The returned slices and
// maps are owned by the orchestrator and are read-only to callers.

func (o *Orchestrator) Phase() Phase         { return o.phase }
func (o *Orchestrator) Sub() SubPhase        { return o.sub }
func (o *Orchestrator) Locale() string       { return o.locale }
func (o *Orchestrator) Loading() bool        { return o.loading }
func (o *Orchestrator) ChangingLocale() bool { return o.changingLocale }

// ErrKey returns the i18n key of the current user-visible error, or "".
func (o *Orchestrator) ErrKey() string { return o.errKey }

// Session exposes the live session, or nil outside a game.
func (o *Orchestrator) Session() *Session { return o.session }

// DisplayedHistory is the resolved-turn list in the active locale's
// view, newest first.
func (o *Orchestrator) DisplayedHistory() []HistoryItem { return o.displayed }
