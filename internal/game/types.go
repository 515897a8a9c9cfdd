package game

// The simulation covers three fixed turns.
const (
	StartYear = 2025
	YearStep  = 5
	FinalYear = 2035
)

// ScenariosPerTurn is fixed: a turn always presents exactly four
// dilemmas.
const ScenariosPerTurn = 4

// Jargon is one term/definition pair surfaced by a scenario.
type Jargon struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
}

// Scenario is one generated policy dilemma. Choices are addressed by
// index, not by ID: order is identity. That keeps locale regeneration
// simple, at the cost of durable cross-locale choice identity.
type Scenario struct {
	Title       string   `json:"scenario_title" yaml:"title"`
	Description string   `json:"scenario_description" yaml:"description"`
	Choices     []string `json:"choices" yaml:"choices"`
	Jargons     []Jargon `json:"jargons,omitempty" yaml:"jargons,omitempty"`
}

// Source is a citation attached to a scenario batch. The generator
// currently returns none, but the shape is part of the contract.
type Source struct {
	Title string `json:"title" yaml:"title"`
	URI   string `json:"uri" yaml:"uri"`
}

// CurveballChoice is one immediate response to a curveball, with its
// short-term metric impact.
type CurveballChoice struct {
	Text          string `json:"choice_text" yaml:"text"`
	MetricImpacts Delta  `json:"metric_impacts" yaml:"metric_impacts,omitempty"`
}

// CurveballEvent interrupts the turn cycle with 2-3 urgent choices.
type CurveballEvent struct {
	Title       string            `json:"event_title" yaml:"title"`
	Description string            `json:"event_description" yaml:"description"`
	Choices     []CurveballChoice `json:"choices" yaml:"choices"`
}

// NewsItem is one headline from a turn's outcome. At most one item per
// batch is a curveball, and that one carries the event.
type NewsItem struct {
	Headline    string          `json:"headline" yaml:"headline"`
	Summary     string          `json:"summary" yaml:"summary"`
	IsCurveball bool            `json:"is_curveball" yaml:"is_curveball"`
	Event       *CurveballEvent `json:"event,omitempty" yaml:"event,omitempty"`
}

// HistoryItem is the permanent record of one resolved turn.
// CurveballChoice is -1 until the item's curveball, if any, is
// resolved.
type HistoryItem struct {
	Year            int        `yaml:"year"`
	Scenarios       []Scenario `yaml:"scenarios"`
	ChoiceIndices   []int      `yaml:"choice_indices"`
	Outcome         string     `yaml:"outcome"`
	Metrics         Metrics    `yaml:"metrics"`
	NewsFeed        []NewsItem `yaml:"news_feed,omitempty"`
	CurveballChoice int        `yaml:"curveball_choice"`
}

// Outcome is a resolved turn as returned by the generator.
type Outcome struct {
	Summary        string     `json:"outcome_summary"`
	UpdatedMetrics Metrics    `json:"updated_metrics"`
	NewsFeed       []NewsItem `json:"news_feed"`
}

// Curveball returns the outcome's curveball event, or nil.
func (o Outcome) Curveball() *CurveballEvent {
	for _, item := range o.NewsFeed {
		if item.IsCurveball && item.Event != nil {
			return item.Event
		}
	}
	return nil
}

// TranslatedTurn is one element of a history translation batch, in the
// same order as the canonical history it was derived from.
type TranslatedTurn struct {
	Scenarios []Scenario `json:"translated_scenarios"`
	Outcome   string     `json:"translated_outcome"`
}
