package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"ai-superpower/internal/game"
)

// The model sometimes wraps its JSON in a markdown fence despite the
// response MIME type. Strip it before decoding.
func stripFences(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// parseScenarios validates a scenario payload into exactly four
// well-formed scenarios. Anything else is a GenerationError.
func parseScenarios(raw string) ([]game.Scenario, error) {
	var scenarios []game.Scenario
	if err := json.Unmarshal([]byte(stripFences(raw)), &scenarios); err != nil {
		return nil, &GenerationError{Stage: "scenarios", Err: err}
	}
	if len(scenarios) != game.ScenariosPerTurn {
		return nil, &GenerationError{
			Stage: "scenarios",
			Err:   fmt.Errorf("expected %d scenarios, got %d", game.ScenariosPerTurn, len(scenarios)),
		}
	}
	for i, s := range scenarios {
		if s.Title == "" || s.Description == "" {
			return nil, &GenerationError{Stage: "scenarios", Err: fmt.Errorf("scenario %d missing title or description", i)}
		}
		if len(s.Choices) < 2 {
			return nil, &GenerationError{Stage: "scenarios", Err: fmt.Errorf("scenario %d has %d choices", i, len(s.Choices))}
		}
	}
	return scenarios, nil
}

// rawOutcome decodes the metrics loosely so that a missing or
// non-numeric metric can be coerced to "no change" instead of faulting
// the score math.
type rawOutcome struct {
	Summary        string                     `json:"outcome_summary"`
	UpdatedMetrics map[string]json.RawMessage `json:"updated_metrics"`
	NewsFeed       []game.NewsItem            `json:"news_feed"`
}

// parseOutcome validates an outcome payload. current supplies the
// fallback value for any metric the generator omitted or mangled.
func parseOutcome(raw string, current game.Metrics) (game.Outcome, error) {
	var ro rawOutcome
	if err := json.Unmarshal([]byte(stripFences(raw)), &ro); err != nil {
		return game.Outcome{}, &GenerationError{Stage: "outcome", Err: err}
	}
	if ro.Summary == "" {
		return game.Outcome{}, &GenerationError{Stage: "outcome", Err: fmt.Errorf("empty outcome summary")}
	}

	updated := coerceMetrics(ro.UpdatedMetrics, current)

	curveballs := 0
	for i, item := range ro.NewsFeed {
		if !item.IsCurveball {
			continue
		}
		curveballs++
		if curveballs > 1 {
			return game.Outcome{}, &GenerationError{Stage: "outcome", Err: fmt.Errorf("multiple curveball news items")}
		}
		if item.Event == nil {
			return game.Outcome{}, &GenerationError{Stage: "outcome", Err: fmt.Errorf("news item %d flagged curveball without event", i)}
		}
		if n := len(item.Event.Choices); n < 2 || n > 3 {
			return game.Outcome{}, &GenerationError{Stage: "outcome", Err: fmt.Errorf("curveball event has %d choices", n)}
		}
	}

	return game.Outcome{Summary: ro.Summary, UpdatedMetrics: updated, NewsFeed: ro.NewsFeed}, nil
}

// coerceMetrics builds a full metrics record from a loose payload,
// keeping the current value for any key that is absent or not a finite
// number.
func coerceMetrics(payload map[string]json.RawMessage, current game.Metrics) game.Metrics {
	out := current
	for _, key := range game.MetricKeys {
		rawVal, ok := payload[string(key)]
		if !ok {
			continue
		}
		var v float64
		if err := json.Unmarshal(rawVal, &v); err != nil {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		delta := game.Delta{key: v - out.Get(key)}
		out = out.ApplyDelta(delta)
	}
	return out
}

// parseTranslation validates a history translation batch against the
// canonical history length.
func parseTranslation(raw, locale string, wantLen int) ([]game.TranslatedTurn, error) {
	var turns []game.TranslatedTurn
	if err := json.Unmarshal([]byte(stripFences(raw)), &turns); err != nil {
		return nil, &TranslationError{Locale: locale, Err: err}
	}
	if len(turns) != wantLen {
		return nil, &TranslationError{Locale: locale, Err: fmt.Errorf("expected %d turns, got %d", wantLen, len(turns))}
	}
	for i, turn := range turns {
		if turn.Outcome == "" || len(turn.Scenarios) == 0 {
			return nil, &TranslationError{Locale: locale, Err: fmt.Errorf("turn %d incomplete", i)}
		}
	}
	return turns, nil
}
