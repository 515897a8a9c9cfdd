package game

import "github.com/google/uuid"

// Session aggregates everything that lives and dies with one playthrough.
// It is created on country selection and thrown away on restart.
type Session struct {
	ID       uuid.UUID
	Country  Country
	Year     int
	Metrics  Metrics
	Baseline Metrics // fixed at game start; the scoring reference for the whole session
	Score    float64
	History  *History

	// Pending turn state.
	Scenarios []Scenario
	Sources   []Source
	Choices   map[int]int // scenario index -> selected choice index
	Curveball *CurveballEvent
}

func newSession(country Country) *Session {
	start := StartingMetrics(country)
	return &Session{
		ID:       uuid.New(),
		Country:  country,
		Year:     StartYear,
		Metrics:  start,
		Baseline: start,
		Score:    Score(start, start),
		History:  NewHistory(),
		Choices:  make(map[int]int),
	}
}

// ChoicesComplete reports whether every pending scenario has a selected
// choice, i.e. the turn is resolvable.
func (s *Session) ChoicesComplete() bool {
	if len(s.Scenarios) != ScenariosPerTurn {
		return false
	}
	for i := range s.Scenarios {
		if _, ok := s.Choices[i]; !ok {
			return false
		}
	}
	return true
}

// choiceTexts resolves the selected choice index of each scenario to its
// display text, in scenario order.
func (s *Session) choiceTexts() ([]string, []int) {
	texts := make([]string, len(s.Scenarios))
	indices := make([]int, len(s.Scenarios))
	for i, sc := range s.Scenarios {
		idx := s.Choices[i]
		indices[i] = idx
		texts[i] = sc.Choices[idx]
	}
	return texts, indices
}
