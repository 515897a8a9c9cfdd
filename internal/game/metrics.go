package game

// Metrics holds the six national AI-readiness dimensions tracked per game.
type Metrics struct {
	GDPContribution    float64 `json:"gdpContribution" yaml:"gdp_contribution"`       // % of GDP
	STEMWorkforce      float64 `json:"stemWorkforce" yaml:"stem_workforce"`           // millions of people
	AIStartups         float64 `json:"aiStartups" yaml:"ai_startups"`                 // absolute count
	GovernmentAdoption float64 `json:"governmentAdoption" yaml:"government_adoption"` // score 1-10
	DefenseSpending    float64 `json:"defenseSpending" yaml:"defense_spending"`       // % of budget
	RDSpending         float64 `json:"rdSpending" yaml:"rd_spending"`                 // % of budget
}

// MetricKey names one dimension; the string values double as the JSON
// keys used on the generator wire.
type MetricKey string

const (
	MetricGDPContribution    MetricKey = "gdpContribution"
	MetricSTEMWorkforce      MetricKey = "stemWorkforce"
	MetricAIStartups         MetricKey = "aiStartups"
	MetricGovernmentAdoption MetricKey = "governmentAdoption"
	MetricDefenseSpending    MetricKey = "defenseSpending"
	MetricRDSpending         MetricKey = "rdSpending"
)

// MetricKeys lists all dimensions in display order.
var MetricKeys = []MetricKey{
	MetricGDPContribution,
	MetricSTEMWorkforce,
	MetricAIStartups,
	MetricGovernmentAdoption,
	MetricDefenseSpending,
	MetricRDSpending,
}

// Delta is a partial, additive change: only the keys present apply.
type Delta map[MetricKey]float64

// MaxMetrics caps each dimension at a realistic ceiling. The score
// formula measures progress toward these, not absolute values.
var MaxMetrics = Metrics{
	GDPContribution:    40,
	STEMWorkforce:      20,
	AIStartups:         5000,
	GovernmentAdoption: 10,
	DefenseSpending:    30,
	RDSpending:         30,
}

// MetricWeights is each dimension's share of the superpower score.
// The weights are tuned to sum to 1.0 but that is not enforced.
var MetricWeights = map[MetricKey]float64{
	MetricGDPContribution:    0.25,
	MetricSTEMWorkforce:      0.20,
	MetricAIStartups:         0.20,
	MetricGovernmentAdoption: 0.15,
	MetricDefenseSpending:    0.10,
	MetricRDSpending:         0.10,
}

// Get returns the value of a single dimension.
func (m Metrics) Get(key MetricKey) float64 {
	switch key {
	case MetricGDPContribution:
		return m.GDPContribution
	case MetricSTEMWorkforce:
		return m.STEMWorkforce
	case MetricAIStartups:
		return m.AIStartups
	case MetricGovernmentAdoption:
		return m.GovernmentAdoption
	case MetricDefenseSpending:
		return m.DefenseSpending
	case MetricRDSpending:
		return m.RDSpending
	}
	return 0
}

func (m *Metrics) set(key MetricKey, v float64) {
	switch key {
	case MetricGDPContribution:
		m.GDPContribution = v
	case MetricSTEMWorkforce:
		m.STEMWorkforce = v
	case MetricAIStartups:
		m.AIStartups = v
	case MetricGovernmentAdoption:
		m.GovernmentAdoption = v
	case MetricDefenseSpending:
		m.DefenseSpending = v
	case MetricRDSpending:
		m.RDSpending = v
	}
}

// ApplyDelta returns a copy of m with the delta added field by field.
// Results are clamped at zero; there is no upper clamp here, the
// generator is trusted to stay under the caps.
func (m Metrics) ApplyDelta(d Delta) Metrics {
	out := m
	for key, change := range d {
		v := out.Get(key) + change
		if v < 0 {
			v = 0
		}
		out.set(key, v)
	}
	return out
}

// Score rates current metrics against the session-start baseline on a
// 0-100 scale. Each dimension contributes its weight scaled by how much
// of the gap between the baseline and the cap has been closed. A
// dimension whose baseline already sits at or above its cap contributes
// its full weight as long as it has not regressed.
func Score(current, baseline Metrics) float64 {
	total := 0.0
	for key, weight := range MetricWeights {
		base := baseline.Get(key)
		cur := current.Get(key)
		potential := MaxMetrics.Get(key) - base

		if potential <= 0 {
			if cur >= base {
				total += weight
			}
			continue
		}

		progress := (cur - base) / potential
		if progress < 0 {
			progress = 0
		} else if progress > 1 {
			progress = 1
		}
		total += progress * weight
	}
	return total * 100
}
