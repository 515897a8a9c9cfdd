package game

// Country is a static catalog entry. Description and ability fields are
// i18n keys, resolved by the presentation layer.
type Country struct {
	ID          string
	Name        string
	Flag        string
	Description string
	AbilityName string
	AbilityDesc string
}

// Countries is the playable roster, in selection-screen order.
var Countries = []Country{
	{ID: "singapore", Name: "Singapore", Flag: "🇸🇬", Description: "countryDescription_singapore", AbilityName: "abilityName_singapore", AbilityDesc: "abilityDesc_singapore"},
	{ID: "indonesia", Name: "Indonesia", Flag: "🇮🇩", Description: "countryDescription_indonesia", AbilityName: "abilityName_indonesia", AbilityDesc: "abilityDesc_indonesia"},
	{ID: "laos", Name: "Laos", Flag: "🇱🇦", Description: "countryDescription_laos", AbilityName: "abilityName_laos", AbilityDesc: "abilityDesc_laos"},
	{ID: "india", Name: "India", Flag: "🇮🇳", Description: "countryDescription_india", AbilityName: "abilityName_india", AbilityDesc: "abilityDesc_india"},
	{ID: "china", Name: "China", Flag: "🇨🇳", Description: "countryDescription_china", AbilityName: "abilityName_china", AbilityDesc: "abilityDesc_china"},
	{ID: "usa", Name: "United States", Flag: "🇺🇸", Description: "countryDescription_usa", AbilityName: "abilityName_usa", AbilityDesc: "abilityDesc_usa"},
	{ID: "philippines", Name: "Philippines", Flag: "🇵🇭", Description: "countryDescription_philippines", AbilityName: "abilityName_philippines", AbilityDesc: "abilityDesc_philippines"},
	{ID: "eu", Name: "European Union", Flag: "🇪🇺", Description: "countryDescription_eu", AbilityName: "abilityName_eu", AbilityDesc: "abilityDesc_eu"},
}

// baseMetrics is each country's 2025 starting position before its
// modifier is applied.
var baseMetrics = map[string]Metrics{
	"singapore":   {GDPContribution: 5, STEMWorkforce: 1.5, AIStartups: 500, GovernmentAdoption: 8, DefenseSpending: 10, RDSpending: 15},
	"indonesia":   {GDPContribution: 1, STEMWorkforce: 5, AIStartups: 200, GovernmentAdoption: 4, DefenseSpending: 3, RDSpending: 5},
	"laos":        {GDPContribution: 0.5, STEMWorkforce: 0.5, AIStartups: 20, GovernmentAdoption: 2, DefenseSpending: 1, RDSpending: 2},
	"india":       {GDPContribution: 2, STEMWorkforce: 10, AIStartups: 400, GovernmentAdoption: 5, DefenseSpending: 4, RDSpending: 6},
	"china":       {GDPContribution: 4, STEMWorkforce: 15, AIStartups: 800, GovernmentAdoption: 9, DefenseSpending: 15, RDSpending: 20},
	"usa":         {GDPContribution: 6, STEMWorkforce: 12, AIStartups: 1200, GovernmentAdoption: 7, DefenseSpending: 18, RDSpending: 25},
	"philippines": {GDPContribution: 1.5, STEMWorkforce: 3, AIStartups: 150, GovernmentAdoption: 3, DefenseSpending: 2, RDSpending: 4},
	"eu":          {GDPContribution: 5.5, STEMWorkforce: 14, AIStartups: 700, GovernmentAdoption: 6, DefenseSpending: 12, RDSpending: 22},
}

// countryModifiers is each country's special-ability bonus, applied on
// top of its base metrics at game start.
var countryModifiers = map[string]Delta{
	"singapore":   {MetricAIStartups: 100},
	"indonesia":   {MetricSTEMWorkforce: 1},
	"laos":        {MetricGovernmentAdoption: 1},
	"india":       {MetricSTEMWorkforce: 2},
	"china":       {MetricGovernmentAdoption: 1, MetricRDSpending: 2},
	"usa":         {MetricAIStartups: 200},
	"philippines": {MetricGDPContribution: 0.5},
	"eu":          {MetricRDSpending: 3},
}

// CountryByID looks a country up in the catalog.
func CountryByID(id string) (Country, bool) {
	for _, c := range Countries {
		if c.ID == id {
			return c, true
		}
	}
	return Country{}, false
}

// StartingMetrics derives a country's game-start metrics: base values
// plus its additive modifier.
func StartingMetrics(c Country) Metrics {
	return baseMetrics[c.ID].ApplyDelta(countryModifiers[c.ID])
}
