package engine

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"ai-superpower/internal/game"
)

//go:embed prompts/generate_scenarios.txt
var generateScenariosPrompt string

//go:embed prompts/generate_outcome.txt
var generateOutcomePrompt string

//go:embed prompts/translate_history.txt
var translateHistoryPrompt string

// Generator produces the game's scenario, outcome and translation
// content. All calls are fallible and none are idempotent: identical
// inputs may return different text, so callers only rely on structure.
type Generator interface {
	GenerateScenarios(ctx context.Context, req game.ScenarioRequest) ([]game.Scenario, []game.Source, error)
	GenerateOutcome(ctx context.Context, req game.OutcomeRequest) (game.Outcome, error)
	TranslateHistory(ctx context.Context, req game.TranslationRequest) ([]game.TranslatedTurn, error)
}

// languageNames resolves a locale code to the language name the prompts
// ask for. Unknown codes fall back to English.
var languageNames = map[string]string{
	"en": "English",
	"zh": "Mandarin Chinese",
	"hi": "Hindi",
	"id": "Bahasa Indonesia",
	"lo": "Laotian",
	"tl": "Tagalog",
}

func languageName(locale string) string {
	if name, ok := languageNames[locale]; ok {
		return name
	}
	return "English"
}

// Engine is the Gemini-backed Generator. Scenario generation uses the
// larger model; outcomes and translations use the fast one.
type Engine struct {
	client         *genai.Client
	scenarioModel  *genai.GenerativeModel
	outcomeModel   *genai.GenerativeModel
	translateModel *genai.GenerativeModel
	log            *zap.Logger
}

func NewEngine(ctx context.Context, apiKey string, log *zap.Logger) (*Engine, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	scenarioModel := client.GenerativeModel("gemini-2.5-pro")
	scenarioModel.SetTemperature(0.5)
	scenarioModel.ResponseMIMEType = "application/json"

	outcomeModel := client.GenerativeModel("gemini-2.5-flash")
	outcomeModel.SetTemperature(0.7)
	outcomeModel.ResponseMIMEType = "application/json"

	translateModel := client.GenerativeModel("gemini-2.5-flash")
	translateModel.SetTemperature(0.2)
	translateModel.ResponseMIMEType = "application/json"

	return &Engine{
		client:         client,
		scenarioModel:  scenarioModel,
		outcomeModel:   outcomeModel,
		translateModel: translateModel,
		log:            log,
	}, nil
}

func (e *Engine) Close() {
	e.client.Close()
}

// generate runs one prompt against a model and returns the raw text of
// the first candidate part.
func (e *Engine) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return string(text), nil
}

func renderPrompt(name, tmplText string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(tmplText)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// historyContext serializes canonical history for prompt context:
// year, the decisions taken, and the narrated outcome of each turn,
// oldest first so the model reads it chronologically.
func historyContext(history []game.HistoryItem) string {
	if len(history) == 0 {
		return "None. This is the first turn."
	}
	type turnContext struct {
		Year      int      `json:"year"`
		Decisions []string `json:"decisions"`
		Outcome   string   `json:"outcome"`
	}
	turns := make([]turnContext, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		item := history[i]
		decisions := make([]string, 0, len(item.Scenarios))
		for j, s := range item.Scenarios {
			if j < len(item.ChoiceIndices) && item.ChoiceIndices[j] < len(s.Choices) {
				decisions = append(decisions, fmt.Sprintf("%s: %s", s.Title, s.Choices[item.ChoiceIndices[j]]))
			}
		}
		turns = append(turns, turnContext{Year: item.Year, Decisions: decisions, Outcome: item.Outcome})
	}
	data, err := json.Marshal(turns)
	if err != nil {
		return "None. This is the first turn."
	}
	return string(data)
}

func metricsJSON(m game.Metrics) string {
	data, _ := json.Marshal(m)
	return string(data)
}

// GenerateScenarios asks for exactly four dilemmas for the given year.
// The sources slice is part of the contract but stays empty while
// search grounding is disabled.
func (e *Engine) GenerateScenarios(ctx context.Context, req game.ScenarioRequest) ([]game.Scenario, []game.Source, error) {
	prompt, err := renderPrompt("generate_scenarios", generateScenariosPrompt, struct {
		Country  string
		Year     int
		Metrics  string
		History  string
		Language string
	}{
		Country:  req.Country.Name,
		Year:     req.Year,
		Metrics:  metricsJSON(req.Metrics),
		History:  historyContext(req.History),
		Language: languageName(req.Locale),
	})
	if err != nil {
		return nil, nil, &GenerationError{Stage: "scenarios", Err: err}
	}

	raw, err := e.generate(ctx, e.scenarioModel, prompt)
	if err != nil {
		return nil, nil, &GenerationError{Stage: "scenarios", Err: err}
	}
	e.log.Debug("scenarios generated", zap.Int("year", req.Year), zap.String("locale", req.Locale))

	scenarios, err := parseScenarios(raw)
	if err != nil {
		return nil, nil, err
	}
	return scenarios, []game.Source{}, nil
}

// GenerateOutcome resolves a confirmed turn into a narrative summary,
// full updated metrics, and a news feed that may carry one curveball.
func (e *Engine) GenerateOutcome(ctx context.Context, req game.OutcomeRequest) (game.Outcome, error) {
	decisions := ""
	for i, s := range req.Scenarios {
		decisions += fmt.Sprintf("- For %q, the decision was: %q\n", s.Title, req.ChoiceTexts[i])
	}

	prompt, err := renderPrompt("generate_outcome", generateOutcomePrompt, struct {
		Country   string
		Year      int
		NextYear  int
		Metrics   string
		Decisions string
		Language  string
	}{
		Country:   req.Country.Name,
		Year:      req.Year,
		NextYear:  req.Year + game.YearStep,
		Metrics:   metricsJSON(req.Metrics),
		Decisions: decisions,
		Language:  languageName(req.Locale),
	})
	if err != nil {
		return game.Outcome{}, &GenerationError{Stage: "outcome", Err: err}
	}

	raw, err := e.generate(ctx, e.outcomeModel, prompt)
	if err != nil {
		return game.Outcome{}, &GenerationError{Stage: "outcome", Err: err}
	}
	e.log.Debug("outcome generated", zap.Int("year", req.Year), zap.String("locale", req.Locale))

	return parseOutcome(raw, req.Metrics)
}

// TranslateHistory translates the whole canonical history into the
// target locale as one batch, preserving length and order.
func (e *Engine) TranslateHistory(ctx context.Context, req game.TranslationRequest) ([]game.TranslatedTurn, error) {
	type turnPayload struct {
		Scenarios     []game.Scenario `json:"scenarios"`
		Outcome       string          `json:"outcome"`
		ChoiceIndices []int           `json:"selected_choice_indices"`
	}
	payload := make([]turnPayload, len(req.History))
	for i, item := range req.History {
		payload[i] = turnPayload{Scenarios: item.Scenarios, Outcome: item.Outcome, ChoiceIndices: item.ChoiceIndices}
	}
	payloadJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, &TranslationError{Locale: req.Locale, Err: err}
	}

	prompt, err := renderPrompt("translate_history", translateHistoryPrompt, struct {
		Language string
		History  string
	}{
		Language: languageName(req.Locale),
		History:  string(payloadJSON),
	})
	if err != nil {
		return nil, &TranslationError{Locale: req.Locale, Err: err}
	}

	raw, err := e.generate(ctx, e.translateModel, prompt)
	if err != nil {
		return nil, &TranslationError{Locale: req.Locale, Err: err}
	}
	e.log.Debug("history translated", zap.String("locale", req.Locale), zap.Int("turns", len(req.History)))

	return parseTranslation(raw, req.Locale, len(req.History))
}
