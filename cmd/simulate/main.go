// Command simulate plays one full unattended game: the regular engine
// generates the content and a second LLM acts as the player, so the
// whole turn cycle can be exercised end to end from a shell.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"ai-superpower/internal/config"
	"ai-superpower/internal/engine"
	"ai-superpower/internal/game"
)

func main() {
	countryID := flag.String("country", "laos", "country to play")
	locale := flag.String("locale", "en", "game locale")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	game.SaveDir = cfg.SaveDir

	eng, err := engine.NewEngine(ctx, cfg.GeminiAPIKey, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create player client: %v", err)
	}
	defer playerClient.Close()
	player := playerClient.GenerativeModel("gemini-2.5-flash")

	orch := game.New(zap.NewNop(), *locale)
	if err := orch.Enter(); err != nil {
		log.Fatalf("Enter: %v", err)
	}
	req, err := orch.SelectCountry(*countryID)
	if err != nil {
		log.Fatalf("SelectCountry: %v", err)
	}
	fmt.Printf("--- Playing as %s ---\n\n", orch.Session().Country.Name)

	for orch.Phase() == game.PhaseInProgress {
		scenarios, sources, err := eng.GenerateScenarios(ctx, *req)
		orch.ApplyScenarios(req.Gen, scenarios, sources, err)
		if err != nil {
			log.Fatalf("Scenario generation failed: %v", err)
		}

		s := orch.Session()
		fmt.Printf("=== Year %d ===\n", s.Year)
		for i, sc := range s.Scenarios {
			choice := pickChoice(ctx, player, sc)
			if err := orch.SelectChoice(i, choice); err != nil {
				log.Fatalf("SelectChoice: %v", err)
			}
			fmt.Printf("%s -> %s\n", sc.Title, sc.Choices[choice])
		}

		outReq, err := orch.ConfirmTurn()
		if err != nil {
			log.Fatalf("ConfirmTurn: %v", err)
		}
		outcome, err := eng.GenerateOutcome(ctx, *outReq)
		req = orch.ApplyOutcome(outReq.Gen, outcome, err)
		if err != nil {
			log.Fatalf("Outcome generation failed: %v", err)
		}
		fmt.Printf("\nOutcome: %s\n", outcome.Summary)
		fmt.Printf("Score: %.1f\n\n", orch.Session().Score)

		if orch.Sub() == game.SubAwaitingCurveball {
			cb := orch.Session().Curveball
			fmt.Printf("CURVEBALL: %s\n%s\n", cb.Title, cb.Description)
			req, err = orch.ResolveCurveball(0)
			if err != nil {
				log.Fatalf("ResolveCurveball: %v", err)
			}
			fmt.Printf("Response: %s\nScore: %.1f\n\n", cb.Choices[0].Text, orch.Session().Score)
		}
	}

	fmt.Printf("--- Game over. Final score: %.1f ---\n", orch.Session().Score)
	if err := orch.Session().Save(); err != nil {
		log.Printf("Warning: failed to save session: %v", err)
	}
}

// pickChoice asks the player LLM to choose, falling back to the first
// choice on any failure.
func pickChoice(ctx context.Context, player *genai.GenerativeModel, sc game.Scenario) int {
	prompt := fmt.Sprintf(`You are playing a national AI policy simulation game.
Dilemma: %s
%s

Choices:
`, sc.Title, sc.Description)
	for i, c := range sc.Choices {
		prompt += fmt.Sprintf("%d. %s\n", i, c)
	}
	prompt += "\nReply with ONLY the number of the choice you take."

	resp, err := player.GenerateContent(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return 0
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(text)))
	if err != nil || n < 0 || n >= len(sc.Choices) {
		return 0
	}
	return n
}
