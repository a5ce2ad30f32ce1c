package gpt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// Compile-time interface check.
var _ domain.StepStructurer = (*Structurer)(nil)

// structureResponse is the JSON the model returns for PromptStructure.
type structureResponse struct {
	Steps []domain.StepInput `json:"steps"`
}

// Structurer asks a model for structured steps with dependencies. The
// scheduler never calls it; the CLI runs it before scheduling when asked.
type Structurer struct {
	client *Client
	log    *logger.Logger
}

// NewStructurer creates a structurer backed by the given client.
func NewStructurer(client *Client, log *logger.Logger) *Structurer {
	return &Structurer{client: client, log: log}
}

// Structure returns a copy of the recipe with Steps filled from the model's
// reply. A recipe that already has steps is returned as a copy unchanged.
func (s *Structurer) Structure(ctx context.Context, recipe *domain.RecipeInput) (*domain.RecipeInput, error) {
	if recipe == nil {
		return nil, fmt.Errorf("gpt: structure: %w: nil recipe", domain.ErrInvalidRecipe)
	}
	out := recipe.Clone()
	if len(out.Steps) > 0 {
		s.log.Debug("gpt: %q already structured, skipping", recipe.Name)
		return out, nil
	}
	if len(out.Instructions) == 0 {
		return nil, fmt.Errorf("gpt: structure: %w: no instructions", domain.ErrInvalidRecipe)
	}

	raw, err := s.client.Chat(ctx, PromptStructure, buildRecipeMessage(out), true)
	if err != nil {
		return nil, err
	}

	steps, err := parseSteps(raw)
	if err != nil {
		s.log.Error("gpt: unusable structure reply: %v\nraw: %s", err, truncate(raw, 400))
		return nil, fmt.Errorf("gpt: structure %q: %w", recipe.Name, err)
	}

	out.Steps = steps
	s.log.Info("gpt: structured %q into %d steps", recipe.Name, len(steps))
	return out, nil
}

// buildRecipeMessage renders the recipe as the user message.
func buildRecipeMessage(r *domain.RecipeInput) string {
	var b strings.Builder
	if r.Name != "" {
		fmt.Fprintf(&b, "Recipe: %s\n", r.Name)
	}
	if len(r.Ingredients) > 0 {
		fmt.Fprintf(&b, "Ingredients: %s\n", strings.Join(r.Ingredients, ", "))
	}
	if len(r.Tools) > 0 {
		fmt.Fprintf(&b, "Tools: %s\n", strings.Join(r.Tools, ", "))
	}
	b.WriteString("Instructions:\n")
	for i, ins := range r.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(ins))
	}
	return b.String()
}

// parseSteps decodes and sanity-checks the model's reply. Self-references
// and repeated dependencies are dropped; anything else odd is left for the
// scheduler, which tolerates unknown IDs and cycles.
func parseSteps(raw string) ([]domain.StepInput, error) {
	var resp structureResponse
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadLLMResponse, err)
	}
	if len(resp.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", domain.ErrBadLLMResponse)
	}

	seen := make(map[string]bool, len(resp.Steps))
	for i := range resp.Steps {
		st := &resp.Steps[i]
		st.Text = strings.TrimSpace(st.Text)
		if st.Text == "" {
			return nil, fmt.Errorf("%w: step %d has no text", domain.ErrBadLLMResponse, i+1)
		}
		if st.ID == "" {
			st.ID = fmt.Sprintf("step-%d", i+1)
		}
		if seen[st.ID] {
			return nil, fmt.Errorf("%w: duplicate step id %q", domain.ErrBadLLMResponse, st.ID)
		}
		seen[st.ID] = true
		if st.Duration != nil && *st.Duration < 0 {
			st.Duration = nil
		}

		var deps []string
		dup := map[string]bool{}
		for _, d := range st.Dependencies {
			if d == st.ID || dup[d] {
				continue
			}
			dup[d] = true
			deps = append(deps, d)
		}
		st.Dependencies = deps
	}
	return resp.Steps, nil
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
