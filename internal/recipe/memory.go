// Package recipe provides recipe source implementations.
package recipe

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent reads.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.RecipeInput
	log     *logger.Logger
}

// NewMemorySource creates a recipe source preloaded with built-in recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{
		recipes: make(map[string]*domain.RecipeInput),
		log:     log,
	}
	src.seed()
	return src
}

// List returns summaries of all available recipes.
func (s *MemorySource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all recipes, count=%d", len(s.recipes))

	out := make([]domain.RecipeSummary, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, summarize(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns a copy of the recipe with the given ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.RecipeInput, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return r.Clone(), nil
}

// Search returns recipes whose name, description, tags, or ingredients
// contain the query.
func (s *MemorySource) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	s.log.Debug("searching recipes for: %s", q)

	var out []domain.RecipeSummary
	for _, r := range s.recipes {
		if matches(r, q) {
			out = append(out, summarize(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func summarize(r *domain.RecipeInput) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Tags:        append([]string(nil), r.Tags...),
	}
}

func matches(r *domain.RecipeInput, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), query) {
			return true
		}
	}
	return false
}

// seed populates the source with built-in recipes.
func (s *MemorySource) seed() {
	recipes := []*domain.RecipeInput{
		vegetableStirFry(),
		chickenAlfredo(),
		rusticBread(),
	}
	for _, r := range recipes {
		s.recipes[r.ID] = r
	}
	s.log.Debug("seeded %d recipes", len(recipes))
}

// chickenAlfredo is fully structured: every step has a category, a duration,
// and the steps it waits on.
func chickenAlfredo() *domain.RecipeInput {
	m := domain.Minutes
	return &domain.RecipeInput{
		ID:            "chicken-alfredo",
		Name:          "Chicken Alfredo",
		Description:   "Creamy spaghetti alfredo with pan-seared chicken. Rich, indulgent, and not from a jar.",
		Tags:          []string{"italian", "pasta", "chicken", "comfort"},
		Ingredients:   []string{"spaghetti", "chicken breasts", "garlic", "gruyere", "creme fraiche", "margarine", "olive oil", "salt", "black pepper"},
		TotalTimeHint: 40,
		Tools:         []string{"Large pot", "12-inch skillet", "Colander", "Cutting board", "Chef's knife", "Box grater", "Stove"},
		Steps: []domain.StepInput{
			{ID: "boil", Text: "Bring a large pot of salted water to a boil", Category: "cook", Duration: m(8)},
			{ID: "season", Text: "Season the chicken breasts with salt and pepper on both sides", Category: "prep", Duration: m(3)},
			{ID: "mince", Text: "Mince the garlic", Category: "prep", Duration: m(2)},
			{ID: "grate", Text: "Grate the gruyere", Category: "prep", Duration: m(3)},
			{ID: "sear", Text: "Sear the chicken in olive oil until golden, about 6 minutes per side", Category: "cook", Duration: m(12), Dependencies: []string{"season"}},
			{ID: "rest", Text: "Let the chicken rest", Category: "passive", Duration: m(5), Dependencies: []string{"sear"}},
			{ID: "pasta", Text: "Cook the spaghetti until al dente, reserving a cup of pasta water", Category: "cook", Duration: m(10), Dependencies: []string{"boil"}},
			{ID: "garlic", Text: "Melt margarine in the skillet and cook the garlic until fragrant", Category: "cook", Duration: m(1), Dependencies: []string{"sear", "mince"}},
			{ID: "cream", Text: "Stir in the creme fraiche and let it reduce", Category: "cook", Duration: m(3), Dependencies: []string{"garlic"}},
			{ID: "cheese", Text: "Off the heat, stir in the gruyere until smooth", Category: "prep", Duration: m(2), Dependencies: []string{"cream", "grate"}},
			{ID: "slice", Text: "Slice the rested chicken into strips", Category: "prep", Duration: m(2), Dependencies: []string{"rest"}},
			{ID: "serve", Text: "Toss the drained pasta in the sauce, top with the chicken and serve", Category: "prep", Duration: m(2), Dependencies: []string{"pasta", "cheese", "slice"}},
		},
	}
}

// vegetableStirFry is raw text only; the classifier does the work.
func vegetableStirFry() *domain.RecipeInput {
	return &domain.RecipeInput{
		ID:            "vegetable-stir-fry",
		Name:          "Vegetable Stir Fry",
		Description:   "Fast, crunchy, and customizable. The key is a screaming hot pan and not overcrowding it.",
		Tags:          []string{"asian", "vegetables", "quick", "vegan", "healthy"},
		Ingredients:   []string{"jasmine rice", "bell pepper", "broccoli", "carrot", "snap peas", "garlic", "ginger", "soy sauce", "sesame oil", "cornstarch", "vegetable oil"},
		TotalTimeHint: 25,
		Tools:         []string{"Wok", "Cutting board", "Chef's knife", "Small bowl", "Medium saucepan", "Stove"},
		Instructions: []string{
			"Rinse the rice, then let it simmer covered for 18 minutes until tender.",
			"Slice the bell pepper into strips and cut the broccoli into small florets. Julienne the carrot and trim the snap peas.",
			"Mince the garlic and grate the ginger.",
			"Whisk the soy sauce, sesame oil and cornstarch with 2 tablespoons of water in a small bowl.",
			"Heat the wok on high until it just starts to smoke, then add the oil and swirl to coat.",
			"Stir-fry the broccoli and carrots for 2 minutes, then add the bell pepper and snap peas and fry 2 minutes more.",
			"Pour the sauce over everything and toss for 1 minute until glossy.",
			"Serve immediately over the rice.",
		},
	}
}

// rusticBread is dominated by passive time: a long rise, a preheat, and a
// cool down.
func rusticBread() *domain.RecipeInput {
	return &domain.RecipeInput{
		ID:            "rustic-bread",
		Name:          "Rustic No-Knead Bread",
		Description:   "A crackly crusted loaf that mostly makes itself. Patience does the kneading.",
		Tags:          []string{"baking", "bread", "vegan"},
		Ingredients:   []string{"bread flour", "salt", "instant yeast", "warm water"},
		TotalTimeHint: 225,
		Tools:         []string{"Large mixing bowl", "Whisk", "Dutch oven", "Oven", "Wooden spoon", "Bench scraper", "Plastic wrap"},
		Instructions: []string{
			"Whisk the flour, salt and yeast together in a large bowl.",
			"Stir in the warm water with a wooden spoon until a shaggy dough forms.",
			"Cover the bowl and let the dough rise for 2 hours until doubled.",
			"Preheat the oven to 450 degrees with the dutch oven inside.",
			"Shape the dough into a round loaf on a floured counter.",
			"Bake covered for 30 minutes, then uncover and bake 15 minutes more.",
			"Cool the loaf on a rack for 1 hour before slicing.",
		},
	}
}
