// Package recipe provides recipe source implementations.
package recipe

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

// MemorySource holds recipes in memory. Safe for concurrent reads.
// Recipe editing is out of scope here, so the set is fixed at startup.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *zap.SugaredLogger
}

// NewMemorySource creates a recipe source preloaded with built-in recipes.
func NewMemorySource(log *zap.SugaredLogger) *MemorySource {
	src := &MemorySource{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
	src.seed()
	return src
}

// List returns all available recipes sorted by name.
func (s *MemorySource) List(ctx context.Context) []domain.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debugf("listing all recipes, count=%d", len(s.recipes))

	out := make([]domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns a recipe by ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debugf("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// Find returns the first recipe whose name contains the query,
// case-insensitive.
func (s *MemorySource) Find(ctx context.Context, query string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, domain.ErrNotFound
	}
	for _, r := range s.recipes {
		if strings.Contains(strings.ToLower(r.Name), q) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemorySource) seed() {
	for _, r := range []*domain.Recipe{chickenAlfredo(), vegetableStirFry(), overnightOats()} {
		s.recipes[r.ID] = r
	}
	s.log.Debugf("seeded %d built-in recipes", len(s.recipes))
}

func chickenAlfredo() *domain.Recipe {
	return &domain.Recipe{
		ID:   "chicken-alfredo",
		Name: "Chicken Alfredo",
		Ingredients: []string{
			"400g fettuccine",
			"2 chicken breasts",
			"300ml heavy cream",
			"80g parmesan, grated",
			"3 cloves garlic, minced",
			"2 tbsp butter",
			"salt and black pepper",
		},
		Instructions: "1. Season the chicken with salt and pepper on both sides. " +
			"2. Sear the chicken in butter for 12 minutes, turning once, until golden and cooked through. " +
			"3. Cook the fettuccine in salted boiling water for 10 minutes. " +
			"4. Soften the garlic in the same pan for 1 minute, then pour in the cream and simmer for 5 minutes. " +
			"5. Stir in the parmesan, slice the chicken, and toss everything with the drained pasta.",
	}
}

func vegetableStirFry() *domain.Recipe {
	return &domain.Recipe{
		ID:   "vegetable-stir-fry",
		Name: "Vegetable Stir Fry",
		Ingredients: []string{
			"2 carrots, sliced thin",
			"1 head of broccoli, in florets",
			"1 red bell pepper, sliced",
			"2 tbsp soy sauce",
			"1 tbsp sesame oil",
			"1 tsp grated ginger",
			"cooked rice, to serve",
		},
		Instructions: "1. Heat the sesame oil in a wok until shimmering. " +
			"2. Stir fry the carrots and broccoli for 4 minutes. " +
			"3. Add the bell pepper and ginger and cook for 2 minutes more. " +
			"4. Splash in the soy sauce, toss, and serve over rice.",
	}
}

func overnightOats() *domain.Recipe {
	return &domain.Recipe{
		ID:   "overnight-oats",
		Name: "Overnight Oats",
		Ingredients: []string{
			"80g rolled oats",
			"200ml milk",
			"1 tbsp chia seeds",
			"1 tbsp honey",
			"a handful of berries",
		},
		Instructions: "Stir the oats, milk, chia seeds, and honey together in a jar. " +
			"Chill for 8 hours. Top with berries before eating.",
	}
}
