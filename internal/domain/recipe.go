package domain

// Recipe is the read-only recipe shape supplied by the surrounding
// application. The timer engine never mutates recipe data, and deleting
// a recipe does not cascade to timers that reference it.
type Recipe struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}
