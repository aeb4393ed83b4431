package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/arunavsaha123/food-vista/internal/models"
)

// SortKey selects the ordering applied to search results.
type SortKey string

const (
	SortNameAsc       SortKey = "name-asc"
	SortNameDesc      SortKey = "name-desc"
	SortNutritionAsc  SortKey = "nutrition-asc"
	SortNutritionDesc SortKey = "nutrition-desc"
)

// SortProducts returns a stably sorted copy of products. Name ordering uses
// locale-aware collation; nutrition ordering is lexicographic over the
// single-letter grade, so ascending puts the best grade first. An unknown
// key leaves the input order untouched, and ties always preserve the prior
// relative order.
func SortProducts(products []models.Product, key SortKey) []models.Product {
	sorted := make([]models.Product, len(products))
	copy(sorted, products)

	var less func(a, b models.Product) bool
	switch key {
	case SortNameAsc:
		c := collate.New(language.English)
		less = func(a, b models.Product) bool { return c.CompareString(a.Name, b.Name) < 0 }
	case SortNameDesc:
		c := collate.New(language.English)
		less = func(a, b models.Product) bool { return c.CompareString(b.Name, a.Name) < 0 }
	case SortNutritionAsc:
		less = func(a, b models.Product) bool { return a.NutritionGrade < b.NutritionGrade }
	case SortNutritionDesc:
		less = func(a, b models.Product) bool { return b.NutritionGrade < a.NutritionGrade }
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}
