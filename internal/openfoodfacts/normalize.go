package openfoodfacts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/arunavsaha123/food-vista/internal/models"
)

var (
	// ErrMalformedRecord means a raw record is missing one of the required
	// fields (_id, product_name, code) and yields no product.
	ErrMalformedRecord = errors.New("malformed product record")
)

const (
	// langPrefix is the language token Open Food Facts prepends to tags.
	langPrefix = "en:"

	// maxDietaryLabels caps how many labels a product carries.
	maxDietaryLabels = 4
)

// Normalize converts a raw Open Food Facts record into a Product. Records
// missing any required field are rejected; every optional field falls back
// to an explicit default so a Product is never partially populated.
func Normalize(raw *RawProduct) (*models.Product, error) {
	if raw.ID == "" || raw.ProductName == "" || raw.Code == "" {
		return nil, fmt.Errorf("%w: id=%q name=%q code=%q", ErrMalformedRecord, raw.ID, raw.ProductName, raw.Code)
	}

	product := &models.Product{
		ID:                raw.ID,
		Name:              raw.ProductName,
		Image:             models.PlaceholderImage,
		Category:          models.UnknownCategory,
		NutritionGrade:    models.ParseGrade(raw.NutritionGrades),
		Barcode:           raw.Code,
		Ingredients:       ingredientTexts(raw.Ingredients),
		DietaryLabels:     dietaryLabels(raw.LabelsTags, raw.IngredientsAnalysisTags),
		NutritionalValues: nutritionalValues(raw.Nutriments),
	}

	if raw.ImageFrontURL != "" {
		product.Image = raw.ImageFrontURL
	}
	if len(raw.CategoriesTags) > 0 {
		if category := stripLangPrefix(raw.CategoriesTags[0]); category != "" {
			product.Category = strings.ReplaceAll(category, "-", " ")
		}
	}

	return product, nil
}

func stripLangPrefix(tag string) string {
	return strings.TrimPrefix(tag, langPrefix)
}

func ingredientTexts(ingredients []RawIngredient) []string {
	texts := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		if ingredient.Text != "" {
			texts = append(texts, ingredient.Text)
		}
	}
	return texts
}

// dietaryLabels merges label tags and ingredient-analysis tags, dropping
// empty entries, deduplicating by first occurrence and truncating to
// maxDietaryLabels.
func dietaryLabels(labelTags, analysisTags []string) []string {
	labels := make([]string, 0, maxDietaryLabels)
	seen := make(map[string]struct{}, len(labelTags)+len(analysisTags))

	for _, tags := range [][]string{labelTags, analysisTags} {
		for _, tag := range tags {
			label := stripLangPrefix(tag)
			if label == "" {
				continue
			}
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			labels = append(labels, label)
			if len(labels) == maxDietaryLabels {
				return labels
			}
		}
	}

	return labels
}

func nutritionalValues(nutriments map[string]any) models.NutritionalValues {
	return models.NutritionalValues{
		Calories:     numericValue(nutriments, "energy-kcal_100g"),
		EnergyKj:     numericValue(nutriments, "energy-kj_100g"),
		Fat:          numericValue(nutriments, "fat_100g"),
		SaturatedFat: numericValue(nutriments, "saturated-fat_100g"),
		Carbs:        numericValue(nutriments, "carbohydrates_100g"),
		Sugars:       numericValue(nutriments, "sugars_100g"),
		Protein:      numericValue(nutriments, "proteins_100g"),
		Fiber:        numericValue(nutriments, "fiber_100g"),
		Salt:         numericValue(nutriments, "salt_100g"),
		Sodium:       numericValue(nutriments, "sodium_100g"),
		VitaminA:     numericValue(nutriments, "vitamin-a_100g"),
		VitaminC:     numericValue(nutriments, "vitamin-c_100g"),
		VitaminD:     numericValue(nutriments, "vitamin-d_100g"),
		VitaminE:     numericValue(nutriments, "vitamin-e_100g"),
		VitaminK:     numericValue(nutriments, "vitamin-k_100g"),
		Calcium:      numericValue(nutriments, "calcium_100g"),
		Iron:         numericValue(nutriments, "iron_100g"),
		Magnesium:    numericValue(nutriments, "magnesium_100g"),
		Phosphorus:   numericValue(nutriments, "phosphorus_100g"),
		Potassium:    numericValue(nutriments, "potassium_100g"),
		Zinc:         numericValue(nutriments, "zinc_100g"),
	}
}

// numericValue coerces a nutriment entry to a float64. Amounts arrive as
// JSON numbers or string-encoded numbers; absent keys and unparsable
// strings become 0 without an error so one bad value cannot reject a record.
func numericValue(nutriments map[string]any, key string) float64 {
	switch v := nutriments[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
