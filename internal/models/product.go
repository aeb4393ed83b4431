package models

import "strings"

// Grade is a single-letter nutrition rating, A (best) through E (worst).
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// ParseGrade normalizes a raw grade string onto the A-E scale. Casing is
// ignored and anything outside the scale, including an absent grade,
// collapses to the worst grade.
func ParseGrade(raw string) Grade {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "A":
		return GradeA
	case "B":
		return GradeB
	case "C":
		return GradeC
	case "D":
		return GradeD
	default:
		return GradeE
	}
}

// PlaceholderImage is used when a record carries no front image URL.
const PlaceholderImage = "/placeholder.svg"

// UnknownCategory is used when a record carries no category tags.
const UnknownCategory = "Unknown"

// Product is a fully normalized food product. Instances are only ever built
// by the normalizer, which guarantees ID, Name and Barcode are non-empty.
type Product struct {
	ID                string            `json:"id" validate:"required"`
	Name              string            `json:"name" validate:"required"`
	Image             string            `json:"image"`
	Category          string            `json:"category"`
	NutritionGrade    Grade             `json:"nutritionGrade"`
	Barcode           string            `json:"barcode" validate:"required"`
	Ingredients       []string          `json:"ingredients"`
	DietaryLabels     []string          `json:"dietaryLabels"`
	NutritionalValues NutritionalValues `json:"nutritionalValues"`
}

// NutritionalValues holds per-100g nutrient amounts. Every field defaults to
// 0 when the source record omits the value or it cannot be parsed.
type NutritionalValues struct {
	Calories     float64 `json:"calories"`
	EnergyKj     float64 `json:"energyKj"`
	Fat          float64 `json:"fat"`
	SaturatedFat float64 `json:"saturatedFat"`
	Carbs        float64 `json:"carbs"`
	Sugars       float64 `json:"sugars"`
	Protein      float64 `json:"protein"`
	Fiber        float64 `json:"fiber"`
	Salt         float64 `json:"salt"`
	Sodium       float64 `json:"sodium"`
	VitaminA     float64 `json:"vitaminA"`
	VitaminC     float64 `json:"vitaminC"`
	VitaminD     float64 `json:"vitaminD"`
	VitaminE     float64 `json:"vitaminE"`
	VitaminK     float64 `json:"vitaminK"`
	Calcium      float64 `json:"calcium"`
	Iron         float64 `json:"iron"`
	Magnesium    float64 `json:"magnesium"`
	Phosphorus   float64 `json:"phosphorus"`
	Potassium    float64 `json:"potassium"`
	Zinc         float64 `json:"zinc"`
}
