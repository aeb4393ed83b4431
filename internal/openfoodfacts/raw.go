package openfoodfacts

import "encoding/json"

// RawProduct mirrors the subset of an Open Food Facts record this service
// consumes. Unknown fields are ignored and everything except _id,
// product_name and code may be absent.
type RawProduct struct {
	ID                      string          `json:"_id"`
	ProductName             string          `json:"product_name"`
	ImageFrontURL           string          `json:"image_front_url"`
	CategoriesTags          []string        `json:"categories_tags"`
	NutritionGrades         string          `json:"nutrition_grades"`
	Code                    string          `json:"code"`
	Ingredients             []RawIngredient `json:"ingredients"`
	LabelsTags              []string        `json:"labels_tags"`
	IngredientsAnalysisTags []string        `json:"ingredients_analysis_tags"`
	Nutriments              map[string]any  `json:"nutriments"`
}

// RawIngredient is one entry of a record's ingredient list.
type RawIngredient struct {
	Text string `json:"text"`
}

// searchResponse is the envelope returned by the search endpoint. Records
// are kept as raw JSON so one undecodable entry cannot fail the whole batch.
type searchResponse struct {
	Products []json.RawMessage `json:"products"`
}

// barcodeResponse is the envelope returned by the barcode endpoint. A
// missing product key means no such product exists.
type barcodeResponse struct {
	Product json.RawMessage `json:"product"`
}
