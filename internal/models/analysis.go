package models

// Analysis is what the AI analyzer says about a clip
type Analysis struct {
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}
