package analyzer

import (
	"context"

	"github.com/killallgit/jamboard-api/internal/models"
	"github.com/killallgit/jamboard-api/internal/services/audio"
)

// Analyzer describes a clip's audio. It never fails: problems are folded
// into a fallback result.
type Analyzer interface {
	Analyze(ctx context.Context, blob audio.Payload) models.Analysis
}

// Fallback results
const (
	missingKeyDescription = "API Key missing. Cannot analyze."
	failedDescription     = "Failed to analyze audio."
	defaultDescription    = "Analysis complete."
)

// MissingKeyResult is returned without any network call when no API key is set
func MissingKeyResult() models.Analysis {
	return models.Analysis{Tags: []string{"no-api-key"}, Description: missingKeyDescription}
}

// FailedResult is returned when the request or its response cannot be used
func FailedResult() models.Analysis {
	return models.Analysis{Tags: []string{}, Description: failedDescription}
}
