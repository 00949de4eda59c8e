package classifier

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"milhas/internal/extractor"
	"milhas/internal/market"
	"milhas/pkg/models"
)

func sampleMessage() models.RawMessage {
	return models.RawMessage{
		MessageID: "msg-42",
		Channel:   "milhas-brokers",
		Author:    "corretor1",
		Text:      "compro smiles 50k 2 cpf r$14",
		Date:      time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func sampleFields() extractor.Fields {
	return extractor.Fields{
		extractor.FieldOperation:    "buy",
		extractor.FieldProgram:      "smiles",
		extractor.FieldQuantity:     "50k",
		extractor.FieldAccountCount: "2",
		extractor.FieldTotalPrice:   "r$14",
	}
}

func TestBuildOpportunityPromptDeterministic(t *testing.T) {
	snap := market.DefaultSnapshot()

	first := BuildOpportunityPrompt(sampleMessage(), sampleFields(), snap)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildOpportunityPrompt(sampleMessage(), sampleFields(), snap))
	}
}

func TestBuildOpportunityPromptContent(t *testing.T) {
	prompt := BuildOpportunityPrompt(sampleMessage(), sampleFields(), market.DefaultSnapshot())

	// Message text travels verbatim.
	assert.Contains(t, prompt, "compro smiles 50k 2 cpf r$14")

	// Extracted fields keep their captured form.
	assert.Contains(t, prompt, `"quantity": "50k"`)
	assert.Contains(t, prompt, `"total_price": "r$14"`)

	// Market reference and acceptance criteria are embedded.
	assert.Contains(t, prompt, `"avg_price": 16.5`)
	assert.Contains(t, prompt, "10% below the market average")
	assert.Contains(t, prompt, "20,000 miles")

	// The closed output schema is spelled out.
	assert.Contains(t, prompt, `"is_opportunity"`)
	assert.Contains(t, prompt, `"risk_assessment"`)
}

func TestBuildTrendPromptCapsHistory(t *testing.T) {
	history := make([]market.PricePoint, 150)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range history {
		history[i] = market.PricePoint{
			Program: "smiles",
			Price:   float64(i),
			Date:    base.Add(time.Duration(i) * time.Hour),
		}
	}

	prompt := BuildTrendPrompt(history, market.DefaultSnapshot())

	// Only the most recent 100 points survive.
	assert.Equal(t, maxTrendPoints, strings.Count(prompt, "- 2026-01-"))
	assert.NotContains(t, prompt, "smiles 49.00")
	assert.Contains(t, prompt, "smiles 149.00")
	assert.Contains(t, prompt, `"market_trend"`)
}

func TestBuildRecommendationPrompt(t *testing.T) {
	profile := []byte(`{"user_id":"u1","risk_tolerance":"moderate"}`)

	prompt := BuildRecommendationPrompt(profile, market.DefaultSnapshot())

	assert.Contains(t, prompt, `"risk_tolerance":"moderate"`)
	assert.Contains(t, prompt, `"personalized_recommendations"`)
	assert.Equal(t, prompt, BuildRecommendationPrompt(profile, market.DefaultSnapshot()))
}
