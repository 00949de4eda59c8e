package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"milhas/internal/extractor"
	"milhas/internal/market"
	"milhas/pkg/models"
)

// Tuning per analysis kind, matching what the backend was calibrated with.
const (
	OpportunityTemperature = 0.3
	OpportunityMaxTokens   = 1000

	TrendTemperature = 0.2
	TrendMaxTokens   = 800

	RecommendationTemperature = 0.4
	RecommendationMaxTokens   = 1000
)

// SystemPrompt is the fixed instruction sent with every analysis request.
const SystemPrompt = `You are an airline mileage market specialist with 15 years of experience ` +
	`in the Brazilian market (Smiles, LATAM Pass, TudoAzul, Livelo, Iberia, Avios). ` +
	`You evaluate buy and sell offers for miles traded between brokers. ` +
	`ALWAYS answer with valid JSON and nothing else.`

const opportunitySchema = `{
  "is_opportunity": boolean,
  "confidence": number between 0 and 1,
  "opportunity_type": "buy" | "sell",
  "program": string,
  "quantity": number,
  "price_per_mile": number,
  "total_price": number,
  "cpf_count": number,
  "market_comparison": {
    "avg_market_price": number,
    "price_difference": number,
    "is_below_market": boolean
  },
  "risk_assessment": "low" | "medium" | "high",
  "recommendation": "buy" | "sell" | "wait",
  "summary": string,
  "reasoning": string
}`

// BuildOpportunityPrompt renders the classification prompt for one message.
// It is a pure function of its inputs: the same message, fields and
// snapshot always produce byte-identical output.
func BuildOpportunityPrompt(msg models.RawMessage, fields extractor.Fields, snap market.Snapshot) string {
	var b strings.Builder

	b.WriteString("Analyze this message from a mileage broker channel and decide whether it is a trade opportunity.\n\n")

	fmt.Fprintf(&b, "MESSAGE:\n%s\n\n", msg.Text)

	b.WriteString("EXTRACTED FIELDS:\n")
	b.WriteString(marshalSorted(fields))
	b.WriteString("\n\n")

	b.WriteString("CURRENT MARKET REFERENCE (price per thousand miles, BRL):\n")
	b.WriteString(marshalSorted(snap))
	b.WriteString("\n\n")

	b.WriteString("OPPORTUNITY CRITERIA:\n")
	b.WriteString("- price at least 10% below the market average\n")
	b.WriteString("- quantity above 20,000 miles\n")
	b.WriteString("- recognized loyalty program\n")
	b.WriteString("- clear CPF and price information\n\n")

	b.WriteString("Answer with exactly this JSON structure:\n")
	b.WriteString(opportunitySchema)
	b.WriteString("\n")

	return b.String()
}

// BuildTrendPrompt renders the market-trend prompt over recent price
// history. History is capped at the most recent maxTrendPoints entries.
const maxTrendPoints = 100

func BuildTrendPrompt(history []market.PricePoint, snap market.Snapshot) string {
	if len(history) > maxTrendPoints {
		history = history[len(history)-maxTrendPoints:]
	}

	var b strings.Builder

	b.WriteString("Analyze recent trade history from the Brazilian airline mileage market and describe the trend.\n\n")

	b.WriteString("CURRENT MARKET REFERENCE:\n")
	b.WriteString(marshalSorted(snap))
	b.WriteString("\n\n")

	b.WriteString("RECENT PRICE HISTORY (oldest first):\n")
	for _, pt := range history {
		fmt.Fprintf(&b, "- %s %s %.2f\n", pt.Date.UTC().Format("2006-01-02"), pt.Program, pt.Price)
	}
	b.WriteString("\n")

	b.WriteString("Answer with exactly this JSON structure:\n")
	b.WriteString(`{
  "market_trend": "rising" | "falling" | "stable",
  "price_predictions": {"<program>": {"trend": string, "confidence": number}},
  "recommended_actions": [string],
  "market_insights": [string],
  "risk_factors": [string],
  "opportunity_windows": [string]
}`)
	b.WriteString("\n")

	return b.String()
}

// BuildRecommendationPrompt renders the personalized recommendation prompt
// for a stored user profile.
func BuildRecommendationPrompt(profileJSON []byte, snap market.Snapshot) string {
	var b strings.Builder

	b.WriteString("Build personalized mileage trading recommendations for this user.\n\n")

	b.WriteString("USER PROFILE:\n")
	b.Write(profileJSON)
	b.WriteString("\n\n")

	b.WriteString("CURRENT MARKET REFERENCE:\n")
	b.WriteString(marshalSorted(snap))
	b.WriteString("\n\n")

	b.WriteString("Answer with exactly this JSON structure:\n")
	b.WriteString(`{
  "personalized_recommendations": [{"action": string, "program": string, "quantity": string, "reason": string, "confidence": number}],
  "risk_profile": string,
  "investment_strategy": string,
  "alert_settings": {"price_alerts": boolean, "opportunity_alerts": boolean, "market_change_alerts": boolean}
}`)
	b.WriteString("\n")

	return b.String()
}

// marshalSorted renders a value as indented JSON. encoding/json sorts map
// keys, which keeps prompt output deterministic for the same inputs.
func marshalSorted(v interface{}) string {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}
