package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"milhas/pkg/errors"
)

// The backend is told to answer with bare JSON, but models routinely wrap
// it in markdown fences. Candidate payloads are tried in fixed priority:
// a ```json labeled fence, then any fence, then the whole trimmed text.
func extractJSONPayload(answer string) []string {
	var candidates []string

	if payload, ok := labeledFence(answer); ok {
		candidates = append(candidates, payload)
	}
	if payload, ok := anyFence(answer); ok {
		candidates = append(candidates, payload)
	}
	candidates = append(candidates, strings.TrimSpace(answer))

	return candidates
}

func labeledFence(s string) (string, bool) {
	start := strings.Index(s, "```json")
	if start == -1 {
		return "", false
	}
	rest := s[start+len("```json"):]
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func anyFence(s string) (string, bool) {
	start := strings.Index(s, "```")
	if start == -1 {
		return "", false
	}
	rest := s[start+len("```"):]
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func decodeFirst(raw string, out interface{}) error {
	var lastErr error
	for _, candidate := range extractJSONPayload(raw) {
		if candidate == "" {
			continue
		}
		if err := json.Unmarshal([]byte(candidate), out); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("empty answer")
	}
	return lastErr
}

// rawResult mirrors Result but keeps the required fields as pointers so a
// missing key is distinguishable from a zero value.
type rawResult struct {
	IsOpportunity    *bool            `json:"is_opportunity"`
	Confidence       *float64         `json:"confidence"`
	OpportunityType  string           `json:"opportunity_type"`
	Program          string           `json:"program"`
	Quantity         float64          `json:"quantity"`
	PricePerMile     float64          `json:"price_per_mile"`
	TotalPrice       float64          `json:"total_price"`
	CPFCount         int              `json:"cpf_count"`
	MarketComparison MarketComparison `json:"market_comparison"`
	RiskLevel        string           `json:"risk_assessment"`
	Recommendation   string           `json:"recommendation"`
	Summary          string           `json:"summary"`
	Reasoning        string           `json:"reasoning"`
}

// Normalize turns a raw backend answer into a validated Result. It is pure
// and idempotent; any failure is a parse failure carrying the raw text.
func Normalize(raw string) (*Result, error) {
	var decoded rawResult
	if err := decodeFirst(raw, &decoded); err != nil {
		return nil, errors.ErrParse.
			WithCause(err).
			WithDetail("raw_answer", raw)
	}

	if decoded.IsOpportunity == nil {
		return nil, errors.ErrParse.
			WithCause(fmt.Errorf("missing required field is_opportunity")).
			WithDetail("raw_answer", raw)
	}
	if decoded.Confidence == nil {
		return nil, errors.ErrParse.
			WithCause(fmt.Errorf("missing required field confidence")).
			WithDetail("raw_answer", raw)
	}
	if *decoded.Confidence < 0 || *decoded.Confidence > 1 {
		return nil, errors.ErrParse.
			WithCause(fmt.Errorf("confidence out of range: %v", *decoded.Confidence)).
			WithDetail("raw_answer", raw)
	}

	return &Result{
		IsOpportunity:    *decoded.IsOpportunity,
		Confidence:       *decoded.Confidence,
		OpportunityType:  decoded.OpportunityType,
		Program:          decoded.Program,
		Quantity:         decoded.Quantity,
		PricePerMile:     decoded.PricePerMile,
		TotalPrice:       decoded.TotalPrice,
		CPFCount:         decoded.CPFCount,
		MarketComparison: decoded.MarketComparison,
		RiskLevel:        decoded.RiskLevel,
		Recommendation:   decoded.Recommendation,
		Summary:          decoded.Summary,
		Reasoning:        decoded.Reasoning,
	}, nil
}

// NormalizeTrend parses a trend analysis answer.
func NormalizeTrend(raw string) (*TrendReport, error) {
	var report TrendReport
	if err := decodeFirst(raw, &report); err != nil {
		return nil, errors.ErrParse.
			WithCause(err).
			WithDetail("raw_answer", raw)
	}
	if report.MarketTrend == "" {
		return nil, errors.ErrParse.
			WithCause(fmt.Errorf("missing required field market_trend")).
			WithDetail("raw_answer", raw)
	}
	return &report, nil
}

// NormalizeRecommendations parses a personalized recommendation answer.
func NormalizeRecommendations(raw string) (*RecommendationSet, error) {
	var set RecommendationSet
	if err := decodeFirst(raw, &set); err != nil {
		return nil, errors.ErrParse.
			WithCause(err).
			WithDetail("raw_answer", raw)
	}
	return &set, nil
}
