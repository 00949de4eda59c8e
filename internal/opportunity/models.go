package opportunity

import (
	"fmt"
	"time"

	"milhas/internal/classifier"
)

// Record lifecycle states.
const (
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCompleted = "completed"
)

// Record is the persisted outcome of a classified message. The analysis
// block keeps the backend verdict verbatim; the top-level mirror fields
// exist so list queries and alert rules never have to reach into it.
type Record struct {
	ID        string    `json:"id" bson:"id"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`

	Source   Source            `json:"source" bson:"source"`
	Analysis classifier.Result `json:"analysis" bson:"analysis"`

	IsOpportunity  bool    `json:"is_opportunity" bson:"is_opportunity"`
	Confidence     float64 `json:"confidence" bson:"confidence"`
	Summary        string  `json:"summary,omitempty" bson:"summary,omitempty"`
	Recommendation string  `json:"recommendation,omitempty" bson:"recommendation,omitempty"`
	RiskLevel      string  `json:"risk_level,omitempty" bson:"risk_level,omitempty"`

	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Source identifies where the classified message came from.
type Source struct {
	Channel      string `json:"channel" bson:"channel"`
	MessageID    string `json:"message_id" bson:"message_id"`
	Author       string `json:"author,omitempty" bson:"author,omitempty"`
	OriginalText string `json:"original_text" bson:"original_text"`
}

// RecordID builds the stable identifier for a record. The timestamp part
// is always UTC so the same message produces the same id regardless of
// the host timezone.
func RecordID(ts time.Time, messageID string) string {
	return fmt.Sprintf("opp_%s_%s", ts.UTC().Format("20060102_150405"), messageID)
}

// UserProfile holds the preferences fed into personalized recommendation
// runs.
type UserProfile struct {
	UserID          string                 `json:"user_id" bson:"user_id"`
	Preferences     map[string]interface{} `json:"preferences,omitempty" bson:"preferences,omitempty"`
	RiskTolerance   string                 `json:"risk_tolerance,omitempty" bson:"risk_tolerance,omitempty"`
	InvestmentGoals []string               `json:"investment_goals,omitempty" bson:"investment_goals,omitempty"`
	UpdatedAt       time.Time              `json:"updated_at" bson:"updated_at"`
}

// Statistics aggregates stored opportunities for the stats endpoint.
type Statistics struct {
	TotalOpportunities int64            `json:"total_opportunities"`
	ActiveCount        int64            `json:"active_count"`
	AvgConfidence      float64          `json:"avg_confidence"`
	ByProgram          map[string]int64 `json:"by_program"`
	ByType             map[string]int64 `json:"by_type"`
	GeneratedAt        time.Time        `json:"generated_at"`
}

// ListFilter narrows opportunity listings.
type ListFilter struct {
	Program       string
	MinConfidence float64
	Status        string
	Limit         int64
}

// AlertVars flattens a record into the variable set alert rule
// expressions are compiled against.
func AlertVars(rec *Record) map[string]interface{} {
	return map[string]interface{}{
		"id":               rec.ID,
		"channel":          rec.Source.Channel,
		"program":          rec.Analysis.Program,
		"opportunity_type": rec.Analysis.OpportunityType,
		"confidence":       rec.Confidence,
		"quantity":         rec.Analysis.Quantity,
		"price_per_mile":   rec.Analysis.PricePerMile,
		"risk_level":       rec.RiskLevel,
		"recommendation":   rec.Recommendation,
		"summary":          rec.Summary,
	}
}
