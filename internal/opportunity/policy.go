package opportunity

import (
	"time"

	"milhas/internal/classifier"
	"milhas/pkg/models"
)

// Policy turns a classification verdict into a persistable record. The
// backend's is_opportunity flag is authoritative: no confidence threshold
// is applied on top of it, the confidence travels with the record for
// downstream filtering instead.
type Policy struct {
	now func() time.Time
}

func NewPolicy() *Policy {
	return &Policy{now: time.Now}
}

// Evaluate returns nil when the verdict is not an opportunity.
func (p *Policy) Evaluate(msg models.RawMessage, result *classifier.Result) *Record {
	if result == nil || !result.IsOpportunity {
		return nil
	}

	ts := p.now().UTC()
	return &Record{
		ID:        RecordID(ts, msg.MessageID),
		Timestamp: ts,
		Source: Source{
			Channel:      msg.Channel,
			MessageID:    msg.MessageID,
			Author:       msg.Author,
			OriginalText: msg.Text,
		},
		Analysis:       *result,
		IsOpportunity:  result.IsOpportunity,
		Confidence:     result.Confidence,
		Summary:        result.Summary,
		Recommendation: result.Recommendation,
		RiskLevel:      result.RiskLevel,
		Status:         StatusActive,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
}
