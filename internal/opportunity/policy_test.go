package opportunity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhas/internal/classifier"
	"milhas/pkg/models"
)

func fixedPolicy(ts time.Time) *Policy {
	p := NewPolicy()
	p.now = func() time.Time { return ts }
	return p
}

func testMessage() models.RawMessage {
	return models.RawMessage{
		MessageID: "m1",
		Channel:   "milhas-brokers",
		Author:    "corretor1",
		Text:      "vendo smiles 80k r$16,50/mil",
		Date:      time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestEvaluateNonOpportunityIsNil(t *testing.T) {
	p := NewPolicy()
	assert.Nil(t, p.Evaluate(testMessage(), &classifier.Result{IsOpportunity: false, Confidence: 0.95}))
	assert.Nil(t, p.Evaluate(testMessage(), nil))
}

func TestEvaluateBuildsRecord(t *testing.T) {
	ts := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	result := &classifier.Result{
		IsOpportunity:  true,
		Confidence:     0.85,
		Program:        "smiles",
		PricePerMile:   16.5,
		RiskLevel:      "low",
		Recommendation: "buy",
		Summary:        "sell offer at market average",
	}

	rec := fixedPolicy(ts).Evaluate(testMessage(), result)
	require.NotNil(t, rec)

	assert.Equal(t, "opp_20260115_103000_m1", rec.ID)
	assert.Equal(t, ts, rec.Timestamp)
	assert.Equal(t, StatusActive, rec.Status)

	assert.Equal(t, "milhas-brokers", rec.Source.Channel)
	assert.Equal(t, "vendo smiles 80k r$16,50/mil", rec.Source.OriginalText)

	// Verdict stored verbatim plus mirrored fields.
	assert.Equal(t, *result, rec.Analysis)
	assert.Equal(t, 0.85, rec.Confidence)
	assert.Equal(t, "low", rec.RiskLevel)
	assert.Equal(t, "buy", rec.Recommendation)
}

func TestEvaluateDoesNotRethreshold(t *testing.T) {
	// A low-confidence positive verdict still becomes a record.
	rec := NewPolicy().Evaluate(testMessage(), &classifier.Result{IsOpportunity: true, Confidence: 0.1})
	require.NotNil(t, rec)
	assert.Equal(t, 0.1, rec.Confidence)
}

func TestRecordIDUsesUTC(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	ts := time.Date(2026, 1, 15, 7, 30, 0, 0, loc)
	assert.Equal(t, "opp_20260115_103000_m1", RecordID(ts, "m1"))
}
