package cel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvaluator(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)
	assert.NotNil(t, eval)
}

func TestValidateExpression(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		expr      string
		wantError bool
	}{
		{
			name:      "valid simple expression",
			expr:      `program == "smiles"`,
			wantError: false,
		},
		{
			name:      "valid numeric comparison",
			expr:      `confidence > 0.8`,
			wantError: false,
		},
		{
			name:      "invalid expression",
			expr:      `invalid syntax here!!!`,
			wantError: true,
		},
		{
			name:      "undefined variable",
			expr:      `undefinedVar == "test"`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eval.ValidateExpression(tt.expr)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFilterExpression(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	tests := []struct {
		name      string
		expr      string
		wantError bool
	}{
		{
			name:      "valid bool expression",
			expr:      `risk_level == "low"`,
			wantError: false,
		},
		{
			name:      "non-bool expression",
			expr:      `confidence`,
			wantError: true,
		},
		{
			name:      "valid contains",
			expr:      `summary.contains("smiles")`,
			wantError: false,
		},
		{
			name:      "valid combined predicate",
			expr:      `confidence >= 0.85 && program == "latam" && opportunity_type == "buy"`,
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eval.ValidateFilterExpression(tt.expr)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvaluateFilter(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	ctx := context.Background()
	vars := map[string]interface{}{
		"id":               "opp_20260115_103000_msg-42",
		"channel":          "milhas-brokers",
		"program":          "smiles",
		"opportunity_type": "buy",
		"confidence":       0.85,
		"quantity":         50000.0,
		"price_per_mile":   14.0,
		"risk_level":       "low",
		"recommendation":   "buy",
		"summary":          "smiles 50k below market",
	}

	tests := []struct {
		name      string
		expr      string
		want      bool
		wantError bool
	}{
		{
			name: "program equality true",
			expr: `program == "smiles"`,
			want: true,
		},
		{
			name: "program equality false",
			expr: `program == "latam"`,
			want: false,
		},
		{
			name: "confidence threshold true",
			expr: `confidence > 0.8`,
			want: true,
		},
		{
			name: "confidence threshold false",
			expr: `confidence > 0.9`,
			want: false,
		},
		{
			name: "combined predicate",
			expr: `opportunity_type == "buy" && risk_level == "low" && quantity >= 20000.0`,
			want: true,
		},
		{
			name: "summary contains",
			expr: `summary.contains("below market")`,
			want: true,
		},
		{
			name:      "runtime type mismatch",
			expr:      `confidence == "high"`,
			want:      false,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := eval.EvaluateFilter(ctx, tt.expr, vars)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, result)
			}
		})
	}
}
