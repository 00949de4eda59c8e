package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBuyIntent(t *testing.T) {
	e := New()

	fields := e.Extract("compro smiles 50k 2 cpf r$14")

	assert.Equal(t, Fields{
		FieldOperation:    "buy",
		FieldProgram:      "smiles",
		FieldQuantity:     "50k",
		FieldAccountCount: "2",
		FieldTotalPrice:   "r$14",
	}, fields)
}

func TestExtract(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		text string
		want Fields
	}{
		{
			name: "sell intent with uppercase text",
			text: "VENDO LATAM 100k 3 CPF R$2400",
			want: Fields{
				FieldOperation:    "sell",
				FieldProgram:      "latam",
				FieldQuantity:     "100k",
				FieldAccountCount: "3",
				FieldTotalPrice:   "r$2400",
			},
		},
		{
			name: "unit price per thousand",
			text: "pagando 16,50/mil no smiles",
			want: Fields{
				FieldUnitPrice: "16,50",
				FieldProgram:   "smiles",
			},
		},
		{
			name: "quantity with miles suffix",
			text: "tenho 80k milhas tudoazul disponiveis",
			want: Fields{
				FieldQuantity: "80k",
				FieldProgram:  "tudoazul",
			},
		},
		{
			name: "total price label",
			text: "livelo fechado, total: r$1200",
			want: Fields{
				FieldProgram:    "livelo",
				FieldTotalPrice: "r$1200",
			},
		},
		{
			name: "program mention only",
			text: "alguem ai com iberia?",
			want: Fields{
				FieldProgram: "iberia",
			},
		},
		{
			name: "no trade signal",
			text: "bom dia pessoal, tudo bem?",
			want: Fields{},
		},
		{
			name: "empty text",
			text: "",
			want: Fields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.text))
		})
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	e := New()

	// The buy rule binds the program before the standalone program rule
	// sees the second mention.
	fields := e.Extract("compro smiles 30k 1 cpf r$500, pago melhor que latam")
	assert.Equal(t, "smiles", fields[FieldProgram])
	assert.Equal(t, "buy", fields[FieldOperation])
}

func TestExtractVerbatimTokens(t *testing.T) {
	e := New()

	// Numeric tokens are never normalized locally: the "k" suffix and the
	// currency prefix travel to the classification backend untouched.
	fields := e.Extract("compro avios 62.5k 4 cpf r$3100")
	assert.Equal(t, "62.5k", fields[FieldQuantity])
	assert.Equal(t, "r$3100", fields[FieldTotalPrice])
}

func TestExtractIsPure(t *testing.T) {
	e := New()

	first := e.Extract("vendo smiles 40k 2 cpf r$700")
	second := e.Extract("vendo smiles 40k 2 cpf r$700")
	assert.Equal(t, first, second)
}
