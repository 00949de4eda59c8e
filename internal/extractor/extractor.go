package extractor

import (
	"regexp"
	"strings"
)

// Field names contributed by the extraction rules.
const (
	FieldOperation    = "operation"
	FieldProgram      = "program"
	FieldQuantity     = "quantity"
	FieldUnitPrice    = "unit_price"
	FieldTotalPrice   = "total_price"
	FieldAccountCount = "account_count"
)

const (
	OperationBuy  = "buy"
	OperationSell = "sell"
)

// Programs is the closed set of recognized loyalty programs.
var Programs = []string{"smiles", "latam", "tudoazul", "livelo", "iberia", "avios"}

// Fields is the sparse mapping of trade attributes found in a message.
// Values are captured verbatim, "50k" stays "50k" and "r$14" keeps its
// currency prefix; the classification backend interprets them.
type Fields map[string]string

// Rule is one declarative extraction pattern. Captured groups are bound to
// Names in order; Presets are contributed as-is whenever the rule matches.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Names   []string
	Presets map[string]string
}

const (
	programAlt   = `(smiles|latam|tudoazul|livelo|iberia|avios)`
	quantityTok  = `(\d+(?:\.\d+)?k?)`
	priceTok     = `((?:r\$)?\d+(?:[.,]\d+)?)`
	countTok     = `(\d+)`
	milesSuffix  = `(?:milhas|miles)`
	perThousand  = `(?:mil|k)`
	buyKeywords  = `(?:compro|compra|buy)`
	sellKeywords = `(?:vendo|venda|sell)`
)

// DefaultRules returns the extraction rule table in evaluation order.
// Earlier rules win: a field set by a prior rule is never overwritten.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "buy_intent",
			Pattern: regexp.MustCompile(buyKeywords + `\s+(\w+)\s+` + quantityTok + `\s+` + countTok + `\s+cpf\s+` + priceTok),
			Names:   []string{FieldProgram, FieldQuantity, FieldAccountCount, FieldTotalPrice},
			Presets: map[string]string{FieldOperation: OperationBuy},
		},
		{
			Name:    "sell_intent",
			Pattern: regexp.MustCompile(sellKeywords + `\s+(\w+)\s+` + quantityTok + `\s+` + countTok + `\s+cpf\s+` + priceTok),
			Names:   []string{FieldProgram, FieldQuantity, FieldAccountCount, FieldTotalPrice},
			Presets: map[string]string{FieldOperation: OperationSell},
		},
		{
			Name:    "unit_price",
			Pattern: regexp.MustCompile(priceTok + `\s*/\s*` + perThousand),
			Names:   []string{FieldUnitPrice},
		},
		{
			Name:    "quantity",
			Pattern: regexp.MustCompile(quantityTok + `\s*` + milesSuffix),
			Names:   []string{FieldQuantity},
		},
		{
			Name:    "program",
			Pattern: regexp.MustCompile(programAlt),
			Names:   []string{FieldProgram},
		},
		{
			Name:    "account_count",
			Pattern: regexp.MustCompile(countTok + `\s+cpf`),
			Names:   []string{FieldAccountCount},
		},
		{
			Name:    "total_price",
			Pattern: regexp.MustCompile(`total[:\s]\s*` + priceTok),
			Names:   []string{FieldTotalPrice},
		},
	}
}

type Extractor struct {
	rules []Rule
}

func New() *Extractor {
	return NewWithRules(DefaultRules())
}

func NewWithRules(rules []Rule) *Extractor {
	return &Extractor{rules: rules}
}

// Extract runs the rule table over the lower-cased text and returns the
// merged fields. Only the first match of each rule is used. An empty map
// means the message carries no recognizable trade signal and the caller
// must skip classification entirely.
func (e *Extractor) Extract(text string) Fields {
	lowered := strings.ToLower(text)
	fields := make(Fields)

	for _, rule := range e.rules {
		match := rule.Pattern.FindStringSubmatch(lowered)
		if match == nil {
			continue
		}

		for key, value := range rule.Presets {
			if _, exists := fields[key]; !exists {
				fields[key] = value
			}
		}

		for i, name := range rule.Names {
			if i+1 >= len(match) {
				break
			}
			if _, exists := fields[name]; !exists && match[i+1] != "" {
				fields[name] = match[i+1]
			}
		}
	}

	return fields
}
