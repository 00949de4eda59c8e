package market

import (
	"milhas/internal/config"
)

// ProgramStats is the per-program reference pricing used when grading an
// offer: average price per thousand miles and the observed range.
type ProgramStats struct {
	AvgPrice  float64 `json:"avg_price" bson:"avg_price"`
	RangeLow  float64 `json:"range_low" bson:"range_low"`
	RangeHigh float64 `json:"range_high" bson:"range_high"`
}

// Snapshot maps program name to its reference stats. A snapshot is
// immutable once published; refreshes swap the whole map.
type Snapshot map[string]ProgramStats

// DefaultSnapshot returns the seed reference prices used until the first
// refresh, or when a program has no stored history.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		"smiles":   {AvgPrice: 16.5, RangeLow: 14, RangeHigh: 19},
		"latam":    {AvgPrice: 24, RangeLow: 20, RangeHigh: 28},
		"tudoazul": {AvgPrice: 22, RangeLow: 18, RangeHigh: 26},
		"livelo":   {AvgPrice: 0.8, RangeLow: 0.6, RangeHigh: 1.0},
		"iberia":   {AvgPrice: 52, RangeLow: 48, RangeHigh: 56},
		"avios":    {AvgPrice: 52, RangeLow: 48, RangeHigh: 56},
	}
}

// SnapshotFromConfig builds the seed snapshot from configured defaults,
// falling back to the built-in table when the config section is empty.
func SnapshotFromConfig(cfg config.MarketConfig) Snapshot {
	if len(cfg.Defaults) == 0 {
		return DefaultSnapshot()
	}

	snap := make(Snapshot, len(cfg.Defaults))
	for program, def := range cfg.Defaults {
		snap[program] = ProgramStats{
			AvgPrice:  def.AvgPrice,
			RangeLow:  def.RangeLow,
			RangeHigh: def.RangeHigh,
		}
	}
	return snap
}

func (s Snapshot) clone() Snapshot {
	out := make(Snapshot, len(s))
	for program, stats := range s {
		out[program] = stats
	}
	return out
}

// Programs returns the program names present in the snapshot.
func (s Snapshot) Programs() []string {
	names := make([]string, 0, len(s))
	for program := range s {
		names = append(names, program)
	}
	return names
}
