package classifier

// Result is the structured verdict returned by the classification backend
// for a single message. It is stored verbatim inside the opportunity
// record, so field names mirror the wire schema.
type Result struct {
	IsOpportunity    bool             `json:"is_opportunity" bson:"is_opportunity"`
	Confidence       float64          `json:"confidence" bson:"confidence"`
	OpportunityType  string           `json:"opportunity_type,omitempty" bson:"opportunity_type,omitempty"`
	Program          string           `json:"program,omitempty" bson:"program,omitempty"`
	Quantity         float64          `json:"quantity,omitempty" bson:"quantity,omitempty"`
	PricePerMile     float64          `json:"price_per_mile,omitempty" bson:"price_per_mile,omitempty"`
	TotalPrice       float64          `json:"total_price,omitempty" bson:"total_price,omitempty"`
	CPFCount         int              `json:"cpf_count,omitempty" bson:"cpf_count,omitempty"`
	MarketComparison MarketComparison `json:"market_comparison,omitempty" bson:"market_comparison,omitempty"`
	RiskLevel        string           `json:"risk_assessment,omitempty" bson:"risk_assessment,omitempty"`
	Recommendation   string           `json:"recommendation,omitempty" bson:"recommendation,omitempty"`
	Summary          string           `json:"summary,omitempty" bson:"summary,omitempty"`
	Reasoning        string           `json:"reasoning,omitempty" bson:"reasoning,omitempty"`
}

type MarketComparison struct {
	AvgMarketPrice  float64 `json:"avg_market_price" bson:"avg_market_price"`
	PriceDifference float64 `json:"price_difference" bson:"price_difference"`
	IsBelowMarket   bool    `json:"is_below_market" bson:"is_below_market"`
}

// TrendReport is the normalized answer of a market-trend analysis run.
type TrendReport struct {
	MarketTrend        string                     `json:"market_trend" bson:"market_trend"`
	PricePredictions   map[string]TrendPrediction `json:"price_predictions,omitempty" bson:"price_predictions,omitempty"`
	RecommendedActions []string                   `json:"recommended_actions,omitempty" bson:"recommended_actions,omitempty"`
	MarketInsights     []string                   `json:"market_insights,omitempty" bson:"market_insights,omitempty"`
	RiskFactors        []string                   `json:"risk_factors,omitempty" bson:"risk_factors,omitempty"`
	OpportunityWindows []string                   `json:"opportunity_windows,omitempty" bson:"opportunity_windows,omitempty"`
}

type TrendPrediction struct {
	Trend      string  `json:"trend" bson:"trend"`
	Confidence float64 `json:"confidence" bson:"confidence"`
}

// RecommendationSet is the normalized answer of a personalized
// recommendation run for one user profile.
type RecommendationSet struct {
	Personalized       []Recommendation `json:"personalized_recommendations" bson:"personalized_recommendations"`
	RiskProfile        string           `json:"risk_profile,omitempty" bson:"risk_profile,omitempty"`
	InvestmentStrategy string           `json:"investment_strategy,omitempty" bson:"investment_strategy,omitempty"`
	AlertSettings      AlertSettings    `json:"alert_settings,omitempty" bson:"alert_settings,omitempty"`
}

type Recommendation struct {
	Action     string  `json:"action" bson:"action"`
	Program    string  `json:"program" bson:"program"`
	Quantity   string  `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Reason     string  `json:"reason,omitempty" bson:"reason,omitempty"`
	Confidence float64 `json:"confidence,omitempty" bson:"confidence,omitempty"`
}

type AlertSettings struct {
	PriceAlerts        bool `json:"price_alerts" bson:"price_alerts"`
	OpportunityAlerts  bool `json:"opportunity_alerts" bson:"opportunity_alerts"`
	MarketChangeAlerts bool `json:"market_change_alerts" bson:"market_change_alerts"`
}
