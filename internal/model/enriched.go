package model

// EnrichedContext holds the facts derived from a combination: raw baseline
// lookups, computed secondary fields, categorical labels and a data quality
// score in [0,1] reflecting how many lookups hit real reference data.
type EnrichedContext struct {
	// Raw baseline figures (monthly, USD unless noted).
	Revenue    float64 `json:"revenue"`
	Expenses   float64 `json:"expenses"`
	Investment float64 `json:"investment"`
	Occupancy  float64 `json:"occupancy"` // percent
	Demand     float64 `json:"demand"`    // 0-100 index
	Competition float64 `json:"competition"` // 0-100 index

	// Derived fields, computed by deterministic formulas.
	Profit     float64 `json:"profit"`
	ROI        float64 `json:"roi"` // annualized, percent
	Profitable bool    `json:"profitable"`

	// Categorical labels from threshold rules.
	DemandLabel      string `json:"demand_label"`
	CompetitionLabel string `json:"competition_label"`

	// Narrative is the optional prose augmentation. Always populated: either
	// AI-generated or the deterministic fallback.
	Narrative string `json:"narrative"`
	Augmented bool   `json:"augmented"`

	// DataQuality is 1.0 when every lookup hit reference data, lowered for
	// each fallback to the generic default profile.
	DataQuality float64 `json:"data_quality"`

	// Misses lists the combination values that fell back to defaults.
	Misses []string `json:"misses,omitempty"`
}

// ContentVariant is the bounded index set selecting intro/body/closing
// patterns for a content type. Chosen purely as a function of
// (template id, combination key).
type ContentVariant struct {
	ContentType ContentType `json:"content_type"`
	IntroIdx    int         `json:"intro_idx"`
	BodyIdx     int         `json:"body_idx"`
	ClosingIdx  int         `json:"closing_idx"`
}
