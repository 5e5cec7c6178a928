package enrich

import "strings"

// CategoryProfile holds monthly baseline economics for a service category.
type CategoryProfile struct {
	Revenue     float64 // monthly gross, USD
	Expenses    float64 // monthly operating, USD
	Investment  float64 // upfront, USD
	Occupancy   float64 // percent of capacity utilized
	Demand      float64 // 0-100 index
	Competition float64 // 0-100 index
}

// LocationProfile adjusts category baselines for a market.
type LocationProfile struct {
	CostMultiplier   float64 // scales revenue and expenses
	DemandAdjustment float64 // added to the demand index
	PopulationTier   string  // "metro", "city", "town"
}

// categoryBaselines maps normalized category values to reference economics.
// Figures are rounded market medians; the exact numbers matter less than
// their being stable and plausible.
var categoryBaselines = map[string]CategoryProfile{
	"yoga":         {Revenue: 14000, Expenses: 9500, Investment: 60000, Occupancy: 62, Demand: 68, Competition: 55},
	"pilates":      {Revenue: 16000, Expenses: 10500, Investment: 75000, Occupancy: 58, Demand: 61, Competition: 48},
	"plumbing":     {Revenue: 32000, Expenses: 21000, Investment: 45000, Occupancy: 74, Demand: 82, Competition: 64},
	"electrical":   {Revenue: 34000, Expenses: 22500, Investment: 50000, Occupancy: 71, Demand: 79, Competition: 60},
	"hvac":         {Revenue: 41000, Expenses: 27000, Investment: 90000, Occupancy: 77, Demand: 84, Competition: 58},
	"cleaning":     {Revenue: 18000, Expenses: 12000, Investment: 15000, Occupancy: 69, Demand: 75, Competition: 72},
	"landscaping":  {Revenue: 22000, Expenses: 14500, Investment: 35000, Occupancy: 66, Demand: 71, Competition: 63},
	"roofing":      {Revenue: 48000, Expenses: 33000, Investment: 70000, Occupancy: 72, Demand: 77, Competition: 52},
	"photography":  {Revenue: 9000, Expenses: 5000, Investment: 20000, Occupancy: 48, Demand: 52, Competition: 70},
	"catering":     {Revenue: 26000, Expenses: 19000, Investment: 55000, Occupancy: 57, Demand: 63, Competition: 61},
	"tutoring":     {Revenue: 11000, Expenses: 6000, Investment: 10000, Occupancy: 55, Demand: 66, Competition: 49},
	"daycare":      {Revenue: 29000, Expenses: 21500, Investment: 120000, Occupancy: 85, Demand: 88, Competition: 44},
	"coworking":    {Revenue: 38000, Expenses: 29000, Investment: 250000, Occupancy: 64, Demand: 59, Competition: 46},
	"car wash":     {Revenue: 31000, Expenses: 18000, Investment: 300000, Occupancy: 61, Demand: 70, Competition: 57},
	"gym":          {Revenue: 35000, Expenses: 24000, Investment: 200000, Occupancy: 59, Demand: 72, Competition: 66},
	"barbershop":   {Revenue: 15000, Expenses: 9000, Investment: 40000, Occupancy: 68, Demand: 69, Competition: 67},
	"pet grooming": {Revenue: 13000, Expenses: 8000, Investment: 25000, Occupancy: 63, Demand: 73, Competition: 51},
}

// locationBaselines maps normalized location values to market adjustments.
var locationBaselines = map[string]LocationProfile{
	"austin":        {CostMultiplier: 1.18, DemandAdjustment: 8, PopulationTier: "metro"},
	"dallas":        {CostMultiplier: 1.12, DemandAdjustment: 6, PopulationTier: "metro"},
	"houston":       {CostMultiplier: 1.10, DemandAdjustment: 6, PopulationTier: "metro"},
	"denver":        {CostMultiplier: 1.15, DemandAdjustment: 5, PopulationTier: "metro"},
	"phoenix":       {CostMultiplier: 1.08, DemandAdjustment: 5, PopulationTier: "metro"},
	"san antonio":   {CostMultiplier: 1.02, DemandAdjustment: 3, PopulationTier: "metro"},
	"nashville":     {CostMultiplier: 1.09, DemandAdjustment: 6, PopulationTier: "city"},
	"reno":          {CostMultiplier: 0.98, DemandAdjustment: 1, PopulationTier: "city"},
	"boise":         {CostMultiplier: 0.95, DemandAdjustment: 2, PopulationTier: "city"},
	"tucson":        {CostMultiplier: 0.92, DemandAdjustment: 0, PopulationTier: "city"},
	"albuquerque":   {CostMultiplier: 0.90, DemandAdjustment: -1, PopulationTier: "city"},
	"omaha":         {CostMultiplier: 0.89, DemandAdjustment: 0, PopulationTier: "city"},
	"tulsa":         {CostMultiplier: 0.86, DemandAdjustment: -2, PopulationTier: "city"},
	"el paso":       {CostMultiplier: 0.84, DemandAdjustment: -2, PopulationTier: "city"},
	"fort collins":  {CostMultiplier: 0.97, DemandAdjustment: 2, PopulationTier: "town"},
	"santa fe":      {CostMultiplier: 1.05, DemandAdjustment: 1, PopulationTier: "town"},
}

// defaultCategory is the generic fallback profile used on lookup misses.
var defaultCategory = CategoryProfile{
	Revenue: 20000, Expenses: 14000, Investment: 50000,
	Occupancy: 60, Demand: 55, Competition: 55,
}

// defaultLocation is the neutral market adjustment.
var defaultLocation = LocationProfile{CostMultiplier: 1.0, DemandAdjustment: 0, PopulationTier: "city"}

// normalizeKey lowercases and trims a value for baseline lookup.
func normalizeKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// lookupCategory returns the profile for a value and whether it was found.
func lookupCategory(v string) (CategoryProfile, bool) {
	p, ok := categoryBaselines[normalizeKey(v)]
	if !ok {
		return defaultCategory, false
	}
	return p, true
}

// lookupLocation returns the market profile for a value and whether it was
// found.
func lookupLocation(v string) (LocationProfile, bool) {
	p, ok := locationBaselines[normalizeKey(v)]
	if !ok {
		return defaultLocation, false
	}
	return p, true
}
