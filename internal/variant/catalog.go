package variant

import "github.com/sells-group/pagegen-cli/internal/model"

// Catalog is the fixed pattern palette for one content type. Patterns use
// the assembler's enrichment tokens ({revenue}, {roi}, {demand_label}, …)
// and {values} for the combination's values; they never reference
// template-specific variable names.
type Catalog struct {
	Intros   []string
	Bodies   []string
	Closings []string
}

var catalogs = map[model.ContentType]Catalog{
	model.ContentTypeServiceLocation: {
		Intros: []string{
			"Looking at {values}? The local numbers tell a clear story: demand is {demand_label} and competition is {competition_label}.",
			"The market for {values} has matured into a segment with {demand_label} demand, and the economics back that up.",
			"Few local niches are as well documented as {values}. Reference data covers revenue, costs and utilization for this market.",
			"{values} is a combination worth examining closely, with {demand_label} demand against {competition_label} competition.",
		},
		Bodies: []string{
			"Typical operations report monthly revenue near ${revenue} against ${expenses} in expenses, leaving about ${profit} in monthly profit. With an upfront investment around ${investment}, that works out to an annualized return of {roi}%. Average utilization sits at {occupancy}%.",
			"The baseline economics: ${revenue} in monthly revenue, ${expenses} in monthly costs, and roughly ${profit} of monthly margin. On a ${investment} investment the annualized return comes to {roi}%, with utilization averaging {occupancy}%.",
			"Run the numbers and the picture is concrete. Monthly revenue averages ${revenue}, expenses ${expenses}, so profit lands near ${profit} a month. Against an investment of ${investment}, the annualized return is {roi}% at {occupancy}% average utilization.",
			"Expect monthly revenue around ${revenue} and operating costs near ${expenses}. That leaves roughly ${profit} per month, an annualized {roi}% return on a typical ${investment} outlay, at {occupancy}% utilization.",
		},
		Closings: []string{
			"{narrative}",
			"{narrative} The figures above are market baselines; individual results vary with execution.",
			"{narrative} Use these baselines as a starting point for your own projections.",
		},
	},
	model.ContentTypeComparison: {
		Intros: []string{
			"Choosing between the options in {values} comes down to the underlying economics.",
			"On paper the candidates in {values} look similar; the reference data separates them.",
			"A side-by-side look at {values} starts with demand: it is {demand_label} here, with {competition_label} competition.",
		},
		Bodies: []string{
			"The stronger profile shows monthly revenue near ${revenue} with ${expenses} in costs, about ${profit} in monthly profit and an annualized return of {roi}% on a ${investment} investment.",
			"Baseline economics favor the option with ${revenue} monthly revenue, ${expenses} in expenses and a {roi}% annualized return at {occupancy}% utilization.",
			"Comparing returns: roughly ${profit} monthly profit on ${revenue} of revenue, an annualized {roi}% against the ${investment} typically required.",
		},
		Closings: []string{
			"{narrative}",
			"{narrative} Weigh these baselines against your own constraints before deciding.",
		},
	},
	model.ContentTypeGeneric: {
		Intros: []string{
			"Here is what the reference data says about {values}.",
			"{values}: demand is {demand_label}, competition is {competition_label}, and the economics are below.",
			"The numbers behind {values} are more concrete than most guides suggest.",
		},
		Bodies: []string{
			"Monthly revenue averages ${revenue} with ${expenses} in expenses, about ${profit} in profit. Annualized return is {roi}% on a typical ${investment} investment, at {occupancy}% utilization.",
			"Baseline figures: ${revenue} monthly revenue, ${expenses} monthly costs, ${profit} margin, {roi}% annualized return on ${investment}, {occupancy}% utilization.",
			"A typical operation sees ${revenue} in monthly revenue and ${expenses} in costs, yielding ${profit} a month and a {roi}% annualized return on ${investment}.",
		},
		Closings: []string{
			"{narrative}",
			"{narrative} Baselines are market medians, not guarantees.",
		},
	},
}

// CatalogFor returns the pattern palette for a content type. Unknown types
// fall back to the generic catalog.
func CatalogFor(ct model.ContentType) Catalog {
	if c, ok := catalogs[ct]; ok {
		return c
	}
	return catalogs[model.ContentTypeGeneric]
}

// VariantSpaceSize returns the number of distinct variants for a content
// type: the product of its catalog sizes. Callers compare this against the
// combination count to detect near-duplicate pressure.
func VariantSpaceSize(ct model.ContentType) int {
	c := CatalogFor(ct)
	return len(c.Intros) * len(c.Bodies) * len(c.Closings)
}
