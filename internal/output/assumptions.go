package output

// DefaultAssumptions lists the modelling limits rendered in detailed outputs
var DefaultAssumptions = []string{
	"FBT uses the statutory formula method at a flat rate; operating cost method is not modelled",
	"Residual values default to the minimum percentage for the lease term",
	"Income tax uses resident rates; offsets, HELP and Medicare surcharge are excluded",
	"Running costs are annual estimates held flat over the term",
	"Opportunity cost is simple interest on the purchase price over the term",
}
