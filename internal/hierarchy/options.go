package hierarchy

// Options tunes the structural heuristics. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	// FamilyRootNumerals are s2 values that always denote a family root (level 2).
	FamilyRootNumerals []string
	// BucketRoots maps the leading digit of s2 to the s2 of the family bucket
	// root a detail account falls back to when its own parents are missing.
	BucketRoots map[string]string
	// AcceptConfidence is the family-analysis confidence at or above which its
	// level is taken without comparison.
	AcceptConfidence float64
	// RejectConfidence is the family-analysis confidence below which the zero
	// pattern is used instead.
	RejectConfidence float64
}

// DefaultOptions returns the stock heuristics: round thousands are family
// roots and each leading digit buckets into its round thousand.
func DefaultOptions() Options {
	return Options{
		FamilyRootNumerals: []string{"1000", "2000", "3000", "4000", "5000", "6000", "7000", "8000", "9000"},
		BucketRoots: map[string]string{
			"1": "1000", "2": "2000", "3": "3000", "4": "4000", "5": "5000",
			"6": "6000", "7": "7000", "8": "8000", "9": "9000",
		},
		AcceptConfidence: 0.8,
		RejectConfidence: 0.5,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FamilyRootNumerals == nil {
		o.FamilyRootNumerals = d.FamilyRootNumerals
	}
	if o.BucketRoots == nil {
		o.BucketRoots = d.BucketRoots
	}
	if o.AcceptConfidence == 0 {
		o.AcceptConfidence = d.AcceptConfidence
	}
	if o.RejectConfidence == 0 {
		o.RejectConfidence = d.RejectConfidence
	}
	return o
}
