package plan

// Unlimited is the sentinel for limits that are not metered.
const Unlimited = -1

type Type string

const (
	FreePlan          Type = "FREE"
	StarterPlan       Type = "STARTER"
	ProPlan           Type = "PRO"
	StarterAnnualPlan Type = "STARTER_ANNUAL"
	ProAnnualPlan     Type = "PRO_ANNUAL"
	LifetimePlan      Type = "LIFETIME"
)

// Features are the per-plan feature switches. A struct instead of a
// string-keyed map so adding a plan without filling these in is a
// compile-visible gap, not a silent false.
type Features struct {
	PremiumTemplates bool
	ViralityScore    bool
	AdvancedAI       bool
	PrioritySupport  bool
	Analytics        bool
	AIChat           bool
	TrendingHashtags bool
	CTAGenerator     bool
}

type Definition struct {
	Name             Type
	MonthlyPostLimit int // Unlimited or >= 0
	ToneOptionsLimit int
	CreditsIncluded  int
	Features         Features
}

var catalog = map[Type]Definition{
	FreePlan: {
		Name:             FreePlan,
		MonthlyPostLimit: 5,
		ToneOptionsLimit: 3,
		CreditsIncluded:  5,
		Features:         Features{},
	},
	StarterPlan: {
		Name:             StarterPlan,
		MonthlyPostLimit: 30,
		ToneOptionsLimit: 6,
		CreditsIncluded:  30,
		Features: Features{
			PremiumTemplates: true,
			TrendingHashtags: true,
		},
	},
	ProPlan: {
		Name:             ProPlan,
		MonthlyPostLimit: Unlimited,
		ToneOptionsLimit: Unlimited,
		CreditsIncluded:  Unlimited,
		Features: Features{
			PremiumTemplates: true,
			ViralityScore:    true,
			AdvancedAI:       true,
			PrioritySupport:  true,
			Analytics:        true,
			AIChat:           true,
			TrendingHashtags: true,
			CTAGenerator:     true,
		},
	},
	StarterAnnualPlan: {
		Name:             StarterAnnualPlan,
		MonthlyPostLimit: 30,
		ToneOptionsLimit: 6,
		CreditsIncluded:  30,
		Features: Features{
			PremiumTemplates: true,
			TrendingHashtags: true,
		},
	},
	ProAnnualPlan: {
		Name:             ProAnnualPlan,
		MonthlyPostLimit: Unlimited,
		ToneOptionsLimit: Unlimited,
		CreditsIncluded:  Unlimited,
		Features: Features{
			PremiumTemplates: true,
			ViralityScore:    true,
			AdvancedAI:       true,
			PrioritySupport:  true,
			Analytics:        true,
			AIChat:           true,
			TrendingHashtags: true,
			CTAGenerator:     true,
		},
	},
	LifetimePlan: {
		Name:             LifetimePlan,
		MonthlyPostLimit: Unlimited,
		ToneOptionsLimit: Unlimited,
		CreditsIncluded:  Unlimited,
		Features: Features{
			PremiumTemplates: true,
			ViralityScore:    true,
			AdvancedAI:       true,
			PrioritySupport:  true,
			Analytics:        true,
			AIChat:           true,
			TrendingHashtags: true,
			CTAGenerator:     true,
		},
	},
}

// Resolve returns the definition for a stored plan name. Unknown names fall
// back to the free plan, never to an unlimited one.
func Resolve(name string) Definition {
	if def, ok := catalog[Type(name)]; ok {
		return def
	}
	return catalog[FreePlan]
}

func Get(t Type) Definition {
	return Resolve(string(t))
}

// DeterminePlanType maps a Stripe price ID to a plan tier.
func DeterminePlanType(stripePriceID string) Type {
	switch stripePriceID {
	case "price_postpro_starter_monthly":
		return StarterPlan
	case "price_postpro_pro_monthly":
		return ProPlan
	case "price_postpro_starter_annual":
		return StarterAnnualPlan
	case "price_postpro_pro_annual":
		return ProAnnualPlan
	case "price_postpro_lifetime":
		return LifetimePlan
	default:
		return FreePlan
	}
}
