package policy

import "encoding/json"

// Feature gate names the admin surface can set. Unknown names round-trip
// through documents untouched; the gate table in internal/decision only
// consults the names below.
const (
	FeatureTransferGraph    = "transfer_graph"
	FeatureSentenceAnalysis = "sentence_analysis"
	FeaturePKM              = "pkm"
	FeatureGames            = "games"
	FeatureMissions         = "missions"
	FeatureMissionFeedback  = "mission_feedback"
	FeatureAffectiveSupport = "affective_support"
	FeatureAgent            = "agent"
)

type BudgetStrategy string

const (
	StrategyDeterministicFirst BudgetStrategy = "DETERMINISTIC_FIRST"
	StrategyLLMFirst           BudgetStrategy = "LLM_FIRST"
	StrategyHybrid             BudgetStrategy = "HYBRID"
)

type FeatureSet map[string]bool

func (f FeatureSet) Enabled(name string) bool {
	if f == nil {
		return false
	}
	return f[name]
}

type Extraction struct {
	AllowTextExtraction bool `json:"allowTextExtraction"`
	AllowOcr            bool `json:"allowOcr"`
}

type Thresholds struct {
	MasteryHigh     float64 `json:"masteryHigh"`
	MasteryLow      float64 `json:"masteryLow"`
	FrustrationHigh float64 `json:"frustrationHigh"`
}

type Scaffolding struct {
	Thresholds          Thresholds `json:"thresholds"`
	AdaptiveScaffolding bool       `json:"adaptiveScaffolding"`
}

type Budgeting struct {
	Strategy           BudgetStrategy `json:"strategy"`
	MaxCallsPerSession int            `json:"maxCallsPerSession"`
}

type Limits struct {
	MaxSelectedTextChars int `json:"maxSelectedTextChars"`
}

// EffectivePolicy is the fully resolved configuration for one session.
// It is immutable for the lifetime of a turn; callers must not mutate it
// after resolution.
type EffectivePolicy struct {
	Features    FeatureSet  `json:"features"`
	Extraction  Extraction  `json:"extraction"`
	Scaffolding Scaffolding `json:"scaffolding"`
	Budgeting   Budgeting   `json:"budgeting"`
	Limits      Limits      `json:"limits"`
}

// Snapshot returns the canonical serialized form used for audit records and
// cache keys. encoding/json sorts map keys, so equal policies always produce
// byte-identical snapshots.
func (p EffectivePolicy) Snapshot() []byte {
	b, err := json.Marshal(p)
	if err != nil {
		// Impossible for this shape; keep the audit write path total anyway.
		return []byte("{}")
	}
	return b
}

// Doc is a partial policy document at one scope. Nil sections are "unset at
// this scope"; a set section replaces the whole corresponding section from
// wider scopes (top-level field merge, never per-key inside a section).
type Doc struct {
	Features    *FeatureSet  `json:"features,omitempty"`
	Extraction  *Extraction  `json:"extraction,omitempty"`
	Scaffolding *Scaffolding `json:"scaffolding,omitempty"`
	Budgeting   *Budgeting   `json:"budgeting,omitempty"`
	Limits      *Limits      `json:"limits,omitempty"`
}

// Defaults is the hard-coded system policy: everything off, text extraction
// only, conservative thresholds, deterministic-first with a zero-call budget.
func Defaults() EffectivePolicy {
	return EffectivePolicy{
		Features: FeatureSet{},
		Extraction: Extraction{
			AllowTextExtraction: true,
			AllowOcr:            false,
		},
		Scaffolding: Scaffolding{
			Thresholds: Thresholds{
				MasteryHigh:     0.8,
				MasteryLow:      0.4,
				FrustrationHigh: 0.7,
			},
			AdaptiveScaffolding: true,
		},
		Budgeting: Budgeting{
			Strategy:           StrategyDeterministicFirst,
			MaxCallsPerSession: 0,
		},
		Limits: Limits{
			MaxSelectedTextChars: 2000,
		},
	}
}
