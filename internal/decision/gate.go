package decision

import "github.com/yungbote/linguabridge-backend/internal/policy"

// requiredFeature maps each gated action to the feature flag that must be on
// for it to run. ASK_PROMPT and NO_OP are deliberately ungated: the engine
// must always have a lawful fallback.
//
// TODO: confirm the full action->feature table with product; this mapping is
// reconstructed from flag naming in the policy store.
var requiredFeature = map[Action]string{
	ActionAssignMission:      policy.FeatureMissions,
	ActionGuidedSynthesis:    policy.FeatureSentenceAnalysis,
	ActionCallAgent:          policy.FeatureAgent,
	ActionCallBackendExtract: policy.FeatureAgent,
}

// deterministicFallback maps a suppressed action to the cheapest action that
// still serves the turn. Anything unlisted falls back to NO_OP.
var deterministicFallback = map[Action]Action{
	ActionCallAgent: ActionAskPrompt,
}

// GateInput carries the candidate plus the turn facts the gate checks.
type GateInput struct {
	Candidate Action
	Policy    policy.EffectivePolicy

	// SelectedTextChars is the length of learner-selected input text, 0 when
	// the turn carries none.
	SelectedTextChars int

	// NeedsExtraction / ImageSource describe the extraction the candidate
	// would perform, if any.
	NeedsExtraction bool
	ImageSource     bool
}

// GateResult is the gate's verdict. When Suppressed is true, Final is always
// NO_OP or a deterministic fallback, never a backend-calling action.
type GateResult struct {
	Final      Action
	Suppressed bool
	Reasons    []SuppressReason
}

// Gate checks the candidate against policy flags and hard limits. Checks run
// in a fixed order and every applicable reason is recorded, not just the
// first.
func Gate(in GateInput) GateResult {
	var reasons []SuppressReason

	if feature, gated := requiredFeature[in.Candidate]; gated {
		if !in.Policy.Features.Enabled(feature) {
			reasons = append(reasons, ReasonFeatureDisabled)
		}
	}

	if in.NeedsExtraction || in.Candidate == ActionCallBackendExtract {
		allowed := in.Policy.Extraction.AllowTextExtraction
		if in.ImageSource {
			allowed = in.Policy.Extraction.AllowOcr
		}
		if !allowed {
			reasons = append(reasons, ReasonExtractionDisallowed)
		}
	}

	if max := in.Policy.Limits.MaxSelectedTextChars; max > 0 && in.SelectedTextChars > max {
		reasons = append(reasons, ReasonInputTooLarge)
	}

	if len(reasons) == 0 {
		return GateResult{Final: in.Candidate}
	}

	final := ActionNoOp
	if fb, ok := deterministicFallback[in.Candidate]; ok {
		final = fb
	}
	return GateResult{
		Final:      final,
		Suppressed: true,
		Reasons:    reasons,
	}
}
