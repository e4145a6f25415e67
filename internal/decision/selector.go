package decision

import "github.com/yungbote/linguabridge-backend/internal/policy"

// SelectorInput is everything the candidate selector is allowed to look at.
// It is a value type on purpose: selection is a pure function and must stay
// trivially testable.
type SelectorInput struct {
	Mastery     float64
	Frustration float64

	// PendingQuestion is set when the turn is a free-form learner question
	// that needs extraction/reasoning support.
	PendingQuestion bool

	Policy policy.EffectivePolicy
}

// Select picks the candidate action for a turn, before any policy or budget
// check. First match wins:
//
//	1. high frustration  -> GUIDED_SYNTHESIS (de-escalate, don't ask more)
//	2. high mastery      -> ASSIGN_MISSION   (push toward transfer)
//	3. low mastery       -> ASK_PROMPT       (scaffold)
//	4. pending question  -> route by budgeting strategy
//	5. otherwise         -> NO_OP
//
// The budgeting strategy biases step 4 only: DETERMINISTIC_FIRST answers a
// pending question with a deterministic ASK_PROMPT, LLM_FIRST and HYBRID
// hand it to the agent (HYBRID leans on the budget tracker to degrade once
// the session's calls run out).
//
// With adaptive scaffolding disabled the threshold rules are skipped and the
// selector runs in flat reactive mode (4/5 only).
func Select(in SelectorInput) Action {
	th := in.Policy.Scaffolding.Thresholds

	if in.Policy.Scaffolding.AdaptiveScaffolding {
		if in.Frustration >= th.FrustrationHigh {
			return ActionGuidedSynthesis
		}
		if in.Mastery >= th.MasteryHigh {
			return ActionAssignMission
		}
		if in.Mastery <= th.MasteryLow {
			return ActionAskPrompt
		}
	}

	if in.PendingQuestion {
		if in.Policy.Budgeting.Strategy == policy.StrategyDeterministicFirst {
			return ActionAskPrompt
		}
		return ActionCallAgent
	}
	return ActionNoOp
}
