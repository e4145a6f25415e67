package decision

import (
	"testing"

	"github.com/yungbote/linguabridge-backend/internal/policy"
)

func adaptivePolicy() policy.EffectivePolicy {
	pol := policy.Defaults()
	pol.Scaffolding.AdaptiveScaffolding = true
	return pol
}

func TestSelectHighMasteryAssignsMission(t *testing.T) {
	got := Select(SelectorInput{Mastery: 0.9, Frustration: 0.1, Policy: adaptivePolicy()})
	if got != ActionAssignMission {
		t.Fatalf("expected ASSIGN_MISSION, got %s", got)
	}
}

func TestSelectFrustrationWinsOverMastery(t *testing.T) {
	got := Select(SelectorInput{Mastery: 0.9, Frustration: 0.8, Policy: adaptivePolicy()})
	if got != ActionGuidedSynthesis {
		t.Fatalf("expected GUIDED_SYNTHESIS, got %s", got)
	}
}

func TestSelectLowMasteryAsksPrompt(t *testing.T) {
	got := Select(SelectorInput{Mastery: 0.2, Frustration: 0.1, Policy: adaptivePolicy()})
	if got != ActionAskPrompt {
		t.Fatalf("expected ASK_PROMPT, got %s", got)
	}
}

func TestSelectPendingQuestionCallsAgent(t *testing.T) {
	pol := adaptivePolicy()
	pol.Budgeting.Strategy = policy.StrategyLLMFirst
	got := Select(SelectorInput{Mastery: 0.5, Frustration: 0.1, PendingQuestion: true, Policy: pol})
	if got != ActionCallAgent {
		t.Fatalf("expected CALL_AGENT, got %s", got)
	}
}

func TestSelectStrategyRoutesPendingQuestion(t *testing.T) {
	cases := []struct {
		strategy policy.BudgetStrategy
		want     Action
	}{
		{policy.StrategyDeterministicFirst, ActionAskPrompt},
		{policy.StrategyLLMFirst, ActionCallAgent},
		{policy.StrategyHybrid, ActionCallAgent},
	}
	for _, tc := range cases {
		pol := adaptivePolicy()
		pol.Budgeting.Strategy = tc.strategy
		got := Select(SelectorInput{Mastery: 0.5, Frustration: 0.1, PendingQuestion: true, Policy: pol})
		if got != tc.want {
			t.Fatalf("strategy %s: expected %s, got %s", tc.strategy, tc.want, got)
		}
	}
}

func TestSelectStrategyDoesNotBiasThresholds(t *testing.T) {
	pol := adaptivePolicy()
	pol.Budgeting.Strategy = policy.StrategyLLMFirst
	if got := Select(SelectorInput{Mastery: 0.9, Frustration: 0.1, Policy: pol}); got != ActionAssignMission {
		t.Fatalf("strategy leaked into threshold rules: got %s", got)
	}
	if got := Select(SelectorInput{Mastery: 0.5, Frustration: 0.1, Policy: pol}); got != ActionNoOp {
		t.Fatalf("strategy turned a quiet turn into %s", got)
	}
}

func TestSelectMidBandNoOp(t *testing.T) {
	got := Select(SelectorInput{Mastery: 0.5, Frustration: 0.1, Policy: adaptivePolicy()})
	if got != ActionNoOp {
		t.Fatalf("expected NO_OP, got %s", got)
	}
}

func TestSelectAdaptiveOffSkipsThresholds(t *testing.T) {
	pol := adaptivePolicy()
	pol.Scaffolding.AdaptiveScaffolding = false

	if got := Select(SelectorInput{Mastery: 0.9, Frustration: 0.9, Policy: pol}); got != ActionNoOp {
		t.Fatalf("thresholds applied with adaptive off: got %s", got)
	}
	pol.Budgeting.Strategy = policy.StrategyLLMFirst
	if got := Select(SelectorInput{Mastery: 0.9, PendingQuestion: true, Policy: pol}); got != ActionCallAgent {
		t.Fatalf("pending question ignored with adaptive off: got %s", got)
	}
}

func TestSelectIsPure(t *testing.T) {
	in := SelectorInput{Mastery: 0.9, Frustration: 0.1, Policy: adaptivePolicy()}
	first := Select(in)
	for i := 0; i < 10; i++ {
		if got := Select(in); got != first {
			t.Fatalf("selection drifted on call %d: %s vs %s", i, got, first)
		}
	}
}
