package decision

import (
	"testing"

	"github.com/yungbote/linguabridge-backend/internal/policy"
)

func gatePolicy(features ...string) policy.EffectivePolicy {
	pol := policy.Defaults()
	for _, f := range features {
		pol.Features[f] = true
	}
	return pol
}

func TestGatePassesEnabledFeature(t *testing.T) {
	res := Gate(GateInput{
		Candidate: ActionAssignMission,
		Policy:    gatePolicy(policy.FeatureMissions),
	})
	if res.Suppressed {
		t.Fatalf("unexpected suppression: %v", res.Reasons)
	}
	if res.Final != ActionAssignMission {
		t.Fatalf("expected ASSIGN_MISSION, got %s", res.Final)
	}
}

func TestGateSuppressesDisabledFeature(t *testing.T) {
	res := Gate(GateInput{
		Candidate: ActionAssignMission,
		Policy:    gatePolicy(),
	})
	if !res.Suppressed {
		t.Fatal("expected suppression")
	}
	if res.Final != ActionNoOp {
		t.Fatalf("expected NO_OP fallback, got %s", res.Final)
	}
	if len(res.Reasons) != 1 || res.Reasons[0] != ReasonFeatureDisabled {
		t.Fatalf("unexpected reasons: %v", res.Reasons)
	}
}

func TestGateAgentFallsBackToPrompt(t *testing.T) {
	res := Gate(GateInput{
		Candidate: ActionCallAgent,
		Policy:    gatePolicy(),
	})
	if !res.Suppressed {
		t.Fatal("expected suppression")
	}
	if res.Final != ActionAskPrompt {
		t.Fatalf("expected ASK_PROMPT fallback, got %s", res.Final)
	}
}

func TestGateOcrDisallowed(t *testing.T) {
	pol := gatePolicy(policy.FeatureAgent)
	pol.Extraction.AllowTextExtraction = true
	pol.Extraction.AllowOcr = false

	res := Gate(GateInput{
		Candidate:       ActionCallBackendExtract,
		Policy:          pol,
		NeedsExtraction: true,
		ImageSource:     true,
	})
	if !res.Suppressed {
		t.Fatal("expected suppression")
	}
	if res.Final != ActionNoOp {
		t.Fatalf("expected NO_OP, got %s", res.Final)
	}
	found := false
	for _, r := range res.Reasons {
		if r == ReasonExtractionDisallowed {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing EXTRACTION_DISALLOWED in %v", res.Reasons)
	}
}

func TestGateTextExtractionAllowedByDefault(t *testing.T) {
	res := Gate(GateInput{
		Candidate:       ActionCallBackendExtract,
		Policy:          gatePolicy(policy.FeatureAgent),
		NeedsExtraction: true,
	})
	if res.Suppressed {
		t.Fatalf("unexpected suppression: %v", res.Reasons)
	}
}

func TestGateCollectsAllReasons(t *testing.T) {
	pol := gatePolicy()
	pol.Extraction.AllowTextExtraction = false
	pol.Limits.MaxSelectedTextChars = 10

	res := Gate(GateInput{
		Candidate:         ActionCallBackendExtract,
		Policy:            pol,
		NeedsExtraction:   true,
		SelectedTextChars: 50,
	})
	if !res.Suppressed {
		t.Fatal("expected suppression")
	}
	if len(res.Reasons) != 3 {
		t.Fatalf("expected all 3 reasons, got %v", res.Reasons)
	}
	want := []SuppressReason{ReasonFeatureDisabled, ReasonExtractionDisallowed, ReasonInputTooLarge}
	for i, r := range want {
		if res.Reasons[i] != r {
			t.Fatalf("reason %d: expected %s, got %s", i, r, res.Reasons[i])
		}
	}
}

func TestGateZeroLimitMeansUnlimited(t *testing.T) {
	pol := gatePolicy(policy.FeatureMissions)
	pol.Limits.MaxSelectedTextChars = 0

	res := Gate(GateInput{
		Candidate:         ActionAssignMission,
		Policy:            pol,
		SelectedTextChars: 1 << 20,
	})
	if res.Suppressed {
		t.Fatalf("unexpected suppression: %v", res.Reasons)
	}
}

func TestGateNeverSuppressesToBackendAction(t *testing.T) {
	for _, candidate := range []Action{ActionAssignMission, ActionGuidedSynthesis, ActionCallAgent, ActionCallBackendExtract} {
		res := Gate(GateInput{Candidate: candidate, Policy: gatePolicy()})
		if !res.Suppressed {
			t.Fatalf("%s: expected suppression under empty feature set", candidate)
		}
		if res.Final.CallsBackend() {
			t.Fatalf("%s: suppressed turn resolved to backend action %s", candidate, res.Final)
		}
	}
}
