package decision

import "testing"

func TestDegradeAgentToPrompt(t *testing.T) {
	action, ch := Degrade(ActionCallAgent)
	if action != ActionAskPrompt {
		t.Fatalf("expected ASK_PROMPT, got %s", action)
	}
	if ch != ChannelDeterministic {
		t.Fatalf("expected DETERMINISTIC channel, got %s", ch)
	}
}

func TestDegradeExtractToNoOp(t *testing.T) {
	action, _ := Degrade(ActionCallBackendExtract)
	if action != ActionNoOp {
		t.Fatalf("expected NO_OP, got %s", action)
	}
}

func TestDegradeNeverYieldsBackendAction(t *testing.T) {
	for _, in := range []Action{ActionNoOp, ActionAskPrompt, ActionAssignMission, ActionGuidedSynthesis, ActionCallAgent, ActionCallBackendExtract} {
		out, _ := Degrade(in)
		if out.CallsBackend() {
			t.Fatalf("degrade(%s) = %s still calls backend", in, out)
		}
	}
}
