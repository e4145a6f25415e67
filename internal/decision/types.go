package decision

import (
	"fmt"
	"strings"
)

// Action is the closed set of things the engine can decide to do on a turn.
type Action string

const (
	ActionNoOp               Action = "NO_OP"
	ActionAskPrompt          Action = "ASK_PROMPT"
	ActionAssignMission      Action = "ASSIGN_MISSION"
	ActionGuidedSynthesis    Action = "GUIDED_SYNTHESIS"
	ActionCallAgent          Action = "CALL_AGENT"
	ActionCallBackendExtract Action = "CALL_BACKEND_EXTRACT"
)

// ParseAction decodes a stored action string. The legacy SHOW_HINT alias is
// normalized here so only the persistence boundary ever sees it.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToUpper(strings.TrimSpace(s))) {
	case ActionNoOp:
		return ActionNoOp, nil
	case ActionAskPrompt, "SHOW_HINT":
		return ActionAskPrompt, nil
	case ActionAssignMission:
		return ActionAssignMission, nil
	case ActionGuidedSynthesis:
		return ActionGuidedSynthesis, nil
	case ActionCallAgent:
		return ActionCallAgent, nil
	case ActionCallBackendExtract:
		return ActionCallBackendExtract, nil
	default:
		return "", fmt.Errorf("unknown action %q", s)
	}
}

// CallsBackend reports whether an action consumes reasoning-backend budget.
func (a Action) CallsBackend() bool {
	return a == ActionCallAgent || a == ActionCallBackendExtract
}

// Channel records which execution path served a turn.
type Channel string

const (
	ChannelLLM           Channel = "LLM"
	ChannelDeterministic Channel = "DETERMINISTIC"
)

// SuppressReason names why the gate refused a candidate action. Multiple
// reasons can apply to one turn; all of them are recorded.
type SuppressReason string

const (
	ReasonFeatureDisabled      SuppressReason = "FEATURE_DISABLED"
	ReasonExtractionDisallowed SuppressReason = "EXTRACTION_DISALLOWED"
	ReasonInputTooLarge        SuppressReason = "INPUT_TOO_LARGE"
)
