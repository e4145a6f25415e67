package decision

// Degrade rewrites a backend-calling action into the cheapest deterministic
// action serving the same pedagogical intent, for when budget or cooldown
// forbids the call. Degradation is not suppression: the policy allowed the
// action, resources didn't. It never fails; the turn always completes.
func Degrade(action Action) (Action, Channel) {
	switch action {
	case ActionCallAgent:
		return ActionAskPrompt, ChannelDeterministic
	case ActionCallBackendExtract:
		// Extraction has no deterministic substitute.
		return ActionNoOp, ChannelDeterministic
	default:
		return action, ChannelDeterministic
	}
}
