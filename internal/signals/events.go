package signals

// EventType names are shared with the event schema registry: a structured
// event of type T at version N validates against schema "T.vN".
type EventType string

const (
	EventMarkUnknownWord    EventType = "MARK_UNKNOWN_WORD"
	EventMarkKeyIdea        EventType = "MARK_KEY_IDEA"
	EventCheckpointResponse EventType = "CHECKPOINT_RESPONSE"
	EventProductionSubmit   EventType = "PRODUCTION_SUBMIT"
)

// Event is the uniform internal shape every learner signal is normalized
// into, whether it started as a free-text command or a structured UI event.
type Event struct {
	Type    EventType      `json:"type"`
	Version int            `json:"version"`
	Payload map[string]any `json:"payload"`
}

// ProductionMode is the closed mode enum for /production submissions.
type ProductionMode string

const (
	ProductionSpeaking ProductionMode = "SPEAKING"
	ProductionWriting  ProductionMode = "WRITING"
	ProductionDialogue ProductionMode = "DIALOGUE"
	ProductionSummary  ProductionMode = "SUMMARY"
)

func parseProductionMode(s string) (ProductionMode, bool) {
	switch ProductionMode(s) {
	case ProductionSpeaking, ProductionWriting, ProductionDialogue, ProductionSummary:
		return ProductionMode(s), true
	default:
		return "", false
	}
}
