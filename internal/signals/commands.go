package signals

import "strings"

const (
	markUnknownPrefix = "/mark unknown:"
	keyIdeaPrefix     = "/keyidea:"
	checkpointPrefix  = "/checkpoint:"
	productionPrefix  = "/production"
)

// ParseCommand matches free text against the quick-command grammar and
// returns the derived events. Text that matches nothing returns nil: this
// runs on every submission, so unrecognized input is ordinary conversation,
// never an error.
func ParseCommand(text, tenantLanguage string) []Event {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !strings.HasPrefix(trimmed, "/") {
		return nil
	}
	lower := strings.ToLower(trimmed)

	switch {
	case strings.HasPrefix(lower, markUnknownPrefix):
		return parseMarkUnknown(trimmed[len(markUnknownPrefix):], tenantLanguage)
	case strings.HasPrefix(lower, keyIdeaPrefix):
		return parseExcerptCommand(EventMarkKeyIdea, "excerpt", trimmed[len(keyIdeaPrefix):])
	case strings.HasPrefix(lower, checkpointPrefix):
		return parseExcerptCommand(EventCheckpointResponse, "response", trimmed[len(checkpointPrefix):])
	case strings.HasPrefix(lower, productionPrefix):
		return parseProduction(trimmed[len(productionPrefix):])
	default:
		return nil
	}
}

func parseMarkUnknown(rest, tenantLanguage string) []Event {
	var events []Event
	for _, raw := range strings.Split(rest, ",") {
		word := strings.TrimSpace(raw)
		if word == "" {
			continue
		}
		events = append(events, Event{
			Type:    EventMarkUnknownWord,
			Version: 1,
			Payload: map[string]any{
				"word":     word,
				"language": InferLanguage(word, tenantLanguage),
			},
		})
	}
	return events
}

func parseExcerptCommand(typ EventType, field, rest string) []Event {
	body := strings.TrimSpace(rest)
	if body == "" {
		return nil
	}
	return []Event{{
		Type:    typ,
		Version: 1,
		Payload: map[string]any{field: body},
	}}
}

// parseProduction handles "/production <MODE>: <text>". An unknown mode is
// treated like any other unrecognized input.
func parseProduction(rest string) []Event {
	rest = strings.TrimSpace(rest)
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return nil
	}
	mode, ok := parseProductionMode(strings.ToUpper(strings.TrimSpace(rest[:colon])))
	if !ok {
		return nil
	}
	body := strings.TrimSpace(rest[colon+1:])
	if body == "" {
		return nil
	}
	return []Event{{
		Type:    EventProductionSubmit,
		Version: 1,
		Payload: map[string]any{
			"mode": string(mode),
			"text": body,
		},
	}}
}
