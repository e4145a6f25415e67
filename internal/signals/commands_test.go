package signals

import "testing"

func TestParseCommand_MarkUnknownWords(t *testing.T) {
	events := ParseCommand("/mark unknown: gato, dog", "en")
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for _, e := range events {
		if e.Type != EventMarkUnknownWord {
			t.Fatalf("expected MARK_UNKNOWN_WORD, got %s", e.Type)
		}
	}
	if events[0].Payload["word"] != "gato" || events[0].Payload["language"] != "pt" {
		t.Fatalf("expected gato/pt, got %v", events[0].Payload)
	}
	if events[1].Payload["word"] != "dog" || events[1].Payload["language"] != "en" {
		t.Fatalf("expected dog/en, got %v", events[1].Payload)
	}
}

func TestParseCommand_MarkUnknownSkipsEmptyEntries(t *testing.T) {
	events := ParseCommand("/mark unknown: , gato, ,", "pt")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Payload["word"] != "gato" {
		t.Fatalf("expected gato, got %v", events[0].Payload["word"])
	}
}

func TestParseCommand_KeyIdea(t *testing.T) {
	events := ParseCommand("/keyidea: foo", "en")
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != EventMarkKeyIdea {
		t.Fatalf("expected MARK_KEY_IDEA, got %s", events[0].Type)
	}
	if events[0].Payload["excerpt"] != "foo" {
		t.Fatalf("expected excerpt foo, got %v", events[0].Payload)
	}
}

func TestParseCommand_Checkpoint(t *testing.T) {
	events := ParseCommand("/checkpoint: the main idea is recursion", "en")
	if len(events) != 1 || events[0].Type != EventCheckpointResponse {
		t.Fatalf("expected 1 CHECKPOINT_RESPONSE, got %v", events)
	}
	if events[0].Payload["response"] != "the main idea is recursion" {
		t.Fatalf("unexpected payload: %v", events[0].Payload)
	}
}

func TestParseCommand_Production(t *testing.T) {
	events := ParseCommand("/production WRITING: ontem eu fui ao mercado", "pt")
	if len(events) != 1 || events[0].Type != EventProductionSubmit {
		t.Fatalf("expected 1 PRODUCTION_SUBMIT, got %v", events)
	}
	if events[0].Payload["mode"] != "WRITING" {
		t.Fatalf("expected WRITING mode, got %v", events[0].Payload["mode"])
	}

	if got := ParseCommand("/production writing: lowercase mode still works", "en"); len(got) != 1 {
		t.Fatalf("expected mode parsing to be case-insensitive, got %v", got)
	}
}

func TestParseCommand_UnrecognizedTextYieldsNothing(t *testing.T) {
	for _, text := range []string{
		"",
		"   ",
		"just a normal sentence",
		"what does gato mean?",
		"/unknowncommand: hello",
		"/production SINGING: not a mode",
		"/production no colon here",
		"/keyidea:",
		"/mark unknown:",
	} {
		if events := ParseCommand(text, "en"); len(events) != 0 {
			t.Fatalf("expected no events for %q, got %v", text, events)
		}
	}
}

func TestInferLanguage_ScriptDetection(t *testing.T) {
	for word, want := range map[string]string{
		"猫":      "zh",
		"ねこ":     "ja",
		"고양이":    "ko",
		"кошка":  "ru",
		"قطة":    "ar",
		"חתול":   "he",
		"बिल्ली": "hi",
		"γάτα":   "el",
	} {
		if got := InferLanguage(word, "en"); got != want {
			t.Fatalf("InferLanguage(%q): expected %s, got %s", word, want, got)
		}
	}
}

func TestInferLanguage_FallsBackToTenantLanguage(t *testing.T) {
	if got := InferLanguage("zxqv", "de"); got != "de" {
		t.Fatalf("expected tenant fallback de, got %s", got)
	}
	if got := InferLanguage("zxqv", ""); got != "en" {
		t.Fatalf("expected en fallback for empty tenant language, got %s", got)
	}
}

func TestInferLanguage_Diacritics(t *testing.T) {
	if got := InferLanguage("coração", "en"); got != "pt" {
		t.Fatalf("expected pt for coração, got %s", got)
	}
	if got := InferLanguage("mañana", "en"); got != "es" {
		t.Fatalf("expected es for mañana, got %s", got)
	}
}
