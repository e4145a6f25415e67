package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func writeSchema(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write schema %s: %v", name, err)
	}
}

const markUnknownSchema = `{
	"type": "object",
	"properties": {
		"word": {"type": "string", "minLength": 1},
		"language": {"type": "string"}
	},
	"required": ["word"],
	"additionalProperties": false
}`

func TestLoad_IndexesByTypeAndVersion(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "MARK_UNKNOWN_WORD.v1.json", markUnknownSchema)
	writeSchema(t, dir, "MARK_UNKNOWN_WORD.v2.json", markUnknownSchema)
	writeSchema(t, dir, "MARK_KEY_IDEA.v1.json", `{"type":"object","properties":{"excerpt":{"type":"string"}},"required":["excerpt"]}`)
	writeSchema(t, dir, "README.md", "not a schema")

	reg, err := Load(dir, testLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if v, ok := reg.LatestVersion("MARK_UNKNOWN_WORD"); !ok || v != 2 {
		t.Fatalf("LatestVersion: expected 2, got %d (ok=%v)", v, ok)
	}
	if v, ok := reg.LatestVersion("MARK_KEY_IDEA"); !ok || v != 1 {
		t.Fatalf("LatestVersion: expected 1, got %d (ok=%v)", v, ok)
	}
	if _, ok := reg.LatestVersion("NOPE"); ok {
		t.Fatalf("LatestVersion: expected miss for unknown type")
	}
}

func TestLoad_FailsOnMissingOrEmptyDir(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing"), testLogger(t)); err == nil {
		t.Fatalf("expected error for missing dir")
	}
	if _, err := Load(t.TempDir(), testLogger(t)); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestLoad_RejectsUnsupportedSchemaConstructs(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "X.v1.json", `{"type":"object","properties":{"a":{"oneOf":[{"type":"string"}]}}}`)
	if _, err := Load(dir, testLogger(t)); err == nil {
		t.Fatalf("expected lint error for oneOf")
	}
}

func TestValidate_MissingSchemaIsHardError(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "MARK_UNKNOWN_WORD.v1.json", markUnknownSchema)
	reg, err := Load(dir, testLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	err = reg.Validate("MARK_UNKNOWN_WORD", 3, map[string]any{"word": "x"})
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Fatalf("expected ErrSchemaNotFound, got %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "MARK_UNKNOWN_WORD.v1.json", markUnknownSchema)
	reg, err := Load(dir, testLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	err = reg.Validate("MARK_UNKNOWN_WORD", 1, map[string]any{
		"language": 42,
		"extra":    true,
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	// Missing required "word", wrong-typed "language", unexpected "extra".
	if len(verr.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %d: %v", len(verr.Problems), verr.Problems)
	}
}

func TestValidate_AcceptsValidPayload(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "PRODUCTION_SUBMIT.v1.json", `{
		"type": "object",
		"properties": {
			"mode": {"enum": ["SPEAKING", "WRITING", "DIALOGUE", "SUMMARY"]},
			"text": {"type": "string", "minLength": 1}
		},
		"required": ["mode", "text"],
		"additionalProperties": false
	}`)
	reg, err := Load(dir, testLogger(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := reg.Validate("PRODUCTION_SUBMIT", 1, map[string]any{
		"mode": "WRITING",
		"text": "uma frase",
	}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := reg.Validate("PRODUCTION_SUBMIT", 1, map[string]any{
		"mode": "SINGING",
		"text": "x",
	}); err == nil {
		t.Fatalf("expected enum rejection")
	}
}
