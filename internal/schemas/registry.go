package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
)

// ErrSchemaNotFound means an event referenced a type/version pair that was
// not loaded at startup. Callers must treat this as a validation failure for
// that event; payloads are never accepted unvalidated.
var ErrSchemaNotFound = errors.New("event schema not found")

var schemaFileRe = regexp.MustCompile(`^([A-Za-z0-9_]+)\.v([0-9]+)\.json$`)

// Registry holds every event schema loaded from the schema directory. It is
// built once at startup and read-only afterwards; inject it, don't stash it
// in a package global.
type Registry struct {
	log    *logger.Logger
	byKey  map[string]map[string]any
	latest map[string]int
}

// Load reads every `<type>.v<n>.json` file in dir. A missing or empty
// directory is a configuration error: the process must not serve traffic
// without its schemas.
func Load(dir string, baseLog *logger.Logger) (*Registry, error) {
	log := baseLog.With("component", "SchemaRegistry")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir %s: %w", dir, err)
	}

	reg := &Registry{
		log:    log,
		byKey:  map[string]map[string]any{},
		latest: map[string]int{},
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := schemaFileRe.FindStringSubmatch(entry.Name())
		if m == nil {
			log.Debug("Skipping non-schema file", "file", entry.Name())
			continue
		}
		eventType := m[1]
		version, err := strconv.Atoi(m[2])
		if err != nil || version < 1 {
			return nil, fmt.Errorf("schema %s: bad version suffix", entry.Name())
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", entry.Name(), err)
		}
		var schema map[string]any
		if err := json.Unmarshal(raw, &schema); err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", entry.Name(), err)
		}
		if err := lintSchema(entry.Name(), schema); err != nil {
			return nil, fmt.Errorf("lint schema %s: %w", entry.Name(), err)
		}

		key := Key(eventType, version)
		if _, ok := reg.byKey[key]; ok {
			return nil, fmt.Errorf("duplicate schema %s", key)
		}
		reg.byKey[key] = schema
		if version > reg.latest[eventType] {
			reg.latest[eventType] = version
		}
	}

	if len(reg.byKey) == 0 {
		return nil, fmt.Errorf("schema dir %s contains no schemas", dir)
	}

	log.Info("Loaded event schemas", "count", len(reg.byKey), "types", len(reg.latest))
	return reg, nil
}

func Key(eventType string, version int) string {
	return fmt.Sprintf("%s.v%d", strings.TrimSpace(eventType), version)
}

// LatestVersion reports the highest loaded version for a type.
func (r *Registry) LatestVersion(eventType string) (int, bool) {
	v, ok := r.latest[eventType]
	return v, ok
}

// Validate checks a payload against the exact type.vN schema. A missing
// schema is a hard error (ErrSchemaNotFound), not a silent accept.
func (r *Registry) Validate(eventType string, version int, payload map[string]any) error {
	schema, ok := r.byKey[Key(eventType, version)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSchemaNotFound, Key(eventType, version))
	}
	errs := validateNode(schema, payload, "$")
	if len(errs) > 0 {
		return &ValidationError{Key: Key(eventType, version), Problems: errs}
	}
	return nil
}

// ValidationError collects every problem found, not just the first.
type ValidationError struct {
	Key      string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payload invalid against %s: %s", e.Key, strings.Join(e.Problems, "; "))
}

// lintSchema enforces the subset validateNode understands, so a bad schema
// fails at startup rather than silently passing payloads at runtime.
func lintSchema(name string, schema map[string]any) error {
	if schema == nil {
		return fmt.Errorf("schema is nil")
	}
	t, _ := schema["type"].(string)
	if t != "object" {
		return fmt.Errorf("top-level type must be \"object\", got %q", t)
	}
	return lintNode(schema, name)
}

func lintNode(node any, path string) error {
	m, ok := node.(map[string]any)
	if !ok || m == nil {
		return nil
	}
	for _, key := range []string{"oneOf", "anyOf", "allOf", "$ref"} {
		if _, ok := m[key]; ok {
			return fmt.Errorf("%s: %s is not supported", path, key)
		}
	}
	if items, ok := m["items"]; ok {
		if err := lintNode(items, path+".items"); err != nil {
			return err
		}
	}
	if propsAny, ok := m["properties"]; ok {
		props, ok := propsAny.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: properties must be an object", path)
		}
		for k, v := range props {
			if err := lintNode(v, path+"."+k); err != nil {
				return err
			}
		}
	}
	return nil
}
