package policy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ScopeOverride lets a caller pin resolution at a wider scope, e.g. to
// preview what a session would get without its user-level overrides.
type ScopeOverride string

const (
	ScopeDefault         ScopeOverride = ""
	ScopeGlobalOnly      ScopeOverride = "global"
	ScopeInstitutionOnly ScopeOverride = "institution"
)

// Resolve merges up to three scoped documents into one complete policy.
// It is pure and total: nil documents and empty documents are valid, and
// every field of the result is populated from the narrowest scope that set
// it, falling back to Defaults. Resolving the same inputs always yields an
// identical value (and therefore a byte-identical Snapshot).
func Resolve(global, institution, user *Doc, scope ScopeOverride) EffectivePolicy {
	out := Defaults()

	apply(&out, global)
	if scope == ScopeGlobalOnly {
		return out
	}
	apply(&out, institution)
	if scope == ScopeInstitutionOnly {
		return out
	}
	apply(&out, user)
	return out
}

// apply copies each section the doc sets over the accumulated policy.
// Sections replace wholesale; there is no per-key merge inside a section.
func apply(out *EffectivePolicy, doc *Doc) {
	if doc == nil {
		return
	}
	if doc.Features != nil {
		fs := make(FeatureSet, len(*doc.Features))
		for k, v := range *doc.Features {
			fs[k] = v
		}
		out.Features = fs
	}
	if doc.Extraction != nil {
		out.Extraction = *doc.Extraction
	}
	if doc.Scaffolding != nil {
		out.Scaffolding = *doc.Scaffolding
	}
	if doc.Budgeting != nil {
		b := *doc.Budgeting
		b.Strategy = normalizeStrategy(b.Strategy)
		if b.MaxCallsPerSession < 0 {
			b.MaxCallsPerSession = 0
		}
		out.Budgeting = b
	}
	if doc.Limits != nil {
		l := *doc.Limits
		if l.MaxSelectedTextChars < 0 {
			l.MaxSelectedTextChars = 0
		}
		out.Limits = l
	}
}

func normalizeStrategy(s BudgetStrategy) BudgetStrategy {
	switch BudgetStrategy(strings.ToUpper(strings.TrimSpace(string(s)))) {
	case StrategyLLMFirst:
		return StrategyLLMFirst
	case StrategyHybrid:
		return StrategyHybrid
	default:
		return StrategyDeterministicFirst
	}
}

// ParseDoc decodes a stored policy document. Unknown keys are ignored so
// older engine builds keep working against newer admin writes.
func ParseDoc(raw []byte) (*Doc, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc Doc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse policy doc: %w", err)
	}
	return &doc, nil
}
