package policy

import (
	"bytes"
	"testing"
)

func TestResolve_EmptyInputsYieldDefaults(t *testing.T) {
	got := Resolve(nil, nil, nil, ScopeDefault)
	want := Defaults()

	if got.Budgeting.Strategy != want.Budgeting.Strategy {
		t.Fatalf("expected strategy %q, got %q", want.Budgeting.Strategy, got.Budgeting.Strategy)
	}
	if got.Budgeting.MaxCallsPerSession != 0 {
		t.Fatalf("expected zero-call default budget, got %d", got.Budgeting.MaxCallsPerSession)
	}
	if !got.Extraction.AllowTextExtraction || got.Extraction.AllowOcr {
		t.Fatalf("expected text-only extraction default, got %+v", got.Extraction)
	}
	if got.Features.Enabled(FeatureAgent) {
		t.Fatalf("expected all features off by default")
	}
	if got.Scaffolding.Thresholds.MasteryHigh != 0.8 {
		t.Fatalf("expected masteryHigh default 0.8, got %v", got.Scaffolding.Thresholds.MasteryHigh)
	}
}

func TestResolve_NarrowerScopeWinsPerSection(t *testing.T) {
	global := &Doc{
		Features:  &FeatureSet{FeatureGames: true, FeatureAgent: true},
		Budgeting: &Budgeting{Strategy: StrategyHybrid, MaxCallsPerSession: 10},
	}
	institution := &Doc{
		Features: &FeatureSet{FeatureMissions: true},
	}
	user := &Doc{
		Budgeting: &Budgeting{Strategy: StrategyLLMFirst, MaxCallsPerSession: 3},
	}

	got := Resolve(global, institution, user, ScopeDefault)

	// The institution features section replaces the global one wholesale:
	// games/agent from global must not leak through.
	if got.Features.Enabled(FeatureGames) || got.Features.Enabled(FeatureAgent) {
		t.Fatalf("expected global features replaced by institution section, got %v", got.Features)
	}
	if !got.Features.Enabled(FeatureMissions) {
		t.Fatalf("expected institution missions gate enabled")
	}
	if got.Budgeting.Strategy != StrategyLLMFirst || got.Budgeting.MaxCallsPerSession != 3 {
		t.Fatalf("expected user budgeting section to win, got %+v", got.Budgeting)
	}
	// Sections no scope set fall back to defaults.
	if got.Limits.MaxSelectedTextChars != 2000 {
		t.Fatalf("expected default limits, got %+v", got.Limits)
	}
}

func TestResolve_ScopeOverrideStopsEarly(t *testing.T) {
	global := &Doc{Budgeting: &Budgeting{Strategy: StrategyDeterministicFirst, MaxCallsPerSession: 1}}
	user := &Doc{Budgeting: &Budgeting{Strategy: StrategyLLMFirst, MaxCallsPerSession: 9}}

	got := Resolve(global, nil, user, ScopeGlobalOnly)
	if got.Budgeting.MaxCallsPerSession != 1 {
		t.Fatalf("expected user overrides ignored under global-only scope, got %+v", got.Budgeting)
	}
}

func TestResolve_DeterministicSnapshot(t *testing.T) {
	global := &Doc{
		Features: &FeatureSet{FeatureAgent: true, FeatureGames: false, FeaturePKM: true},
		Limits:   &Limits{MaxSelectedTextChars: 512},
	}
	user := &Doc{
		Scaffolding: &Scaffolding{
			Thresholds:          Thresholds{MasteryHigh: 0.9, MasteryLow: 0.3, FrustrationHigh: 0.6},
			AdaptiveScaffolding: false,
		},
	}

	a := Resolve(global, nil, user, ScopeDefault).Snapshot()
	b := Resolve(global, nil, user, ScopeDefault).Snapshot()
	if !bytes.Equal(a, b) {
		t.Fatalf("expected byte-identical snapshots, got\n%s\n%s", a, b)
	}
}

func TestResolve_DoesNotAliasInputFeatureSet(t *testing.T) {
	fs := FeatureSet{FeatureAgent: true}
	doc := &Doc{Features: &fs}

	got := Resolve(doc, nil, nil, ScopeDefault)
	fs[FeatureAgent] = false

	if !got.Features.Enabled(FeatureAgent) {
		t.Fatalf("resolved policy must not alias the input document's feature map")
	}
}

func TestResolve_NormalizesStrategyAndClampsBudget(t *testing.T) {
	doc := &Doc{Budgeting: &Budgeting{Strategy: "llm_first", MaxCallsPerSession: -4}}
	got := Resolve(doc, nil, nil, ScopeDefault)
	if got.Budgeting.Strategy != StrategyLLMFirst {
		t.Fatalf("expected case-insensitive strategy normalization, got %q", got.Budgeting.Strategy)
	}
	if got.Budgeting.MaxCallsPerSession != 0 {
		t.Fatalf("expected negative budget clamped to 0, got %d", got.Budgeting.MaxCallsPerSession)
	}
}

func TestParseDoc_UnknownKeysIgnored(t *testing.T) {
	doc, err := ParseDoc([]byte(`{"features":{"agent":true},"someFutureSection":{"x":1}}`))
	if err != nil {
		t.Fatalf("ParseDoc: %v", err)
	}
	if doc == nil || doc.Features == nil || !(*doc.Features)[FeatureAgent] {
		t.Fatalf("expected features parsed, got %+v", doc)
	}
}
