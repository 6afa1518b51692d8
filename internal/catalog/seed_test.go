package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shaiso/routecost/internal/domain"
	"github.com/shaiso/routecost/internal/engine"
)

func TestDefault_LoadsBuiltinCatalog(t *testing.T) {
	seed, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"corte", "plasma", "soldagem_base", "acabamento"}
	got := seed.StepIDs()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected steps %v, got %v", want, got)
	}

	if len(seed.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(seed.Rules))
	}
	rule := seed.Rules[0]
	if rule.TriggerStepID != "plasma" || rule.Mounting != domain.MountingFlanged {
		t.Errorf("unexpected rule %+v", rule)
	}
	if strings.Join(rule.Implied, ",") != "soldagem_base,acabamento" {
		t.Errorf("unexpected implied steps %v", rule.Implied)
	}
}

func TestDefault_MatchesReferenceTimes(t *testing.T) {
	seed, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	catalog := engine.NewCatalog(seed.Steps)

	cases := []struct {
		step     string
		size     float64
		mounting domain.MountingType
		want     domain.TimePair
	}{
		{"corte", 5, domain.MountingFlanged, domain.TimePair{SetupMinutes: 4, OperationMinutes: 4.5}},
		{"plasma", 5, domain.MountingFlanged, domain.TimePair{SetupMinutes: 5, OperationMinutes: 7}},
		{"plasma", 2, domain.MountingEmbedded, domain.TimePair{SetupMinutes: 2, OperationMinutes: 2}},
		{"soldagem_base", 8, domain.MountingFlanged, domain.TimePair{SetupMinutes: 3, OperationMinutes: 10}},
		{"soldagem_base", 8, domain.MountingEmbedded, domain.TimePair{}},
		{"acabamento", 0, domain.MountingEmbedded, domain.TimePair{SetupMinutes: 5, OperationMinutes: 5}},
	}

	for _, c := range cases {
		step, ok := catalog.Find(c.step)
		if !ok {
			t.Fatalf("step %s missing", c.step)
		}
		got, _ := engine.Resolve(step, c.size, c.mounting)
		if got != c.want {
			t.Errorf("%s size %v %s: expected %+v, got %+v", c.step, c.size, c.mounting, c.want, got)
		}
	}

	acabamento, _ := catalog.Find("acabamento")
	if !acabamento.JointOperation {
		t.Error("acabamento should be a joint operation")
	}
}

func TestLoad_NormalizesRuleMounting(t *testing.T) {
	doc := `
steps:
  - id: corte
    name: Corte
    sector: Serralheria
    profile:
      kind: fixed
      fixed: {setup: 1, operation: 2}
rules:
  - trigger: corte
    mounting: flang
    implied: [corte]
`
	seed, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seed.Rules[0].Mounting != domain.MountingFlanged {
		t.Errorf("expected flanged, got %q", seed.Rules[0].Mounting)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown field": `
steps:
  - id: corte
    name: Corte
    sector: S
    colour: red
    profile: {kind: fixed, fixed: {setup: 1, operation: 1}}
`,
		"invalid profile": `
steps:
  - id: corte
    name: Corte
    sector: S
    profile: {kind: size_tiered}
`,
		"duplicate id": `
steps:
  - {id: a, name: A, sector: S, profile: {kind: fixed, fixed: {setup: 1, operation: 1}}}
  - {id: a, name: B, sector: S, profile: {kind: fixed, fixed: {setup: 1, operation: 1}}}
`,
		"rule without implied": `
rules:
  - trigger: plasma
`,
		"rule with bad mounting": `
rules:
  - {trigger: plasma, mounting: welded, implied: [a]}
`,
	}

	for name, doc := range cases {
		if _, err := Load(strings.NewReader(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	if _, err := Load(strings.NewReader("")); !errors.Is(err, ErrEmptySeed) {
		t.Errorf("expected ErrEmptySeed, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, defaultCatalog, 0o644); err != nil {
		t.Fatal(err)
	}

	seed, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seed.Steps) != 4 {
		t.Errorf("expected 4 steps, got %d", len(seed.Steps))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
