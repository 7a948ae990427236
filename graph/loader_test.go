package graph

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcomply/vocabulary/aiact"
)

const sampleYAML = `
entities:
  - id: BiometricIdentification
    type: Purpose
    label: Biometric identification
    relations:
      aiact.purpose.activates_criterion: [BiometricIdentificationCriterion]
  - id: BiometricIdentificationCriterion
    type: Criterion
    relations:
      aiact.criterion.assigns_risk_level: [HighRisk]
      aiact.criterion.activates_requirement: [DataGovernanceRequirement]
facts:
  - {subject: "aiact:HighRisk", predicate: aiact.entity.label, object: "High risk"}
`

func TestLoad_YAML(t *testing.T) {
	fsys := fstest.MapFS{
		"ontology/core.yaml": {Data: []byte(sampleYAML)},
	}

	o, err := Load(fsys)
	require.NoError(t, err)

	g := New(o)
	assert.Equal(t, []string{"aiact:BiometricIdentificationCriterion"},
		g.QueryIDs("aiact:BiometricIdentification", aiact.ActivatesCriterion))
	assert.Equal(t, []string{aiact.RiskHigh},
		g.QueryIDs("aiact:BiometricIdentificationCriterion", aiact.AssignsRiskLevel))
	assert.Equal(t, []any{"High risk"}, g.Query(aiact.RiskHigh, aiact.Label))
	assert.Equal(t, []string{"aiact:BiometricIdentificationCriterion"}, g.QueryByType(aiact.ClassCriterion))
}

func TestLoad_MergesYAMLAndNTriples(t *testing.T) {
	nt := "<https://semcomply.dev/ontology/aiact#HighRisk> <https://semcomply.dev/ontology/aiact#type> <https://semcomply.dev/ontology/aiact#RiskLevel> .\n"
	fsys := fstest.MapFS{
		"a/core.yaml":    {Data: []byte(sampleYAML)},
		"b/levels.nt":    {Data: []byte(nt)},
		"b/ignored.json": {Data: []byte("{}")},
	}

	o, err := Load(fsys)
	require.NoError(t, err)
	assert.Contains(t, o.QueryByType(aiact.ClassRiskLevel), aiact.RiskHigh)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fsys     fstest.MapFS
		patterns []string
		wantPath string
		wantIs   error
	}{
		{
			name:   "no sources",
			fsys:   fstest.MapFS{"readme.md": {Data: []byte("x")}},
			wantIs: ErrNoSources,
		},
		{
			name:     "bad yaml",
			fsys:     fstest.MapFS{"bad.yaml": {Data: []byte("entities: [\n")}},
			wantPath: "bad.yaml",
		},
		{
			name:     "entity without id",
			fsys:     fstest.MapFS{"bad.yaml": {Data: []byte("entities:\n  - type: Purpose\n")}},
			wantPath: "bad.yaml",
		},
		{
			name:     "bad ntriples",
			fsys:     fstest.MapFS{"bad.nt": {Data: []byte("<a> <b> .\n")}},
			wantPath: "bad.nt",
		},
		{
			name:     "unsupported extension",
			fsys:     fstest.MapFS{"core.json": {Data: []byte("{}")}},
			patterns: []string{"*.json"},
			wantPath: "core.json",
			wantIs:   ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.fsys, tt.patterns...)
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T", err)
			assert.Equal(t, tt.wantPath, loadErr.Path)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.yaml"), []byte(sampleYAML), 0644))

	o, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Greater(t, o.Len(), 0)

	_, err = LoadDir(filepath.Join(dir, "missing"))
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestDefaultOntology(t *testing.T) {
	o, err := Default()
	require.NoError(t, err)
	g := New(o)

	assert.ElementsMatch(t,
		[]string{aiact.RiskUnacceptable, aiact.RiskHigh, aiact.RiskLimited, aiact.RiskMinimal},
		g.QueryByType(aiact.ClassRiskLevel))

	criteria := g.QueryIDs("aiact:BiometricIdentification", aiact.ActivatesCriterion)
	require.Equal(t, []string{"aiact:BiometricIdentificationCriterion"}, criteria)
	assert.Equal(t, []string{aiact.RiskHigh}, g.QueryIDs(criteria[0], aiact.AssignsRiskLevel))
	assert.Contains(t, g.QueryIDs(criteria[0], aiact.ActivatesRequirement), "aiact:DataGovernanceRequirement")

	// Every criterion or requirement referenced by a relation is declared.
	declared := map[string]bool{}
	for _, class := range []string{aiact.ClassCriterion, aiact.ClassRequirement, aiact.ClassRiskLevel} {
		for _, s := range g.QueryByType(class) {
			declared[s] = true
		}
	}
	for _, f := range o.Facts() {
		switch f.Predicate {
		case aiact.ActivatesCriterion, aiact.TriggersCriterion, aiact.RequiresDataGovernance,
			aiact.ActivatesRequirement, aiact.AssignsRiskLevel:
			assert.True(t, declared[f.Object.(string)], "undeclared target %v in %s", f.Object, f)
		}
	}
}

func TestMustDefault(t *testing.T) {
	assert.NotPanics(t, func() { MustDefault() })
}
