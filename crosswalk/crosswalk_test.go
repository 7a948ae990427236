package crosswalk

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingResolver struct {
	id    string
	err   error
	panic bool
}

func (f *failingResolver) ID() string { return f.id }

func (f *failingResolver) Resolve(string) ([]Mapping, error) {
	if f.panic {
		panic("table corrupted")
	}
	return nil, f.err
}

func testFramework() *Framework {
	f := &Framework{
		FrameworkID: "fw",
		Name:        "Test framework",
		Controls: map[string][]Mapping{
			"HumanOversightRequirement": {{TargetControlID: "C-1", Section: "Oversight", Confidence: 0.9}},
		},
	}
	if err := f.Validate(); err != nil {
		panic(err)
	}
	return f
}

func TestFramework_Resolve(t *testing.T) {
	f := testFramework()

	mappings, err := f.Resolve("aiact:HumanOversightRequirement")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "fw", mappings[0].FrameworkID)
	assert.Equal(t, "C-1", mappings[0].TargetControlID)

	mappings, err = f.Resolve("HumanOversightRequirement")
	require.NoError(t, err)
	assert.Len(t, mappings, 1, "bare names are qualified")

	mappings, err = f.Resolve("aiact:Unknown")
	require.NoError(t, err)
	assert.Empty(t, mappings)
}

func TestFramework_Validate(t *testing.T) {
	assert.Error(t, (&Framework{}).Validate())
	assert.Error(t, (&Framework{FrameworkID: "x", Controls: map[string][]Mapping{"R": {{Confidence: 0.5}}}}).Validate())
	assert.Error(t, (&Framework{FrameworkID: "x", Controls: map[string][]Mapping{"R": {{TargetControlID: "c", Confidence: 1.5}}}}).Validate())
}

func TestRegistry_FailureIsolation(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	r := NewRegistry(logger,
		&failingResolver{id: "broken", err: errors.New("table unavailable")},
		testFramework(),
		&failingResolver{id: "panicky", panic: true},
	)
	assert.Equal(t, []string{"broken", "fw", "panicky"}, r.Frameworks())

	res := r.Map([]string{"aiact:HumanOversightRequirement", "aiact:Unmapped"})

	assert.Equal(t, []string{"broken", "panicky"}, res.Failed)
	require.Len(t, res.Mappings["aiact:HumanOversightRequirement"], 1)
	assert.Equal(t, "fw", res.Mappings["aiact:HumanOversightRequirement"][0].FrameworkID)
	assert.NotContains(t, res.Mappings, "aiact:Unmapped")

	assert.Contains(t, logs.String(), "framework=broken")
	assert.Contains(t, logs.String(), "framework=panicky")
}

func TestRegistry_Empty(t *testing.T) {
	res := NewRegistry(nil).Map([]string{"aiact:X"})
	assert.Empty(t, res.Mappings)
	assert.Empty(t, res.Failed)
}

func TestDefault(t *testing.T) {
	r, err := Default(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"iso-42001", "nist-ai-rmf"}, r.Frameworks())

	res := r.Map([]string{"aiact:HumanOversightRequirement", "aiact:DataGovernanceRequirement"})
	assert.Empty(t, res.Failed)

	frameworks := map[string]bool{}
	for _, m := range res.Mappings["aiact:HumanOversightRequirement"] {
		frameworks[m.FrameworkID] = true
		assert.NotEmpty(t, m.TargetControlID)
		assert.Greater(t, m.Confidence, 0.0)
	}
	assert.True(t, frameworks["iso-42001"])
	assert.True(t, frameworks["nist-ai-rmf"])
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(fstest.MapFS{}, nil)
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = Load(fstest.MapFS{"a.yaml": {Data: []byte("id: [")}}, nil)
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "a.yaml", loadErr.Path)

	dup := fstest.MapFS{
		"a.yaml": {Data: []byte("id: x\n")},
		"b.yaml": {Data: []byte("id: x\n")},
	}
	_, err = Load(dup, nil)
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "b.yaml", loadErr.Path)
}
