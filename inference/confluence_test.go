package inference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcomply/rules"
	"github.com/c360studio/semcomply/vocabulary/aiact"
)

var submissions = map[string]map[string][]any{
	"foundation": foundationModel(),
	"emotion-at-work": {
		aiact.SystemPurpose:           {"aiact:EmotionRecognition"},
		aiact.SystemDeploymentContext: {"aiact:Workplace", "aiact:RealTimeProcessing"},
		aiact.SystemAutonomyLevel:     {"full"},
	},
	"realtime-biometric": {
		aiact.SystemPurpose:           {"aiact:BiometricIdentification"},
		aiact.SystemDeploymentContext: {"aiact:PublicSpaces", "aiact:LawEnforcement"},
		aiact.SystemModality:          {"aiact:Video"},
	},
	"generator": {
		aiact.SystemPurpose:             {"aiact:ContentGeneration", "aiact:ConversationalAgent"},
		aiact.SystemModality:            {"aiact:Image", "aiact:Text"},
		aiact.SystemGenerallyApplicable: {true},
		aiact.SystemModelScale:          {aiact.FoundationModelScale},
	},
	"empty": {},
}

func reversed(t *testing.T, c *rules.Catalog) *rules.Catalog {
	t.Helper()
	all := c.All()
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	out, err := rules.NewCatalog(all, quietLogger())
	require.NoError(t, err)
	return out
}

func TestRun_Confluence(t *testing.T) {
	forward := defaultCatalog(t)
	backward := reversed(t, forward)

	for name, attrs := range submissions {
		t.Run(name, func(t *testing.T) {
			g1 := newSystem(t, "aiact:sys", attrs)
			g2 := newSystem(t, "aiact:sys", attrs)

			r1, err := New(Options{MaxIterations: 20, Logger: quietLogger()}).Run(context.Background(), g1, forward)
			require.NoError(t, err)
			r2, err := New(Options{MaxIterations: 20, Logger: quietLogger()}).Run(context.Background(), g2, backward)
			require.NoError(t, err)

			assert.True(t, r1.Converged)
			assert.True(t, r2.Converged)
			assert.ElementsMatch(t, g1.LocalFacts(), g2.LocalFacts())
		})
	}
}

func TestRun_IncrementalMatchesNaive(t *testing.T) {
	catalogs := map[string]*rules.Catalog{
		"default":  defaultCatalog(t),
		"reversed": reversed(t, defaultCatalog(t)),
	}

	for cname, c := range catalogs {
		for name, attrs := range submissions {
			t.Run(cname+"/"+name, func(t *testing.T) {
				naiveGraph := newSystem(t, "aiact:sys", attrs)
				incGraph := newSystem(t, "aiact:sys", attrs)
				seed(naiveGraph, "aiact:other", foundationModel())
				seed(incGraph, "aiact:other", foundationModel())

				naive, err := New(Options{Logger: quietLogger()}).Run(context.Background(), naiveGraph, c)
				require.NoError(t, err)
				inc, err := New(Options{Incremental: true, Logger: quietLogger()}).Run(context.Background(), incGraph, c)
				require.NoError(t, err)

				assert.Equal(t, naiveGraph.LocalFacts(), incGraph.LocalFacts(), "same facts in the same order")
				assert.Equal(t, naive.Iterations, inc.Iterations)
				assert.Equal(t, naive.Converged, inc.Converged)
				assert.Equal(t, naive.NewFacts, inc.NewFacts)
				assert.LessOrEqual(t, inc.Evaluations, naive.Evaluations)
			})
		}
	}
}

func TestRun_IncrementalSkipsUnchangedRules(t *testing.T) {
	c := chainCatalog(t, 8)

	naiveGraph := newSystem(t, "aiact:sys", map[string][]any{"chain.step.0": {true}})
	incGraph := newSystem(t, "aiact:sys", map[string][]any{"chain.step.0": {true}})

	naive, err := New(Options{MaxIterations: 20, Logger: quietLogger()}).Run(context.Background(), naiveGraph, c)
	require.NoError(t, err)
	inc, err := New(Options{MaxIterations: 20, Incremental: true, Logger: quietLogger()}).Run(context.Background(), incGraph, c)
	require.NoError(t, err)

	assert.Equal(t, naiveGraph.LocalFacts(), incGraph.LocalFacts())
	assert.Equal(t, naive.Iterations, inc.Iterations)
	assert.Equal(t, 8*9, naive.Evaluations)
	assert.Equal(t, 8+7, inc.Evaluations, "first pass evaluates everything, then one rule per later step")
}
