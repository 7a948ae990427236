package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcomply/graph"
)

// runCLI executes the root command with an isolated config file.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "semcomply.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("engine:\n  max_iterations: 5\n"), 0o644))

	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeRequest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "semcomply version "+Version)
}

func TestAssessCommand_JSON(t *testing.T) {
	req := writeRequest(t, `
submission:
  system_id: face-check
  purposes: [BiometricIdentification]
  deployment_contexts: [PublicSpaces]
evidence: We run a data governance program.
`)
	out, err := runCLI(t, "assess", req, "--explain")
	require.NoError(t, err)

	var got struct {
		ID             string `json:"id"`
		Classification struct {
			SystemID string `json:"system_id"`
			MaxRisk  string `json:"max_risk"`
		} `json:"classification"`
		Gaps struct {
			Implemented []string `json:"implemented"`
			Severity    string   `json:"severity"`
		} `json:"gaps"`
		Trace []json.RawMessage `json:"trace"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "aiact:face-check", got.Classification.SystemID)
	assert.Contains(t, got.Gaps.Implemented, "aiact:DataGovernanceRequirement")
	assert.NotEmpty(t, got.Gaps.Severity)
}

func TestAssessCommand_TraceOnlyWithExplain(t *testing.T) {
	req := writeRequest(t, `
submission:
  system_id: emotion-monitor
  purposes: [EmotionRecognition]
  deployment_contexts: [Workplace]
`)

	out, err := runCLI(t, "assess", req)
	require.NoError(t, err)
	assert.NotContains(t, out, `"firings"`)
	assert.NotContains(t, out, `"trace"`)

	out, err = runCLI(t, "assess", req, "--explain")
	require.NoError(t, err)
	var got struct {
		Trace []struct {
			RuleID string `json:"rule_id"`
		} `json:"trace"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotEmpty(t, got.Trace)
	assert.NotEmpty(t, got.Trace[0].RuleID)
}

func TestAssessCommand_YAMLWithEvidenceFile(t *testing.T) {
	req := writeRequest(t, "purposes: [ConversationalAgent]\n")
	ev := filepath.Join(t.TempDir(), "notice.md")
	require.NoError(t, os.WriteFile(ev, []byte("# Notice\nUsers are informed through a transparency notice."), 0o644))

	out, err := runCLI(t, "assess", req, "--format", "yaml", "--evidence", ev)
	require.NoError(t, err)
	assert.Contains(t, out, "classification:")
	assert.Contains(t, out, "aiact:system")
	assert.NotContains(t, out, `"classification"`)
}

func TestAssessCommand_Errors(t *testing.T) {
	_, err := runCLI(t, "assess")
	assert.Error(t, err, "missing argument")

	_, err = runCLI(t, "assess", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	req := writeRequest(t, "parameter_count: -5\n")
	_, err = runCLI(t, "assess", req)
	assert.Error(t, err)

	req = writeRequest(t, "purposes: []\n")
	_, err = runCLI(t, "assess", req, "--format", "xml")
	assert.Error(t, err)

	_, err = runCLI(t, "assess", req, "--publish")
	assert.ErrorContains(t, err, "nats.url")
}

func TestRulesCommand(t *testing.T) {
	out, err := runCLI(t, "rules")
	require.NoError(t, err)
	assert.Contains(t, out, "[contextual]")
	assert.Contains(t, out, "[cascading]")
	assert.Contains(t, out, "gpai-obligations")
	assert.Regexp(t, `\d+ rules\n$`, out)

	out, err = runCLI(t, "rules", "--group", "modality", "--format", "json")
	require.NoError(t, err)
	var listing struct {
		Groups map[string][]struct {
			ID string `json:"id"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	require.Len(t, listing.Groups, 1)
	assert.NotEmpty(t, listing.Groups["modality"])
}

func TestExportCommand_NTriples(t *testing.T) {
	req := writeRequest(t, "system_id: chat\npurposes: [ConversationalAgent]\n")
	out, err := runCLI(t, "export", req, "--format", "nt")
	require.NoError(t, err)

	facts, err := graph.ParseNTriples("out.nt", []byte(out))
	require.NoError(t, err)
	assert.Contains(t, facts, graph.Fact{
		Subject:   "aiact:chat",
		Predicate: "aiact.system.purpose",
		Object:    "aiact:ConversationalAgent",
	})
	assert.True(t, strings.HasPrefix(out, "<"))
}

func TestExportCommand_BadFlags(t *testing.T) {
	req := writeRequest(t, "purposes: []\n")
	_, err := runCLI(t, "export", req, "--format", "rdfxml")
	assert.Error(t, err)
	_, err = runCLI(t, "export", req, "--profile", "dolce")
	assert.Error(t, err)
}
