package assessment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest_BareSubmission(t *testing.T) {
	req, err := ParseRequest([]byte(`
system_id: face-check
purposes: [BiometricIdentification]
parameter_count: 1200
is_generally_applicable: true
`))
	require.NoError(t, err)
	assert.Equal(t, "face-check", req.Submission.SystemID)
	assert.Equal(t, []string{"BiometricIdentification"}, req.Submission.Purposes)
	require.NotNil(t, req.Submission.ParameterCount)
	assert.Equal(t, int64(1200), *req.Submission.ParameterCount)
	require.NotNil(t, req.Submission.IsGenerallyApplicable)
	assert.True(t, *req.Submission.IsGenerallyApplicable)
}

func TestParseRequest_FullJSON(t *testing.T) {
	req, err := ParseRequest([]byte(`{
  "submission": {"system_id": "chat", "purposes": ["ConversationalAgent"]},
  "evidence": "Users are told they talk to a bot."
}`))
	require.NoError(t, err)
	assert.Equal(t, "chat", req.Submission.SystemID)
	assert.Equal(t, "Users are told they talk to a bot.", req.Evidence)
}

func TestParseRequest_Malformed(t *testing.T) {
	_, err := ParseRequest([]byte("purposes: [unterminated"))
	assert.Error(t, err)
}

func TestLoadRequest_EvidenceFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "policy.html"),
		[]byte(`<html><body><main><p>Human oversight is performed by trained staff.</p></main></body></html>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "request.yaml"), []byte(`
submission:
  purposes: [BiometricIdentification]
evidence: Data governance policy v3.
evidence_files: [policy.html]
`), 0o644))

	req, err := LoadRequest(filepath.Join(dir, "request.yaml"))
	require.NoError(t, err)
	assert.Contains(t, req.Evidence, "Data governance policy v3.")
	assert.Contains(t, req.Evidence, "Human oversight is performed by trained staff.")
}

func TestLoadRequest_MissingEvidenceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte("submission: {}\nevidence_files: [gone.md]\n"), 0o644))

	_, err := LoadRequest(path)
	assert.Error(t, err)
}
