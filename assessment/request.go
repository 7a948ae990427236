package assessment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semcomply/evidence"
)

// LoadRequest reads a request from a YAML or JSON file. The file holds either
// a full Request (with a top-level submission key) or a bare submission.
// Relative evidence_files resolve against the file's directory and their
// text is appended to Evidence.
func LoadRequest(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, fmt.Errorf("read request: %w", err)
	}
	req, err := ParseRequest(data)
	if err != nil {
		return Request{}, fmt.Errorf("%s: %w", path, err)
	}

	if len(req.EvidenceFiles) == 0 {
		return req, nil
	}
	base := filepath.Dir(path)
	docs := make([]*evidence.Document, 0, len(req.EvidenceFiles))
	for _, f := range req.EvidenceFiles {
		if !filepath.IsAbs(f) {
			f = filepath.Join(base, f)
		}
		doc, err := evidence.LoadFile(f)
		if err != nil {
			return Request{}, err
		}
		docs = append(docs, doc)
	}
	req.Evidence = joinEvidence(req.Evidence, evidence.Combine(docs))
	return req, nil
}

// ParseRequest decodes a request document. JSON is accepted as YAML.
func ParseRequest(data []byte) (Request, error) {
	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return Request{}, fmt.Errorf("parse request: %w", err)
	}

	var req Request
	if _, ok := probe["submission"]; ok {
		if err := yaml.Unmarshal(data, &req); err != nil {
			return Request{}, fmt.Errorf("parse request: %w", err)
		}
		return req, nil
	}
	if err := yaml.Unmarshal(data, &req.Submission); err != nil {
		return Request{}, fmt.Errorf("parse submission: %w", err)
	}
	return req, nil
}

func joinEvidence(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
