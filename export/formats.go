package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for name, info := range FormatRegistry {
		if s == string(name) || s == info.Extension || "."+s == info.Extension {
			return name, nil
		}
	}
	switch s {
	case "ttl":
		return FormatTurtle, nil
	case "nt", "n-triples":
		return FormatNTriples, nil
	case "json-ld":
		return FormatJSONLD, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// JSONLDDocument represents a JSON-LD document structure.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode represents a node in a JSON-LD graph.
type JSONLDNode struct {
	ID         string         `json:"@id"`
	Type       []string       `json:"@type,omitempty"`
	Properties map[string]any `json:"-"`
}

// MarshalJSON flattens Properties alongside @id and @type.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (n *JSONLDNode) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*n = JSONLDNode{Properties: make(map[string]any)}
	for k, raw := range m {
		var err error
		switch k {
		case "@id":
			err = json.Unmarshal(raw, &n.ID)
		case "@type":
			err = json.Unmarshal(raw, &n.Type)
		default:
			var v any
			err = json.Unmarshal(raw, &v)
			n.Properties[k] = v
		}
		if err != nil {
			return fmt.Errorf("jsonld %s: %w", k, err)
		}
	}
	return nil
}

// ParseJSONLD reads a document produced by the exporter.
func ParseJSONLD(data []byte) (*JSONLDDocument, error) {
	var doc JSONLDDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse jsonld: %w", err)
	}
	return &doc, nil
}

// turtleWriter accumulates Turtle output one subject block at a time.
type turtleWriter struct {
	sb strings.Builder
}

func (w *turtleWriter) prefixes(prefixes map[string]string) {
	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", prefix, prefixes[prefix])
	}
	w.sb.WriteString("\n")
}

func (w *turtleWriter) entity(e entity) {
	fmt.Fprintf(&w.sb, "<%s>\n", e.iri)
	total := len(e.types) + len(e.props)
	n := 0
	end := func() string {
		n++
		if n == total {
			return " .\n"
		}
		return " ;\n"
	}
	for _, t := range e.types {
		fmt.Fprintf(&w.sb, "    a <%s>%s", t, end())
	}
	for _, p := range e.props {
		fmt.Fprintf(&w.sb, "    <%s> %s%s", p.predicate, formatTurtle(p.object), end())
	}
	w.sb.WriteString("\n")
}

func (w *turtleWriter) String() string {
	return w.sb.String()
}
