package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/c360studio/semcomply/graph"
	"github.com/c360studio/semcomply/vocabulary/aiact"
)

// RDFType is the rdf:type predicate IRI.
const RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Exporter serializes facts to RDF with a configurable ontology profile.
type Exporter struct {
	asserter *TypeAsserter
	prefixes map[string]string
}

// NewExporter creates an exporter for the given profile.
func NewExporter(profile Profile) *Exporter {
	return &Exporter{
		asserter: NewTypeAsserter(profile),
		prefixes: defaultPrefixes(),
	}
}

func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":   "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":  "http://www.w3.org/2000/01/rdf-schema#",
		"xsd":   "http://www.w3.org/2001/XMLSchema#",
		"prov":  "http://www.w3.org/ns/prov#",
		"bfo":   "http://purl.obolibrary.org/obo/",
		"cco":   "http://www.ontologyrepository.com/CommonCoreOntologies/",
		"aiact": aiact.Namespace,
	}
}

// entity is one subject with its type assertions and properties, all IRIs
// expanded.
type entity struct {
	iri   string
	types []string
	props []property
}

type property struct {
	predicate string
	object    any
}

// iriObject marks an object that serializes as an IRI rather than a literal.
type iriObject string

// Export writes facts to w in the requested format.
func (e *Exporter) Export(w io.Writer, facts []graph.Fact, format Format) error {
	out, err := e.ExportString(facts, format)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// ExportString serializes facts in the requested format.
func (e *Exporter) ExportString(facts []graph.Fact, format Format) (string, error) {
	entities := e.entities(facts)
	switch format {
	case FormatTurtle:
		var w turtleWriter
		w.prefixes(e.prefixes)
		for _, ent := range entities {
			w.entity(ent)
		}
		return w.String(), nil
	case FormatNTriples:
		var sb strings.Builder
		for _, ent := range entities {
			for _, t := range ent.types {
				fmt.Fprintf(&sb, "<%s> <%s> <%s> .\n", ent.iri, RDFType, t)
			}
			for _, p := range ent.props {
				fmt.Fprintf(&sb, "<%s> <%s> %s .\n", ent.iri, p.predicate, formatNTriples(p.object))
			}
		}
		return sb.String(), nil
	case FormatJSONLD:
		return e.jsonld(entities)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// entities groups facts by subject in lexical order. Properties keep a
// stable predicate order; type facts add profile type assertions.
func (e *Exporter) entities(facts []graph.Fact) []entity {
	bySubject := make(map[string][]graph.Fact)
	for _, f := range facts {
		bySubject[f.Subject] = append(bySubject[f.Subject], f)
	}
	subjects := make([]string, 0, len(bySubject))
	for s := range bySubject {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	out := make([]entity, 0, len(subjects))
	for _, s := range subjects {
		fs := bySubject[s]
		sort.SliceStable(fs, func(i, j int) bool { return fs[i].Predicate < fs[j].Predicate })

		ent := entity{iri: IRI(s)}
		seen := make(map[string]bool)
		for _, f := range fs {
			if class, ok := f.Object.(string); ok && f.Predicate == aiact.Type {
				for _, t := range e.asserter.TypeIRIs(class) {
					if !seen[t] {
						seen[t] = true
						ent.types = append(ent.types, t)
					}
				}
			}
			ent.props = append(ent.props, property{
				predicate: aiact.GetPredicateIRI(f.Predicate),
				object:    objectValue(f.Object),
			})
		}
		out = append(out, ent)
	}
	return out
}

func (e *Exporter) jsonld(entities []entity) (string, error) {
	doc := JSONLDDocument{
		Context: make(map[string]any, len(e.prefixes)),
		Graph:   make([]JSONLDNode, 0, len(entities)),
	}
	for k, v := range e.prefixes {
		doc.Context[k] = v
	}
	for _, ent := range entities {
		node := JSONLDNode{ID: ent.iri, Type: ent.types, Properties: make(map[string]any)}
		for _, p := range ent.props {
			v := jsonldValue(p.object)
			switch existing := node.Properties[p.predicate].(type) {
			case nil:
				node.Properties[p.predicate] = v
			case []any:
				node.Properties[p.predicate] = append(existing, v)
			default:
				node.Properties[p.predicate] = []any{existing, v}
			}
		}
		doc.Graph = append(doc.Graph, node)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal jsonld: %w", err)
	}
	return string(data) + "\n", nil
}

// IRI expands an entity identifier. Bare names land in the aiact namespace;
// identifiers with any other prefix are already IRIs.
func IRI(id string) string {
	if strings.HasPrefix(id, aiact.Prefix) {
		return aiact.ExpandIRI(id)
	}
	if strings.Contains(id, ":") {
		return id
	}
	return aiact.Namespace + id
}

func objectValue(obj any) any {
	if s, ok := obj.(string); ok && isIRI(s) {
		return iriObject(IRI(s))
	}
	return obj
}

func isIRI(s string) bool {
	return strings.HasPrefix(s, aiact.Prefix) ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "urn:")
}

func formatNTriples(obj any) string {
	switch v := obj.(type) {
	case iriObject:
		return "<" + string(v) + ">"
	case string:
		return `"` + escapeString(v) + `"`
	case int64:
		return fmt.Sprintf(`"%d"^^<%s>`, v, graph.XSDInteger)
	case float64:
		return fmt.Sprintf(`"%s"^^<%s>`, strconv.FormatFloat(v, 'g', -1, 64), graph.XSDDouble)
	case bool:
		return fmt.Sprintf(`"%t"^^<%s>`, v, graph.XSDBoolean)
	default:
		return `"` + escapeString(fmt.Sprint(v)) + `"`
	}
}

func formatTurtle(obj any) string {
	switch v := obj.(type) {
	case int64:
		return fmt.Sprintf(`"%d"^^xsd:integer`, v)
	case float64:
		return fmt.Sprintf(`"%s"^^xsd:double`, strconv.FormatFloat(v, 'g', -1, 64))
	case bool:
		return fmt.Sprintf(`"%t"^^xsd:boolean`, v)
	default:
		return formatNTriples(obj)
	}
}

func jsonldValue(obj any) any {
	if v, ok := obj.(iriObject); ok {
		return map[string]string{"@id": string(v)}
	}
	return obj
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
