// Package aiact provides the vocabulary for AI-system risk classification.
//
// The vocabulary covers two kinds of facts:
//   - Ontology facts: static relations between purposes, deployment contexts,
//     training-data origins, criteria, requirements and risk levels
//     (aiact.purpose.*, aiact.context.*, aiact.data.*, aiact.criterion.*).
//   - Instance facts: attributes declared for one submitted system
//     (aiact.system.*) and the conclusions the rule engine asserts about it
//     (aiact.inferred.*).
//
// # Semstreams Integration
//
// This package follows semstreams vocabulary patterns:
//   - Predicates use three-level dotted notation (domain.category.property)
//   - Predicates are registered in init() using vocabulary.Register()
//   - IRI mappings use vocabulary.WithIRI() for RDF export compatibility
//
// # Entity Identifiers
//
// Entities are compact, namespaced strings such as "aiact:HighRisk". Use
// Entity to qualify a bare name and ExpandIRI to obtain the full IRI:
//
//	id := aiact.Entity("BiometricIdentification") // "aiact:BiometricIdentification"
//	iri := aiact.ExpandIRI(id)                     // "https://semcomply.dev/ontology/aiact#BiometricIdentification"
package aiact
