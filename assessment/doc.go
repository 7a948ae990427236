// Package assessment runs the full compliance pipeline for one submitted AI
// system: seed a working graph, forward-chain the rule catalog, derive the
// classification and analyze evidence gaps against the mandatory
// requirements.
//
// A Reasoner shares only immutable state between calls. Every Assess builds
// its own overlay graph over the shared ontology, so concurrent assessments
// never observe each other's facts.
package assessment
