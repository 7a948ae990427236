// Package derivation turns one submission and its post-inference graph into a
// Classification: activated criteria, mandatory requirements, the maximum
// risk level, the GPAI flag and capability metrics.
//
// Traversal of an unknown identifier yields nothing, so missing ontology
// facts degrade a classification toward Minimal risk instead of failing it.
package derivation
