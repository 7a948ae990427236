// Package rules defines declarative condition/consequence rules and the
// immutable Catalog they are loaded into.
//
// A rule fires for a subject when every condition holds. Each condition names
// a property, an operator, a declared value type and a reference value. The
// reference value is resolved into a typed Value when the catalog is built,
// and the operator/type pair is checked against a fixed comparison table, so
// evaluation never inspects types reflectively. Conditions that cannot be
// compiled (unknown operator, unsupported operator/type pair, unresolvable
// value) are reported as ConfigWarnings and never match.
//
// Properties may carry several objects. A condition holds when at least one
// of them satisfies it.
//
// Rules are pure data. The catalog is built once and shared read-only by all
// reasoning requests.
package rules
