// Package inference implements the forward-chaining engine.
//
// Each iteration walks the catalog in order and, for every system subject in
// the graph, fires the rules whose conditions all hold. A condition holds
// when at least one object bound to its property satisfies it (existential
// semantics for multi-valued properties). Firing asserts the rule's
// consequences on the subject. The run stops at a fixpoint, when an iteration
// asserts nothing new, or when the iteration cap is reached; the result
// always reports which.
//
// Rules only ever add facts, so the fixpoint does not depend on firing order.
//
// In incremental mode the engine keeps a property-to-rules index and only
// re-evaluates a rule for a subject when a property the rule reads has gained
// an object since the rule was last evaluated there. It asserts exactly the
// same facts, in the same iterations, as the naive loop.
package inference
