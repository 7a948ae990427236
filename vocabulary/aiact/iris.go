package aiact

import "strings"

// Namespace is the base IRI for all aiact ontology terms.
const Namespace = "https://semcomply.dev/ontology/aiact#"

// Prefix is the compact prefix used by entity identifiers.
const Prefix = "aiact:"

// Class identifiers declared through the Type predicate.
const (
	// ClassAISystem is the type of every submitted system instance.
	ClassAISystem = Prefix + "AISystem"

	// ClassPurpose is an intended purpose of a system.
	ClassPurpose = Prefix + "Purpose"

	// ClassDeploymentContext is an environment a system is deployed into.
	ClassDeploymentContext = Prefix + "DeploymentContext"

	// ClassDataOrigin is a provenance class for training data.
	ClassDataOrigin = Prefix + "TrainingDataOrigin"

	// ClassAlgorithmType is a family of learning or inference algorithms.
	ClassAlgorithmType = Prefix + "AlgorithmType"

	// ClassModelScale is a model size marker.
	ClassModelScale = Prefix + "ModelScale"

	// ClassModality is an input or output modality (text, image, audio, ...).
	ClassModality = Prefix + "Modality"

	// ClassCriterion links declared attributes to requirements and risk.
	ClassCriterion = Prefix + "Criterion"

	// ClassRequirement is a concrete compliance obligation.
	ClassRequirement = Prefix + "Requirement"

	// ClassRiskLevel is one of the four risk tiers.
	ClassRiskLevel = Prefix + "RiskLevel"
)

// Risk level entities, ordered from most to least severe.
const (
	RiskUnacceptable = Prefix + "UnacceptableRisk"
	RiskHigh         = Prefix + "HighRisk"
	RiskLimited      = Prefix + "LimitedRisk"
	RiskMinimal      = Prefix + "MinimalRisk"
)

// FoundationModelScale is the canonical marker for foundation-scale models.
const FoundationModelScale = Prefix + "FoundationModelScale"

// Entity qualifies a bare name with the aiact prefix. Names that already carry
// a prefix (anything containing ':') are returned unchanged.
func Entity(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, ":") {
		return name
	}
	return Prefix + name
}

// Entities qualifies every name in names, preserving order.
func Entities(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if id := Entity(n); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// LocalName strips the namespace prefix from an identifier or IRI.
func LocalName(id string) string {
	if strings.HasPrefix(id, Namespace) {
		return strings.TrimPrefix(id, Namespace)
	}
	if i := strings.LastIndexAny(id, ":#/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// ExpandIRI converts a compact aiact identifier to its full IRI. Identifiers
// in other namespaces are returned unchanged.
func ExpandIRI(id string) string {
	if strings.HasPrefix(id, Prefix) {
		return Namespace + strings.TrimPrefix(id, Prefix)
	}
	return id
}

// CompactIRI is the inverse of ExpandIRI.
func CompactIRI(iri string) string {
	if strings.HasPrefix(iri, Namespace) {
		return Prefix + strings.TrimPrefix(iri, Namespace)
	}
	return iri
}
