package aiact

import "github.com/c360studio/semstreams/vocabulary"

// Ontology predicates relate static concepts. They are loaded once from the
// ontology sources and never asserted by rules.
const (
	// Type declares the class of an entity.
	// Values: one of the Class* identifiers.
	Type = "aiact.entity.type"

	// Label is a human readable name for an entity.
	Label = "aiact.entity.label"

	// ActivatesCriterion links a purpose to the criteria it activates.
	ActivatesCriterion = "aiact.purpose.activates_criterion"

	// TriggersCriterion links a deployment context to the criteria it triggers.
	TriggersCriterion = "aiact.context.triggers_criterion"

	// RequiresDataGovernance links a training-data origin directly to
	// data-governance requirements.
	RequiresDataGovernance = "aiact.data.requires_governance"

	// ActivatesRequirement links a criterion to the requirements it activates.
	ActivatesRequirement = "aiact.criterion.activates_requirement"

	// AssignsRiskLevel links a criterion to a risk level entity.
	AssignsRiskLevel = "aiact.criterion.assigns_risk_level"
)

// System predicates carry the attributes declared for one submitted system.
const (
	SystemPurpose             = "aiact.system.purpose"
	SystemDeploymentContext   = "aiact.system.deployment_context"
	SystemTrainingDataOrigin  = "aiact.system.training_data_origin"
	SystemAlgorithmType       = "aiact.system.algorithm_type"
	SystemModelScale          = "aiact.system.model_scale"
	SystemParameterCount      = "aiact.system.parameter_count"
	SystemAutonomyLevel       = "aiact.system.autonomy_level"
	SystemGenerallyApplicable = "aiact.system.generally_applicable"
	SystemModality            = "aiact.system.modality"
)

// Inferred predicates are asserted by rule consequences on a system.
const (
	// InferredCriterion is a criterion concluded for the system.
	InferredCriterion = "aiact.inferred.criterion"

	// InferredRequirement is a requirement concluded for the system.
	InferredRequirement = "aiact.inferred.requirement"

	// InferredRiskLevel is a candidate risk level concluded for the system.
	InferredRiskLevel = "aiact.inferred.risk_level"

	// InferredGPAI marks the system as general-purpose AI.
	InferredGPAI = "aiact.inferred.gpai"

	// InferredCapability is a capability indicator concluded for the system.
	InferredCapability = "aiact.inferred.capability"
)

// Classification predicates record the final derived result for a system.
const (
	ClassifiedCriterion   = "aiact.classification.criterion"
	ClassifiedRequirement = "aiact.classification.requirement"

	// ClassifiedRiskLevel is the resolved maximum risk level.
	ClassifiedRiskLevel = "aiact.classification.risk_level"

	ClassifiedGPAI       = "aiact.classification.gpai"
	ClassifiedCapability = "aiact.classification.capability"
)

var predicateIRIs = map[string]string{}

func register(predicate, description, dataType, local string) {
	iri := Namespace + local
	predicateIRIs[predicate] = iri
	vocabulary.Register(predicate,
		vocabulary.WithDescription(description),
		vocabulary.WithDataType(dataType),
		vocabulary.WithIRI(iri))
}

func registerOntologyPredicates() {
	register(Type, "Class of an entity", "uri", "type")
	register(Label, "Human readable entity name", "string", "label")
	register(ActivatesCriterion, "Purpose activates a classification criterion", "uri", "activatesCriterion")
	register(TriggersCriterion, "Deployment context triggers a classification criterion", "uri", "triggersCriterion")
	register(RequiresDataGovernance, "Training-data origin requires a data-governance requirement", "uri", "requiresDataGovernance")
	register(ActivatesRequirement, "Criterion activates a compliance requirement", "uri", "activatesRequirement")
	register(AssignsRiskLevel, "Criterion assigns a risk level", "uri", "assignsRiskLevel")
}

func registerSystemPredicates() {
	register(SystemPurpose, "Declared intended purpose", "uri", "hasPurpose")
	register(SystemDeploymentContext, "Declared deployment context", "uri", "hasDeploymentContext")
	register(SystemTrainingDataOrigin, "Declared training-data origin", "uri", "hasTrainingDataOrigin")
	register(SystemAlgorithmType, "Declared algorithm type", "uri", "hasAlgorithmType")
	register(SystemModelScale, "Declared model scale marker", "uri", "hasModelScale")
	register(SystemParameterCount, "Number of model parameters", "int", "parameterCount")
	register(SystemAutonomyLevel, "Declared autonomy level", "string", "autonomyLevel")
	register(SystemGenerallyApplicable, "Whether the system is applicable to many tasks", "bool", "isGenerallyApplicable")
	register(SystemModality, "Input or output modality", "uri", "hasModality")
}

func registerInferredPredicates() {
	register(InferredCriterion, "Criterion concluded by the rule engine", "uri", "hasActivatedCriterion")
	register(InferredRequirement, "Requirement concluded by the rule engine", "uri", "hasRequirement")
	register(InferredRiskLevel, "Risk level concluded by the rule engine", "uri", "hasRiskLevel")
	register(InferredGPAI, "General-purpose AI marker concluded by the rule engine", "bool", "isGPAI")
	register(InferredCapability, "Capability indicator concluded by the rule engine", "string", "hasCapability")
}

func registerClassificationPredicates() {
	register(ClassifiedCriterion, "Criterion activated in the final classification", "uri", "activatedCriterion")
	register(ClassifiedRequirement, "Mandatory requirement in the final classification", "uri", "mandatoryRequirement")
	register(ClassifiedRiskLevel, "Resolved maximum risk level", "uri", "riskLevel")
	register(ClassifiedGPAI, "General-purpose AI classification", "bool", "gpai")
	register(ClassifiedCapability, "Capability metric in the final classification", "string", "capabilityMetric")
}

func init() {
	registerOntologyPredicates()
	registerSystemPredicates()
	registerInferredPredicates()
	registerClassificationPredicates()
}

// GetPredicateIRI returns the IRI registered for a predicate. Unregistered
// predicates fall back to the aiact namespace.
func GetPredicateIRI(predicate string) string {
	if iri, ok := predicateIRIs[predicate]; ok {
		return iri
	}
	return Namespace + predicate
}

// PredicateForIRI is the inverse of GetPredicateIRI for registered predicates.
func PredicateForIRI(iri string) (string, bool) {
	for pred, candidate := range predicateIRIs {
		if candidate == iri {
			return pred, true
		}
	}
	return "", false
}
