package derivation

import (
	"fmt"

	"github.com/c360studio/semcomply/graph"
	"github.com/c360studio/semcomply/vocabulary/aiact"
)

// DefaultSystemID names the system node when a submission carries no id.
const DefaultSystemID = "system"

// Submission is the declared description of one AI system, as produced by an
// intake collaborator. Identifiers may be bare names or aiact-prefixed.
type Submission struct {
	SystemID              string   `json:"system_id,omitempty" yaml:"system_id,omitempty"`
	Name                  string   `json:"name,omitempty" yaml:"name,omitempty"`
	Purposes              []string `json:"purposes,omitempty" yaml:"purposes,omitempty"`
	DeploymentContexts    []string `json:"deployment_contexts,omitempty" yaml:"deployment_contexts,omitempty"`
	TrainingDataOrigins   []string `json:"training_data_origins,omitempty" yaml:"training_data_origins,omitempty"`
	AlgorithmTypes        []string `json:"algorithm_types,omitempty" yaml:"algorithm_types,omitempty"`
	ModelScale            string   `json:"model_scale,omitempty" yaml:"model_scale,omitempty"`
	ParameterCount        *int64   `json:"parameter_count,omitempty" yaml:"parameter_count,omitempty"`
	AutonomyLevel         string   `json:"autonomy_level,omitempty" yaml:"autonomy_level,omitempty"`
	IsGenerallyApplicable *bool    `json:"is_generally_applicable,omitempty" yaml:"is_generally_applicable,omitempty"`
	Modalities            []string `json:"modalities,omitempty" yaml:"modalities,omitempty"`
}

// Subject returns the entity identifier of the submitted system.
func (s Submission) Subject() string {
	if s.SystemID == "" {
		return aiact.Entity(DefaultSystemID)
	}
	return aiact.Entity(s.SystemID)
}

// Facts returns the instance facts describing the submission: a type fact
// plus one fact per declared attribute value.
func (s Submission) Facts() []graph.Fact {
	subject := s.Subject()
	facts := []graph.Fact{{Subject: subject, Predicate: aiact.Type, Object: aiact.ClassAISystem}}

	add := func(predicate string, values []string) {
		for _, id := range aiact.Entities(values) {
			facts = append(facts, graph.Fact{Subject: subject, Predicate: predicate, Object: id})
		}
	}
	if s.Name != "" {
		facts = append(facts, graph.Fact{Subject: subject, Predicate: aiact.Label, Object: s.Name})
	}
	add(aiact.SystemPurpose, s.Purposes)
	add(aiact.SystemDeploymentContext, s.DeploymentContexts)
	add(aiact.SystemTrainingDataOrigin, s.TrainingDataOrigins)
	add(aiact.SystemAlgorithmType, s.AlgorithmTypes)
	add(aiact.SystemModality, s.Modalities)
	if s.ModelScale != "" {
		add(aiact.SystemModelScale, []string{s.ModelScale})
	}
	if s.ParameterCount != nil {
		facts = append(facts, graph.Fact{Subject: subject, Predicate: aiact.SystemParameterCount, Object: *s.ParameterCount})
	}
	if s.AutonomyLevel != "" {
		facts = append(facts, graph.Fact{Subject: subject, Predicate: aiact.SystemAutonomyLevel, Object: AutonomyLevel(s.AutonomyLevel)})
	}
	if s.IsGenerallyApplicable != nil {
		facts = append(facts, graph.Fact{Subject: subject, Predicate: aiact.SystemGenerallyApplicable, Object: *s.IsGenerallyApplicable})
	}
	return facts
}

// Validate checks the fields the core cannot interpret.
func (s Submission) Validate() error {
	if s.ParameterCount != nil && *s.ParameterCount < 0 {
		return fmt.Errorf("parameter_count must not be negative, got %d", *s.ParameterCount)
	}
	return nil
}
