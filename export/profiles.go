// Package export serializes fact graphs to RDF with optional BFO, CCO and
// PROV-O type alignment.
package export

import (
	"github.com/c360studio/semcomply/vocabulary/aiact"
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/c360studio/semstreams/vocabulary/cco"
)

// Profile determines which ontology type assertions are included in the export.
type Profile string

const (
	// ProfileMinimal asserts aiact and PROV-O classes only.
	ProfileMinimal Profile = "minimal"

	// ProfileBFO adds BFO type assertions to the minimal profile.
	ProfileBFO Profile = "bfo"

	// ProfileCCO adds CCO type assertions to the BFO profile.
	ProfileCCO Profile = "cco"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	Name        Profile
	Description string
	IncludePROV bool
	IncludeBFO  bool
	IncludeCCO  bool
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileMinimal: {
		Name:        ProfileMinimal,
		Description: "aiact classes with PROV-O alignment",
		IncludePROV: true,
	},
	ProfileBFO: {
		Name:        ProfileBFO,
		Description: "BFO type assertions plus minimal profile",
		IncludePROV: true,
		IncludeBFO:  true,
	},
	ProfileCCO: {
		Name:        ProfileCCO,
		Description: "Full CCO/BFO/PROV-O alignment",
		IncludePROV: true,
		IncludeBFO:  true,
		IncludeCCO:  true,
	},
}

// GetProfileConfig returns the configuration for a profile, falling back to
// the minimal profile for unknown names.
func GetProfileConfig(profile Profile) ProfileConfig {
	if config, ok := Profiles[profile]; ok {
		return config
	}
	return Profiles[ProfileMinimal]
}

// TypeHierarchy is the upper-ontology alignment of one aiact class.
type TypeHierarchy struct {
	PROVClass string
	BFOClass  string
	CCOClass  string
}

// hierarchies aligns aiact classes with upper ontologies. Empty entries have
// no counterpart.
var hierarchies = map[string]TypeHierarchy{
	aiact.ClassAISystem: {
		PROVClass: vocabulary.ProvSoftwareAgent,
		BFOClass:  bfo.GenericallyDependentContinuant,
		CCOClass:  cco.IntelligentSoftwareAgent,
	},
	aiact.ClassPurpose:           {BFOClass: bfo.Role},
	aiact.ClassDeploymentContext: {BFOClass: bfo.Role},
	aiact.ClassDataOrigin: {
		PROVClass: vocabulary.ProvEntity,
		BFOClass:  bfo.GenericallyDependentContinuant,
		CCOClass:  cco.InformationContentEntity,
	},
	aiact.ClassAlgorithmType: {
		BFOClass: bfo.GenericallyDependentContinuant,
		CCOClass: cco.Algorithm,
	},
	aiact.ClassModelScale: {BFOClass: bfo.Quality},
	aiact.ClassModality:   {BFOClass: bfo.Quality},
	aiact.ClassCriterion: {
		BFOClass: bfo.GenericallyDependentContinuant,
		CCOClass: cco.DirectiveInformationContentEntity,
	},
	aiact.ClassRequirement: {
		PROVClass: vocabulary.ProvEntity,
		BFOClass:  bfo.GenericallyDependentContinuant,
		CCOClass:  cco.DirectiveInformationContentEntity,
	},
	aiact.ClassRiskLevel: {BFOClass: bfo.Quality},
}

// GetTypeHierarchy returns the alignment for an aiact class.
func GetTypeHierarchy(class string) (TypeHierarchy, bool) {
	h, ok := hierarchies[class]
	return h, ok
}

// TypeAsserter generates type assertions for entities based on profile.
type TypeAsserter struct {
	profile ProfileConfig
}

// NewTypeAsserter creates a new type asserter for the given profile.
func NewTypeAsserter(profile Profile) *TypeAsserter {
	return &TypeAsserter{profile: GetProfileConfig(profile)}
}

// TypeIRIs returns the rdf:type IRIs for an entity declared with class. The
// aiact class itself always comes first.
func (t *TypeAsserter) TypeIRIs(class string) []string {
	types := []string{aiact.ExpandIRI(class)}
	h, ok := hierarchies[class]
	if !ok {
		return types
	}
	if t.profile.IncludePROV && h.PROVClass != "" {
		types = append(types, h.PROVClass)
	}
	if t.profile.IncludeBFO && h.BFOClass != "" {
		types = append(types, h.BFOClass)
	}
	if t.profile.IncludeCCO && h.CCOClass != "" {
		types = append(types, h.CCOClass)
	}
	return types
}
