package graph

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/c360studio/semstreams/component"
	"github.com/c360studio/semstreams/message"
)

func init() {
	err := component.RegisterPayload(&component.PayloadRegistration{
		Domain:      "compliance",
		Category:    "system",
		Version:     "v1",
		Description: "Assessed AI system with its declared and inferred triples",
		Factory:     func() any { return &EntityPayload{} },
	})
	if err != nil {
		panic("failed to register EntityPayload: " + err.Error())
	}
}

// EntityType is the message type for assessed system payloads.
var EntityType = message.Type{Domain: "compliance", Category: "system", Version: "v1"}

// EntityPayload carries one system's triples to the knowledge graph.
type EntityPayload struct {
	EntityID_  string           `json:"id"`
	TripleData []message.Triple `json:"triples"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// NewEntityPayload builds a payload for subject from facts, stamping every
// triple with source and ts.
func NewEntityPayload(subject, source string, facts []Fact, ts time.Time) *EntityPayload {
	triples := make([]message.Triple, 0, len(facts))
	for _, f := range facts {
		triples = append(triples, f.Triple(source, ts))
	}
	return &EntityPayload{EntityID_: subject, TripleData: triples, UpdatedAt: ts}
}

func (e *EntityPayload) EntityID() string          { return e.EntityID_ }
func (e *EntityPayload) Triples() []message.Triple { return e.TripleData }
func (e *EntityPayload) Schema() message.Type      { return EntityType }

func (e *EntityPayload) Validate() error {
	if e.EntityID_ == "" {
		return errors.New("entity ID is required")
	}
	for _, t := range e.TripleData {
		if t.Subject != e.EntityID_ {
			return errors.New("triple subject " + t.Subject + " does not match entity " + e.EntityID_)
		}
	}
	return nil
}

func (e *EntityPayload) MarshalJSON() ([]byte, error) {
	type Alias EntityPayload
	return json.Marshal((*Alias)(e))
}

func (e *EntityPayload) UnmarshalJSON(data []byte) error {
	type Alias EntityPayload
	return json.Unmarshal(data, (*Alias)(e))
}
