package ai

import (
	"encoding/json"
	"strings"

	_ "embed"

	"github.com/invopop/jsonschema"
)

//go:embed prompt.md
var promptTemplate string

// Envelope is the JSON object language models are asked to produce.
// It is the union of the plain and the structured reply shapes.
type Envelope struct {
	Reply string     `json:"reply,omitempty" jsonschema:"description=Plain markdown answer"`
	Type  string     `json:"type,omitempty" jsonschema:"enum=json,description=Set to json for a weekly learning plan"`
	Data  []WeekPlan `json:"data,omitempty" jsonschema:"description=Ordered weekly learning plan"`
}

// EnvelopeSchema returns the JSON schema of Envelope.
func EnvelopeSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(&Envelope{})
}

// Instructions builds the system instruction for in-process language model providers.
func Instructions(req Request) string {
	schema, err := json.MarshalIndent(EnvelopeSchema(), "", "  ")
	if err != nil {
		schema = []byte(`{"reply": "string"}`)
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Role: {{ROLE}}\n\nResume:\n{{RESUME}}\n\nJSON schema:\n{{SCHEMA}}"
	}

	prompt := strings.ReplaceAll(template, "{{ROLE}}", req.Role)
	prompt = strings.ReplaceAll(prompt, "{{RESUME}}", req.Context)
	prompt = strings.ReplaceAll(prompt, "{{SCHEMA}}", string(schema))
	return prompt
}
