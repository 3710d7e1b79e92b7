package models

// SchemaField is a required string property of a structured response.
type SchemaField struct {
	Name        string
	Description string
}

// ResponseSchema describes a flat JSON object whose fields are all
// required strings.
type ResponseSchema struct {
	Name   string
	Fields []SchemaField
}

func (s ResponseSchema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

type StructuredRequest struct {
	Model        string
	Temperature  float32
	SystemPrompt string
	Prompt       string
	Schema       ResponseSchema
}

type StructuredResponse struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
	FinishReason string
}
