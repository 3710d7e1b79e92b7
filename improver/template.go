package improver

import (
	"strings"

	"github.com/llmgate/promptimprover/models"
)

const (
	FieldImprovedPrompt = "improvedPrompt"
	FieldExplanation    = "explanation"
)

const systemPrompt = `You are an expert prompt engineer. You rewrite prompts for large language models so they are clear, specific and effective, while keeping the author's intent, language and any placeholders intact.`

const promptTemplate = `Improve the following prompt. Make the task, the expected output and any constraints explicit. Do not answer the prompt itself.

Respond with a JSON object that has exactly two string fields:
- "improvedPrompt": the rewritten prompt, ready to paste into a chat with a model.
- "explanation": a short explanation of what you changed and why.

Prompt to improve:
"""
{{PROMPT}}
"""`

// ResponseSchema is the structured output every provider is asked for.
var ResponseSchema = models.ResponseSchema{
	Name: "improved_prompt",
	Fields: []models.SchemaField{
		{Name: FieldImprovedPrompt, Description: "The rewritten prompt."},
		{Name: FieldExplanation, Description: "What was changed and why."},
	},
}

// RenderPrompt embeds the raw user input into the fixed template.
func RenderPrompt(userPrompt string) string {
	return strings.Replace(promptTemplate, "{{PROMPT}}", userPrompt, 1)
}
