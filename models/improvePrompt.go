package models

type ImprovePromptRequest struct {
	Prompt string `json:"prompt"`
}

// ImprovePromptResponse is the view state the page renders after a request.
type ImprovePromptResponse struct {
	Kind             string `json:"kind"`
	Status           string `json:"status"`
	ImprovedPrompt   string `json:"improvedPrompt"`
	Explanation      string `json:"explanation"`
	ReopenCredential bool   `json:"reopenCredential"`
}

type CredentialRequest struct {
	ApiKey string `json:"apiKey"`
}

type CredentialStatus struct {
	Configured bool   `json:"configured"`
	Masked     string `json:"masked,omitempty"`
}
