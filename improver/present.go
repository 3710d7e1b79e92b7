package improver

import (
	"github.com/llmgate/promptimprover/models"
)

const (
	statusSuccess           = "Prompt improved."
	statusMissingCredential = "Please set your API key first."
	statusEmptyPrompt       = "Please enter a prompt to improve."
	statusInvalidCredential = "Your API key is invalid. Please enter a valid key."
	statusMalformedResponse = "The model returned an unexpected response. Please try again."
	statusBusy              = "A request is already in progress."
	statusInvalidRequest    = "The request could not be read. Please try again."
	statusGeneric           = "Error improving prompt. See the details below."
)

// Present turns the outcome of Improve into the state the UI shows.
// Outputs are only filled on success, except for generic failures where the
// explanation carries the raw error.
func Present(result *Result, err error) models.ImprovePromptResponse {
	kind := KindOf(err)
	response := models.ImprovePromptResponse{Kind: string(kind)}

	switch kind {
	case KindSuccess:
		response.Status = statusSuccess
		if result != nil {
			response.ImprovedPrompt = result.ImprovedPrompt
			response.Explanation = result.Explanation
		}
	case KindMissingCredential:
		response.Status = statusMissingCredential
		response.ReopenCredential = true
	case KindEmptyPrompt:
		response.Status = statusEmptyPrompt
	case KindInvalidCredential:
		response.Status = statusInvalidCredential
		response.ReopenCredential = true
	case KindMalformedResponse:
		response.Status = statusMalformedResponse
	case KindBusy:
		response.Status = statusBusy
	case KindInvalidRequest:
		response.Status = statusInvalidRequest
	default:
		response.Status = statusGeneric
		response.Explanation = "Error: " + err.Error()
	}

	return response
}
